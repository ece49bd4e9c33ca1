package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	balanceerrors "go-leave/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// GetOrCreate returns the employee's ledger row, creating it with the
	// default entitlement on first access. The upsert is a single statement
	// guarded by the unique constraint on employee_id, never
	// check-then-insert. Inside a transaction the returned row stays locked
	// until commit.
	GetOrCreate(ctx context.Context, employeeID string) (*LeaveBalance, error)
	// TryDebit atomically checks and decrements one leave-type column. On a
	// shortfall it returns balanceerrors.Insufficient and leaves the row
	// untouched. Must run inside the caller's transaction; the conditional
	// UPDATE holds the row lock, so two concurrent debits for the same
	// employee serialize and cannot both observe a sufficient balance.
	TryDebit(ctx context.Context, employeeID, leaveType string, amount decimal.Decimal) (*LeaveBalance, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const balanceColumns = `id, employee_id, annual, sick, casual, created_at, updated_at`

const upsertBalanceQuery = `
INSERT INTO leave_balances (id, employee_id, annual, sick, casual, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (employee_id) DO UPDATE SET employee_id = EXCLUDED.employee_id
RETURNING ` + balanceColumns

func (r *repository) GetOrCreate(ctx context.Context, employeeID string) (*LeaveBalance, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}

	row := r.querier().QueryRowContext(
		ctx, upsertBalanceQuery,
		uuid.New(), employeeID, DefaultAnnual, DefaultSick, DefaultCasual,
	)
	return scanBalance(row)
}

func (r *repository) TryDebit(ctx context.Context, employeeID, leaveType string, amount decimal.Decimal) (*LeaveBalance, error) {
	col, ok := column(leaveType)
	if !ok {
		return nil, balanceerrors.ErrUnknownLeaveType
	}
	if !amount.IsPositive() {
		return nil, balanceerrors.ErrInvalidDebitAmount
	}

	// Lock-or-create the row first so the availability read below cannot
	// race a concurrent debit for the same employee.
	current, err := r.GetOrCreate(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
UPDATE leave_balances
SET %[1]s = %[1]s - $1, updated_at = now()
WHERE employee_id = $2 AND %[1]s >= $1
RETURNING `+balanceColumns, col)

	row := r.querier().QueryRowContext(ctx, query, amount, employeeID)
	updated, err := scanBalance(row)
	if errors.Is(err, sql.ErrNoRows) {
		available, _ := current.Amount(leaveType)
		return nil, balanceerrors.Insufficient(leaveType, available, amount)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanBalance(row *sql.Row) (*LeaveBalance, error) {
	var b LeaveBalance
	if err := row.Scan(
		&b.ID,
		&b.EmployeeID,
		&b.Annual,
		&b.Sick,
		&b.Casual,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
