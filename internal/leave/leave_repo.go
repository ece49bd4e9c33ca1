package leave

import (
	"context"
	"database/sql"
	"errors"

	leaveerrors "go-leave/internal/leave/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	// FindByIDForUpdate loads the row with a FOR UPDATE lock so a status
	// check and the following update are atomic. Must run inside a
	// transaction to be useful.
	FindByIDForUpdate(ctx context.Context, id string) (*Leave, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	FindAllByStatus(ctx context.Context, status string) ([]Leave, error)
	UpdateStatus(ctx context.Context, id, status string, managerComment *string) error
}

type repository struct {
	db     *sql.DB
	gormDB *gorm.DB
	tx     *sql.Tx
}

func NewRepository(db *sql.DB, gormDB *gorm.DB) Repository {
	return &repository{db: db, gormDB: gormDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, gormDB: r.gormDB, tx: tx}
}

const leaveColumns = `id, employee_id, email, manager_email, leave_type, start_date, end_date,
	half_day_start, half_day_end, total_days, reason, status, manager_comment, created_at, updated_at`

func (r *repository) Create(ctx context.Context, l *Leave) error {
	query := `
INSERT INTO leaves (
	id, employee_id, email, manager_email, leave_type, start_date, end_date,
	half_day_start, half_day_end, total_days, reason, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.EmployeeID, l.Email, l.ManagerEmail, l.LeaveType,
		l.StartDate, l.EndDate, l.HalfDayStart, l.HalfDayEnd,
		l.TotalDays, l.Reason, l.Status,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.gormDB.WithContext(ctx).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Leave, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE id = $1 FOR UPDATE`

	row := r.querier().QueryRowContext(ctx, query, id)

	var l Leave
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.Email,
		&l.ManagerEmail,
		&l.LeaveType,
		&l.StartDate,
		&l.EndDate,
		&l.HalfDayStart,
		&l.HalfDayEnd,
		&l.TotalDays,
		&l.Reason,
		&l.Status,
		&l.ManagerComment,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Leave, error) {
	var leaves []Leave
	err := r.gormDB.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByStatus(ctx context.Context, status string) ([]Leave, error) {
	var leaves []Leave
	err := r.gormDB.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string, managerComment *string) error {
	query := `
UPDATE leaves
SET status = $2, manager_comment = $3, updated_at = now()
WHERE id = $1
`
	res, err := r.execer().ExecContext(ctx, query, id, status, managerComment)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return leaveerrors.ErrLeaveNotFound
	}
	return nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
