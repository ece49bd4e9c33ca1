package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Leave types share one vocabulary with the leave package; the ledger keys
// its columns by these values.
const (
	TypeAnnual = "ANNUAL"
	TypeSick   = "SICK"
	TypeCasual = "CASUAL"
)

// Entitlement granted when a ledger row is lazily created.
var (
	DefaultAnnual = decimal.NewFromInt(20)
	DefaultSick   = decimal.NewFromInt(10)
	DefaultCasual = decimal.NewFromInt(14)
)

// LeaveBalance is the per-employee ledger row. Amounts are tracked in
// half-day increments, so the columns are numeric, not integer.
type LeaveBalance struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee"`
	Annual     decimal.Decimal `gorm:"type:numeric(5,1);not null;default:20"`
	Sick       decimal.Decimal `gorm:"type:numeric(5,1);not null;default:10"`
	Casual     decimal.Decimal `gorm:"type:numeric(5,1);not null;default:14"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Amount returns the remaining entitlement for one leave type.
func (b *LeaveBalance) Amount(leaveType string) (decimal.Decimal, bool) {
	switch leaveType {
	case TypeAnnual:
		return b.Annual, true
	case TypeSick:
		return b.Sick, true
	case TypeCasual:
		return b.Casual, true
	default:
		return decimal.Zero, false
	}
}

// column maps a leave type to its ledger column. The whitelist keeps leave
// types out of SQL identifiers unless they are known.
func column(leaveType string) (string, bool) {
	switch leaveType {
	case TypeAnnual:
		return "annual", true
	case TypeSick:
		return "sick", true
	case TypeCasual:
		return "casual", true
	default:
		return "", false
	}
}
