package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// Leave is one request row. TotalDays is stored for display; the approval
// path recomputes the duration from the date fields before debiting so the
// ledger never trusts a stale stored value.
type Leave struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_status"`
	Email        string    `gorm:"type:varchar(150);not null"`
	ManagerEmail string    `gorm:"type:varchar(150);not null"`

	LeaveType    string          `gorm:"type:varchar(30);not null;default:'ANNUAL'"`
	StartDate    time.Time       `gorm:"type:date;not null"`
	EndDate      time.Time       `gorm:"type:date;not null"`
	HalfDayStart bool            `gorm:"not null;default:false"`
	HalfDayEnd   bool            `gorm:"not null;default:false"`
	TotalDays    decimal.Decimal `gorm:"type:numeric(5,1);not null;default:1"`
	Reason       string          `gorm:"type:text;not null"`

	Status         string  `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leaves_employee_status"`
	ManagerComment *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leaves"
}

// isAllowedStatusTransition encodes the state machine: PENDING is the only
// non-terminal status and may move to APPROVED, REJECTED or CANCELLED.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus != StatusPending {
		return false
	}
	switch targetStatus {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}
