package identity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the read-only directory row this service consumes. The rest
// of the HR suite owns the lifecycle of this table; we only look up emails,
// roles and the manager chain.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName  string     `gorm:"type:varchar(150);not null"`
	Email     string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employees_email"`
	Role      string     `gorm:"type:varchar(30);not null;default:'employee'"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index:idx_employees_manager"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Actor is the authenticated caller as established by the auth middleware.
type Actor struct {
	EmployeeID     string
	Email          string
	IsCompanyEmail bool
}

// Manager is the approval recipient resolved for an employee.
type Manager struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
