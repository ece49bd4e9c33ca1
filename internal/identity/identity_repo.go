package identity

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=identity_repo.go -destination=mock/identity_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, employeeID string) (*Employee, error)
	FindManagerOf(ctx context.Context, employeeID string) (*Employee, error)
	RoleOf(ctx context.Context, employeeID string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, employeeID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		First(&e, "id = ?", employeeID).Error
	return &e, err
}

func (r *repository) FindManagerOf(ctx context.Context, employeeID string) (*Employee, error) {
	var m Employee
	err := r.db.WithContext(ctx).
		Joins("JOIN employees reports ON reports.manager_id = employees.id").
		Where("reports.id = ?", employeeID).
		Where("reports.deleted_at IS NULL").
		First(&m).Error
	return &m, err
}

func (r *repository) RoleOf(ctx context.Context, employeeID string) (string, error) {
	var role string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", employeeID).
		Pluck("role", &role).Error
	return role, err
}
