package identity_test

import (
	"context"
	"testing"

	"go-leave/internal/identity"
	identityerrors "go-leave/internal/identity/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeIdentityRepository struct {
	findByIDFn      func(ctx context.Context, employeeID string) (*identity.Employee, error)
	findManagerOfFn func(ctx context.Context, employeeID string) (*identity.Employee, error)
	roleOfFn        func(ctx context.Context, employeeID string) (string, error)
}

func (f *fakeIdentityRepository) FindByID(ctx context.Context, employeeID string) (*identity.Employee, error) {
	return f.findByIDFn(ctx, employeeID)
}

func (f *fakeIdentityRepository) FindManagerOf(ctx context.Context, employeeID string) (*identity.Employee, error) {
	return f.findManagerOfFn(ctx, employeeID)
}

func (f *fakeIdentityRepository) RoleOf(ctx context.Context, employeeID string) (string, error) {
	return f.roleOfFn(ctx, employeeID)
}

func TestIdentityService_ManagerOf(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the manager row", func(t *testing.T) {
		repo := &fakeIdentityRepository{
			findManagerOfFn: func(ctx context.Context, employeeID string) (*identity.Employee, error) {
				return &identity.Employee{
					ID:       uuid.New(),
					FullName: "Mana Ger",
					Email:    "manager@corp.test",
					Role:     "manager",
				}, nil
			},
		}

		svc := identity.NewService(repo, nil)
		m, err := svc.ManagerOf(ctx, uuid.New().String())

		assert.NoError(t, err)
		assert.Equal(t, "manager@corp.test", m.Email)
		assert.Equal(t, "Mana Ger", m.FullName)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := identity.NewService(&fakeIdentityRepository{}, nil)

		_, err := svc.ManagerOf(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, identityerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative orphan employee has no manager", func(t *testing.T) {
		repo := &fakeIdentityRepository{
			findManagerOfFn: func(ctx context.Context, employeeID string) (*identity.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := identity.NewService(repo, nil)
		_, err := svc.ManagerOf(ctx, uuid.New().String())

		assert.ErrorIs(t, err, identityerrors.ErrManagerNotFound)
	})
}

func TestIdentityService_RoleOf(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the directory role", func(t *testing.T) {
		repo := &fakeIdentityRepository{
			roleOfFn: func(ctx context.Context, employeeID string) (string, error) {
				return "hr_admin", nil
			},
		}

		svc := identity.NewService(repo, nil)
		role, err := svc.RoleOf(ctx, uuid.New().String())

		assert.NoError(t, err)
		assert.Equal(t, "hr_admin", role)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		repo := &fakeIdentityRepository{
			roleOfFn: func(ctx context.Context, employeeID string) (string, error) {
				return "", gorm.ErrRecordNotFound
			},
		}

		svc := identity.NewService(repo, nil)
		_, err := svc.RoleOf(ctx, uuid.New().String())

		assert.ErrorIs(t, err, identityerrors.ErrEmployeeNotFound)
	})

	t.Run("negative empty role treated as missing", func(t *testing.T) {
		repo := &fakeIdentityRepository{
			roleOfFn: func(ctx context.Context, employeeID string) (string, error) {
				return "", nil
			},
		}

		svc := identity.NewService(repo, nil)
		_, err := svc.RoleOf(ctx, uuid.New().String())

		assert.ErrorIs(t, err, identityerrors.ErrEmployeeNotFound)
	})
}
