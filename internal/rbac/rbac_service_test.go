package rbac_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/identity"
	"go-leave/internal/rbac"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeIdentityService struct {
	role string
	err  error
}

func (f *fakeIdentityService) ManagerOf(ctx context.Context, employeeID string) (identity.Manager, error) {
	return identity.Manager{}, nil
}

func (f *fakeIdentityService) RoleOf(ctx context.Context, employeeID string) (string, error) {
	return f.role, f.err
}

func TestRBACService_Enforce(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	tests := []struct {
		name     string
		role     string
		resource string
		action   string
		want     bool
	}{
		{"employee reads own leaves", rbac.RoleEmployee, "leave", "read", true},
		{"employee creates a request", rbac.RoleEmployee, "leave", "create", true},
		{"employee cancels a request", rbac.RoleEmployee, "leave", "cancel", true},
		{"employee cannot approve", rbac.RoleEmployee, "leave", "approve", false},
		{"manager approves", rbac.RoleManager, "leave", "approve", true},
		{"manager inherits employee permissions", rbac.RoleManager, "leave", "create", true},
		{"hr admin inherits the whole chain", rbac.RoleHRAdmin, "leave", "approve", true},
		{"unknown role gets nothing", "contractor", "leave", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := rbac.NewService(&fakeIdentityService{role: tt.role})
			assert.NoError(t, err)

			allowed, err := svc.Enforce(ctx, employeeID, tt.resource, tt.action)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}

	t.Run("negative role resolution failure propagates", func(t *testing.T) {
		svc, err := rbac.NewService(&fakeIdentityService{err: errors.New("directory down")})
		assert.NoError(t, err)

		allowed, err := svc.Enforce(ctx, employeeID, "leave", "read")

		assert.Error(t, err)
		assert.False(t, allowed)
	})
}
