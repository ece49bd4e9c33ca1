package rbac

import (
	"context"

	"go-leave/internal/identity"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

// Roles known to the leave workflow. hr_admin inherits manager, manager
// inherits employee.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHRAdmin  = "hr_admin"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(ctx context.Context, employeeID, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	identity identity.Service
	logger   *zap.Logger
}

func NewService(identitySvc identity.Service, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}

	return &service{enforcer: enforcer, identity: identitySvc, logger: l}, nil
}

func seedPolicies(e *casbin.Enforcer) error {
	policies := [][]string{
		{RoleEmployee, "leave", "read"},
		{RoleEmployee, "leave", "create"},
		{RoleEmployee, "leave", "cancel"},
		{RoleManager, "leave", "approve"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	groupings := [][]string{
		{RoleManager, RoleEmployee},
		{RoleHRAdmin, RoleManager},
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	return nil
}

// Enforce resolves the caller's role from the employee directory and asks
// the enforcer whether that role may perform action on resource.
func (s *service) Enforce(ctx context.Context, employeeID, resource, action string) (bool, error) {
	role, err := s.identity.RoleOf(ctx, employeeID)
	if err != nil {
		s.logger.Warn("rbac role resolution failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return false, err
	}

	return s.enforcer.Enforce(role, resource, action)
}
