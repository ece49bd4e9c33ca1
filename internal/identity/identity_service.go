package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	identityerrors "go-leave/internal/identity/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	managerKeyPrefix = "identity:manager:"
	managerCacheTTL  = 10 * time.Minute
)

func managerCacheKey(employeeID string) string {
	return managerKeyPrefix + employeeID
}

type Service interface {
	ManagerOf(ctx context.Context, employeeID string) (Manager, error)
	RoleOf(ctx context.Context, employeeID string) (string, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("identity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// ManagerOf resolves the approval recipient for an employee. The manager
// chain changes rarely, so misses are collapsed via singleflight and the
// result is cached in redis for a short TTL.
func (s *service) ManagerOf(ctx context.Context, employeeID string) (Manager, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Manager{}, identityerrors.ErrInvalidEmployeeID
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, managerCacheKey(employeeID)).Result(); err == nil {
			var m Manager
			if err := json.Unmarshal([]byte(cached), &m); err == nil {
				return m, nil
			}
		}
	}

	v, err, _ := s.sf.Do(managerCacheKey(employeeID), func() (any, error) {
		mgr, err := s.repo.FindManagerOf(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Manager{}, identityerrors.ErrManagerNotFound
			}
			s.logger.Error("manager lookup failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return Manager{}, err
		}

		m := Manager{Email: mgr.Email, FullName: mgr.FullName}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(m); marshalErr == nil {
				if err := s.rdb.Set(ctx, managerCacheKey(employeeID), payload, managerCacheTTL).Err(); err != nil {
					s.logger.Warn("manager cache write failed",
						zap.String("employee_id", employeeID),
						zap.Error(err),
					)
				}
			}
		}

		return m, nil
	})
	if err != nil {
		return Manager{}, err
	}

	return v.(Manager), nil
}

func (s *service) RoleOf(ctx context.Context, employeeID string) (string, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return "", identityerrors.ErrInvalidEmployeeID
	}

	role, err := s.repo.RoleOf(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", identityerrors.ErrEmployeeNotFound
		}
		return "", err
	}
	if role == "" {
		return "", identityerrors.ErrEmployeeNotFound
	}
	return role, nil
}
