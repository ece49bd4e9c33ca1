package balance

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, employeeID string) (BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Get returns the caller's ledger row, creating it with defaults on first
// access.
func (s *service) Get(ctx context.Context, employeeID string) (BalanceResponse, error) {
	s.logger.Debug("get balance requested", zap.String("employee_id", employeeID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("get balance begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.GetOrCreate(ctx, employeeID)
	if err != nil {
		s.logger.Error("get balance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("get balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	return mapToResponse(*b), nil
}
