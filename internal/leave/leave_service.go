package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/events"
	"go-leave/internal/identity"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/notification"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Apply(ctx context.Context, actor identity.Actor, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id, managerComment string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, managerComment string) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	ListByStatus(ctx context.Context, status string) ([]LeaveResponse, error)
}

// service coordinates the request store, the balance ledger, the identity
// port and the notifier. Balance is checked at Apply but only debited at
// Approve; the debit is the sole enforcement point for the non-negative
// invariant, so two pending requests may both look affordable until one of
// them is approved.
type service struct {
	db       *sql.DB
	repo     Repository
	balances balance.Repository
	identity identity.Service
	notifier notification.Notifier
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances balance.Repository,
	identitySvc identity.Service,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		balances: balances,
		identity: identitySvc,
		notifier: notifier,
		logger:   l,
	}
}

func (s *service) Apply(ctx context.Context, actor identity.Actor, req ApplyLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("employee_id", actor.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if !actor.IsCompanyEmail {
		s.logger.Warn("apply leave rejected for non-company email",
			zap.String("employee_id", actor.EmployeeID),
		)
		return LeaveResponse{}, leaveerrors.ErrCompanyEmailRequired
	}

	employeeID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("apply leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if strings.TrimSpace(req.Reason) == "" {
		return LeaveResponse{}, leaveerrors.ErrMissingReason
	}

	duration := Duration(startDate, endDate, req.HalfDayStart, req.HalfDayEnd)
	if !duration.IsPositive() {
		s.logger.Warn("apply leave non-positive duration",
			zap.String("employee_id", actor.EmployeeID),
			zap.String("duration", duration.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidDuration
	}

	manager, err := s.identity.ManagerOf(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Warn("apply leave manager lookup failed",
			zap.String("employee_id", actor.EmployeeID),
			zap.Error(err),
		)
		return LeaveResponse{}, storage(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qbal := s.balances.WithTx(tx)

	// Apply-time check only: an early estimate for the caller. The real
	// enforcement is the debit at approval.
	bal, err := qbal.GetOrCreate(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Error("apply leave balance lookup failed", zap.Error(err))
		return LeaveResponse{}, storage(err)
	}
	if err := checkAvailability(bal, req.LeaveType, duration); err != nil {
		s.logger.Warn("apply leave insufficient balance",
			zap.String("employee_id", actor.EmployeeID),
			zap.String("leave_type", req.LeaveType),
			zap.String("requested", duration.String()),
		)
		return LeaveResponse{}, err
	}

	l := &Leave{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		Email:        actor.Email,
		ManagerEmail: manager.Email,
		LeaveType:    req.LeaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		HalfDayStart: req.HalfDayStart,
		HalfDayEnd:   req.HalfDayEnd,
		TotalDays:    duration,
		Reason:       req.Reason,
		Status:       StatusPending,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, storage(mapRepositoryError(err))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}
	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.String("total_days", duration.String()),
	)

	// Best effort, outside the transaction. The committed request is
	// authoritative regardless of delivery.
	s.notify(ctx, events.KindLeaveSubmittedManager, l.ManagerEmail, l, "")
	s.notify(ctx, events.KindLeaveSubmittedEmployee, l.Email, l, "")

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, id, managerComment string) (LeaveResponse, error) {
	s.logger.Debug("approve leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, storage(err)
	}
	if !isAllowedStatusTransition(l.Status, StatusApproved) {
		s.logger.Warn("approve leave invalid transition",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.InvalidTransition("approve", l.Status)
	}

	// Recompute from the stored fields; the debit below is the only place
	// the ledger is ever decreased for this request.
	duration := Duration(l.StartDate, l.EndDate, l.HalfDayStart, l.HalfDayEnd)

	qbal := s.balances.WithTx(tx)
	updated, err := qbal.TryDebit(ctx, l.EmployeeID.String(), l.LeaveType, duration)
	if err != nil {
		s.logger.Warn("approve leave debit failed",
			zap.String("leave_id", id),
			zap.String("employee_id", l.EmployeeID.String()),
			zap.String("requested", duration.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, storage(err)
	}

	comment := normalizeComment(managerComment)
	if err := qtx.UpdateStatus(ctx, id, StatusApproved, comment); err != nil {
		s.logger.Error("approve leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	l.Status = StatusApproved
	l.ManagerComment = comment
	remaining, _ := updated.Amount(l.LeaveType)
	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("employee_id", l.EmployeeID.String()),
		zap.String("debited", duration.String()),
		zap.String("remaining", remaining.String()),
	)

	s.notify(ctx, events.KindLeaveDecided, l.Email, l, StatusApproved)

	return mapToResponse(*l), nil
}

func (s *service) Reject(ctx context.Context, actorID, id, managerComment string) (LeaveResponse, error) {
	s.logger.Debug("reject leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, storage(err)
	}
	if !isAllowedStatusTransition(l.Status, StatusRejected) {
		s.logger.Warn("reject leave invalid transition",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.InvalidTransition("reject", l.Status)
	}

	// No balance effect: nothing was debited for a pending request.
	comment := normalizeComment(managerComment)
	if err := qtx.UpdateStatus(ctx, id, StatusRejected, comment); err != nil {
		s.logger.Error("reject leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	l.Status = StatusRejected
	l.ManagerComment = comment
	s.logger.Info("reject leave success", zap.String("leave_id", id))

	s.notify(ctx, events.KindLeaveDecided, l.Email, l, StatusRejected)

	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, storage(err)
	}
	if l.EmployeeID.String() != actorID {
		s.logger.Warn("cancel leave forbidden",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
			zap.String("owner_id", l.EmployeeID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if !isAllowedStatusTransition(l.Status, StatusCancelled) {
		s.logger.Warn("cancel leave invalid transition",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.InvalidTransition("cancel", l.Status)
	}

	// No balance effect: the debit only ever happens on approval.
	if err := qtx.UpdateStatus(ctx, id, StatusCancelled, nil); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	l.Status = StatusCancelled
	l.ManagerComment = nil
	s.logger.Info("cancel leave success", zap.String("leave_id", id))

	s.notify(ctx, events.KindLeaveDecided, l.Email, l, StatusCancelled)

	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, storage(mapRepositoryError(err))
	}
	return mapToResponse(*l), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByStatus(ctx, status)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

// notify fires one best-effort notification. Failures are logged and
// swallowed; the committed transition stays authoritative.
func (s *service) notify(ctx context.Context, kind, recipient string, l *Leave, decision string) {
	if s.notifier == nil || recipient == "" {
		return
	}

	event := events.LeaveNotificationEvent{
		EventType:  kind,
		Recipient:  recipient,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		Reason:     l.Reason,
		Decision:   decision,
		OccurredAt: time.Now().UTC(),
	}
	if decision != "" && l.ManagerComment != nil {
		event.ManagerComment = *l.ManagerComment
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("leave notification failed",
			zap.String("kind", kind),
			zap.String("leave_id", l.ID.String()),
			zap.String("recipient", recipient),
			zap.Error(err),
		)
	}
}

func checkAvailability(bal *balance.LeaveBalance, leaveType string, requested decimal.Decimal) error {
	available, ok := bal.Amount(leaveType)
	if !ok {
		return apperror.InvalidField("leave type")
	}
	if available.LessThan(requested) {
		return balanceerrors.Insufficient(leaveType, available, requested)
	}
	return nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func normalizeComment(comment string) *string {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// storage passes typed business errors through and wraps everything else
// as a retryable storage failure.
func storage(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Storage(err)
}
