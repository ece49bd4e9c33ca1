package notification

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxNotifier hands notifications to the outbox table; the producer
// worker publishes them to kafka and the consumer delivers the email. The
// write happens outside the workflow transaction, so a failure here only
// loses the notification, never the state transition.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) *OutboxNotifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	return &OutboxNotifier{outbox: outbox, logger: l}
}

func (n *OutboxNotifier) Notify(ctx context.Context, event events.LeaveNotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   event.LeaveID,
		EventType:     event.EventType,
		Topic:         events.LeaveNotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}

	if err := n.outbox.Create(ctx, outboxEvent); err != nil {
		return err
	}

	n.logger.Debug("notification enqueued",
		zap.String("kind", event.EventType),
		zap.String("leave_id", event.LeaveID),
		zap.String("recipient", event.Recipient),
	)
	return nil
}
