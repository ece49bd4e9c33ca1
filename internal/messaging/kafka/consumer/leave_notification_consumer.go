package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"
	"go-leave/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveNotifications delivers leave notification events as emails.
// Malformed messages are committed and dropped; delivery failures are left
// uncommitted so the broker redelivers them.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	sender notification.Sender,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		var event events.LeaveNotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave notification event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		subject, body := notification.Render(event)
		if err := sender.Send(ctx, event.Recipient, subject, body); err != nil {
			log.Error("send leave notification failed",
				zap.String("kind", event.EventType),
				zap.String("leave_id", event.LeaveID),
				zap.String("recipient", event.Recipient),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
			continue
		}

		log.Info("leave notification delivered",
			zap.String("kind", event.EventType),
			zap.String("leave_id", event.LeaveID),
			zap.String("recipient", event.Recipient),
		)
	}
}
