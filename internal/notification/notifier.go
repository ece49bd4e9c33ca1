package notification

import (
	"context"
	"fmt"

	"go-leave/internal/events"
)

// Notifier is the outbound port the leave workflow talks to after a
// successful state transition. Implementations must be safe to call after
// the transaction has committed; a returned error is logged by the caller
// and never affects the authoritative state.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, event events.LeaveNotificationEvent) error
}

// Render produces the subject and plain-text body for one notification.
// Submission copies carry type, range and reason; decision copies carry the
// outcome and the manager's comment.
func Render(event events.LeaveNotificationEvent) (subject, body string) {
	dateRange := fmt.Sprintf("%s to %s", event.StartDate, event.EndDate)

	switch event.EventType {
	case events.KindLeaveSubmittedManager:
		subject = fmt.Sprintf("Leave request awaiting your approval (%s)", event.LeaveType)
		body = fmt.Sprintf(
			"A leave request needs your decision.\n\nEmployee: %s\nType: %s\nDates: %s\nReason: %s\n",
			event.EmployeeID, event.LeaveType, dateRange, event.Reason,
		)
	case events.KindLeaveSubmittedEmployee:
		subject = fmt.Sprintf("Your %s leave request was submitted", event.LeaveType)
		body = fmt.Sprintf(
			"Your leave request has been submitted and is pending approval.\n\nType: %s\nDates: %s\nReason: %s\n",
			event.LeaveType, dateRange, event.Reason,
		)
	case events.KindLeaveDecided:
		subject = fmt.Sprintf("Your %s leave request was %s", event.LeaveType, event.Decision)
		body = fmt.Sprintf(
			"Your leave request has been decided.\n\nType: %s\nDates: %s\nDecision: %s\n",
			event.LeaveType, dateRange, event.Decision,
		)
		if event.ManagerComment != "" {
			body += fmt.Sprintf("Comment: %s\n", event.ManagerComment)
		}
	default:
		subject = "Leave notification"
		body = fmt.Sprintf("Leave %s (%s, %s) was updated.\n", event.LeaveID, event.LeaveType, dateRange)
	}

	return subject, body
}
