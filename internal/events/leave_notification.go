package events

import "time"

const LeaveNotificationTopic = "hr.leave.notification.v1"

// Notification kinds carried on the leave notification topic.
const (
	KindLeaveSubmittedManager  = "leave.submitted.manager"
	KindLeaveSubmittedEmployee = "leave.submitted.employee"
	KindLeaveDecided           = "leave.decided"
)

// LeaveNotificationEvent asks the notification consumer to deliver one
// email. Decision and ManagerComment are only set for KindLeaveDecided.
type LeaveNotificationEvent struct {
	EventType      string    `json:"event_type"`
	Recipient      string    `json:"recipient"`
	LeaveID        string    `json:"leave_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Reason         string    `json:"reason,omitempty"`
	Decision       string    `json:"decision,omitempty"`
	ManagerComment string    `json:"manager_comment,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
