package events

import "time"

const EmployeeCreatedTopic = "staff.employees.created"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	Badge      string    `json:"badge"`
	Department string    `json:"department"`
	OccurredAt time.Time `json:"occurred_at"`
}
