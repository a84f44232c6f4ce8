package events

import "time"

const RequestSubmittedTopic = "staff.requests.submitted"

type RequestSubmittedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	RequestType string    `json:"request_type"`
	Category    string    `json:"category"`
	EmployeeID  string    `json:"employee_id"`
	Department  string    `json:"department"`
	OccurredAt  time.Time `json:"occurred_at"`
}
