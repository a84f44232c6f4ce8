package events

import "time"

const (
	RequestDecidedTopic        = "staff.requests.decided"
	CancellationDecidedTopic   = "staff.requests.cancellation-decided"
	CancellationRequestedTopic = "staff.requests.cancellation-requested"
)

type RequestDecidedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	RequestType string    `json:"request_type"`
	Outcome     string    `json:"outcome"`
	DecidedBy   string    `json:"decided_by"`
	Department  string    `json:"department"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type CancellationRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	RequestType string    `json:"request_type"`
	EmployeeID  string    `json:"employee_id"`
	Immediate   bool      `json:"immediate"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type CancellationDecidedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	RequestType string    `json:"request_type"`
	Approved    bool      `json:"approved"`
	DecidedBy   string    `json:"decided_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
