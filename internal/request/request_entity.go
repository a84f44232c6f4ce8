package request

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeave    = "Leave"
	TypeOvertime = "Overtime"

	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"

	// Overtime adjustment type that exchanges one scheduled off-day for
	// another. StartDate/EndDate carry the original and new off-dates.
	CategoryShiftSwap = "Shift Swap"
)

const (
	RoleEmployee = "Employee"
	RoleHead     = "Head"
	RoleHR       = "HR"
)

// Actor is the authenticated identity performing a workflow operation,
// resolved from the session before any operation is permitted.
type Actor struct {
	UserID     string
	EmployeeID string
	Name       string
	Department string
	Position   string
	Role       string
}

// Request is a leave or overtime request. One struct backs both tables;
// the repository picks leave_requests or overtime_requests from RequestType.
// Employee fields are a snapshot taken at submission and are not kept in
// sync with later roster edits.
type Request struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EmployeeID   string `gorm:"type:varchar(30);not null;index"`
	EmployeeName string `gorm:"type:varchar(255);not null"`
	Department   string `gorm:"type:varchar(100);not null;index"`
	Position     string `gorm:"type:varchar(100)"`

	Category  string    `gorm:"type:varchar(50);not null"`
	StartDate time.Time `gorm:"not null;index"`
	EndDate   time.Time `gorm:"not null"`

	TotalDays  int     `gorm:"not null;default:0"`
	TotalHours float64 `gorm:"type:numeric(6,2);not null;default:0"`
	Reason     string  `gorm:"type:text;not null"`

	Status         string    `gorm:"type:varchar(20);not null;default:'Pending';index"`
	SubmissionDate time.Time `gorm:"not null"`

	ApprovedBy   string `gorm:"type:varchar(255)"`
	ApprovalDate *time.Time

	CancellationRequested    bool   `gorm:"not null;default:false;index"`
	CancellationReason       string `gorm:"type:text"`
	CancellationDate         *time.Time
	CancellationApproved     bool `gorm:"not null;default:false"`
	CancellationApprovalDate *time.Time

	// Derived from the table the row was read from, never stored.
	RequestType string `gorm:"-"`
}
