package request

import "time"

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// SubmitOvertimeRequest carries either a start/end pair (date-time inputs)
// or an original/new off-date pair when adjustment_type is Shift Swap.
type SubmitOvertimeRequest struct {
	AdjustmentType  string `json:"adjustment_type" binding:"required"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	OriginalOffDate string `json:"original_off_date"`
	NewOffDate      string `json:"new_off_date"`
	Reason          string `json:"reason" binding:"required"`
}

type DecideRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=Approved Rejected"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DecideCancellationRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

type RequestResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Category     string `json:"category"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Position     string `json:"position,omitempty"`

	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	OriginalOffDate string `json:"original_off_date,omitempty"`
	NewOffDate      string `json:"new_off_date,omitempty"`

	TotalDays  int     `json:"total_days,omitempty"`
	TotalHours float64 `json:"total_hours"`
	Duration   string  `json:"duration"`
	Reason     string  `json:"reason"`

	Status         string `json:"status"`
	StatusClass    string `json:"status_class"`
	SubmissionDate string `json:"submission_date"`

	ApprovedBy   string  `json:"approved_by,omitempty"`
	ApprovalDate *string `json:"approval_date,omitempty"`

	CancellationRequested bool    `json:"cancellation_requested"`
	CancellationReason    string  `json:"cancellation_reason,omitempty"`
	CancellationDate      *string `json:"cancellation_date,omitempty"`

	CancelAllowed bool `json:"cancel_allowed"`
}

func mapToResponse(r Request, today time.Time) RequestResponse {
	resp := RequestResponse{
		ID:           r.ID.String(),
		Type:         r.RequestType,
		Category:     r.Category,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Department:   r.Department,
		Position:     r.Position,

		StartDate: formatScheduleDate(r, r.StartDate),
		EndDate:   formatScheduleDate(r, r.EndDate),

		TotalDays:  r.TotalDays,
		TotalHours: r.TotalHours,
		Duration:   DurationLabel(&r),
		Reason:     r.Reason,

		Status:         r.Status,
		StatusClass:    StatusBadgeClass(r.Status),
		SubmissionDate: r.SubmissionDate.Format(time.RFC3339),

		ApprovedBy: r.ApprovedBy,

		CancellationRequested: r.CancellationRequested,
		CancellationReason:    r.CancellationReason,

		CancelAllowed: CancelButtonVisible(&r, today),
	}

	if r.Category == CategoryShiftSwap {
		resp.OriginalOffDate = r.StartDate.Format(dateLayout)
		resp.NewOffDate = r.EndDate.Format(dateLayout)
	}
	if r.ApprovalDate != nil {
		v := r.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &v
	}
	if r.CancellationDate != nil {
		v := r.CancellationDate.Format(time.RFC3339)
		resp.CancellationDate = &v
	}
	return resp
}

// Overtime spans carry a time of day; leave and swap dates do not.
func formatScheduleDate(r Request, t time.Time) string {
	if r.RequestType == TypeOvertime && r.Category != CategoryShiftSwap {
		return t.Format(dateTimeLayout)
	}
	return t.Format(dateLayout)
}

func mapToListResponse(requests []Request, today time.Time) []RequestResponse {
	resp := make([]RequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r, today)
	}
	return resp
}
