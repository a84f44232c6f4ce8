package request

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	requesterrors "staff-portal/internal/request/errors"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// Schedule is the validated time component of a submission. Ordinary leave
// and overtime carry a Period; a shift swap carries a Swap. Both flatten to
// the shared start/end columns on persistence.
type Schedule interface {
	Bounds() (start, end time.Time)
}

// Period bounds a leave or overtime span. End may equal Start but never
// precede it.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Bounds() (time.Time, time.Time) { return p.Start, p.End }

// Swap exchanges one scheduled off-day for another. No ordering constraint
// applies: the new off-day may fall before the original one.
type Swap struct {
	OriginalOff time.Time
	NewOff      time.Time
}

func (s Swap) Bounds() (time.Time, time.Time) { return s.OriginalOff, s.NewOff }

func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, requesterrors.ErrEndBeforeStart
	}
	return Period{Start: start, End: end}, nil
}

func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func ParseDateTime(v string) (time.Time, error) {
	t, err := time.Parse(dateTimeLayout, v)
	if err != nil {
		return time.Time{}, requesterrors.ErrInvalidDateTimeFormat
	}
	return t, nil
}

// LeaveDays counts both endpoints, so a single-day leave is 1 day.
func LeaveDays(start, end time.Time) int {
	diff := math.Abs(end.Sub(start).Hours())
	return int(math.Ceil(diff/24)) + 1
}

// OvertimeHours is the absolute span in hours, rounded to two decimals.
func OvertimeHours(start, end time.Time) float64 {
	h := math.Abs(end.Sub(start).Hours())
	return math.Round(h*100) / 100
}

// Decide moves a pending request to Approved or Rejected and records the
// approver. Deciding anything but a Pending request is rejected, including
// a second decision on an already-decided request.
func Decide(req *Request, outcome, approverName string, now time.Time) error {
	if outcome != StatusApproved && outcome != StatusRejected {
		return requesterrors.ErrInvalidOutcome
	}
	if req.Status != StatusPending {
		return requesterrors.ErrNotPending
	}

	req.Status = outcome
	req.ApprovedBy = approverName
	req.ApprovalDate = &now
	return nil
}

// RequestCancellation cancels a pending request immediately. An approved
// request instead gets the cancellationRequested flag set and waits for a
// second approval step; an approved leave whose end date has already passed
// cannot be cancelled at all.
func RequestCancellation(req *Request, reason string, now, today time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return requesterrors.ErrCancellationReasonRequired
	}
	if req.CancellationRequested {
		return requesterrors.ErrCancellationPending
	}

	switch req.Status {
	case StatusPending:
		req.Status = StatusCancelled
		req.CancellationReason = reason
		req.CancellationDate = &now
	case StatusApproved:
		if req.RequestType == TypeLeave && dateOnly(req.EndDate).Before(dateOnly(today)) {
			return requesterrors.ErrLeaveElapsed
		}
		req.CancellationRequested = true
		req.CancellationReason = reason
		req.CancellationDate = &now
	default:
		return requesterrors.ErrCancelNotAllowed
	}
	return nil
}

// DecideCancellation settles a pending cancellation request. Approval is
// terminal: the request becomes Cancelled and the flag is cleared so it no
// longer reads as an outstanding decision. Rejection restores the request
// to its approved state and wipes the cancellation fields.
func DecideCancellation(req *Request, approve bool, now time.Time) error {
	if !req.CancellationRequested {
		return requesterrors.ErrNoCancellationPending
	}

	if approve {
		req.Status = StatusCancelled
		req.CancellationRequested = false
		req.CancellationApproved = true
		req.CancellationApprovalDate = &now
		return nil
	}

	req.CancellationRequested = false
	req.CancellationReason = ""
	req.CancellationDate = nil
	return nil
}

// CancelButtonVisible reports whether the owning employee may still start a
// cancellation: always for Pending, never for terminal statuses or while a
// cancellation is already pending, and for approved leaves only until the
// leave has elapsed.
func CancelButtonVisible(req *Request, today time.Time) bool {
	if req.Status == StatusCancelled || req.Status == StatusRejected {
		return false
	}
	if req.CancellationRequested {
		return false
	}

	switch req.Status {
	case StatusPending:
		return true
	case StatusApproved:
		if req.RequestType == TypeOvertime {
			return true
		}
		return !dateOnly(req.EndDate).Before(dateOnly(today))
	}
	return false
}

// DurationLabel renders the derived duration for lists and exports.
func DurationLabel(req *Request) string {
	if req.RequestType == TypeLeave {
		return fmt.Sprintf("%d days", req.TotalDays)
	}
	if req.Category == CategoryShiftSwap {
		return "Swap"
	}
	return strconv.FormatFloat(req.TotalHours, 'f', -1, 64) + " hours"
}

// StatusBadgeClass maps a status to its display class.
func StatusBadgeClass(status string) string {
	switch status {
	case StatusApproved:
		return "status-approved"
	case StatusRejected:
		return "status-rejected"
	case StatusPending:
		return "status-pending"
	default:
		return "bg-secondary"
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
