package request_test

import (
	"testing"
	"time"

	"staff-portal/internal/request"
	requesterrors "staff-portal/internal/request/errors"

	"github.com/stretchr/testify/assert"
)

func day(v string) time.Time {
	t, err := request.ParseDate(v)
	if err != nil {
		panic(err)
	}
	return t
}

func dayTime(v string) time.Time {
	t, err := request.ParseDateTime(v)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLeaveDays(t *testing.T) {
	t.Run("inclusive of both endpoints", func(t *testing.T) {
		assert.Equal(t, 3, request.LeaveDays(day("2024-01-10"), day("2024-01-12")))
	})

	t.Run("single day", func(t *testing.T) {
		assert.Equal(t, 1, request.LeaveDays(day("2024-01-10"), day("2024-01-10")))
	})
}

func TestOvertimeHours(t *testing.T) {
	t.Run("rounds to two decimals", func(t *testing.T) {
		assert.Equal(t, 8.5, request.OvertimeHours(dayTime("2024-01-10T09:00"), dayTime("2024-01-10T17:30")))
	})

	t.Run("partial hour", func(t *testing.T) {
		assert.Equal(t, 0.25, request.OvertimeHours(dayTime("2024-01-10T09:00"), dayTime("2024-01-10T09:15")))
	})
}

func TestNewPeriod(t *testing.T) {
	t.Run("rejects end before start", func(t *testing.T) {
		_, err := request.NewPeriod(day("2024-01-12"), day("2024-01-10"))
		assert.ErrorIs(t, err, requesterrors.ErrEndBeforeStart)
	})

	t.Run("allows equal endpoints", func(t *testing.T) {
		p, err := request.NewPeriod(day("2024-01-10"), day("2024-01-10"))
		assert.NoError(t, err)
		assert.Equal(t, p.Start, p.End)
	})
}

func TestSwapHasNoOrderingConstraint(t *testing.T) {
	s := request.Swap{OriginalOff: day("2024-03-20"), NewOff: day("2024-03-01")}
	start, end := s.Bounds()
	assert.True(t, end.Before(start))
}

func pendingLeave() *request.Request {
	return &request.Request{
		RequestType:    request.TypeLeave,
		EmployeeID:     "EMP-0001",
		Category:       "Annual Leave",
		StartDate:      day("2024-06-10"),
		EndDate:        day("2024-06-12"),
		TotalDays:      3,
		Status:         request.StatusPending,
		SubmissionDate: day("2024-06-01"),
	}
}

func TestDecide(t *testing.T) {
	now := dayTime("2024-06-02T10:00")

	t.Run("approve from pending", func(t *testing.T) {
		r := pendingLeave()
		err := request.Decide(r, request.StatusApproved, "Dana Head", now)
		assert.NoError(t, err)
		assert.Equal(t, request.StatusApproved, r.Status)
		assert.Equal(t, "Dana Head", r.ApprovedBy)
		assert.NotNil(t, r.ApprovalDate)
	})

	t.Run("reject from pending", func(t *testing.T) {
		r := pendingLeave()
		err := request.Decide(r, request.StatusRejected, "Dana Head", now)
		assert.NoError(t, err)
		assert.Equal(t, request.StatusRejected, r.Status)
	})

	t.Run("invalid outcome", func(t *testing.T) {
		r := pendingLeave()
		err := request.Decide(r, "Maybe", "Dana Head", now)
		assert.ErrorIs(t, err, requesterrors.ErrInvalidOutcome)
		assert.Equal(t, request.StatusPending, r.Status)
	})

	t.Run("second decision is rejected", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))
		err := request.Decide(r, request.StatusRejected, "Harper HR", now)
		assert.ErrorIs(t, err, requesterrors.ErrNotPending)
		assert.Equal(t, request.StatusApproved, r.Status)
	})
}

func TestRequestCancellation(t *testing.T) {
	now := dayTime("2024-06-02T10:00")
	today := day("2024-06-02")

	t.Run("pending cancels immediately", func(t *testing.T) {
		r := pendingLeave()
		err := request.RequestCancellation(r, "booked wrong week", now, today)
		assert.NoError(t, err)
		assert.Equal(t, request.StatusCancelled, r.Status)
		assert.False(t, r.CancellationRequested)
		assert.Equal(t, "booked wrong week", r.CancellationReason)
	})

	t.Run("approved defers to second approval", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))

		err := request.RequestCancellation(r, "plans changed", now, today)
		assert.NoError(t, err)
		assert.Equal(t, request.StatusApproved, r.Status)
		assert.True(t, r.CancellationRequested)
		assert.NotNil(t, r.CancellationDate)
	})

	t.Run("reason is required", func(t *testing.T) {
		r := pendingLeave()
		err := request.RequestCancellation(r, "", now, today)
		assert.ErrorIs(t, err, requesterrors.ErrCancellationReasonRequired)
	})

	t.Run("duplicate request while one is pending", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))
		assert.NoError(t, request.RequestCancellation(r, "plans changed", now, today))

		err := request.RequestCancellation(r, "again", now, today)
		assert.ErrorIs(t, err, requesterrors.ErrCancellationPending)
	})

	t.Run("rejected cannot be cancelled", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusRejected, "Dana Head", now))

		err := request.RequestCancellation(r, "please", now, today)
		assert.ErrorIs(t, err, requesterrors.ErrCancelNotAllowed)
	})

	t.Run("approved leave that already ended", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))

		err := request.RequestCancellation(r, "too late", now, day("2024-06-13"))
		assert.ErrorIs(t, err, requesterrors.ErrLeaveElapsed)
	})

	t.Run("approved leave ending today can still be cancelled", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))

		err := request.RequestCancellation(r, "last minute", now, day("2024-06-12"))
		assert.NoError(t, err)
		assert.True(t, r.CancellationRequested)
	})

	t.Run("approved overtime has no elapsed check", func(t *testing.T) {
		r := pendingLeave()
		r.RequestType = request.TypeOvertime
		r.Category = "Overtime"
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))

		err := request.RequestCancellation(r, "not needed", now, day("2024-07-01"))
		assert.NoError(t, err)
		assert.True(t, r.CancellationRequested)
	})
}

func TestDecideCancellation(t *testing.T) {
	now := dayTime("2024-06-02T10:00")
	today := day("2024-06-02")

	approvedWithPendingCancellation := func() *request.Request {
		r := pendingLeave()
		if err := request.Decide(r, request.StatusApproved, "Dana Head", now); err != nil {
			panic(err)
		}
		if err := request.RequestCancellation(r, "plans changed", now, today); err != nil {
			panic(err)
		}
		return r
	}

	t.Run("approve cancels the request", func(t *testing.T) {
		r := approvedWithPendingCancellation()
		err := request.DecideCancellation(r, true, now)
		assert.NoError(t, err)
		assert.Equal(t, request.StatusCancelled, r.Status)
		assert.True(t, r.CancellationApproved)
		assert.NotNil(t, r.CancellationApprovalDate)
		assert.False(t, r.CancellationRequested)
	})

	t.Run("reject restores the approved request", func(t *testing.T) {
		r := approvedWithPendingCancellation()
		err := request.DecideCancellation(r, false, now)
		assert.NoError(t, err)
		assert.Equal(t, request.StatusApproved, r.Status)
		assert.False(t, r.CancellationRequested)
		assert.Empty(t, r.CancellationReason)
		assert.Nil(t, r.CancellationDate)
	})

	t.Run("nothing pending", func(t *testing.T) {
		r := pendingLeave()
		err := request.DecideCancellation(r, true, now)
		assert.ErrorIs(t, err, requesterrors.ErrNoCancellationPending)
	})
}

func TestCancelButtonVisible(t *testing.T) {
	now := dayTime("2024-06-02T10:00")
	today := day("2024-06-02")

	t.Run("pending is cancellable", func(t *testing.T) {
		assert.True(t, request.CancelButtonVisible(pendingLeave(), today))
	})

	t.Run("terminal statuses are not", func(t *testing.T) {
		for _, status := range []string{request.StatusRejected, request.StatusCancelled} {
			r := pendingLeave()
			r.Status = status
			assert.False(t, request.CancelButtonVisible(r, today), status)
		}
	})

	t.Run("hidden while a cancellation is pending", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))
		assert.NoError(t, request.RequestCancellation(r, "plans changed", now, today))
		assert.False(t, request.CancelButtonVisible(r, today))
	})

	t.Run("approved leave hidden once its end date has passed", func(t *testing.T) {
		r := pendingLeave()
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))
		assert.True(t, request.CancelButtonVisible(r, day("2024-06-12")))
		assert.False(t, request.CancelButtonVisible(r, day("2024-06-13")))
	})

	t.Run("approved overtime stays cancellable after its window", func(t *testing.T) {
		r := pendingLeave()
		r.RequestType = request.TypeOvertime
		r.Category = "Overtime"
		assert.NoError(t, request.Decide(r, request.StatusApproved, "Dana Head", now))
		assert.True(t, request.CancelButtonVisible(r, day("2024-07-01")))
	})
}

func TestDurationLabel(t *testing.T) {
	t.Run("leave", func(t *testing.T) {
		assert.Equal(t, "3 days", request.DurationLabel(pendingLeave()))
	})

	t.Run("shift swap", func(t *testing.T) {
		r := pendingLeave()
		r.RequestType = request.TypeOvertime
		r.Category = request.CategoryShiftSwap
		assert.Equal(t, "Swap", request.DurationLabel(r))
	})

	t.Run("overtime trims trailing zeros", func(t *testing.T) {
		r := pendingLeave()
		r.RequestType = request.TypeOvertime
		r.Category = "Overtime"
		r.TotalHours = 8.5
		assert.Equal(t, "8.5 hours", request.DurationLabel(r))
	})
}

func TestStatusBadgeClass(t *testing.T) {
	assert.Equal(t, "status-approved", request.StatusBadgeClass(request.StatusApproved))
	assert.Equal(t, "status-rejected", request.StatusBadgeClass(request.StatusRejected))
	assert.Equal(t, "status-pending", request.StatusBadgeClass(request.StatusPending))
	assert.Equal(t, "bg-secondary", request.StatusBadgeClass(request.StatusCancelled))
}
