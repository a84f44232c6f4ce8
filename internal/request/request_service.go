package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"staff-portal/internal/events"
	"staff-portal/internal/messaging/kafka"
	requesterrors "staff-portal/internal/request/errors"
	"staff-portal/internal/shared/apperror"
	"staff-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Service interface {
	SubmitLeave(ctx context.Context, actor Actor, req SubmitLeaveRequest) (RequestResponse, error)
	SubmitOvertime(ctx context.Context, actor Actor, req SubmitOvertimeRequest) (RequestResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]RequestResponse, error)
	ListPending(ctx context.Context, actor Actor) ([]RequestResponse, error)
	ListAll(ctx context.Context, actor Actor) ([]RequestResponse, error)
	ListCancellationRequests(ctx context.Context, actor Actor) ([]RequestResponse, error)
	Decide(ctx context.Context, actor Actor, requestType, id, outcome string) (RequestResponse, error)
	RequestCancellation(ctx context.Context, actor Actor, requestType, id, reason string) (RequestResponse, error)
	DecideCancellation(ctx context.Context, actor Actor, requestType, id string, approve bool) (RequestResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) SubmitLeave(ctx context.Context, actor Actor, req SubmitLeaveRequest) (RequestResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("employee_id", actor.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	start, err := ParseDate(req.StartDate)
	if err != nil {
		return RequestResponse{}, err
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}
	period, err := NewPeriod(start, end)
	if err != nil {
		s.logger.Warn("submit leave invalid range",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return RequestResponse{}, err
	}

	now := time.Now().UTC()
	r := &Request{
		ID:             uuid.New(),
		RequestType:    TypeLeave,
		EmployeeID:     actor.EmployeeID,
		EmployeeName:   actor.Name,
		Department:     actor.Department,
		Position:       actor.Position,
		Category:       req.LeaveType,
		StartDate:      period.Start,
		EndDate:        period.End,
		TotalDays:      LeaveDays(period.Start, period.End),
		Reason:         req.Reason,
		Status:         StatusPending,
		SubmissionDate: now,
	}

	if err := s.persistSubmission(ctx, r, now); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("request_id", r.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.Int("total_days", r.TotalDays),
	)
	return mapToResponse(*r, now), nil
}

func (s *service) SubmitOvertime(ctx context.Context, actor Actor, req SubmitOvertimeRequest) (RequestResponse, error) {
	s.logger.Debug("submit overtime requested",
		zap.String("employee_id", actor.EmployeeID),
		zap.String("adjustment_type", req.AdjustmentType),
	)

	sched, hours, err := overtimeSchedule(req)
	if err != nil {
		s.logger.Warn("submit overtime validation failed", zap.Error(err))
		return RequestResponse{}, err
	}
	start, end := sched.Bounds()

	now := time.Now().UTC()
	r := &Request{
		ID:             uuid.New(),
		RequestType:    TypeOvertime,
		EmployeeID:     actor.EmployeeID,
		EmployeeName:   actor.Name,
		Department:     actor.Department,
		Position:       actor.Position,
		Category:       req.AdjustmentType,
		StartDate:      start,
		EndDate:        end,
		TotalHours:     hours,
		Reason:         req.Reason,
		Status:         StatusPending,
		SubmissionDate: now,
	}

	if err := s.persistSubmission(ctx, r, now); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("submit overtime success",
		zap.String("request_id", r.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.Float64("total_hours", r.TotalHours),
	)
	return mapToResponse(*r, now), nil
}

// overtimeSchedule builds the tagged schedule variant: shift swaps carry an
// original/new off-date pair with no ordering constraint and zero hours;
// everything else carries an ordered date-time period.
func overtimeSchedule(req SubmitOvertimeRequest) (Schedule, float64, error) {
	if req.AdjustmentType == CategoryShiftSwap {
		if req.OriginalOffDate == "" {
			return nil, 0, apperror.RequiredField("Original Off Date")
		}
		if req.NewOffDate == "" {
			return nil, 0, apperror.RequiredField("New Off Date")
		}
		originalOff, err := ParseDate(req.OriginalOffDate)
		if err != nil {
			return nil, 0, err
		}
		newOff, err := ParseDate(req.NewOffDate)
		if err != nil {
			return nil, 0, err
		}
		return Swap{OriginalOff: originalOff, NewOff: newOff}, 0, nil
	}

	if req.StartDate == "" {
		return nil, 0, apperror.RequiredField("Start Date")
	}
	if req.EndDate == "" {
		return nil, 0, apperror.RequiredField("End Date")
	}
	start, err := ParseDateTime(req.StartDate)
	if err != nil {
		return nil, 0, err
	}
	end, err := ParseDateTime(req.EndDate)
	if err != nil {
		return nil, 0, err
	}
	period, err := NewPeriod(start, end)
	if err != nil {
		return nil, 0, err
	}
	return period, OvertimeHours(period.Start, period.End), nil
}

func (s *service) persistSubmission(ctx context.Context, r *Request, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("submit persist failed", zap.Error(err))
		return err
	}

	event := events.RequestSubmittedEvent{
		EventType:   "request_submitted",
		RequestID:   r.ID.String(),
		RequestType: r.RequestType,
		Category:    r.Category,
		EmployeeID:  r.EmployeeID,
		Department:  r.Department,
		OccurredAt:  now,
	}
	if err := s.enqueueEvent(ctx, tx, r, event.EventType, events.RequestSubmittedTopic, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit commit failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) ListMine(ctx context.Context, actor Actor) ([]RequestResponse, error) {
	merged, err := s.fetchBoth(ctx, func(ctx context.Context, requestType string) ([]Request, error) {
		return s.repo.FindByEmployee(ctx, requestType, actor.EmployeeID)
	})
	if err != nil {
		return nil, err
	}
	sortBySubmissionDesc(merged)
	return mapToListResponse(merged, time.Now().UTC()), nil
}

func (s *service) ListPending(ctx context.Context, actor Actor) ([]RequestResponse, error) {
	department, err := approverScope(actor)
	if err != nil {
		return nil, err
	}

	merged, err := s.fetchBoth(ctx, func(ctx context.Context, requestType string) ([]Request, error) {
		return s.repo.FindPendingByDepartment(ctx, requestType, department)
	})
	if err != nil {
		return nil, err
	}
	sortBySubmissionDesc(merged)
	return mapToListResponse(merged, time.Now().UTC()), nil
}

func (s *service) ListAll(ctx context.Context, actor Actor) ([]RequestResponse, error) {
	if actor.Role != RoleHR {
		return nil, requesterrors.ErrHRRoleRequired
	}

	merged, err := s.fetchBoth(ctx, s.repo.FindAll)
	if err != nil {
		return nil, err
	}
	sortBySubmissionDesc(merged)
	return mapToListResponse(merged, time.Now().UTC()), nil
}

func (s *service) ListCancellationRequests(ctx context.Context, actor Actor) ([]RequestResponse, error) {
	department, err := approverScope(actor)
	if err != nil {
		return nil, err
	}

	merged, err := s.fetchBoth(ctx, s.repo.FindCancellationRequested)
	if err != nil {
		return nil, err
	}

	if department != "" {
		scoped := merged[:0]
		for _, r := range merged {
			if r.Department == department {
				scoped = append(scoped, r)
			}
		}
		merged = scoped
	}
	return mapToListResponse(merged, time.Now().UTC()), nil
}

func (s *service) Decide(ctx context.Context, actor Actor, requestType, id, outcome string) (RequestResponse, error) {
	s.logger.Debug("decide request",
		zap.String("request_id", id),
		zap.String("request_type", requestType),
		zap.String("outcome", outcome),
		zap.String("actor", actor.EmployeeID),
	)

	now := time.Now().UTC()
	var decided *Request

	err := s.mutate(ctx, requestType, id, func(r *Request) error {
		if err := s.checkApproverScope(actor, r); err != nil {
			return err
		}
		if err := Decide(r, outcome, actor.Name, now); err != nil {
			s.logger.Warn("decide rejected by workflow",
				zap.String("request_id", id),
				zap.String("status", r.Status),
				zap.Error(err),
			)
			return err
		}
		decided = r
		return nil
	}, func(tx *sql.Tx, r *Request) error {
		event := events.RequestDecidedEvent{
			EventType:   "request_decided",
			RequestID:   r.ID.String(),
			RequestType: r.RequestType,
			Outcome:     outcome,
			DecidedBy:   actor.Name,
			Department:  r.Department,
			OccurredAt:  now,
		}
		return s.enqueueEvent(ctx, tx, r, event.EventType, events.RequestDecidedTopic, event)
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("decide success",
		zap.String("request_id", id),
		zap.String("outcome", outcome),
		zap.String("approved_by", actor.Name),
	)
	return mapToResponse(*decided, now), nil
}

func (s *service) RequestCancellation(ctx context.Context, actor Actor, requestType, id, reason string) (RequestResponse, error) {
	s.logger.Debug("request cancellation",
		zap.String("request_id", id),
		zap.String("request_type", requestType),
		zap.String("actor", actor.EmployeeID),
	)

	now := time.Now().UTC()
	var cancelled *Request

	err := s.mutate(ctx, requestType, id, func(r *Request) error {
		if r.EmployeeID != actor.EmployeeID {
			return requesterrors.ErrNotRequestOwner
		}
		if err := RequestCancellation(r, reason, now, now); err != nil {
			s.logger.Warn("cancellation rejected by workflow",
				zap.String("request_id", id),
				zap.String("status", r.Status),
				zap.Error(err),
			)
			return err
		}
		cancelled = r
		return nil
	}, func(tx *sql.Tx, r *Request) error {
		event := events.CancellationRequestedEvent{
			EventType:   "cancellation_requested",
			RequestID:   r.ID.String(),
			RequestType: r.RequestType,
			EmployeeID:  r.EmployeeID,
			Immediate:   r.Status == StatusCancelled,
			OccurredAt:  now,
		}
		return s.enqueueEvent(ctx, tx, r, event.EventType, events.CancellationRequestedTopic, event)
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("request cancellation success",
		zap.String("request_id", id),
		zap.String("status", cancelled.Status),
		zap.Bool("deferred", cancelled.CancellationRequested),
	)
	return mapToResponse(*cancelled, now), nil
}

func (s *service) DecideCancellation(ctx context.Context, actor Actor, requestType, id string, approve bool) (RequestResponse, error) {
	s.logger.Debug("decide cancellation",
		zap.String("request_id", id),
		zap.String("request_type", requestType),
		zap.Bool("approve", approve),
		zap.String("actor", actor.EmployeeID),
	)

	now := time.Now().UTC()
	var decided *Request

	err := s.mutate(ctx, requestType, id, func(r *Request) error {
		if err := s.checkApproverScope(actor, r); err != nil {
			return err
		}
		if err := DecideCancellation(r, approve, now); err != nil {
			return err
		}
		decided = r
		return nil
	}, func(tx *sql.Tx, r *Request) error {
		event := events.CancellationDecidedEvent{
			EventType:   "cancellation_decided",
			RequestID:   r.ID.String(),
			RequestType: r.RequestType,
			Approved:    approve,
			DecidedBy:   actor.Name,
			OccurredAt:  now,
		}
		return s.enqueueEvent(ctx, tx, r, event.EventType, events.CancellationDecidedTopic, event)
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("decide cancellation success",
		zap.String("request_id", id),
		zap.Bool("approved", approve),
	)
	return mapToResponse(*decided, now), nil
}

// mutate runs the read-check-write cycle for one request inside a
// transaction. There is no version check: two racing approvers both
// succeed and the second write overwrites the first's approval fields.
func (s *service) mutate(
	ctx context.Context,
	requestType, id string,
	apply func(r *Request) error,
	afterApply func(tx *sql.Tx, r *Request) error,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("mutate begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	r, err := qtx.FindByID(ctx, requestType, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return requesterrors.ErrRequestNotFound
		}
		return err
	}

	if err := apply(r); err != nil {
		return err
	}

	if err := qtx.Update(ctx, r); err != nil {
		s.logger.Error("mutate persist failed",
			zap.String("request_id", id),
			zap.Error(err),
		)
		return err
	}

	if afterApply != nil {
		if err := afterApply(tx, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("mutate commit failed", zap.String("request_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, r *Request, eventType, topic string, payload any) error {
	if s.outbox == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal event failed", zap.Error(err))
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "request",
		AggregateID:   r.ID.String(),
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

// fetchBoth reads the leave and overtime tables in parallel; the reads are
// independent and order does not matter.
func (s *service) fetchBoth(
	ctx context.Context,
	fetch func(ctx context.Context, requestType string) ([]Request, error),
) ([]Request, error) {
	g, gctx := errgroup.WithContext(ctx)

	var leaves, overtimes []Request
	g.Go(func() error {
		var err error
		leaves, err = fetch(gctx, TypeLeave)
		return err
	})
	g.Go(func() error {
		var err error
		overtimes, err = fetch(gctx, TypeOvertime)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(leaves, overtimes...), nil
}

func sortBySubmissionDesc(requests []Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].SubmissionDate.After(requests[j].SubmissionDate)
	})
}

func approverScope(actor Actor) (string, error) {
	switch actor.Role {
	case RoleHead:
		return actor.Department, nil
	case RoleHR:
		return "", nil
	default:
		return "", requesterrors.ErrApproverRoleRequired
	}
}

func (s *service) checkApproverScope(actor Actor, r *Request) error {
	department, err := approverScope(actor)
	if err != nil {
		return err
	}
	if department != "" && r.Department != department {
		return requesterrors.ErrDepartmentScope
	}
	return nil
}
