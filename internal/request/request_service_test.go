package request_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"staff-portal/internal/request"
	requesterrors "staff-portal/internal/request/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRequestRepository struct {
	withTxFn                    func(tx *sql.Tx) request.Repository
	createFn                    func(ctx context.Context, r *request.Request) error
	findByIDFn                  func(ctx context.Context, requestType, id string) (*request.Request, error)
	findByEmployeeFn            func(ctx context.Context, requestType, employeeID string) ([]request.Request, error)
	findPendingByDepartmentFn   func(ctx context.Context, requestType, department string) ([]request.Request, error)
	findCancellationRequestedFn func(ctx context.Context, requestType string) ([]request.Request, error)
	findAllFn                   func(ctx context.Context, requestType string) ([]request.Request, error)
	updateFn                    func(ctx context.Context, r *request.Request) error
}

func (f *fakeRequestRepository) WithTx(tx *sql.Tx) request.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRequestRepository) Create(ctx context.Context, r *request.Request) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRequestRepository) FindByID(ctx context.Context, requestType, id string) (*request.Request, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, requestType, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) FindByEmployee(ctx context.Context, requestType, employeeID string) ([]request.Request, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, requestType, employeeID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) FindPendingByDepartment(ctx context.Context, requestType, department string) ([]request.Request, error) {
	if f.findPendingByDepartmentFn != nil {
		return f.findPendingByDepartmentFn(ctx, requestType, department)
	}
	return nil, nil
}

func (f *fakeRequestRepository) FindCancellationRequested(ctx context.Context, requestType string) ([]request.Request, error) {
	if f.findCancellationRequestedFn != nil {
		return f.findCancellationRequestedFn(ctx, requestType)
	}
	return nil, nil
}

func (f *fakeRequestRepository) FindAll(ctx context.Context, requestType string) ([]request.Request, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, requestType)
	}
	return nil, nil
}

func (f *fakeRequestRepository) Update(ctx context.Context, r *request.Request) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

type requestServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service request.Service
	repo    *fakeRequestRepository
}

func setupRequestServiceTest(t *testing.T) *requestServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRequestRepository{}
	svc := request.NewService(db, repo)

	return &requestServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

var (
	employeeActor = request.Actor{
		UserID:     uuid.New().String(),
		EmployeeID: "EMP-0001",
		Name:       "Noa Field",
		Department: "Operations",
		Position:   "Analyst",
		Role:       request.RoleEmployee,
	}
	headActor = request.Actor{
		UserID:     uuid.New().String(),
		EmployeeID: "EMP-0002",
		Name:       "Dana Head",
		Department: "Operations",
		Role:       request.RoleHead,
	}
	hrActor = request.Actor{
		UserID:     uuid.New().String(),
		EmployeeID: "EMP-0003",
		Name:       "Harper HR",
		Department: "People",
		Role:       request.RoleHR,
	}
)

func TestRequestService_SubmitLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("success computes inclusive day count", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *request.Request
		deps.repo.createFn = func(ctx context.Context, r *request.Request) error {
			created = r
			return nil
		}

		resp, err := deps.service.SubmitLeave(ctx, employeeActor, request.SubmitLeaveRequest{
			LeaveType: "Annual Leave",
			StartDate: "2024-01-10",
			EndDate:   "2024-01-12",
			Reason:    "family trip",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, request.TypeLeave, created.RequestType)
		assert.Equal(t, 3, created.TotalDays)
		assert.Equal(t, employeeActor.Department, created.Department)
		assert.Equal(t, request.StatusPending, resp.Status)
		assert.Equal(t, "3 days", resp.Duration)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("end before start", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.SubmitLeave(ctx, employeeActor, request.SubmitLeaveRequest{
			LeaveType: "Annual Leave",
			StartDate: "2024-01-12",
			EndDate:   "2024-01-10",
			Reason:    "family trip",
		})
		assert.ErrorIs(t, err, requesterrors.ErrEndBeforeStart)
	})

	t.Run("bad date format", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.SubmitLeave(ctx, employeeActor, request.SubmitLeaveRequest{
			LeaveType: "Annual Leave",
			StartDate: "10/01/2024",
			EndDate:   "2024-01-12",
			Reason:    "family trip",
		})
		assert.ErrorIs(t, err, requesterrors.ErrInvalidDateFormat)
	})
}

func TestRequestService_SubmitOvertime(t *testing.T) {
	ctx := context.Background()

	t.Run("overtime computes hours", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *request.Request
		deps.repo.createFn = func(ctx context.Context, r *request.Request) error {
			created = r
			return nil
		}

		resp, err := deps.service.SubmitOvertime(ctx, employeeActor, request.SubmitOvertimeRequest{
			AdjustmentType: "Overtime",
			StartDate:      "2024-01-10T09:00",
			EndDate:        "2024-01-10T17:30",
			Reason:         "release night",
		})

		assert.NoError(t, err)
		assert.Equal(t, 8.5, created.TotalHours)
		assert.Equal(t, "8.5 hours", resp.Duration)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("shift swap allows reversed dates and zero hours", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *request.Request
		deps.repo.createFn = func(ctx context.Context, r *request.Request) error {
			created = r
			return nil
		}

		resp, err := deps.service.SubmitOvertime(ctx, employeeActor, request.SubmitOvertimeRequest{
			AdjustmentType:  request.CategoryShiftSwap,
			OriginalOffDate: "2024-03-20",
			NewOffDate:      "2024-03-01",
			Reason:          "covering a colleague",
		})

		assert.NoError(t, err)
		assert.Equal(t, float64(0), created.TotalHours)
		assert.Equal(t, "Swap", resp.Duration)
		assert.Equal(t, "2024-03-20", resp.OriginalOffDate)
		assert.Equal(t, "2024-03-01", resp.NewOffDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("shift swap requires both off dates", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.SubmitOvertime(ctx, employeeActor, request.SubmitOvertimeRequest{
			AdjustmentType:  request.CategoryShiftSwap,
			OriginalOffDate: "2024-03-20",
			Reason:          "covering a colleague",
		})
		assert.Error(t, err)
	})
}

func TestRequestService_Decide(t *testing.T) {
	ctx := context.Background()

	storedPending := func() *request.Request {
		r := &request.Request{
			ID:          uuid.New(),
			RequestType: request.TypeLeave,
			EmployeeID:  employeeActor.EmployeeID,
			Department:  "Operations",
			Status:      request.StatusPending,
		}
		return r
	}

	t.Run("head approves in own department", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		stored := storedPending()
		deps.repo.findByIDFn = func(ctx context.Context, requestType, id string) (*request.Request, error) {
			return stored, nil
		}

		resp, err := deps.service.Decide(ctx, headActor, request.TypeLeave, stored.ID.String(), request.StatusApproved)
		assert.NoError(t, err)
		assert.Equal(t, request.StatusApproved, resp.Status)
		assert.Equal(t, headActor.Name, resp.ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("head blocked outside own department", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		stored := storedPending()
		stored.Department = "Finance"
		deps.repo.findByIDFn = func(ctx context.Context, requestType, id string) (*request.Request, error) {
			return stored, nil
		}

		_, err := deps.service.Decide(ctx, headActor, request.TypeLeave, stored.ID.String(), request.StatusApproved)
		assert.ErrorIs(t, err, requesterrors.ErrDepartmentScope)
	})

	t.Run("employee cannot decide", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		stored := storedPending()
		deps.repo.findByIDFn = func(ctx context.Context, requestType, id string) (*request.Request, error) {
			return stored, nil
		}

		_, err := deps.service.Decide(ctx, employeeActor, request.TypeLeave, stored.ID.String(), request.StatusApproved)
		assert.ErrorIs(t, err, requesterrors.ErrApproverRoleRequired)
	})

	t.Run("missing request", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, hrActor, request.TypeLeave, uuid.New().String(), request.StatusApproved)
		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
	})
}

func TestRequestService_RequestCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels own pending request", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		stored := &request.Request{
			ID:          uuid.New(),
			RequestType: request.TypeLeave,
			EmployeeID:  employeeActor.EmployeeID,
			Department:  "Operations",
			Status:      request.StatusPending,
		}
		deps.repo.findByIDFn = func(ctx context.Context, requestType, id string) (*request.Request, error) {
			return stored, nil
		}

		resp, err := deps.service.RequestCancellation(ctx, employeeActor, request.TypeLeave, stored.ID.String(), "no longer needed")
		assert.NoError(t, err)
		assert.Equal(t, request.StatusCancelled, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		stored := &request.Request{
			ID:          uuid.New(),
			RequestType: request.TypeLeave,
			EmployeeID:  "EMP-9999",
			Status:      request.StatusPending,
		}
		deps.repo.findByIDFn = func(ctx context.Context, requestType, id string) (*request.Request, error) {
			return stored, nil
		}

		_, err := deps.service.RequestCancellation(ctx, employeeActor, request.TypeLeave, stored.ID.String(), "mine now")
		assert.ErrorIs(t, err, requesterrors.ErrNotRequestOwner)
	})
}

func TestRequestService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("list mine merges both tables newest first", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		older := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		newer := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

		deps.repo.findByEmployeeFn = func(ctx context.Context, requestType, employeeID string) ([]request.Request, error) {
			if requestType == request.TypeLeave {
				return []request.Request{{ID: uuid.New(), RequestType: requestType, Category: "Annual Leave", SubmissionDate: older, Status: request.StatusPending}}, nil
			}
			return []request.Request{{ID: uuid.New(), RequestType: requestType, Category: "Overtime", SubmissionDate: newer, Status: request.StatusPending}}, nil
		}

		resp, err := deps.service.ListMine(ctx, employeeActor)
		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Overtime", resp[0].Category)
		assert.Equal(t, "Annual Leave", resp[1].Category)
	})

	t.Run("pending list scoped to head department", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		// Both tables are read concurrently, so guard the recording.
		var mu sync.Mutex
		var seenDepartments []string
		deps.repo.findPendingByDepartmentFn = func(ctx context.Context, requestType, department string) ([]request.Request, error) {
			mu.Lock()
			seenDepartments = append(seenDepartments, department)
			mu.Unlock()
			return nil, nil
		}

		_, err := deps.service.ListPending(ctx, headActor)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Operations", "Operations"}, seenDepartments)
	})

	t.Run("pending list rejects plain employees", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListPending(ctx, employeeActor)
		assert.ErrorIs(t, err, requesterrors.ErrApproverRoleRequired)
	})

	t.Run("list all is HR only", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListAll(ctx, headActor)
		assert.ErrorIs(t, err, requesterrors.ErrHRRoleRequired)
	})

	t.Run("cancellation list filtered by head department", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		deps.repo.findCancellationRequestedFn = func(ctx context.Context, requestType string) ([]request.Request, error) {
			if requestType == request.TypeOvertime {
				return nil, nil
			}
			return []request.Request{
				{ID: uuid.New(), RequestType: requestType, Department: "Operations", Status: request.StatusApproved, CancellationRequested: true},
				{ID: uuid.New(), RequestType: requestType, Department: "Finance", Status: request.StatusApproved, CancellationRequested: true},
			}, nil
		}

		resp, err := deps.service.ListCancellationRequests(ctx, headActor)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Operations", resp[0].Department)
	})
}
