package request

import (
	"context"
	"database/sql"

	requesterrors "staff-portal/internal/request/errors"

	"gorm.io/gorm"
)

// Repository reads and writes the two request tables. Every method takes
// the request type to select leave_requests or overtime_requests, mirroring
// the split persisted layout.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *Request) error
	FindByID(ctx context.Context, requestType, id string) (*Request, error)
	FindByEmployee(ctx context.Context, requestType, employeeID string) ([]Request, error)
	FindPendingByDepartment(ctx context.Context, requestType, department string) ([]Request, error)
	FindCancellationRequested(ctx context.Context, requestType string) ([]Request, error)
	FindAll(ctx context.Context, requestType string) ([]Request, error)
	Update(ctx context.Context, req *Request) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func tableFor(requestType string) (string, error) {
	switch requestType {
	case TypeLeave:
		return "leave_requests", nil
	case TypeOvertime:
		return "overtime_requests", nil
	default:
		return "", requesterrors.ErrInvalidRequestType
	}
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	table, err := tableFor(req.RequestType)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, requestType, id string) (*Request, error) {
	table, err := tableFor(requestType)
	if err != nil {
		return nil, err
	}
	var req Request
	err = r.db.WithContext(ctx).Table(table).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	req.RequestType = requestType
	return &req, nil
}

func (r *repository) FindByEmployee(ctx context.Context, requestType, employeeID string) ([]Request, error) {
	table, err := tableFor(requestType)
	if err != nil {
		return nil, err
	}
	var requests []Request
	err = r.db.WithContext(ctx).Table(table).
		Where("employee_id = ?", employeeID).
		Order("submission_date DESC").
		Find(&requests).Error
	return tagType(requests, requestType), err
}

// FindPendingByDepartment with an empty department returns pending requests
// across all departments (the HR view).
func (r *repository) FindPendingByDepartment(ctx context.Context, requestType, department string) ([]Request, error) {
	table, err := tableFor(requestType)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx).Table(table).
		Where("status = ?", StatusPending)
	if department != "" {
		db = db.Where("department = ?", department)
	}

	var requests []Request
	err = db.Order("submission_date ASC").Find(&requests).Error
	return tagType(requests, requestType), err
}

func (r *repository) FindCancellationRequested(ctx context.Context, requestType string) ([]Request, error) {
	table, err := tableFor(requestType)
	if err != nil {
		return nil, err
	}
	var requests []Request
	err = r.db.WithContext(ctx).Table(table).
		Where("cancellation_requested = ?", true).
		Order("cancellation_date ASC").
		Find(&requests).Error
	return tagType(requests, requestType), err
}

func (r *repository) FindAll(ctx context.Context, requestType string) ([]Request, error) {
	table, err := tableFor(requestType)
	if err != nil {
		return nil, err
	}
	var requests []Request
	err = r.db.WithContext(ctx).Table(table).
		Order("submission_date DESC").
		Find(&requests).Error
	return tagType(requests, requestType), err
}

func (r *repository) Update(ctx context.Context, req *Request) error {
	table, err := tableFor(req.RequestType)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Save(req).Error
}

func tagType(requests []Request, requestType string) []Request {
	for i := range requests {
		requests[i].RequestType = requestType
	}
	return requests
}
