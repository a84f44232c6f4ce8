package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"staff-portal/internal/request"
	requesterrors "staff-portal/internal/request/errors"
	"staff-portal/internal/shared/apperror"
	"staff-portal/internal/shared/contextutil"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sheetName = "Requests"

var headerColumns = []string{
	"Start Date",
	"End Date",
	"Employee Name",
	"Employee ID",
	"Department",
	"Type",
	"Category",
	"Duration",
	"Reason",
	"Status",
	"Submitted",
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Export(ctx context.Context, actor request.Actor, params ExportParams) ([]byte, string, error)
}

type service struct {
	repo   request.Repository
	logger *zap.Logger
}

func NewService(repo request.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Export(ctx context.Context, actor request.Actor, params ExportParams) ([]byte, string, error) {
	if actor.Role != request.RoleHR {
		return nil, "", requesterrors.ErrHRRoleRequired
	}

	from, err := request.ParseDate(params.From)
	if err != nil {
		return nil, "", err
	}
	to, err := request.ParseDate(params.To)
	if err != nil {
		return nil, "", err
	}
	if to.Before(from) {
		return nil, "", requesterrors.ErrEndBeforeStart
	}

	basis := params.DateBasis
	switch basis {
	case "":
		basis = BasisStartDate
	case BasisStartDate, BasisSubmissionDate:
	default:
		return nil, "", apperror.InvalidField("Date basis")
	}

	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("export requested",
		zap.String("from", params.From),
		zap.String("to", params.To),
		zap.String("basis", basis),
	)

	rows, err := s.fetchInRange(ctx, from, to, basis)
	if err != nil {
		log.Error("export fetch failed", zap.Error(err))
		return nil, "", err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].StartDate.Before(rows[j].StartDate)
	})

	data, err := buildWorkbook(rows)
	if err != nil {
		log.Error("export build workbook failed", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("staff_requests_%s_%s.xlsx", params.From, params.To)
	log.Info("export success",
		zap.Int("rows", len(rows)),
		zap.String("filename", filename),
	)
	return data, filename, nil
}

// fetchInRange reads both request tables in parallel and keeps rows whose
// basis date falls inside [from, to], endpoints included.
func (s *service) fetchInRange(ctx context.Context, from, to time.Time, basis string) ([]request.Request, error) {
	g, gctx := errgroup.WithContext(ctx)

	var leaves, overtimes []request.Request
	g.Go(func() error {
		var err error
		leaves, err = s.repo.FindAll(gctx, request.TypeLeave)
		return err
	})
	g.Go(func() error {
		var err error
		overtimes, err = s.repo.FindAll(gctx, request.TypeOvertime)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := append(leaves, overtimes...)
	kept := all[:0]
	for _, r := range all {
		basisDate := r.StartDate
		if basis == BasisSubmissionDate {
			basisDate = r.SubmissionDate
		}
		day := time.Date(basisDate.Year(), basisDate.Month(), basisDate.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(from) || day.After(to) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

func buildWorkbook(rows []request.Request) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E7D32"}},
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range headerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "K1", headerStyle); err != nil {
		return nil, err
	}

	widths := []float64{14, 14, 22, 12, 16, 10, 18, 10, 30, 12, 14}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []interface{}{
			formatScheduleDate(r, r.StartDate),
			formatScheduleDate(r, r.EndDate),
			r.EmployeeName,
			r.EmployeeID,
			r.Department,
			r.RequestType,
			r.Category,
			request.DurationLabel(&r),
			r.Reason,
			r.Status,
			r.SubmissionDate.Format("2006-01-02"),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Overtime periods carry a time of day, shift swaps and leave do not.
func formatScheduleDate(r request.Request, t time.Time) string {
	if r.RequestType == request.TypeOvertime && r.Category != request.CategoryShiftSwap {
		return t.Format("2006-01-02T15:04")
	}
	return t.Format("2006-01-02")
}
