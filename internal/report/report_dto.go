package report

// DateBasis selects which date the export range filters on.
const (
	BasisStartDate      = "start_date"
	BasisSubmissionDate = "submission_date"
)

type ExportParams struct {
	From      string `form:"from" binding:"required"`
	To        string `form:"to" binding:"required"`
	DateBasis string `form:"date_basis"`
}
