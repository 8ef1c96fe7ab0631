package report

import "errors"

var (
	ErrInvalidPeriod          = errors.New("period must be in YYYY-MM format")
	ErrInvalidYear            = errors.New("year must be a valid year")
	ErrNoDataFound            = errors.New("no data found for the specified criteria")
	ErrReportGenerationFailed = errors.New("failed to generate report")
	ErrUnauthorized           = errors.New("unauthorized to access this payslip")
)
