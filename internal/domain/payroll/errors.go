package payroll

import "errors"

var (
	ErrComponentNotFound         = errors.New("payroll component not found")
	ErrComponentNameExists       = errors.New("payroll component name already exists")
	ErrEmployeeComponentNotFound = errors.New("employee component assignment not found")
	ErrInvalidComponentType      = errors.New("invalid component type")
	ErrRecordNotFound            = errors.New("payroll record not found")
	ErrRecordAlreadyExists       = errors.New("payroll record already exists for this period")
	ErrRecordNotDraft            = errors.New("payroll record is not in draft status")
	ErrRecordAlreadyPaid         = errors.New("payroll record already paid, cannot modify")
	ErrRecordNotPaid             = errors.New("payroll record is not paid, corrections apply to paid records only")
	ErrIncompleteAttendance      = errors.New("employee has incomplete attendance records in the period")
	ErrRecordVoided              = errors.New("payroll record has been voided")
	ErrInvalidPeriod             = errors.New("invalid payroll period, expected YYYY-MM")
	ErrEmployeeHasNoBaseSalary   = errors.New("employee has no base salary configured")
	ErrUnauthorized              = errors.New("unauthorized to access this payroll record")
)
