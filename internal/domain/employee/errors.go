package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrStaffCodeExists         = errors.New("staff code already exists")
	ErrEmailExists             = errors.New("email already registered")
	ErrInvalidStaffCode        = errors.New("invalid staff code format")
	ErrInvalidSalaryType       = errors.New("salary type must be monthly or hourly")
	ErrFutureDateNotAllowed    = errors.New("date cannot be in the future")
	ErrUnauthorized            = errors.New("unauthorized to access this employee")
	ErrEmployeeInactive        = errors.New("employee is not active")
	ErrEmployeeAlreadyActive   = errors.New("employee is already active")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrNoBaseSalary            = errors.New("employee has no base salary configured")
)
