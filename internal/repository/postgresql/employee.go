package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelectColumns = `
	e.id, e.user_id, e.work_location_id, e.staff_code, e.full_name, e.email,
	e.phone_number, e.department, e.position, e.hire_date, e.resignation_date,
	e.employment_status, e.salary_type, e.base_salary,
	e.scheduled_start, e.scheduled_end,
	e.created_at, e.updated_at, e.deleted_at,
	wl.name AS work_location_name
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.UserID,
		&emp.WorkLocationID,
		&emp.StaffCode,
		&emp.FullName,
		&emp.Email,
		&emp.PhoneNumber,
		&emp.Department,
		&emp.Position,
		&emp.HireDate,
		&emp.ResignationDate,
		&emp.EmploymentStatus,
		&emp.SalaryType,
		&emp.BaseSalary,
		&emp.ScheduledStart,
		&emp.ScheduledEnd,
		&emp.CreatedAt,
		&emp.UpdatedAt,
		&emp.DeletedAt,
		&emp.WorkLocationName,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN work_locations wl ON e.work_location_id = wl.id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`, employeeSelectColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	return emp, nil
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN work_locations wl ON e.work_location_id = wl.id
		WHERE e.user_id = $1 AND e.deleted_at IS NULL
	`, employeeSelectColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	return emp, nil
}

// GetByStaffCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByStaffCode(ctx context.Context, staffCode string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN work_locations wl ON e.work_location_id = wl.id
		WHERE e.staff_code = $1 AND e.deleted_at IS NULL
	`, employeeSelectColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, staffCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, user_id, work_location_id, staff_code, full_name, email,
			phone_number, department, position, hire_date,
			employment_status, salary_type, base_salary,
			scheduled_start, scheduled_end
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEmployee.UserID,
		newEmployee.WorkLocationID,
		newEmployee.StaffCode,
		newEmployee.FullName,
		newEmployee.Email,
		newEmployee.PhoneNumber,
		newEmployee.Department,
		newEmployee.Position,
		newEmployee.HireDate,
		newEmployee.EmploymentStatus,
		newEmployee.SalaryType,
		newEmployee.BaseSalary,
		newEmployee.ScheduledStart,
		newEmployee.ScheduledEnd,
	).Scan(&newEmployee.ID, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		return employee.Employee{}, err
	}

	return newEmployee, nil
}

// ExistsByCodeOrEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByCodeOrEmail(ctx context.Context, staffCode, email *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var query string
	var arg interface{}

	switch {
	case staffCode != nil:
		query = `SELECT EXISTS(SELECT 1 FROM employees WHERE staff_code = $1 AND deleted_at IS NULL)`
		arg = *staffCode
	case email != nil:
		query = `SELECT EXISTS(SELECT 1 FROM employees WHERE email = $1 AND deleted_at IS NULL)`
		arg = *email
	default:
		return false, nil
	}

	var exists bool
	err := q.QueryRow(ctx, query, arg).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.FullName != nil {
		updates = append(updates, fmt.Sprintf("full_name = $%d", argIdx))
		args = append(args, *req.FullName)
		argIdx++
	}
	if req.Email != nil {
		updates = append(updates, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *req.Email)
		argIdx++
	}
	if req.PhoneNumber != nil {
		updates = append(updates, fmt.Sprintf("phone_number = $%d", argIdx))
		args = append(args, *req.PhoneNumber)
		argIdx++
	}
	if req.Department != nil {
		updates = append(updates, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *req.Department)
		argIdx++
	}
	if req.Position != nil {
		updates = append(updates, fmt.Sprintf("position = $%d", argIdx))
		args = append(args, *req.Position)
		argIdx++
	}
	if req.WorkLocationID != nil {
		updates = append(updates, fmt.Sprintf("work_location_id = $%d", argIdx))
		args = append(args, *req.WorkLocationID)
		argIdx++
	}
	if req.SalaryType != nil {
		updates = append(updates, fmt.Sprintf("salary_type = $%d", argIdx))
		args = append(args, *req.SalaryType)
		argIdx++
	}
	if req.BaseSalary != nil {
		updates = append(updates, fmt.Sprintf("base_salary = $%d", argIdx))
		args = append(args, *req.BaseSalary)
		argIdx++
	}
	if req.ScheduledStart != nil {
		updates = append(updates, fmt.Sprintf("scheduled_start = $%d", argIdx))
		args = append(args, *req.ScheduledStart)
		argIdx++
	}
	if req.ScheduledEnd != nil {
		updates = append(updates, fmt.Sprintf("scheduled_end = $%d", argIdx))
		args = append(args, *req.ScheduledEnd)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for employee update")
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	sql := "UPDATE employees SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d AND deleted_at IS NULL RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

// Delete implements employee.EmployeeRepository with a soft delete.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id
	`

	var deletedID string
	if err := q.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE e.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		whereClause += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.staff_code ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		whereClause += fmt.Sprintf(" AND e.department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClause += fmt.Sprintf(" AND e.employment_status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM employees e %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN work_locations wl ON e.work_location_id = wl.id
		%s
		ORDER BY e.staff_code ASC
		LIMIT $%d OFFSET $%d
	`, employeeSelectColumns, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}

	return employees, total, rows.Err()
}

// GetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		LEFT JOIN work_locations wl ON e.work_location_id = wl.id
		WHERE e.employment_status = 'active' AND e.deleted_at IS NULL
		ORDER BY e.staff_code ASC
	`, employeeSelectColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// SetEmploymentStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetEmploymentStatus(ctx context.Context, id string, status employee.EmploymentStatus, resignationDate *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET employment_status = $1, resignation_date = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, status, resignationDate, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return err
	}
	return nil
}
