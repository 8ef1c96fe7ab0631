package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/schoolworks/staff-backend-go/internal/domain/payroll"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

// detail maps are stored as JSONB

func marshalDetail(detail map[string]decimal.Decimal) ([]byte, error) {
	if detail == nil {
		detail = map[string]decimal.Decimal{}
	}
	return json.Marshal(detail)
}

func unmarshalDetail(raw []byte) (map[string]decimal.Decimal, error) {
	detail := map[string]decimal.Decimal{}
	if len(raw) == 0 {
		return detail, nil
	}
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// ========== COMPONENTS ==========

func (r *payrollRepositoryImpl) CreateComponent(ctx context.Context, component payroll.Component) (payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_components (id, name, type, description, is_taxable, is_active)
		VALUES (uuidv7(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		component.Name,
		component.Type,
		component.Description,
		component.IsTaxable,
		component.IsActive,
	).Scan(&component.ID, &component.CreatedAt, &component.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Component{}, payroll.ErrComponentNameExists
		}
		return payroll.Component{}, err
	}

	return component, nil
}

func (r *payrollRepositoryImpl) GetComponentByID(ctx context.Context, id string) (payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, type, description, is_taxable, is_active, created_at, updated_at
		FROM payroll_components
		WHERE id = $1
	`

	var c payroll.Component
	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Type, &c.Description, &c.IsTaxable, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Component{}, payroll.ErrComponentNotFound
		}
		return payroll.Component{}, err
	}

	return c, nil
}

func (r *payrollRepositoryImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, type, description, is_taxable, is_active, created_at, updated_at
		FROM payroll_components
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []payroll.Component
	for rows.Next() {
		var c payroll.Component
		err := rows.Scan(
			&c.ID, &c.Name, &c.Type, &c.Description, &c.IsTaxable, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}

	return components, rows.Err()
}

func (r *payrollRepositoryImpl) UpdateComponent(ctx context.Context, req payroll.UpdateComponentRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Description != nil {
		updates = append(updates, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *req.Description)
		argIdx++
	}
	if req.IsTaxable != nil {
		updates = append(updates, fmt.Sprintf("is_taxable = $%d", argIdx))
		args = append(args, *req.IsTaxable)
		argIdx++
	}
	if req.IsActive != nil {
		updates = append(updates, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for payroll component update")
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, req.ID)

	sql := "UPDATE payroll_components SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrComponentNotFound
		}
		return err
	}
	return nil
}

func (r *payrollRepositoryImpl) DeleteComponent(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_components WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.ErrComponentNotFound
	}
	return nil
}

// ========== EMPLOYEE COMPONENTS ==========

func (r *payrollRepositoryImpl) AssignComponent(ctx context.Context, assignment payroll.EmployeeComponent) (payroll.EmployeeComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_payroll_components (id, employee_id, component_id, amount, effective_date, end_date)
		VALUES (uuidv7(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.EmployeeID,
		assignment.ComponentID,
		assignment.Amount,
		assignment.EffectiveDate,
		assignment.EndDate,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return payroll.EmployeeComponent{}, err
	}

	return assignment, nil
}

func (r *payrollRepositoryImpl) GetEmployeeComponents(ctx context.Context, employeeID string, activeOnly bool) ([]payroll.EmployeeComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT epc.id, epc.employee_id, epc.component_id, epc.amount,
			   epc.effective_date, epc.end_date, epc.created_at, epc.updated_at,
			   pc.name AS component_name, pc.type AS component_type, pc.is_taxable
		FROM employee_payroll_components epc
		JOIN payroll_components pc ON epc.component_id = pc.id
		WHERE epc.employee_id = $1
	`
	if activeOnly {
		query += " AND pc.is_active = TRUE AND (epc.end_date IS NULL OR epc.end_date >= CURRENT_DATE)"
	}
	query += " ORDER BY pc.name ASC"

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []payroll.EmployeeComponent
	for rows.Next() {
		var a payroll.EmployeeComponent
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.ComponentID, &a.Amount,
			&a.EffectiveDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt,
			&a.ComponentName, &a.ComponentType, &a.IsTaxable,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func (r *payrollRepositoryImpl) RemoveEmployeeComponent(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM employee_payroll_components WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.ErrEmployeeComponentNotFound
	}
	return nil
}

// ========== RECORDS ==========

const payrollRecordSelectColumns = `
	pr.id, pr.employee_id, pr.period,
	pr.base_salary, pr.prorated_salary, pr.overtime_pay, pr.attendance_bonus,
	pr.total_allowances, pr.allowances_detail,
	pr.gross_pay,
	pr.statutory_detail, pr.total_statutory, pr.income_tax,
	pr.total_deductions, pr.deductions_detail,
	pr.net_pay,
	pr.days_present, pr.days_absent, pr.late_minutes, pr.overtime_minutes,
	pr.status, pr.paid_at, pr.paid_by, pr.voided_at, pr.voided_by, pr.void_reason,
	pr.correction_of_id, pr.generated_by, pr.notes,
	pr.created_at, pr.updated_at,
	e.full_name AS employee_name, e.staff_code, e.department, e.position
`

func scanPayrollRecord(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	var allowancesRaw, statutoryRaw, deductionsRaw []byte

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Period,
		&rec.BaseSalary, &rec.ProratedSalary, &rec.OvertimePay, &rec.AttendanceBonus,
		&rec.TotalAllowances, &allowancesRaw,
		&rec.GrossPay,
		&statutoryRaw, &rec.TotalStatutory, &rec.IncomeTax,
		&rec.TotalDeductions, &deductionsRaw,
		&rec.NetPay,
		&rec.DaysPresent, &rec.DaysAbsent, &rec.LateMinutes, &rec.OvertimeMinutes,
		&rec.Status, &rec.PaidAt, &rec.PaidBy, &rec.VoidedAt, &rec.VoidedBy, &rec.VoidReason,
		&rec.CorrectionOfID, &rec.GeneratedBy, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.StaffCode, &rec.Department, &rec.Position,
	)
	if err != nil {
		return payroll.Record{}, err
	}

	if rec.AllowancesDetail, err = unmarshalDetail(allowancesRaw); err != nil {
		return payroll.Record{}, err
	}
	if rec.StatutoryDetail, err = unmarshalDetail(statutoryRaw); err != nil {
		return payroll.Record{}, err
	}
	if rec.DeductionsDetail, err = unmarshalDetail(deductionsRaw); err != nil {
		return payroll.Record{}, err
	}

	return rec, nil
}

func (r *payrollRepositoryImpl) CreateRecord(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	allowancesRaw, err := marshalDetail(record.AllowancesDetail)
	if err != nil {
		return payroll.Record{}, err
	}
	statutoryRaw, err := marshalDetail(record.StatutoryDetail)
	if err != nil {
		return payroll.Record{}, err
	}
	deductionsRaw, err := marshalDetail(record.DeductionsDetail)
	if err != nil {
		return payroll.Record{}, err
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, period,
			base_salary, prorated_salary, overtime_pay, attendance_bonus,
			total_allowances, allowances_detail,
			gross_pay,
			statutory_detail, total_statutory, income_tax,
			total_deductions, deductions_detail,
			net_pay,
			days_present, days_absent, late_minutes, overtime_minutes,
			status, correction_of_id, generated_by, notes
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5, $6,
			$7, $8,
			$9,
			$10, $11, $12,
			$13, $14,
			$15,
			$16, $17, $18, $19,
			$20, $21, $22, $23
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		record.EmployeeID, record.Period,
		record.BaseSalary, record.ProratedSalary, record.OvertimePay, record.AttendanceBonus,
		record.TotalAllowances, allowancesRaw,
		record.GrossPay,
		statutoryRaw, record.TotalStatutory, record.IncomeTax,
		record.TotalDeductions, deductionsRaw,
		record.NetPay,
		record.DaysPresent, record.DaysAbsent, record.LateMinutes, record.OvertimeMinutes,
		record.Status, record.CorrectionOfID, record.GeneratedBy, record.Notes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Record{}, payroll.ErrRecordAlreadyExists
		}
		return payroll.Record{}, err
	}

	return record, nil
}

func (r *payrollRepositoryImpl) GetRecordByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1
	`, payrollRecordSelectColumns)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, err
	}

	return rec, nil
}

func (r *payrollRepositoryImpl) GetRecordByEmployeePeriod(ctx context.Context, employeeID, period string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.employee_id = $1 AND pr.period = $2 AND pr.status <> 'void'
	`, payrollRecordSelectColumns)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, period))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, err
	}

	return rec, nil
}

func (r *payrollRepositoryImpl) ListRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Period != nil && *filter.Period != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("pr.period = $%d", argIdx))
		args = append(args, *filter.Period)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("pr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("pr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("e.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		%s
	`, whereClause)

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
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		%s
		ORDER BY pr.period DESC, e.staff_code ASC
		LIMIT $%d OFFSET $%d
	`, payrollRecordSelectColumns, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

func (r *payrollRepositoryImpl) UpdateRecord(ctx context.Context, record payroll.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = $1, paid_at = $2, paid_by = $3,
			voided_at = $4, voided_by = $5, void_reason = $6,
			notes = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		record.Status, record.PaidAt, record.PaidBy,
		record.VoidedAt, record.VoidedBy, record.VoidReason,
		record.Notes, record.ID,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrRecordNotFound
		}
		return err
	}
	return nil
}

func (r *payrollRepositoryImpl) MarkRecordsPaid(ctx context.Context, ids []string, paidBy string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'paid', paid_at = NOW(), paid_by = $1, updated_at = NOW()
		WHERE id = ANY($2) AND status = 'draft'
	`

	commandTag, err := q.Exec(ctx, query, paidBy, ids)
	if err != nil {
		return err
	}
	if int(commandTag.RowsAffected()) != len(ids) {
		return payroll.ErrRecordNotDraft
	}
	return nil
}

func (r *payrollRepositoryImpl) DeleteRecord(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_records WHERE id = $1 AND status = 'draft'`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.ErrRecordNotFound
	}
	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepositoryImpl) GetPeriodTotals(ctx context.Context, period string) (payroll.PeriodTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS employee_count,
			COALESCE(SUM(gross_pay), 0) AS total_gross,
			COALESCE(SUM(income_tax), 0) AS total_tax,
			COALESCE(SUM(net_pay), 0) AS total_net,
			COUNT(*) FILTER (WHERE status = 'draft') AS draft_count,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_count
		FROM payroll_records
		WHERE period = $1 AND status <> 'void'
	`

	totals := payroll.PeriodTotals{Period: period}
	err := q.QueryRow(ctx, query, period).Scan(
		&totals.EmployeeCount,
		&totals.TotalGross,
		&totals.TotalTax,
		&totals.TotalNet,
		&totals.DraftCount,
		&totals.PaidCount,
	)
	if err != nil {
		return payroll.PeriodTotals{}, err
	}

	return totals, nil
}
