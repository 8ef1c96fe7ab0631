package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/domain/report"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// GetMonthlyAttendanceReport implements report.ReportRepository.
func (r *reportRepositoryImpl) GetMonthlyAttendanceReport(ctx context.Context, period string) ([]report.MonthlyAttendanceEmployee, error) {
	q := GetQuerier(ctx, r.db)

	start, err := time.Parse("2006-01", period)
	if err != nil {
		return nil, report.ErrInvalidPeriod
	}
	end := start.AddDate(0, 1, -1)

	employeesQuery := `
		SELECT id, full_name, staff_code,
			   COALESCE(department, ''), COALESCE(position, '')
		FROM employees
		WHERE deleted_at IS NULL
		AND employment_status = 'active'
		ORDER BY staff_code ASC
	`

	rows, err := q.Query(ctx, employeesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees for report: %w", err)
	}
	defer rows.Close()

	var result []report.MonthlyAttendanceEmployee
	for rows.Next() {
		var emp report.MonthlyAttendanceEmployee
		if err := rows.Scan(&emp.EmployeeID, &emp.EmployeeName, &emp.StaffCode, &emp.Department, &emp.Position); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		summary, logs, err := r.getEmployeeAttendanceDetail(ctx, result[i].EmployeeID, start, end)
		if err != nil {
			return nil, err
		}
		result[i].Summary = summary
		result[i].DailyLogs = logs
	}

	return result, nil
}

func (r *reportRepositoryImpl) getEmployeeAttendanceDetail(ctx context.Context, employeeID string, start, end time.Time) (report.AttendanceSummary, []report.AttendanceDailyLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, check_in_time, check_out_time, status,
			   COALESCE(late_minutes, 0), COALESCE(early_departure_minutes, 0),
			   COALESCE(working_minutes, 0), COALESCE(overtime_minutes, 0),
			   risk_level, is_manual
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return report.AttendanceSummary{}, nil, err
	}
	defer rows.Close()

	var summary report.AttendanceSummary
	var logs []report.AttendanceDailyLog

	for rows.Next() {
		var date time.Time
		var checkIn, checkOut *time.Time
		var status, riskLevel string
		var lateMinutes, earlyDepartureMinutes, workingMinutes, overtimeMinutes int
		var isManual bool

		err := rows.Scan(&date, &checkIn, &checkOut, &status,
			&lateMinutes, &earlyDepartureMinutes,
			&workingMinutes, &overtimeMinutes,
			&riskLevel, &isManual)
		if err != nil {
			return report.AttendanceSummary{}, nil, err
		}

		log := report.AttendanceDailyLog{
			Date:                  date.Format("2006-01-02"),
			DayOfWeek:             date.Weekday().String(),
			Status:                status,
			LateMinutes:           lateMinutes,
			EarlyDepartureMinutes: earlyDepartureMinutes,
			RiskLevel:             riskLevel,
			IsManual:              isManual,
		}
		if checkIn != nil {
			s := checkIn.Format("15:04")
			log.CheckIn = &s
		}
		if checkOut != nil {
			s := checkOut.Format("15:04")
			log.CheckOut = &s
		}
		logs = append(logs, log)

		switch status {
		case "present", "late", "early_departure":
			summary.DaysPresent++
			if status == "late" {
				summary.DaysLate++
			}
		case "absent":
			summary.DaysAbsent++
		case "on_leave":
			summary.DaysOnLeave++
		}
		summary.LateMinutes += lateMinutes
		summary.OvertimeMinutes += overtimeMinutes
		summary.TotalWorkHours += float64(workingMinutes) / 60.0
		if riskLevel == "high" {
			summary.HighRiskCount++
		}
	}

	return summary, logs, rows.Err()
}

// GetPayrollSummaryReport implements report.ReportRepository.
func (r *reportRepositoryImpl) GetPayrollSummaryReport(ctx context.Context, period string) ([]report.PayrollSummaryRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.full_name, e.staff_code,
			   COALESCE(e.department, ''), COALESCE(e.position, ''),
			   pr.base_salary, pr.prorated_salary, pr.overtime_pay, pr.attendance_bonus,
			   pr.total_allowances, pr.gross_pay,
			   pr.total_statutory, pr.income_tax,
			   pr.total_deductions - pr.total_statutory - pr.income_tax AS other_deductions,
			   pr.net_pay, pr.status
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.period = $1 AND pr.status <> 'void'
		ORDER BY e.staff_code ASC
	`

	rows, err := q.Query(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll summary: %w", err)
	}
	defer rows.Close()

	var result []report.PayrollSummaryRow
	for rows.Next() {
		var row report.PayrollSummaryRow
		err := rows.Scan(
			&row.EmployeeName, &row.StaffCode,
			&row.Department, &row.Position,
			&row.BaseSalary, &row.ProratedSalary, &row.OvertimePay, &row.AttendanceBonus,
			&row.TotalAllowances, &row.GrossPay,
			&row.TotalStatutory, &row.IncomeTax,
			&row.OtherDeductions,
			&row.NetPay, &row.Status,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// GetLeaveBalanceReport implements report.ReportRepository.
func (r *reportRepositoryImpl) GetLeaveBalanceReport(ctx context.Context, year int) ([]report.LeaveBalanceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.staff_code, e.full_name,
			   COALESCE(e.department, ''), COALESCE(e.position, ''), e.hire_date,
			   lt.name, lt.code,
			   lb.entitled_days, lb.used_days, lb.remaining_days
		FROM leave_balances lb
		JOIN employees e ON lb.employee_id = e.id
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.year = $1 AND e.deleted_at IS NULL
		ORDER BY e.staff_code ASC, lt.code ASC
	`

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave balances: %w", err)
	}
	defer rows.Close()

	var result []report.LeaveBalanceRow
	index := map[string]int{}

	for rows.Next() {
		var employeeID, staffCode, fullName, department, position string
		var hireDate time.Time
		var balance report.LeaveTypeBalance

		err := rows.Scan(
			&employeeID, &staffCode, &fullName,
			&department, &position, &hireDate,
			&balance.LeaveTypeName, &balance.LeaveTypeCode,
			&balance.EntitledDays, &balance.UsedDays, &balance.RemainingDays,
		)
		if err != nil {
			return nil, err
		}

		i, ok := index[employeeID]
		if !ok {
			result = append(result, report.LeaveBalanceRow{
				EmployeeID: employeeID,
				StaffCode:  staffCode,
				FullName:   fullName,
				Department: department,
				Position:   position,
				HireDate:   hireDate.Format("2006-01-02"),
			})
			i = len(result) - 1
			index[employeeID] = i
		}
		result[i].Balances = append(result[i].Balances, balance)
	}

	return result, rows.Err()
}
