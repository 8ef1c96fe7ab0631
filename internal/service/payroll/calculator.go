package payroll

import (
	"time"

	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// Calculator turns an employee's attendance summary and component
// assignments into a payroll record. All amounts are rounded at the
// configured currency precision.
type Calculator struct {
	cfg config.PayrollConfig
}

func NewCalculator(cfg config.PayrollConfig) Calculator {
	return Calculator{cfg: cfg}
}

func (c Calculator) round(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.cfg.CurrencyPrecision)
}

// HourlyRate derives the hourly rate from a monthly base salary.
func (c Calculator) HourlyRate(baseSalary decimal.Decimal) decimal.Decimal {
	hoursPerMonth := decimal.NewFromInt(int64(c.cfg.WorkingDaysPerMonth * c.cfg.StandardHoursPerDay))
	return baseSalary.Div(hoursPerMonth)
}

// ProratedSalary docks a monthly salary for unexcused absences. Approved
// leave does not reduce pay; only absent days do.
func (c Calculator) ProratedSalary(baseSalary decimal.Decimal, workingDays, daysAbsent int) decimal.Decimal {
	if daysAbsent <= 0 || workingDays <= 0 {
		return c.round(baseSalary)
	}

	payableDays := workingDays - daysAbsent
	if payableDays < 0 {
		payableDays = 0
	}

	prorated := baseSalary.
		Mul(decimal.NewFromInt(int64(payableDays))).
		Div(decimal.NewFromInt(int64(workingDays)))
	return c.round(prorated)
}

// OvertimePay prices overtime minutes at the hourly rate times the
// overtime multiplier.
func (c Calculator) OvertimePay(hourlyRate decimal.Decimal, overtimeMinutes int) decimal.Decimal {
	if overtimeMinutes <= 0 {
		return decimal.Zero
	}

	hours := decimal.NewFromInt(int64(overtimeMinutes)).Div(minutesPerHour)
	return c.round(hourlyRate.Mul(hours).Mul(c.cfg.OvertimeMultiplier))
}

// HourlyBasePay prices regular (non-overtime) worked minutes at the
// hourly rate, for hourly-salaried employees.
func (c Calculator) HourlyBasePay(hourlyRate decimal.Decimal, workingMinutes, overtimeMinutes int) decimal.Decimal {
	regular := workingMinutes - overtimeMinutes
	if regular < 0 {
		regular = 0
	}

	hours := decimal.NewFromInt(int64(regular)).Div(minutesPerHour)
	return c.round(hourlyRate.Mul(hours))
}

// StatutoryDeductions applies each configured flat-rate rule to gross
// pay, honoring per-rule caps.
func (c Calculator) StatutoryDeductions(grossPay decimal.Decimal) (map[string]decimal.Decimal, decimal.Decimal) {
	detail := make(map[string]decimal.Decimal, len(c.cfg.StatutoryRules))
	total := decimal.Zero

	for _, rule := range c.cfg.StatutoryRules {
		amount := grossPay.Mul(rule.Rate)
		if rule.Cap != nil && amount.GreaterThan(*rule.Cap) {
			amount = *rule.Cap
		}
		amount = c.round(amount)
		detail[rule.Name] = amount
		total = total.Add(amount)
	}

	return detail, total
}

// IncomeTax computes progressive marginal tax over the configured
// brackets. Each bracket taxes only the income falling inside it.
func (c Calculator) IncomeTax(taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	for _, bracket := range c.cfg.TaxBrackets {
		upper := taxableIncome
		if bracket.Max != nil && upper.GreaterThan(*bracket.Max) {
			upper = *bracket.Max
		}

		portion := upper.Sub(bracket.Min)
		if portion.LessThanOrEqual(decimal.Zero) {
			continue
		}
		tax = tax.Add(portion.Mul(bracket.Rate))
	}

	return c.round(tax)
}

// WorkingDaysInPeriod counts the weekdays between the period bounds.
func WorkingDaysInPeriod(start, end time.Time) int {
	return leave.CountDays(start, end, true)
}

// BuildRecord assembles a draft payroll record for one employee. Monthly
// salaries are prorated by unexcused absences; hourly salaries are paid
// per worked hour. The returned record is unrounded only in zero fields.
func (c Calculator) BuildRecord(
	emp employee.Employee,
	period string,
	workingDays int,
	summary payroll.AttendanceSummary,
	components []payroll.EmployeeComponent,
) (payroll.Record, error) {
	if emp.BaseSalary.IsZero() {
		return payroll.Record{}, payroll.ErrEmployeeHasNoBaseSalary
	}

	hourlyRate := c.HourlyRate(emp.BaseSalary)

	var prorated decimal.Decimal
	if emp.SalaryType == employee.SalaryTypeHourly {
		prorated = c.HourlyBasePay(hourlyRate, summary.WorkingMinutes, summary.OvertimeMinutes)
	} else {
		prorated = c.ProratedSalary(emp.BaseSalary, workingDays, summary.DaysAbsent)
	}

	overtimePay := c.OvertimePay(hourlyRate, summary.OvertimeMinutes)

	bonus := decimal.Zero
	if summary.PerfectAttendance() {
		bonus = c.round(c.cfg.PerfectAttendanceBonus)
	}

	allowancesDetail := make(map[string]decimal.Decimal)
	deductionsDetail := make(map[string]decimal.Decimal)
	totalAllowances := decimal.Zero
	taxableAllowances := decimal.Zero
	totalDeductions := decimal.Zero

	for _, comp := range components {
		if comp.ComponentType == nil {
			continue
		}
		name := comp.ComponentID
		if comp.ComponentName != nil {
			name = *comp.ComponentName
		}

		amount := c.round(comp.Amount)
		switch *comp.ComponentType {
		case payroll.ComponentTypeAllowance:
			allowancesDetail[name] = allowancesDetail[name].Add(amount)
			totalAllowances = totalAllowances.Add(amount)
			if comp.IsTaxable != nil && *comp.IsTaxable {
				taxableAllowances = taxableAllowances.Add(amount)
			}
		case payroll.ComponentTypeDeduction:
			deductionsDetail[name] = deductionsDetail[name].Add(amount)
			totalDeductions = totalDeductions.Add(amount)
		}
	}

	grossPay := prorated.Add(overtimePay).Add(bonus).Add(totalAllowances)

	statutoryDetail, totalStatutory := c.StatutoryDeductions(grossPay)

	taxable := prorated.Add(overtimePay).Add(bonus).Add(taxableAllowances).Sub(totalStatutory)
	incomeTax := c.IncomeTax(taxable)

	netPay := grossPay.Sub(totalStatutory).Sub(incomeTax).Sub(totalDeductions)

	return payroll.Record{
		EmployeeID:       emp.ID,
		Period:           period,
		BaseSalary:       c.round(emp.BaseSalary),
		ProratedSalary:   prorated,
		OvertimePay:      overtimePay,
		AttendanceBonus:  bonus,
		TotalAllowances:  totalAllowances,
		AllowancesDetail: allowancesDetail,
		GrossPay:         c.round(grossPay),
		StatutoryDetail:  statutoryDetail,
		TotalStatutory:   totalStatutory,
		IncomeTax:        incomeTax,
		TotalDeductions:  totalDeductions,
		DeductionsDetail: deductionsDetail,
		NetPay:           c.round(netPay),
		DaysPresent:      summary.DaysPresent,
		DaysAbsent:       summary.DaysAbsent,
		LateMinutes:      summary.LateMinutes,
		OvertimeMinutes:  summary.OvertimeMinutes,
		Status:           payroll.PayrollStatusDraft,
	}, nil
}
