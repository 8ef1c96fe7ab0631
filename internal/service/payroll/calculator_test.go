package payroll

import (
	"testing"

	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalculator(t *testing.T, statutoryRules string) Calculator {
	t.Helper()

	brackets, err := config.ParseTaxBrackets("0-10000:0,10000-40000:0.10,40000-:0.20")
	require.NoError(t, err)
	rules, err := config.ParseStatutoryRules(statutoryRules)
	require.NoError(t, err)

	return NewCalculator(config.PayrollConfig{
		StandardHoursPerDay:    8,
		WorkingDaysPerMonth:    22,
		OvertimeMultiplier:     decimal.RequireFromString("1.5"),
		PerfectAttendanceBonus: decimal.NewFromInt(100),
		CurrencyPrecision:      2,
		TaxBrackets:            brackets,
		StatutoryRules:         rules,
	})
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIncomeTax(t *testing.T) {
	c := testCalculator(t, "pension:0.10:-")

	tests := []struct {
		name    string
		taxable string
		want    string
	}{
		{"below first threshold", "5000", "0"},
		{"exactly first threshold", "10000", "0"},
		{"inside second bracket", "20000", "1000"},
		{"exactly second threshold", "40000", "3000"},
		{"into top bracket", "50000", "5000"},
		{"zero income", "0", "0"},
		{"negative income", "-100", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.IncomeTax(amount(tt.taxable))
			assert.True(t, amount(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestHourlyRate(t *testing.T) {
	c := testCalculator(t, "pension:0.10:-")

	// 3520 / (22 days * 8 hours) = 20 per hour
	rate := c.HourlyRate(amount("3520"))
	assert.True(t, amount("20").Equal(rate), "got %s", rate)
}

func TestProratedSalary(t *testing.T) {
	c := testCalculator(t, "pension:0.10:-")

	t.Run("no absences keeps full salary", func(t *testing.T) {
		got := c.ProratedSalary(amount("2200"), 22, 0)
		assert.True(t, amount("2200").Equal(got), "got %s", got)
	})

	t.Run("two absences dock two days", func(t *testing.T) {
		got := c.ProratedSalary(amount("2200"), 22, 2)
		assert.True(t, amount("2000").Equal(got), "got %s", got)
	})

	t.Run("absent every day pays nothing", func(t *testing.T) {
		got := c.ProratedSalary(amount("2200"), 22, 22)
		assert.True(t, got.IsZero(), "got %s", got)
	})
}

func TestOvertimePay(t *testing.T) {
	c := testCalculator(t, "pension:0.10:-")

	// 90 minutes at rate 20 with a 1.5 multiplier: 1.5h * 20 * 1.5 = 45
	got := c.OvertimePay(amount("20"), 90)
	assert.True(t, amount("45").Equal(got), "got %s", got)

	assert.True(t, c.OvertimePay(amount("20"), 0).IsZero())
}

func TestHourlyBasePay(t *testing.T) {
	c := testCalculator(t, "pension:0.10:-")

	// 570 worked minutes minus 90 overtime leaves 8 regular hours
	got := c.HourlyBasePay(amount("20"), 570, 90)
	assert.True(t, amount("160").Equal(got), "got %s", got)
}

func TestStatutoryDeductions(t *testing.T) {
	c := testCalculator(t, "social_security:0.062:10000,medicare:0.0145:-")

	t.Run("uncapped rates", func(t *testing.T) {
		detail, total := c.StatutoryDeductions(amount("10000"))
		assert.True(t, amount("620").Equal(detail["social_security"]))
		assert.True(t, amount("145").Equal(detail["medicare"]))
		assert.True(t, amount("765").Equal(total), "got %s", total)
	})

	t.Run("cap limits the deduction", func(t *testing.T) {
		detail, _ := c.StatutoryDeductions(amount("200000"))
		assert.True(t, amount("10000").Equal(detail["social_security"]), "got %s", detail["social_security"])
		assert.True(t, amount("2900").Equal(detail["medicare"]))
	})
}

func monthlyEmployee(base string) employee.Employee {
	return employee.Employee{
		ID:         "emp-1",
		SalaryType: employee.SalaryTypeMonthly,
		BaseSalary: amount(base),
	}
}

func TestBuildRecord(t *testing.T) {
	c := testCalculator(t, "pension:0.10:-")

	t.Run("monthly with full attendance", func(t *testing.T) {
		summary := payroll.AttendanceSummary{DaysPresent: 21, DaysLate: 1}

		record, err := c.BuildRecord(monthlyEmployee("2200"), "2026-03", 22, summary, nil)
		require.NoError(t, err)

		assert.True(t, amount("2200").Equal(record.ProratedSalary), "prorated %s", record.ProratedSalary)
		assert.True(t, record.AttendanceBonus.IsZero(), "a late day forfeits the bonus")
		assert.True(t, amount("2200").Equal(record.GrossPay), "gross %s", record.GrossPay)
		assert.True(t, amount("220").Equal(record.TotalStatutory), "statutory %s", record.TotalStatutory)
		assert.True(t, record.IncomeTax.IsZero(), "taxable below first threshold")
		assert.True(t, amount("1980").Equal(record.NetPay), "net %s", record.NetPay)
		assert.Equal(t, payroll.PayrollStatusDraft, record.Status)
	})

	t.Run("perfect attendance earns the bonus", func(t *testing.T) {
		summary := payroll.AttendanceSummary{DaysPresent: 22}

		record, err := c.BuildRecord(monthlyEmployee("2200"), "2026-03", 22, summary, nil)
		require.NoError(t, err)

		assert.True(t, amount("100").Equal(record.AttendanceBonus))
		assert.True(t, amount("2300").Equal(record.GrossPay), "gross %s", record.GrossPay)
	})

	t.Run("absences prorate the salary", func(t *testing.T) {
		summary := payroll.AttendanceSummary{DaysPresent: 20, DaysAbsent: 2}

		record, err := c.BuildRecord(monthlyEmployee("2200"), "2026-03", 22, summary, nil)
		require.NoError(t, err)

		assert.True(t, amount("2000").Equal(record.ProratedSalary), "prorated %s", record.ProratedSalary)
		assert.Equal(t, 2, record.DaysAbsent)
	})

	t.Run("hourly employee paid per worked hour", func(t *testing.T) {
		emp := employee.Employee{
			ID:         "emp-2",
			SalaryType: employee.SalaryTypeHourly,
			BaseSalary: amount("3520"), // hourly rate 20
		}
		summary := payroll.AttendanceSummary{
			DaysPresent:     1,
			WorkingMinutes:  570,
			OvertimeMinutes: 90,
		}

		record, err := c.BuildRecord(emp, "2026-03", 22, summary, nil)
		require.NoError(t, err)

		assert.True(t, amount("160").Equal(record.ProratedSalary), "base pay %s", record.ProratedSalary)
		assert.True(t, amount("45").Equal(record.OvertimePay), "overtime %s", record.OvertimePay)
	})

	t.Run("components feed allowances and deductions", func(t *testing.T) {
		allowance := payroll.ComponentTypeAllowance
		deduction := payroll.ComponentTypeDeduction
		taxable := false
		transport := "transport"
		canteen := "canteen"

		components := []payroll.EmployeeComponent{
			{ComponentID: "c1", ComponentName: &transport, ComponentType: &allowance, IsTaxable: &taxable, Amount: amount("150")},
			{ComponentID: "c2", ComponentName: &canteen, ComponentType: &deduction, Amount: amount("30")},
		}
		summary := payroll.AttendanceSummary{DaysPresent: 21, DaysLate: 1}

		record, err := c.BuildRecord(monthlyEmployee("2200"), "2026-03", 22, summary, components)
		require.NoError(t, err)

		assert.True(t, amount("150").Equal(record.TotalAllowances))
		assert.True(t, amount("150").Equal(record.AllowancesDetail["transport"]))
		assert.True(t, amount("30").Equal(record.TotalDeductions))
		// gross 2350, pension 235, non-taxable allowance keeps tax at zero
		assert.True(t, amount("2350").Equal(record.GrossPay), "gross %s", record.GrossPay)
		assert.True(t, amount("2085").Equal(record.NetPay), "net %s", record.NetPay)
	})

	t.Run("missing base salary", func(t *testing.T) {
		_, err := c.BuildRecord(employee.Employee{ID: "emp-3"}, "2026-03", 22, payroll.AttendanceSummary{}, nil)
		assert.ErrorIs(t, err, payroll.ErrEmployeeHasNoBaseSalary)
	})
}
