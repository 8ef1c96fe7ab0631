package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Attendance AttendanceConfig
	Face       FaceConfig
	Payroll    PayrollConfig
	Leave      LeaveConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AttendanceConfig holds check-in/check-out evaluation settings.
type AttendanceConfig struct {
	GraceMinutes        int     // lateness and early-departure grace window
	MaxAccuracyMeters   float64 // reported GPS accuracy is clamped to this
	DefaultRadiusMeters float64 // geofence radius when a site has none configured
}

// FaceConfig holds face verification thresholds.
type FaceConfig struct {
	DescriptorLength    int
	SimilarityThreshold float64
	LivenessThreshold   float64
	MinConfidenceScore  float64
}

// TaxBracket is one marginal tax band. Max is nil for the unbounded top band.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Rate decimal.Decimal
}

// StatutoryRule is a flat-rate deduction applied to gross pay, optionally capped.
type StatutoryRule struct {
	Name string
	Rate decimal.Decimal
	Cap  *decimal.Decimal
}

type PayrollConfig struct {
	StandardHoursPerDay    int
	WorkingDaysPerMonth    int
	OvertimeMultiplier     decimal.Decimal
	PerfectAttendanceBonus decimal.Decimal
	PayDateDay             int
	CurrencyPrecision      int32
	TaxBrackets            []TaxBracket
	StatutoryRules         []StatutoryRule
}

type LeaveConfig struct {
	MinReasonLength int
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "staff_backend"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// SMTP configuration (optional; emails are skipped when Host is empty)
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@school.local"),
		FromName: getEnv("SMTP_FROM_NAME", "Staff Management"),
	}

	graceMinutes, err := strconv.Atoi(getEnv("ATTENDANCE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_MINUTES: %w", err)
	}
	maxAccuracy, err := strconv.ParseFloat(getEnv("GEOFENCE_MAX_ACCURACY_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_MAX_ACCURACY_METERS: %w", err)
	}
	defaultRadius, err := strconv.ParseFloat(getEnv("GEOFENCE_DEFAULT_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_DEFAULT_RADIUS_METERS: %w", err)
	}
	config.Attendance = AttendanceConfig{
		GraceMinutes:        graceMinutes,
		MaxAccuracyMeters:   maxAccuracy,
		DefaultRadiusMeters: defaultRadius,
	}

	similarity, err := strconv.ParseFloat(getEnv("FACE_SIMILARITY_THRESHOLD", "0.6"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_SIMILARITY_THRESHOLD: %w", err)
	}
	liveness, err := strconv.ParseFloat(getEnv("FACE_LIVENESS_THRESHOLD", "0.8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_LIVENESS_THRESHOLD: %w", err)
	}
	minConfidence, err := strconv.ParseFloat(getEnv("FACE_MIN_CONFIDENCE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_MIN_CONFIDENCE: %w", err)
	}
	config.Face = FaceConfig{
		DescriptorLength:    128,
		SimilarityThreshold: similarity,
		LivenessThreshold:   liveness,
		MinConfidenceScore:  minConfidence,
	}

	payrollCfg, err := loadPayrollConfig()
	if err != nil {
		return nil, err
	}
	config.Payroll = payrollCfg

	minReason, err := strconv.Atoi(getEnv("LEAVE_MIN_REASON_LENGTH", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_MIN_REASON_LENGTH: %w", err)
	}
	config.Leave = LeaveConfig{MinReasonLength: minReason}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPayrollConfig() (PayrollConfig, error) {
	stdHours, err := strconv.Atoi(getEnv("PAYROLL_STANDARD_HOURS_PER_DAY", "8"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_STANDARD_HOURS_PER_DAY: %w", err)
	}
	workingDays, err := strconv.Atoi(getEnv("PAYROLL_WORKING_DAYS_PER_MONTH", "22"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_WORKING_DAYS_PER_MONTH: %w", err)
	}
	overtime, err := decimal.NewFromString(getEnv("PAYROLL_OVERTIME_MULTIPLIER", "1.5"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_OVERTIME_MULTIPLIER: %w", err)
	}
	bonus, err := decimal.NewFromString(getEnv("PAYROLL_PERFECT_ATTENDANCE_BONUS", "100"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_PERFECT_ATTENDANCE_BONUS: %w", err)
	}
	payDateDay, err := strconv.Atoi(getEnv("PAYROLL_PAY_DATE_DAY", "15"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_PAY_DATE_DAY: %w", err)
	}
	precision, err := strconv.Atoi(getEnv("PAYROLL_CURRENCY_PRECISION", "2"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_CURRENCY_PRECISION: %w", err)
	}

	brackets, err := ParseTaxBrackets(getEnv("PAYROLL_TAX_BRACKETS", "0-10000:0,10000-40000:0.10,40000-:0.20"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_TAX_BRACKETS: %w", err)
	}

	rules, err := ParseStatutoryRules(getEnv("PAYROLL_STATUTORY_RULES", "social_security:0.062:10000,medicare:0.0145:-"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_STATUTORY_RULES: %w", err)
	}

	return PayrollConfig{
		StandardHoursPerDay:    stdHours,
		WorkingDaysPerMonth:    workingDays,
		OvertimeMultiplier:     overtime,
		PerfectAttendanceBonus: bonus,
		PayDateDay:             payDateDay,
		CurrencyPrecision:      int32(precision),
		TaxBrackets:            brackets,
		StatutoryRules:         rules,
	}, nil
}

// ParseTaxBrackets parses "min-max:rate" entries separated by commas.
// An empty max ("40000-:0.20") marks the unbounded top bracket.
func ParseTaxBrackets(s string) ([]TaxBracket, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty bracket list")
	}

	var brackets []TaxBracket
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		rangePart, ratePart, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("malformed bracket %q", entry)
		}
		minPart, maxPart, ok := strings.Cut(rangePart, "-")
		if !ok {
			return nil, fmt.Errorf("malformed bracket range %q", rangePart)
		}

		min, err := decimal.NewFromString(strings.TrimSpace(minPart))
		if err != nil {
			return nil, fmt.Errorf("bracket %q: %w", entry, err)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(ratePart))
		if err != nil {
			return nil, fmt.Errorf("bracket %q: %w", entry, err)
		}

		bracket := TaxBracket{Min: min, Rate: rate}
		if maxPart = strings.TrimSpace(maxPart); maxPart != "" {
			max, err := decimal.NewFromString(maxPart)
			if err != nil {
				return nil, fmt.Errorf("bracket %q: %w", entry, err)
			}
			if max.LessThanOrEqual(min) {
				return nil, fmt.Errorf("bracket %q: max must exceed min", entry)
			}
			bracket.Max = &max
		}
		brackets = append(brackets, bracket)
	}

	// Brackets must be contiguous and ascending; only the last may be unbounded.
	for i := 1; i < len(brackets); i++ {
		prev := brackets[i-1]
		if prev.Max == nil {
			return nil, fmt.Errorf("unbounded bracket must be last")
		}
		if !brackets[i].Min.Equal(*prev.Max) {
			return nil, fmt.Errorf("brackets must be contiguous at %s", brackets[i].Min)
		}
	}

	return brackets, nil
}

// ParseStatutoryRules parses "name:rate:cap" entries separated by commas.
// A cap of "-" means uncapped.
func ParseStatutoryRules(s string) ([]StatutoryRule, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var rules []StatutoryRule
	for _, entry := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed statutory rule %q", entry)
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("statutory rule %q: %w", entry, err)
		}

		rule := StatutoryRule{Name: strings.TrimSpace(parts[0]), Rate: rate}
		if capPart := strings.TrimSpace(parts[2]); capPart != "-" {
			cap, err := decimal.NewFromString(capPart)
			if err != nil {
				return nil, fmt.Errorf("statutory rule %q: %w", entry, err)
			}
			rule.Cap = &cap
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.GraceMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_MINUTES must not be negative")
	}
	if c.Face.SimilarityThreshold <= 0 || c.Face.SimilarityThreshold > 1 {
		return fmt.Errorf("FACE_SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	if c.Face.LivenessThreshold <= 0 || c.Face.LivenessThreshold > 1 {
		return fmt.Errorf("FACE_LIVENESS_THRESHOLD must be in (0, 1]")
	}
	if c.Payroll.StandardHoursPerDay <= 0 {
		return fmt.Errorf("PAYROLL_STANDARD_HOURS_PER_DAY must be positive")
	}
	if c.Payroll.WorkingDaysPerMonth <= 0 {
		return fmt.Errorf("PAYROLL_WORKING_DAYS_PER_MONTH must be positive")
	}
	if len(c.Payroll.TaxBrackets) == 0 {
		return fmt.Errorf("PAYROLL_TAX_BRACKETS is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
