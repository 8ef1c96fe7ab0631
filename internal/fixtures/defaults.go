package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// DefaultLeaveTypes returns the standard leave catalogue seeded on first boot.
func DefaultLeaveTypes() []leave.LeaveType {
	return []leave.LeaveType{
		{Code: "ANNUAL", Name: "Annual Leave", DefaultDaysPerYear: 20, IsPaid: true, ExcludeWeekends: true, IsActive: true},
		{Code: "SICK", Name: "Sick Leave", DefaultDaysPerYear: 14, IsPaid: true, ExcludeWeekends: true, IsActive: true},
		{Code: "MATERNITY", Name: "Maternity Leave", DefaultDaysPerYear: 90, IsPaid: true, ExcludeWeekends: false, IsActive: true},
		{Code: "PATERNITY", Name: "Paternity Leave", DefaultDaysPerYear: 10, IsPaid: true, ExcludeWeekends: true, IsActive: true},
		{Code: "PERSONAL", Name: "Personal Leave", DefaultDaysPerYear: 5, IsPaid: true, ExcludeWeekends: true, IsActive: true},
		{Code: "STUDY", Name: "Study Leave", DefaultDaysPerYear: 5, IsPaid: true, ExcludeWeekends: true, IsActive: true},
		{Code: "EMERGENCY", Name: "Emergency Leave", DefaultDaysPerYear: 3, IsPaid: true, ExcludeWeekends: false, IsActive: true},
		{Code: "UNPAID", Name: "Unpaid Leave", DefaultDaysPerYear: 30, IsPaid: false, ExcludeWeekends: true, IsActive: true},
	}
}

// Seed inserts the default leave types and a bootstrap admin account when
// they are missing. Existing rows are left untouched, so it is safe to run
// on every startup.
func Seed(ctx context.Context, userRepo user.UserRepository, leaveTypeRepo leave.LeaveTypeRepository) error {
	for _, lt := range DefaultLeaveTypes() {
		_, err := leaveTypeRepo.GetByCode(ctx, lt.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return fmt.Errorf("check leave type %s: %w", lt.Code, err)
		}
		if _, err := leaveTypeRepo.Create(ctx, lt); err != nil {
			return fmt.Errorf("seed leave type %s: %w", lt.Code, err)
		}
		slog.Info("seeded leave type", "code", lt.Code)
	}

	return seedAdmin(ctx, userRepo)
}

func seedAdmin(ctx context.Context, userRepo user.UserRepository) error {
	adminIDs, err := userRepo.GetAdminIDs(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	if len(adminIDs) > 0 {
		return nil
	}

	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		slog.Warn("no admin account exists and BOOTSTRAP_ADMIN_EMAIL/PASSWORD are unset, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	_, err = userRepo.Create(ctx, user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}
	slog.Info("seeded bootstrap admin", "email", email)
	return nil
}
