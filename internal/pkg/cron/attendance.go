package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/domain/attendance"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
)

type AttendanceJobs struct {
	attendanceSvc   attendance.AttendanceService
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	userRepo        user.UserRepository
	notificationSvc notification.Service
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	notificationSvc notification.Service,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc:   attendanceSvc,
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_staff", 1*time.Hour, j.MarkAbsentStaff)
	scheduler.AddJob("check_out_reminder", 1*time.Hour, j.SendCheckOutReminders)
}

// MarkAbsentStaff records absences for the previous day. The heavy lifting
// (weekend and approved-leave exclusion) lives in the attendance service so
// manual invocations via the API share the same rules.
func (j *AttendanceJobs) MarkAbsentStaff(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting mark absent staff job")

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	count, err := j.attendanceSvc.MarkAbsentees(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absentees for %s: %w", yesterday, err)
	}

	if count == 0 {
		slog.Info("Cron: No staff to mark absent", "date", yesterday)
		return nil
	}

	if j.notificationSvc != nil {
		adminIDs, err := j.userRepo.GetAdminIDs(ctx)
		if err != nil {
			slog.Error("Cron: Failed to load admins for absence notification", "error", err)
		}
		for _, adminID := range adminIDs {
			qErr := j.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
				RecipientID: adminID,
				Type:        notification.TypeMarkedAbsent,
				Title:       "Staff Marked Absent",
				Message:     fmt.Sprintf("%d staff were marked absent for %s", count, yesterday),
				Data: map[string]interface{}{
					"count": count,
					"date":  yesterday,
				},
			})
			if qErr != nil {
				slog.Warn("Cron: Failed to queue absence notification", "recipient_id", adminID, "error", qErr)
			}
		}
	}

	slog.Info("Cron: Marked absent staff", "count", count, "date", yesterday)
	return nil
}

// SendCheckOutReminders nudges staff who checked in but never checked out.
func (j *AttendanceJobs) SendCheckOutReminders(ctx context.Context) error {
	// Only run in the evening (20:00-20:59 UTC)
	if time.Now().UTC().Hour() != 20 {
		return nil
	}

	if j.notificationSvc == nil {
		return nil
	}

	slog.Info("Cron: Starting check-out reminder job")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	incomplete, err := j.attendanceRepo.GetIncompleteForDate(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to get incomplete attendances: %w", err)
	}

	reminded := 0
	for _, record := range incomplete {
		emp, err := j.employeeRepo.GetByID(ctx, record.EmployeeID)
		if err != nil {
			slog.Error("Cron: Failed to load employee for reminder",
				"employee_id", record.EmployeeID,
				"error", err)
			continue
		}
		if emp.UserID == nil {
			continue
		}

		err = j.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: *emp.UserID,
			Type:        notification.TypeCheckOutReminder,
			Title:       "Check-Out Reminder",
			Message:     "You have not checked out today. Your record will be marked incomplete.",
			Data: map[string]interface{}{
				"attendance_id": record.ID,
				"date":          record.Date.Format("2006-01-02"),
			},
		})
		if err != nil {
			slog.Warn("Cron: Failed to queue check-out reminder", "employee_id", record.EmployeeID, "error", err)
			continue
		}
		reminded++
	}

	slog.Info("Cron: Sent check-out reminders", "count", reminded)
	return nil
}
