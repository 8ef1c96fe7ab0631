package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/email"
)

// Config holds audit recorder configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type recorder struct {
	repo            audit.Repository
	userRepo        user.UserRepository
	notificationSvc notification.Service
	emailSvc        email.EmailService
	config          Config

	queue  chan audit.Event
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewAuditService creates an audit service with background workers that
// persist events in batches. High risk events additionally alert every
// administrator.
func NewAuditService(
	repo audit.Repository,
	userRepo user.UserRepository,
	notificationSvc notification.Service,
	emailSvc email.EmailService,
	cfg Config,
) audit.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	r := &recorder{
		repo:            repo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		config:          cfg,
		queue:           make(chan audit.Event, cfg.QueueSize),
		stopCh:          make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	slog.Info("audit service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return r
}

func (r *recorder) worker(id int) {
	defer r.wg.Done()

	batch := make([]audit.Event, 0, r.config.BatchSize)
	ticker := time.NewTicker(r.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		events := make([]*audit.Event, len(batch))
		for i := range batch {
			events[i] = &batch[i]
		}

		if err := r.repo.CreateBatch(ctx, events); err != nil {
			slog.Error("failed to batch insert audit events", "worker", id, "error", err)
		} else {
			for _, event := range events {
				if event.RiskLevel == audit.RiskHigh {
					r.alertAdmins(ctx, *event)
				}
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case event := <-r.queue:
			batch = append(batch, event)
			if len(batch) >= r.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-r.stopCh:
			// drain events still buffered in the queue before the
			// final flush so shutdown loses nothing
			for {
				select {
				case event := <-r.queue:
					batch = append(batch, event)
					if len(batch) >= r.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Record implements audit.Service. The event is queued for background
// persistence; when the queue is full it is written directly so the log
// never silently drops entries.
func (r *recorder) Record(ctx context.Context, event audit.Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	select {
	case r.queue <- event:
	default:
		insertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := r.repo.Create(insertCtx, &event); err != nil {
			slog.Error("failed to record audit event",
				"event_type", event.EventType,
				"subject_id", event.SubjectID,
				"error", err,
			)
			return
		}
		if event.RiskLevel == audit.RiskHigh {
			r.alertAdmins(insertCtx, event)
		}
	}
}

// alertAdmins notifies every administrator about a high risk event.
func (r *recorder) alertAdmins(ctx context.Context, event audit.Event) {
	adminIDs, err := r.userRepo.GetAdminIDs(ctx)
	if err != nil {
		slog.Error("failed to get admin ids for security alert", "error", err)
		return
	}

	subject := event.SubjectID
	if employeeID, ok := event.Metadata["employee_id"].(string); ok {
		subject = employeeID
	}
	detail := fmt.Sprintf("High risk event %s on %s %s", event.EventType, event.SubjectType, event.SubjectID)
	date := event.OccurredAt.Format("2006-01-02")

	for _, adminID := range adminIDs {
		qErr := r.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: adminID,
			Type:        notification.TypeSecurityAlert,
			Title:       "Security alert",
			Message:     detail,
			Data: map[string]interface{}{
				"event_type":  string(event.EventType),
				"subject_id":  event.SubjectID,
				"occurred_at": event.OccurredAt.Format(time.RFC3339),
			},
		})
		if qErr != nil {
			slog.Warn("failed to queue security alert notification", "recipient_id", adminID, "event_id", event.ID, "error", qErr)
		}

		admin, err := r.userRepo.GetByID(ctx, adminID)
		if err != nil {
			continue
		}
		if err := r.emailSvc.SendSecurityAlert(admin.Email, subject, date, string(event.RiskLevel), detail); err != nil {
			slog.Warn("failed to send security alert email", "recipient_id", adminID, "event_id", event.ID, "error", err)
		}
	}
}

// ListEvents implements audit.Service.
func (r *recorder) ListEvents(ctx context.Context, filter audit.Filter) (audit.ListEventResponse, error) {
	if err := filter.Validate(); err != nil {
		return audit.ListEventResponse{}, err
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	events, total, err := r.repo.List(ctx, filter)
	if err != nil {
		return audit.ListEventResponse{}, fmt.Errorf("failed to list audit events: %w", err)
	}

	responses := make([]audit.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, mapEventToResponse(event))
	}

	return audit.ListEventResponse{
		Events:     responses,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetEvent implements audit.Service.
func (r *recorder) GetEvent(ctx context.Context, id string) (audit.EventResponse, error) {
	event, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return audit.EventResponse{}, err
	}
	return mapEventToResponse(event), nil
}

// Stop flushes pending events and stops the workers.
func (r *recorder) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	slog.Info("audit service stopped")
}

func mapEventToResponse(event *audit.Event) audit.EventResponse {
	return audit.EventResponse{
		ID:          event.ID,
		ActorID:     event.ActorID,
		EventType:   string(event.EventType),
		SubjectType: event.SubjectType,
		SubjectID:   event.SubjectID,
		RiskLevel:   string(event.RiskLevel),
		IPAddress:   event.IPAddress,
		Metadata:    event.Metadata,
		OccurredAt:  event.OccurredAt,
	}
}
