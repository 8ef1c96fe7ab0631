package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditRepo struct {
	mu     sync.Mutex
	events []*audit.Event
}

func (f *fakeAuditRepo) Create(ctx context.Context, event *audit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAuditRepo) CreateBatch(ctx context.Context, events []*audit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeAuditRepo) GetByID(ctx context.Context, id string) (*audit.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range f.events {
		if event.ID == id {
			return event, nil
		}
	}
	return nil, audit.ErrEventNotFound
}

func (f *fakeAuditRepo) List(ctx context.Context, filter audit.Filter) ([]*audit.Event, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events, int64(len(f.events)), nil
}

func (f *fakeAuditRepo) CountByRiskSince(ctx context.Context, level audit.RiskLevel, days int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, event := range f.events {
		if event.RiskLevel == level {
			count++
		}
	}
	return count, nil
}

func (f *fakeAuditRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeUserRepo struct {
	admins map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.admins[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	return newUser, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return nil
}

func (f *fakeUserRepo) GetAdminIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.admins))
	for id := range f.admins {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeNotifier struct {
	notification.Service

	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
}

func (f *fakeNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeNotifier) captured() []notification.CreateNotificationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification.CreateNotificationRequest(nil), f.sent...)
}

type fakeMailer struct {
	mu     sync.Mutex
	alerts []string
}

func (f *fakeMailer) SendLeaveDecision(to, employeeName, leaveTypeName, startDate, endDate, status string, reviewNote *string) error {
	return nil
}

func (f *fakeMailer) SendSecurityAlert(to, employeeName, date, riskLevel, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, to)
	return nil
}

func (f *fakeMailer) SendPayslipReady(to, employeeName, period string) error {
	return nil
}

func (f *fakeMailer) alertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

func newTestRecorder(repo *fakeAuditRepo, notifier *fakeNotifier, mailer *fakeMailer, flushInterval time.Duration) audit.Service {
	users := &fakeUserRepo{
		admins: map[string]user.User{
			"admin-1": {ID: "admin-1", Email: "admin@example.com", Role: user.RoleAdmin},
		},
	}
	return NewAuditService(repo, users, notifier, mailer, Config{
		BatchSize:     10,
		FlushInterval: flushInterval,
		WorkerCount:   1,
		QueueSize:     100,
	})
}

func TestRecordPersistsEvents(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := newTestRecorder(repo, &fakeNotifier{}, &fakeMailer{}, 10*time.Millisecond)
	defer svc.Stop()

	actor := "user-1"
	svc.Record(context.Background(), audit.Event{
		ActorID:     &actor,
		EventType:   audit.EventCheckIn,
		SubjectType: "attendance",
		SubjectID:   "att-1",
		RiskLevel:   audit.RiskLow,
	})

	require.Eventually(t, func() bool {
		return repo.count() == 1
	}, time.Second, 10*time.Millisecond)

	event, err := repo.GetByID(context.Background(), repo.events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, audit.EventCheckIn, event.EventType)
	assert.False(t, event.OccurredAt.IsZero(), "OccurredAt defaults to now")
}

func TestStopFlushesPendingEvents(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := newTestRecorder(repo, &fakeNotifier{}, &fakeMailer{}, time.Minute)

	for i := 0; i < 3; i++ {
		svc.Record(context.Background(), audit.Event{
			EventType:   audit.EventMarkedAbsent,
			SubjectType: "attendance",
			SubjectID:   "2026-03-02",
			RiskLevel:   audit.RiskLow,
		})
	}

	svc.Stop()
	assert.Equal(t, 3, repo.count())
}

func TestHighRiskEventAlertsAdmins(t *testing.T) {
	repo := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{}
	svc := newTestRecorder(repo, notifier, mailer, 10*time.Millisecond)
	defer svc.Stop()

	svc.Record(context.Background(), audit.Event{
		EventType:   audit.EventManualEntry,
		SubjectType: "attendance",
		SubjectID:   "att-2",
		RiskLevel:   audit.RiskHigh,
		Metadata:    map[string]interface{}{"employee_id": "emp-1"},
	})

	require.Eventually(t, func() bool {
		return len(notifier.captured()) == 1 && mailer.alertCount() == 1
	}, time.Second, 10*time.Millisecond)

	sent := notifier.captured()[0]
	assert.Equal(t, "admin-1", sent.RecipientID)
	assert.Equal(t, notification.TypeSecurityAlert, sent.Type)
}

func TestLowRiskEventDoesNotAlert(t *testing.T) {
	repo := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{}
	svc := newTestRecorder(repo, notifier, mailer, 10*time.Millisecond)

	svc.Record(context.Background(), audit.Event{
		EventType:   audit.EventCheckIn,
		SubjectType: "attendance",
		SubjectID:   "att-3",
		RiskLevel:   audit.RiskLow,
	})
	svc.Stop()

	assert.Empty(t, notifier.captured())
	assert.Zero(t, mailer.alertCount())
}

func TestListEvents(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := newTestRecorder(repo, &fakeNotifier{}, &fakeMailer{}, time.Minute)

	svc.Record(context.Background(), audit.Event{
		EventType:   audit.EventUserLogin,
		SubjectType: "user",
		SubjectID:   "user-1",
		RiskLevel:   audit.RiskLow,
	})
	svc.Stop()

	resp, err := svc.ListEvents(context.Background(), audit.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalItems)
	assert.Equal(t, "user.login", resp.Events[0].EventType)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}

func TestListEventsRejectsBadRiskLevel(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := newTestRecorder(repo, &fakeNotifier{}, &fakeMailer{}, time.Minute)
	defer svc.Stop()

	bad := "critical"
	_, err := svc.ListEvents(context.Background(), audit.Filter{RiskLevel: &bad})
	assert.Error(t, err)
}
