package leave

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffContext(t *testing.T, userID, employeeID string) context.Context {
	t.Helper()

	ja := jwtauth.New("HS256", []byte("leave-test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        string(user.RoleStaff),
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeLeaveTypeRepo struct {
	leave.LeaveTypeRepository
	types map[string]leave.LeaveType
}

func (r *fakeLeaveTypeRepo) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	lt, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

type fakeBalanceRepo struct {
	leave.BalanceRepository
	balances map[string]leave.Balance // keyed by employeeID
}

func (r *fakeBalanceRepo) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	b, ok := r.balances[employeeID]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *fakeBalanceRepo) Upsert(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	r.balances[b.EmployeeID] = b
	return b, nil
}

func (r *fakeBalanceRepo) AddUsedDays(ctx context.Context, employeeID, leaveTypeID string, year, delta int, allowNegative bool) error {
	b, ok := r.balances[employeeID]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if b.RemainingDays-delta < 0 && !allowNegative {
		return leave.ErrInsufficientBalance
	}
	b.UsedDays += delta
	b.RemainingDays -= delta
	r.balances[employeeID] = b
	return nil
}

type fakeRequestRepo struct {
	leave.RequestRepository
	requests    map[string]leave.Request
	overlapping bool
}

func (r *fakeRequestRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	req.ID = "req-1"
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, req leave.Request) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
	return r.overlapping, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
}

func (fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return employee.Employee{ID: id, FullName: "Test Staff"}, nil
}

type fakeAdminLister struct {
	user.UserRepository
}

func (fakeAdminLister) GetAdminIDs(ctx context.Context) ([]string, error) {
	return []string{"admin-1"}, nil
}

type recordingNotifier struct {
	notification.Service
	queued []notification.CreateNotificationRequest
}

func (n *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	n.queued = append(n.queued, req)
	return nil
}

type recordingAuditor struct {
	audit.Service
	events []audit.Event
}

func (a *recordingAuditor) Record(ctx context.Context, event audit.Event) {
	a.events = append(a.events, event)
}

type noopEmail struct {
	email.EmailService
}

func (noopEmail) SendLeaveDecision(to, employeeName, leaveTypeName, startDate, endDate, status string, reviewNote *string) error {
	return nil
}

type leaveFixture struct {
	svc      leave.LeaveService
	types    *fakeLeaveTypeRepo
	balances *fakeBalanceRepo
	requests *fakeRequestRepo
	notifier *recordingNotifier
	auditor  *recordingAuditor
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()

	types := &fakeLeaveTypeRepo{types: map[string]leave.LeaveType{
		"lt-annual": {ID: "lt-annual", Code: "ANNUAL", Name: "Annual Leave", DefaultDaysPerYear: 20, IsPaid: true, IsActive: true},
	}}
	balances := &fakeBalanceRepo{balances: map[string]leave.Balance{}}
	requests := &fakeRequestRepo{requests: map[string]leave.Request{}}
	notifier := &recordingNotifier{}
	auditor := &recordingAuditor{}

	svc := NewLeaveService(
		nil,
		types,
		balances,
		requests,
		fakeEmployeeRepo{},
		fakeAdminLister{},
		notifier,
		auditor,
		noopEmail{},
		config.LeaveConfig{MinReasonLength: 10},
	)

	// run transactional sections directly against the fakes
	svc.(*LeaveServiceImpl).withTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}

	return &leaveFixture{svc: svc, types: types, balances: balances, requests: requests, notifier: notifier, auditor: auditor}
}

func futureDate(daysAhead int) string {
	return time.Now().AddDate(0, 0, daysAhead).Format("2006-01-02")
}

func TestCreateRequest_Success(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := staffContext(t, "user-1", "emp-1")

	resp, err := f.svc.CreateRequest(ctx, leave.CreateRequest{
		LeaveTypeID: "lt-annual",
		StartDate:   futureDate(30),
		EndDate:     futureDate(31),
		Reason:      "family matters out of town",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Positive(t, resp.DaysCount)

	// balance is auto-created from the type default, not yet deducted
	b := f.balances.balances["emp-1"]
	assert.Equal(t, 20, b.EntitledDays)
	assert.Equal(t, 20, b.RemainingDays)

	// admins are notified, submission is audited
	require.Len(t, f.notifier.queued, 1)
	assert.Equal(t, "admin-1", f.notifier.queued[0].RecipientID)
	require.Len(t, f.auditor.events, 1)
	assert.Equal(t, audit.EventLeaveSubmitted, f.auditor.events[0].EventType)
}

func TestCreateRequest_Overlapping(t *testing.T) {
	f := newLeaveFixture(t)
	f.requests.overlapping = true
	ctx := staffContext(t, "user-1", "emp-1")

	_, err := f.svc.CreateRequest(ctx, leave.CreateRequest{
		LeaveTypeID: "lt-annual",
		StartDate:   futureDate(30),
		EndDate:     futureDate(31),
		Reason:      "family matters out of town",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestCreateRequest_InsufficientBalance(t *testing.T) {
	f := newLeaveFixture(t)
	f.balances.balances["emp-1"] = leave.Balance{
		EmployeeID:    "emp-1",
		LeaveTypeID:   "lt-annual",
		Year:          time.Now().AddDate(0, 0, 30).Year(),
		EntitledDays:  20,
		UsedDays:      19,
		RemainingDays: 1,
	}
	ctx := staffContext(t, "user-1", "emp-1")

	_, err := f.svc.CreateRequest(ctx, leave.CreateRequest{
		LeaveTypeID: "lt-annual",
		StartDate:   futureDate(28),
		EndDate:     futureDate(32),
		Reason:      "family matters out of town",
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestCreateRequest_EmergencyOverrideBypassesBalance(t *testing.T) {
	f := newLeaveFixture(t)
	f.balances.balances["emp-1"] = leave.Balance{
		EmployeeID:    "emp-1",
		LeaveTypeID:   "lt-annual",
		Year:          time.Now().AddDate(0, 0, 30).Year(),
		EntitledDays:  20,
		UsedDays:      20,
		RemainingDays: 0,
	}
	ctx := staffContext(t, "user-1", "emp-1")

	reason := "hospitalized family member"
	resp, err := f.svc.CreateRequest(ctx, leave.CreateRequest{
		LeaveTypeID:       "lt-annual",
		StartDate:         futureDate(2),
		EndDate:           futureDate(3),
		Reason:            "urgent family hospitalization",
		EmergencyOverride: true,
		OverrideReason:    &reason,
	})
	require.NoError(t, err)
	assert.True(t, resp.EmergencyOverride)

	// override submissions are flagged at elevated risk
	require.Len(t, f.auditor.events, 1)
	assert.Equal(t, audit.RiskMedium, f.auditor.events[0].RiskLevel)
}

func TestCreateRequest_NoEmployeeProfile(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := staffContext(t, "user-1", "")

	_, err := f.svc.CreateRequest(ctx, leave.CreateRequest{
		LeaveTypeID: "lt-annual",
		StartDate:   futureDate(30),
		EndDate:     futureDate(31),
		Reason:      "family matters out of town",
	})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestApproveRequest_DeductsBalance(t *testing.T) {
	f := newLeaveFixture(t)
	start := time.Now().AddDate(0, 0, 10)
	f.balances.balances["emp-1"] = leave.Balance{
		EmployeeID:    "emp-1",
		LeaveTypeID:   "lt-annual",
		Year:          start.Year(),
		EntitledDays:  20,
		UsedDays:      0,
		RemainingDays: 20,
	}
	f.requests.requests["req-5"] = leave.Request{
		ID:          "req-5",
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-annual",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 1),
		DaysCount:   2,
		Status:      leave.StatusPending,
	}

	resp, err := f.svc.ApproveRequest(context.Background(), leave.DecideRequest{
		ID:         "req-5",
		ReviewerID: "manager-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Status)
	b := f.balances.balances["emp-1"]
	assert.Equal(t, 2, b.UsedDays)
	assert.Equal(t, 18, b.RemainingDays)
}

func TestApproveRequest_RechecksBalance(t *testing.T) {
	f := newLeaveFixture(t)
	start := time.Now().AddDate(0, 0, 10)

	// two non-overlapping 4-day requests both passed the request-time
	// check against a 5-day balance
	f.balances.balances["emp-1"] = leave.Balance{
		EmployeeID:    "emp-1",
		LeaveTypeID:   "lt-annual",
		Year:          start.Year(),
		EntitledDays:  5,
		UsedDays:      0,
		RemainingDays: 5,
	}
	for i, id := range []string{"req-a", "req-b"} {
		s := start.AddDate(0, 0, i*7)
		f.requests.requests[id] = leave.Request{
			ID:          id,
			EmployeeID:  "emp-1",
			LeaveTypeID: "lt-annual",
			StartDate:   s,
			EndDate:     s.AddDate(0, 0, 3),
			DaysCount:   4,
			Status:      leave.StatusPending,
		}
	}

	_, err := f.svc.ApproveRequest(context.Background(), leave.DecideRequest{ID: "req-a", ReviewerID: "manager-1"})
	require.NoError(t, err)

	_, err = f.svc.ApproveRequest(context.Background(), leave.DecideRequest{ID: "req-b", ReviewerID: "manager-1"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	// second request stays pending, balance never goes negative
	assert.Equal(t, leave.StatusPending, f.requests.requests["req-b"].Status)
	assert.Equal(t, 1, f.balances.balances["emp-1"].RemainingDays)
}

func TestApproveRequest_EmergencyOverrideAllowsNegative(t *testing.T) {
	f := newLeaveFixture(t)
	start := time.Now().AddDate(0, 0, 3)
	f.balances.balances["emp-1"] = leave.Balance{
		EmployeeID:    "emp-1",
		LeaveTypeID:   "lt-annual",
		Year:          start.Year(),
		EntitledDays:  5,
		UsedDays:      3,
		RemainingDays: 2,
	}
	reason := "family emergency"
	f.requests.requests["req-e"] = leave.Request{
		ID:                "req-e",
		EmployeeID:        "emp-1",
		LeaveTypeID:       "lt-annual",
		StartDate:         start,
		EndDate:           start.AddDate(0, 0, 3),
		DaysCount:         4,
		Status:            leave.StatusPending,
		EmergencyOverride: true,
		OverrideReason:    &reason,
	}

	resp, err := f.svc.ApproveRequest(context.Background(), leave.DecideRequest{ID: "req-e", ReviewerID: "manager-1"})
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, -2, f.balances.balances["emp-1"].RemainingDays)
}

func TestCancelApprovedRequest_RefundsBeforeStart(t *testing.T) {
	f := newLeaveFixture(t)
	start := time.Now().AddDate(0, 0, 5)
	f.balances.balances["emp-1"] = leave.Balance{
		EmployeeID:    "emp-1",
		LeaveTypeID:   "lt-annual",
		Year:          start.Year(),
		EntitledDays:  20,
		UsedDays:      3,
		RemainingDays: 17,
	}
	f.requests.requests["req-c"] = leave.Request{
		ID:          "req-c",
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-annual",
		StartDate:   time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 2),
		DaysCount:   3,
		Status:      leave.StatusApproved,
	}

	resp, err := f.svc.CancelRequest(staffContext(t, "user-1", "emp-1"), "req-c")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	b := f.balances.balances["emp-1"]
	assert.Equal(t, 0, b.UsedDays)
	assert.Equal(t, 20, b.RemainingDays)
}

func TestCancelApprovedRequest_AlreadyStarted(t *testing.T) {
	f := newLeaveFixture(t)
	now := time.Now()
	todayUTC := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	f.requests.requests["req-s"] = leave.Request{
		ID:          "req-s",
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-annual",
		StartDate:   todayUTC,
		EndDate:     todayUTC.AddDate(0, 0, 2),
		DaysCount:   3,
		Status:      leave.StatusApproved,
	}

	_, err := f.svc.CancelRequest(staffContext(t, "user-1", "emp-1"), "req-s")
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyStarted)
}

func TestRejectRequest(t *testing.T) {
	f := newLeaveFixture(t)
	f.requests.requests["req-9"] = leave.Request{
		ID:          "req-9",
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-annual",
		StartDate:   time.Now().AddDate(0, 0, 10),
		EndDate:     time.Now().AddDate(0, 0, 11),
		DaysCount:   2,
		Status:      leave.StatusPending,
	}

	note := "short staffed that week"
	resp, err := f.svc.RejectRequest(context.Background(), leave.DecideRequest{
		ID:         "req-9",
		ReviewerID: "manager-1",
		Note:       &note,
	})
	require.NoError(t, err)

	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, "manager-1", *resp.ReviewedBy)
	assert.Equal(t, leave.StatusRejected, f.requests.requests["req-9"].Status)
}

func TestRejectRequest_AlreadyProcessed(t *testing.T) {
	f := newLeaveFixture(t)
	f.requests.requests["req-9"] = leave.Request{
		ID:     "req-9",
		Status: leave.StatusRejected,
	}

	_, err := f.svc.RejectRequest(context.Background(), leave.DecideRequest{
		ID:         "req-9",
		ReviewerID: "manager-1",
	})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}
