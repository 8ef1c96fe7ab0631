package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		n.ID,
		n.RecipientID,
		n.SenderID,
		string(n.Type),
		n.Title,
		n.Message,
		dataJSON,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// CreateBatch creates multiple notifications in a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]interface{}, 0, len(notifications)*9)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}

		dataJSON, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}

		base := i * 9
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs,
			n.ID,
			n.RecipientID,
			n.SenderID,
			string(n.Type),
			n.Title,
			n.Message,
			dataJSON,
			n.IsRead,
			n.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, data, is_read, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by its ID
func (r *notificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, recipient_id, sender_id, type, title, message, data, is_read, read_at, created_at
		FROM notifications
		WHERE id = $1
	`

	var n notification.Notification
	var dataJSON []byte

	err := q.QueryRow(ctx, query, id).Scan(
		&n.ID,
		&n.RecipientID,
		&n.SenderID,
		&n.Type,
		&n.Title,
		&n.Message,
		&dataJSON,
		&n.IsRead,
		&n.ReadAt,
		&n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, err
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}

	return &n, nil
}

// GetByUserID retrieves notifications for a user with pagination
func (r *notificationRepository) GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE recipient_id = $1"
	if unreadOnly {
		whereClause += " AND is_read = FALSE"
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM notifications %s`, whereClause)

	var total int
	if err := q.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT id, recipient_id, sender_id, type, title, message, data, is_read, read_at, created_at
		FROM notifications
		%s
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, whereClause)

	rows, err := q.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var dataJSON []byte

		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&n.Type,
			&n.Title,
			&n.Message,
			&dataJSON,
			&n.IsRead,
			&n.ReadAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}

		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}

		notifications = append(notifications, &n)
	}

	return notifications, total, rows.Err()
}

// GetUnreadCount returns the number of unread notifications for a user
func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`

	var count int
	if err := q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAsRead marks the given notifications as read for the user
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE id = ANY($2) AND recipient_id = $3
	`

	_, err := q.Exec(ctx, query, time.Now(), ids, userID)
	return err
}

// MarkAllAsRead marks every unread notification as read for the user
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE recipient_id = $2 AND is_read = FALSE
	`

	_, err := q.Exec(ctx, query, time.Now(), userID)
	return err
}

// Delete removes a notification owned by the user
func (r *notificationRepository) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`

	commandTag, err := q.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// GetPreferences returns all notification preferences for a user
func (r *notificationRepository) GetPreferences(ctx context.Context, userID string) ([]*notification.NotificationPreference, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, notification_type, email_enabled, push_enabled, created_at, updated_at
		FROM notification_preferences
		WHERE user_id = $1
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []*notification.NotificationPreference
	for rows.Next() {
		var p notification.NotificationPreference
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.NotificationType,
			&p.EmailEnabled,
			&p.PushEnabled,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, &p)
	}

	return prefs, rows.Err()
}

// GetPreference returns one preference row for a user and type
func (r *notificationRepository) GetPreference(ctx context.Context, userID string, notifType notification.NotificationType) (*notification.NotificationPreference, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, notification_type, email_enabled, push_enabled, created_at, updated_at
		FROM notification_preferences
		WHERE user_id = $1 AND notification_type = $2
	`

	var p notification.NotificationPreference
	err := q.QueryRow(ctx, query, userID, string(notifType)).Scan(
		&p.ID,
		&p.UserID,
		&p.NotificationType,
		&p.EmailEnabled,
		&p.PushEnabled,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrPreferenceNotFound
		}
		return nil, err
	}

	return &p, nil
}

// UpsertPreference creates or updates a preference row
func (r *notificationRepository) UpsertPreference(ctx context.Context, pref *notification.NotificationPreference) error {
	q := GetQuerier(ctx, r.db)

	if pref.ID == "" {
		pref.ID = uuid.New().String()
	}

	query := `
		INSERT INTO notification_preferences (id, user_id, notification_type, email_enabled, push_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, notification_type) DO UPDATE
		SET email_enabled = EXCLUDED.email_enabled,
			push_enabled = EXCLUDED.push_enabled,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		pref.ID,
		pref.UserID,
		string(pref.NotificationType),
		pref.EmailEnabled,
		pref.PushEnabled,
	)
	return err
}

// IsNotificationEnabled reports whether push delivery is enabled for the
// user and type. Missing preference rows default to enabled.
func (r *notificationRepository) IsNotificationEnabled(ctx context.Context, userID string, notifType notification.NotificationType) (bool, error) {
	pref, err := r.GetPreference(ctx, userID, notifType)
	if err != nil {
		if errors.Is(err, notification.ErrPreferenceNotFound) {
			return true, nil
		}
		return false, err
	}
	return pref.PushEnabled, nil
}
