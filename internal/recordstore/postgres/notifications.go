// internal/recordstore/postgres/notifications.go
package postgres

import (
	"context"
	"fmt"

	"reclaim/internal/lostfound"
)

// AppendNotification inserts a notification record.
func (s *Store) AppendNotification(ctx context.Context, n *lostfound.Notification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (notification_id, recipient_user_id, case_number, type, message, date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.NotificationID, n.RecipientUserID, n.CaseNumber, string(n.Type), n.Message, n.Date, string(n.Status),
	)
	if err != nil {
		return fmt.Errorf("appending notification: %w", err)
	}
	return nil
}

// ListNotifications returns a recipient's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, recipientUserID string) ([]lostfound.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT notification_id, recipient_user_id, case_number, type, message, date, status
		 FROM notifications WHERE recipient_user_id = $1
		 ORDER BY date DESC, notification_id DESC`,
		recipientUserID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var list []lostfound.Notification
	for rows.Next() {
		var n lostfound.Notification
		if err := rows.Scan(&n.NotificationID, &n.RecipientUserID, &n.CaseNumber, &n.Type, &n.Message, &n.Date, &n.Status); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkNotificationRead moves a notification from unread to read.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string) error {
	const op = "store.mark_notification_read"

	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET status = $1 WHERE notification_id = $2 AND status = $3`,
		string(lostfound.NotificationRead), notificationID, string(lostfound.NotificationUnread),
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if n == 0 {
		var status string
		err := s.db.QueryRowContext(ctx,
			`SELECT status FROM notifications WHERE notification_id = $1`, notificationID).Scan(&status)
		if err != nil {
			return lostfound.Faultf(lostfound.KindNotFound, op, "notification %s", notificationID)
		}
		return lostfound.Faultf(lostfound.KindInvalidTransition, op, "notification %s is already %s", notificationID, status)
	}
	return nil
}

// CountLostByStatus returns lost-report counts grouped by status.
func (s *Store) CountLostByStatus(ctx context.Context) (map[lostfound.LostStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM lost_reports GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting lost reports: %w", err)
	}
	defer rows.Close()

	counts := make(map[lostfound.LostStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning lost counts: %w", err)
		}
		counts[lostfound.LostStatus(status)] = n
	}
	return counts, rows.Err()
}

// CountFoundByStatus returns found-item counts grouped by status.
func (s *Store) CountFoundByStatus(ctx context.Context) (map[lostfound.FoundStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM found_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting found items: %w", err)
	}
	defer rows.Close()

	counts := make(map[lostfound.FoundStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning found counts: %w", err)
		}
		counts[lostfound.FoundStatus(status)] = n
	}
	return counts, rows.Err()
}
