package database

import (
	"database/sql"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// GetPendingNotifications returns the oldest pending fee notifications, up to limit.
func GetPendingNotifications(db *sql.DB, limit int) ([]*models.FeeNotification, error) {
	query := `SELECT id, student_id, billing_record_id, transaction_id, message, status, created_at, sent_at
			  FROM fee_notifications
			  WHERE status = 'pending'
			  ORDER BY created_at
			  LIMIT $1`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.FeeNotification
	for rows.Next() {
		n := &models.FeeNotification{}
		err := rows.Scan(&n.ID, &n.StudentID, &n.BillingRecordID, &n.TransactionID,
			&n.Message, &n.Status, &n.CreatedAt, &n.SentAt)
		if err != nil {
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationSent stamps a notification as delivered.
func MarkNotificationSent(db *sql.DB, notificationID string) error {
	query := `UPDATE fee_notifications SET status = 'sent', sent_at = NOW() WHERE id = $1`
	_, err := db.Exec(query, notificationID)
	return err
}

// MarkNotificationFailed records a failed delivery so the row is not retried forever.
func MarkNotificationFailed(db *sql.DB, notificationID string) error {
	query := `UPDATE fee_notifications SET status = 'failed' WHERE id = $1`
	_, err := db.Exec(query, notificationID)
	return err
}
