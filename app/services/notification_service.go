package services

import (
	"database/sql"
	"log"

	"github.com/azimystic/UTS-SMS-sub001/app/database"
)

const notificationBatchSize = 50

// DrainFeeNotifications delivers pending fee notifications. Delivery here is a log
// line; the SMS/email gateway integration hangs off this point.
func DrainFeeNotifications(db *sql.DB) error {
	pending, err := database.GetPendingNotifications(db, notificationBatchSize)
	if err != nil {
		return err
	}

	for _, n := range pending {
		log.Printf("Fee notification [%s]: %s", n.ID, n.Message)

		if err := database.MarkNotificationSent(db, n.ID); err != nil {
			log.Printf("Error marking notification %s as sent: %v", n.ID, err)
			if markErr := database.MarkNotificationFailed(db, n.ID); markErr != nil {
				log.Printf("Error marking notification %s as failed: %v", n.ID, markErr)
			}
		}
	}

	if len(pending) > 0 {
		log.Printf("Delivered %d fee notifications", len(pending))
	}
	return nil
}
