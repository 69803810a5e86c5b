package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// GetDuesSummary aggregates billed and paid totals per active student. ClassID
// narrows to one class when non-empty; only students with at least one billing
// record appear.
func GetDuesSummary(db *sql.DB, classID string) ([]*models.DuesSummaryRow, error) {
	query := `SELECT s.id, s.student_no, s.first_name || ' ' || s.last_name, c.name,
			  COALESCE(SUM(r.tuition_fee + r.admission_fee + r.fine + r.miscellaneous_charges), 0),
			  COALESCE(SUM(p.paid), 0),
			  latest.dues,
			  latest.for_month, latest.for_year
			  FROM students s
			  JOIN classes c ON c.id = s.class_id
			  JOIN billing_records r ON r.student_id = s.id
			  LEFT JOIN LATERAL (
				  SELECT SUM(t.amount_paid) AS paid
				  FROM payment_transactions t WHERE t.billing_record_id = r.id
			  ) p ON true
			  JOIN LATERAL (
				  SELECT lr.dues, lr.for_month, lr.for_year
				  FROM billing_records lr
				  WHERE lr.student_id = s.id
				  ORDER BY lr.for_year DESC, lr.for_month DESC
				  LIMIT 1
			  ) latest ON true
			  WHERE s.is_active = true AND s.deleted_at IS NULL`

	var args []interface{}
	if classID != "" {
		query += " AND s.class_id = $1"
		args = append(args, classID)
	}
	query += ` GROUP BY s.id, s.student_no, s.first_name, s.last_name, c.name,
			   latest.dues, latest.for_month, latest.for_year
			   ORDER BY latest.dues DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []*models.DuesSummaryRow
	for rows.Next() {
		row := &models.DuesSummaryRow{}
		var month, year int
		err := rows.Scan(&row.StudentID, &row.StudentNo, &row.StudentName, &row.ClassName,
			&row.TotalBilled, &row.TotalPaid, &row.OutstandingDues, &month, &year)
		if err != nil {
			continue
		}
		row.LastBilledPeriod = fmt.Sprintf("%s %d", time.Month(month), year)
		summary = append(summary, row)
	}
	return summary, rows.Err()
}

// GetDefaulters lists students whose most recent billing record still carries
// dues, or who have not been billed for monthsBehind or more months as of now.
func GetDefaulters(db *sql.DB, classID string, now time.Time) ([]*models.DefaulterRow, error) {
	query := `SELECT s.id, s.student_no, s.first_name || ' ' || s.last_name, c.name,
			  latest.for_month, latest.for_year, latest.dues, last_pay.payment_date
			  FROM students s
			  JOIN classes c ON c.id = s.class_id
			  JOIN LATERAL (
				  SELECT lr.id, lr.for_month, lr.for_year, lr.dues
				  FROM billing_records lr
				  WHERE lr.student_id = s.id
				  ORDER BY lr.for_year DESC, lr.for_month DESC
				  LIMIT 1
			  ) latest ON true
			  LEFT JOIN LATERAL (
				  SELECT MAX(t.payment_date) AS payment_date
				  FROM payment_transactions t
				  JOIN billing_records br ON br.id = t.billing_record_id
				  WHERE br.student_id = s.id
			  ) last_pay ON true
			  WHERE s.is_active = true AND s.has_left = false AND s.deleted_at IS NULL`

	var args []interface{}
	if classID != "" {
		query += " AND s.class_id = $1"
		args = append(args, classID)
	}
	query += " ORDER BY latest.dues DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	currentIndex := now.Year()*12 + int(now.Month()) - 1
	var defaulters []*models.DefaulterRow
	for rows.Next() {
		row := &models.DefaulterRow{}
		var lastPayment sql.NullTime
		err := rows.Scan(&row.StudentID, &row.StudentNo, &row.StudentName, &row.ClassName,
			&row.ForMonth, &row.ForYear, &row.Dues, &lastPayment)
		if err != nil {
			continue
		}
		if lastPayment.Valid {
			t := lastPayment.Time
			row.LastPayment = &t
		}
		row.MonthsBehind = currentIndex - (row.ForYear*12 + row.ForMonth - 1)
		if row.Dues.IsPositive() || row.MonthsBehind > 0 {
			defaulters = append(defaulters, row)
		}
	}
	return defaulters, rows.Err()
}
