package database

import (
	"database/sql"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// GetSalaryLinkByStudent returns the student's active staff salary link, or
// nil when the student has no salary arrangement.
func GetSalaryLinkByStudent(db *sql.DB, studentID string) (*models.StaffSalaryLink, error) {
	link := &models.StaffSalaryLink{}
	query := `SELECT id, student_id, staff_id, payment_mode, ratio_percent, is_active, created_at, updated_at
			  FROM staff_salary_links
			  WHERE student_id = $1 AND is_active = true
			  ORDER BY created_at DESC
			  LIMIT 1`
	err := db.QueryRow(query, studentID).Scan(
		&link.ID, &link.StudentID, &link.StaffID, &link.PaymentMode,
		&link.RatioPercent, &link.IsActive, &link.CreatedAt, &link.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// CreateSalaryLink links a student to a staff member's salary. Any previous active
// link for the student is deactivated first.
func CreateSalaryLink(db *sql.DB, link *models.StaffSalaryLink) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE staff_salary_links SET is_active = false, updated_at = NOW()
					  WHERE student_id = $1 AND is_active = true`, link.StudentID)
	if err != nil {
		return err
	}

	query := `INSERT INTO staff_salary_links (student_id, staff_id, payment_mode, ratio_percent, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, link.StudentID, link.StaffID, link.PaymentMode, link.RatioPercent).
		Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeactivateSalaryLink ends a student's salary arrangement.
func DeactivateSalaryLink(db *sql.DB, linkID string) error {
	result, err := db.Exec(`UPDATE staff_salary_links SET is_active = false, updated_at = NOW()
							WHERE id = $1 AND is_active = true`, linkID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}

// GetSalaryDefinition returns a staff member's net salary figure.
func GetSalaryDefinition(db *sql.DB, staffID string) (*models.SalaryDefinition, error) {
	def := &models.SalaryDefinition{}
	query := `SELECT id, staff_id, net_salary, created_at, updated_at
			  FROM salary_definitions WHERE staff_id = $1`
	err := db.QueryRow(query, staffID).Scan(
		&def.ID, &def.StaffID, &def.NetSalary, &def.CreatedAt, &def.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return def, nil
}

// UpsertSalaryDefinition sets a staff member's net salary.
func UpsertSalaryDefinition(db *sql.DB, def *models.SalaryDefinition) error {
	query := `INSERT INTO salary_definitions (staff_id, net_salary, created_at, updated_at)
			  VALUES ($1, $2, NOW(), NOW())
			  ON CONFLICT (staff_id)
			  DO UPDATE SET net_salary = EXCLUDED.net_salary, updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, def.StaffID, def.NetSalary).
		Scan(&def.ID, &def.CreatedAt, &def.UpdatedAt)
}
