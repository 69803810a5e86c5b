package database

import (
	"database/sql"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// GetExtraCharges returns the active extra-charge catalogue for a campus,
// targeting rows included.
func GetExtraCharges(db *sql.DB, campusID string) ([]*models.ExtraCharge, error) {
	query := `SELECT id, name, amount, category, class_id, campus_id, is_active, created_at, updated_at
			  FROM extra_charges
			  WHERE campus_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at DESC`

	rows, err := db.Query(query, campusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*models.ExtraCharge
	for rows.Next() {
		c := &models.ExtraCharge{}
		err := rows.Scan(&c.ID, &c.Name, &c.Amount, &c.Category, &c.ClassID, &c.CampusID,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			continue
		}
		charges = append(charges, c)
	}

	for _, c := range charges {
		targets, err := getChargeTargets(db, c.ID)
		if err != nil {
			return nil, err
		}
		c.Targets = targets
	}
	return charges, nil
}

func getChargeTargets(db *sql.DB, chargeID string) ([]*models.ExtraChargeTarget, error) {
	rows, err := db.Query(`SELECT id, extra_charge_id, student_id, excluded, created_at
						   FROM extra_charge_targets WHERE extra_charge_id = $1`, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []*models.ExtraChargeTarget
	for rows.Next() {
		t := &models.ExtraChargeTarget{}
		if err := rows.Scan(&t.ID, &t.ExtraChargeID, &t.StudentID, &t.Excluded, &t.CreatedAt); err != nil {
			continue
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// CreateExtraCharge inserts a catalogue charge and its targeting rows in one
// transaction.
func CreateExtraCharge(db *sql.DB, c *models.ExtraCharge) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO extra_charges (name, amount, category, class_id, campus_id, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, c.Name, c.Amount, c.Category, c.ClassID, c.CampusID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	for _, t := range c.Targets {
		_, err := tx.Exec(`INSERT INTO extra_charge_targets (extra_charge_id, student_id, excluded)
						   VALUES ($1, $2, $3)`, c.ID, t.StudentID, t.Excluded)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SoftDeleteExtraCharge retires a catalogue charge without losing history.
func SoftDeleteExtraCharge(db *sql.DB, chargeID string) error {
	result, err := db.Exec(`UPDATE extra_charges SET deleted_at = NOW(), is_active = false
							WHERE id = $1 AND deleted_at IS NULL`, chargeID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}

// CreateStudentFine raises an ad hoc fine/charge against a student.
func CreateStudentFine(db *sql.DB, f *models.StudentFineCharge) error {
	query := `INSERT INTO student_fine_charges (student_id, title, amount, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, f.StudentID, f.Title, f.Amount).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}
