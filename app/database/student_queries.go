package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// StudentFilters represents filtering options for student lookups
type StudentFilters struct {
	Search  string
	ClassID string
	Limit   int
	Offset  int
}

// GetStudents returns active students matching the filters, newest first.
func GetStudents(db *sql.DB, filters StudentFilters) ([]*models.Student, error) {
	query := `SELECT s.id, s.student_no, s.first_name, s.last_name, s.gender, s.class_id, s.campus_id,
			  s.tuition_discount_percent, s.admission_discount_percent, s.admission_fee_paid,
			  s.registered_at, s.has_left, s.is_active, s.created_at, s.updated_at
			  FROM students s
			  WHERE s.is_active = true AND s.deleted_at IS NULL`

	var args []interface{}
	argIndex := 1

	if filters.ClassID != "" {
		query += fmt.Sprintf(" AND s.class_id = $%d", argIndex)
		args = append(args, filters.ClassID)
		argIndex++
	}

	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query += fmt.Sprintf(` AND (LOWER(s.student_no) LIKE $%d
				OR LOWER(s.first_name || ' ' || s.last_name) LIKE $%d)`, argIndex, argIndex+1)
		args = append(args, pattern, pattern)
		argIndex += 2
	}

	query += " ORDER BY s.created_at DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s := &models.Student{}
		err := rows.Scan(
			&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &s.Gender, &s.ClassID, &s.CampusID,
			&s.TuitionDiscountPercent, &s.AdmissionDiscountPercent, &s.AdmissionFeePaid,
			&s.RegisteredAt, &s.HasLeft, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			continue
		}
		students = append(students, s)
	}
	return students, nil
}

// GetStudentByID returns one student, soft-deleted rows excluded.
func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	s := &models.Student{}
	query := `SELECT id, student_no, first_name, last_name, gender, class_id, campus_id,
			  tuition_discount_percent, admission_discount_percent, admission_fee_paid,
			  registered_at, has_left, is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, studentID).Scan(
		&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &s.Gender, &s.ClassID, &s.CampusID,
		&s.TuitionDiscountPercent, &s.AdmissionDiscountPercent, &s.AdmissionFeePaid,
		&s.RegisteredAt, &s.HasLeft, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateStudent inserts a new student row.
func CreateStudent(db *sql.DB, s *models.Student) error {
	query := `INSERT INTO students (student_no, first_name, last_name, gender, class_id, campus_id,
			  tuition_discount_percent, admission_discount_percent, registered_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query,
		s.StudentNo, s.FirstName, s.LastName, s.Gender, s.ClassID, s.CampusID,
		s.TuitionDiscountPercent, s.AdmissionDiscountPercent, s.RegisteredAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetAllClasses returns active classes with their student counts.
func GetAllClasses(db *sql.DB) ([]*models.Class, error) {
	query := `SELECT c.id, c.name, c.code, c.campus_id, c.is_active, c.created_at, c.updated_at,
			  COUNT(s.id) as student_count
			  FROM classes c
			  LEFT JOIN students s ON s.class_id = c.id AND s.is_active = true AND s.deleted_at IS NULL
			  WHERE c.deleted_at IS NULL
			  GROUP BY c.id, c.name, c.code, c.campus_id, c.is_active, c.created_at, c.updated_at
			  ORDER BY c.name`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c := &models.Class{}
		err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.CampusID, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt, &c.StudentCount)
		if err != nil {
			continue
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// GetClassFeeSchedule returns the fee schedule for a (class, campus) pair, or
// sql.ErrNoRows when none exists.
func GetClassFeeSchedule(db *sql.DB, classID, campusID string) (*models.ClassFeeSchedule, error) {
	fs := &models.ClassFeeSchedule{}
	query := `SELECT id, class_id, campus_id, tuition_fee, admission_fee, created_at, updated_at
			  FROM class_fee_schedules WHERE class_id = $1 AND campus_id = $2`
	err := db.QueryRow(query, classID, campusID).Scan(
		&fs.ID, &fs.ClassID, &fs.CampusID, &fs.TuitionFee, &fs.AdmissionFee,
		&fs.CreatedAt, &fs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// UpsertClassFeeSchedule creates or replaces the fee schedule for a class.
func UpsertClassFeeSchedule(db *sql.DB, fs *models.ClassFeeSchedule) error {
	query := `INSERT INTO class_fee_schedules (class_id, campus_id, tuition_fee, admission_fee, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  ON CONFLICT (class_id, campus_id)
			  DO UPDATE SET tuition_fee = EXCLUDED.tuition_fee, admission_fee = EXCLUDED.admission_fee, updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, fs.ClassID, fs.CampusID, fs.TuitionFee, fs.AdmissionFee).
		Scan(&fs.ID, &fs.CreatedAt, &fs.UpdatedAt)
}
