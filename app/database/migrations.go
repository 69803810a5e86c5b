package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the schema if missing and applies incremental updates.
// Statements are idempotent so the service can run them on every start.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		phone VARCHAR(20),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(50) UNIQUE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID NOT NULL REFERENCES users(id),
		role_id UUID NOT NULL REFERENCES roles(id),
		PRIMARY KEY (user_id, role_id)
	)`,

	`CREATE TABLE IF NOT EXISTS campuses (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) UNIQUE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS classes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		code VARCHAR(20) UNIQUE NOT NULL,
		campus_id UUID NOT NULL REFERENCES campuses(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_no VARCHAR(30) UNIQUE NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		gender VARCHAR(10) NOT NULL,
		class_id UUID NOT NULL REFERENCES classes(id),
		campus_id UUID NOT NULL REFERENCES campuses(id),
		tuition_discount_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
		admission_discount_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
		admission_fee_paid BOOLEAN NOT NULL DEFAULT false,
		registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		has_left BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_class_id ON students(class_id)`,

	`CREATE TABLE IF NOT EXISTS class_fee_schedules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		class_id UUID NOT NULL REFERENCES classes(id),
		campus_id UUID NOT NULL REFERENCES campuses(id),
		tuition_fee NUMERIC(12,2) NOT NULL,
		admission_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (class_id, campus_id)
	)`,

	`CREATE TABLE IF NOT EXISTS extra_charges (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(150) NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		category VARCHAR(30) NOT NULL,
		class_id UUID REFERENCES classes(id),
		campus_id UUID NOT NULL REFERENCES campuses(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS extra_charge_targets (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		extra_charge_id UUID NOT NULL REFERENCES extra_charges(id),
		student_id UUID NOT NULL REFERENCES students(id),
		excluded BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_charge_targets_charge_id ON extra_charge_targets(extra_charge_id)`,

	`CREATE TABLE IF NOT EXISTS billing_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		for_month INTEGER NOT NULL CHECK (for_month BETWEEN 1 AND 12),
		for_year INTEGER NOT NULL,
		tuition_fee NUMERIC(12,2) NOT NULL,
		admission_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		fine NUMERIC(12,2) NOT NULL DEFAULT 0,
		miscellaneous_charges NUMERIC(12,2) NOT NULL DEFAULT 0,
		previous_dues NUMERIC(12,2) NOT NULL DEFAULT 0,
		dues NUMERIC(12,2) NOT NULL DEFAULT 0,
		remarks TEXT NOT NULL DEFAULT '',
		created_by VARCHAR(100) NOT NULL DEFAULT 'System',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_billing_student_period
		ON billing_records(student_id, for_month, for_year)`,

	`CREATE TABLE IF NOT EXISTS student_fine_charges (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		title VARCHAR(200) NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		is_paid BOOLEAN NOT NULL DEFAULT false,
		settled_at TIMESTAMPTZ,
		billing_record_id UUID REFERENCES billing_records(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fines_student_unpaid
		ON student_fine_charges(student_id) WHERE is_paid = false`,

	`CREATE TABLE IF NOT EXISTS online_accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		provider VARCHAR(100) NOT NULL,
		account_number VARCHAR(50) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS payment_transactions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		billing_record_id UUID NOT NULL REFERENCES billing_records(id),
		amount_paid NUMERIC(12,2) NOT NULL,
		cash_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		online_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		salary_deducted NUMERIC(12,2) NOT NULL DEFAULT 0,
		online_account_id UUID REFERENCES online_accounts(id),
		receipt_no VARCHAR(30) UNIQUE NOT NULL,
		received_by VARCHAR(100) NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_record_id ON payment_transactions(billing_record_id)`,

	`CREATE TABLE IF NOT EXISTS staff_salary_links (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		staff_id UUID NOT NULL REFERENCES users(id),
		payment_mode VARCHAR(30) NOT NULL,
		ratio_percent NUMERIC(5,2) NOT NULL DEFAULT 100,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_salary_links_student ON staff_salary_links(student_id) WHERE is_active = true`,

	`CREATE TABLE IF NOT EXISTS salary_definitions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		staff_id UUID UNIQUE NOT NULL REFERENCES users(id),
		net_salary NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS salary_deduction_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		billing_record_id UUID NOT NULL REFERENCES billing_records(id),
		staff_id UUID NOT NULL REFERENCES users(id),
		student_id UUID NOT NULL REFERENCES students(id),
		for_month INTEGER NOT NULL,
		for_year INTEGER NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (billing_record_id, staff_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deductions_staff_period
		ON salary_deduction_records(staff_id, for_year, for_month)`,

	`CREATE TABLE IF NOT EXISTS charge_payment_history (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		extra_charge_id UUID NOT NULL REFERENCES extra_charges(id),
		class_id UUID NOT NULL REFERENCES classes(id),
		billing_record_id UUID NOT NULL REFERENCES billing_records(id),
		amount NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_charge_history_student ON charge_payment_history(student_id)`,

	`CREATE TABLE IF NOT EXISTS fee_notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		billing_record_id UUID NOT NULL REFERENCES billing_records(id),
		transaction_id UUID REFERENCES payment_transactions(id),
		message TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		sent_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_pending
		ON fee_notifications(created_at) WHERE status = 'pending'`,
}
