package database

import (
	"database/sql"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// GetOnlineAccounts returns all non-deleted online payment accounts.
func GetOnlineAccounts(db *sql.DB) ([]*models.OnlineAccount, error) {
	query := `SELECT id, name, provider, account_number, is_active, created_at, updated_at
			  FROM online_accounts
			  WHERE deleted_at IS NULL
			  ORDER BY name`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.OnlineAccount
	for rows.Next() {
		a := &models.OnlineAccount{}
		err := rows.Scan(&a.ID, &a.Name, &a.Provider, &a.AccountNumber, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CreateOnlineAccount registers a bank or mobile-money account for online payments.
func CreateOnlineAccount(db *sql.DB, a *models.OnlineAccount) error {
	query := `INSERT INTO online_accounts (name, provider, account_number, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, a.Name, a.Provider, a.AccountNumber).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// SetOnlineAccountActive toggles whether an account may receive new payments.
func SetOnlineAccountActive(db *sql.DB, accountID string, active bool) error {
	result, err := db.Exec(`UPDATE online_accounts SET is_active = $1, updated_at = NOW()
							WHERE id = $2 AND deleted_at IS NULL`, active, accountID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}

// SoftDeleteOnlineAccount retires an account. Historical transactions keep their
// reference to it.
func SoftDeleteOnlineAccount(db *sql.DB, accountID string) error {
	result, err := db.Exec(`UPDATE online_accounts SET deleted_at = NOW(), is_active = false
							WHERE id = $1 AND deleted_at IS NULL`, accountID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}
