package models

import "time"

// Owner is the storage representation of a user of the bookkeeping core.
type Owner struct {
	OwnerID      string     `db:"owner_id"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	CurrentDate  time.Time  `db:"current_date_value"` // CURRENT_DATE is reserved in Postgres
	DeletedAt    *time.Time `db:"deleted_at"`
	AuditFields
}
