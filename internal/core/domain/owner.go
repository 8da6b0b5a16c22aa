package domain

import "time"

// Owner is a user of the bookkeeping core. CurrentDate is the owner's
// simulated "today": it drives recurrence processing and advances only through
// the scheduler, never from wall-clock time, and never via process-wide state.
type Owner struct {
	OwnerID      string     `json:"ownerID"` // Primary key (UUID)
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	CurrentDate  Date       `json:"currentDate"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"` // Soft delete
	AuditFields
}
