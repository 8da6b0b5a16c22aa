// Package events publishes ledger lifecycle notifications for downstream
// consumers (reporting, budgeting alerts). Publishing is best-effort: a
// failed publish never rolls back the commit it describes.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventGroupPosted   = "ledger.group.posted"
	EventGroupReversed = "ledger.group.reversed"
	EventTimeAdvanced  = "scheduler.time.advanced"
)

// GroupEvent describes a committed transaction group.
type GroupEvent struct {
	Event       string          `json:"event"`
	OwnerID     string          `json:"ownerId"`
	GroupID     string          `json:"groupId"`
	Kind        string          `json:"kind"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// TimeAdvancedEvent describes a completed simulated-time advance.
type TimeAdvancedEvent struct {
	Event          string    `json:"event"`
	OwnerID        string    `json:"ownerId"`
	CurrentDate    string    `json:"currentDate"`
	PostedCount    int       `json:"postedCount"`
	PendingCreated int       `json:"pendingCreated"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher fans events out to whatever backend is configured.
type Publisher interface {
	PublishGroup(ctx context.Context, event GroupEvent) error
	PublishTimeAdvanced(ctx context.Context, event TimeAdvancedEvent) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured and in
// tests that don't assert on events.
type NoopPublisher struct{}

func (NoopPublisher) PublishGroup(context.Context, GroupEvent) error { return nil }

func (NoopPublisher) PublishTimeAdvanced(context.Context, TimeAdvancedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
