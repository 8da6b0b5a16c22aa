package mapping

import (
	"time"

	"github.com/fincast/fincast/internal/core/domain"
)

// ToModelDate converts a domain Date to the time.Time stored in DATE columns.
func ToModelDate(d domain.Date) time.Time {
	return d.Time()
}

// ToDomainDate converts a stored DATE column back into a calendar day.
func ToDomainDate(t time.Time) domain.Date {
	return domain.DateOf(t)
}

// ToModelDatePtr converts an optional domain Date to a nullable column value.
func ToModelDatePtr(d *domain.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

// ToDomainDatePtr converts a nullable DATE column to an optional Date.
func ToDomainDatePtr(t *time.Time) *domain.Date {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}
