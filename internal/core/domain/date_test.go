package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fincast/fincast/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCompare(t *testing.T) {
	earlier := domain.NewDate(2025, time.March, 15)
	later := domain.NewDate(2025, time.April, 1)

	assert.True(t, earlier.Before(later))
	assert.True(t, later.After(earlier))
	assert.True(t, earlier.Equal(domain.NewDate(2025, time.March, 15)))
	assert.Equal(t, 0, earlier.Compare(earlier))
	assert.Equal(t, -1, earlier.Compare(later))
	assert.Equal(t, 1, later.Compare(earlier))
}

func TestDateAddDaysCrossesMonthAndYear(t *testing.T) {
	d := domain.NewDate(2025, time.January, 30)
	assert.Equal(t, domain.NewDate(2025, time.February, 1), d.AddDays(2))

	endOfYear := domain.NewDate(2025, time.December, 31)
	assert.Equal(t, domain.NewDate(2026, time.January, 1), endOfYear.AddDays(1))

	assert.Equal(t, domain.NewDate(2025, time.January, 28), d.AddDays(-2))
}

func TestDateDaysApart(t *testing.T) {
	a := domain.NewDate(2025, time.January, 1)
	b := domain.NewDate(2025, time.January, 31)

	assert.Equal(t, 30, a.DaysApart(b))
	assert.Equal(t, -30, b.DaysApart(a))
	assert.Equal(t, 0, a.DaysApart(a))
}

func TestDateDaysInMonth(t *testing.T) {
	assert.Equal(t, 28, domain.NewDate(2025, time.February, 1).DaysInMonth())
	assert.Equal(t, 29, domain.NewDate(2024, time.February, 1).DaysInMonth())
	assert.Equal(t, 30, domain.NewDate(2025, time.April, 10).DaysInMonth())
	assert.Equal(t, 31, domain.NewDate(2025, time.December, 31).DaysInMonth())
}

func TestDateZeroValue(t *testing.T) {
	var zero domain.Date
	assert.True(t, zero.IsZero())
	assert.False(t, domain.NewDate(2025, time.January, 1).IsZero())
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2025-06-09")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.June, 9), d)

	_, err = domain.ParseDate("06/09/2025")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := domain.NewDate(2025, time.August, 31)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-08-31"`, string(data))

	var decoded domain.Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, d.Equal(decoded))
}
