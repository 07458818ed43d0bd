package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDateOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		want    bool
	}{
		{
			name:    "due yesterday",
			dueDate: now.AddDate(0, 0, -1),
			want:    true,
		},
		{
			name:    "due today, later hour",
			dueDate: time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC),
			want:    false, // same calendar date is not overdue
		},
		{
			name:    "due today, earlier hour",
			dueDate: time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC),
			want:    false,
		},
		{
			name:    "due tomorrow",
			dueDate: now.AddDate(0, 0, 1),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateOverdue(tt.dueDate, now))
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 30, 0, 1, 0, 0, time.UTC)
	b := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}

func TestDaysLate(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysLate(now, now))
	assert.Equal(t, 0, DaysLate(now.AddDate(0, 0, 5), now))
	assert.Equal(t, 1, DaysLate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, 30, DaysLate(now.AddDate(0, 0, -30), now))
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("30/08/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestLateFee(t *testing.T) {
	tests := []struct {
		name     string
		total    decimal.Decimal
		daysLate int
		expected decimal.Decimal
	}{
		{
			name:     "not late",
			total:    decimal.NewFromInt(1000),
			daysLate: 0,
			expected: decimal.Zero,
		},
		{
			name:     "one day late",
			total:    decimal.NewFromInt(1000),
			daysLate: 1,
			expected: decimal.NewFromFloat(20.33), // 2% flat + 0.033%
		},
		{
			name:     "ten days late",
			total:    decimal.NewFromInt(1000),
			daysLate: 10,
			expected: decimal.NewFromFloat(23.30), // 20 + 3.30
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LateFee(tt.total, tt.daysLate)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestSplitEvenly(t *testing.T) {
	parts := SplitEvenly(decimal.NewFromInt(100), 3)
	require.Len(t, parts, 3)
	assert.True(t, parts[0].Equal(decimal.NewFromFloat(33.33)))
	assert.True(t, parts[2].Equal(decimal.NewFromFloat(33.34)))

	var sum decimal.Decimal
	for _, p := range parts {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))

	single := SplitEvenly(decimal.NewFromInt(100), 1)
	require.Len(t, single, 1)
	assert.True(t, single[0].Equal(decimal.NewFromInt(100)))

	assert.Nil(t, SplitEvenly(decimal.NewFromInt(100), 0))
}
