package member

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHasActiveSubscription_BoundedWindow(t *testing.T) {
	start := date(2024, 3, 1)
	end := start.AddDate(0, 0, 30)

	m := Member{
		SubscriptionStart: start,
		SubscriptionEnd:   &end,
	}

	tests := []struct {
		name   string
		asOf   time.Time
		active bool
	}{
		{"day before start", start.AddDate(0, 0, -1), false},
		{"on start day", start, true},
		{"mid window", start.AddDate(0, 0, 15), true},
		{"on end day", end, true},
		{"day after end", end.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, m.HasActiveSubscription(tt.asOf))
		})
	}
}

func TestHasActiveSubscription_NoEndDate(t *testing.T) {
	start := date(2024, 3, 1)

	m := Member{SubscriptionStart: start}

	assert.False(t, m.HasActiveSubscription(start.AddDate(0, 0, -1)))
	assert.True(t, m.HasActiveSubscription(start))
	assert.True(t, m.HasActiveSubscription(start.AddDate(10, 0, 0)))
}

func TestHasActiveSubscription_FutureStart(t *testing.T) {
	// Created but not started: not active even without an end date.
	now := date(2024, 3, 1)
	m := Member{SubscriptionStart: now.AddDate(0, 0, 7)}

	assert.False(t, m.HasActiveSubscription(now))
	assert.True(t, m.HasActiveSubscription(now.AddDate(0, 0, 7)))
}

func TestHasActiveSubscription_IgnoresTimeOfDay(t *testing.T) {
	start := date(2024, 3, 1)
	end := date(2024, 3, 31)
	m := Member{SubscriptionStart: start, SubscriptionEnd: &end}

	// Late evening on the final day still counts.
	assert.True(t, m.HasActiveSubscription(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, m.HasActiveSubscription(time.Date(2024, 4, 1, 0, 1, 0, 0, time.UTC)))
}

func TestViewAt(t *testing.T) {
	start := date(2024, 3, 1)
	m := Member{ID: 1, Name: "Ada", SubscriptionStart: start}

	view := m.ViewAt(start.AddDate(0, 0, 1))
	assert.True(t, view.HasActiveSubscription)
	assert.Equal(t, "Ada", view.Name)

	view = m.ViewAt(start.AddDate(0, 0, -1))
	assert.False(t, view.HasActiveSubscription)
}
