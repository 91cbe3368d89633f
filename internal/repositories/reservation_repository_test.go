package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlotLockKey(t *testing.T) {
	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)

	// Same slot must serialize on the same key regardless of the
	// time-of-day component carried by the date value
	require.Equal(t,
		slotLockKey(day, "18:30"),
		slotLockKey(day.Add(9*time.Hour), "18:30"))

	// Different slots must not contend with each other
	require.NotEqual(t,
		slotLockKey(day, "18:30"),
		slotLockKey(day, "19:00"))
	require.NotEqual(t,
		slotLockKey(day, "18:30"),
		slotLockKey(day.AddDate(0, 0, 1), "18:30"))
}
