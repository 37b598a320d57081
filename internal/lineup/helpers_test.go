package lineup

import (
	"testing"
	"time"
)

// friday is 2024-06-07, a Friday, in UTC.
func at(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2024, time.June, 7+day, hour, minute, 0, 0, time.UTC)
}

func set(t *testing.T, dj, room string, start, end time.Time) Set {
	t.Helper()
	return NewSet(dj, room, start, end)
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
