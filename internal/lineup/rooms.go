package lineup

import (
	"math"
	"time"
)

// MaxPauseMinutes is the longest pause between two sets that still keeps a
// room open. Anything longer is reported as closing.
const MaxPauseMinutes = 120

// ComputeRoomStates derives, for every room that has at least one set, the
// set playing at now, the soonest set starting after now and the pause in
// between. Bounds are inclusive; when several sets contain now the last one
// in sets wins.
func ComputeRoomStates(sets []Set, now time.Time) map[string]RoomSets {
	states := make(map[string]RoomSets)
	for i := range sets {
		set := sets[i]
		st := states[set.Room]

		switch {
		case set.Contains(now):
			st.Current = &set
		case set.Start.After(now):
			if st.Next == nil || set.Start.Before(st.Next.Start) {
				st.Next = &set
			}
		}

		states[set.Room] = withPause(st)
	}
	return states
}

func withPause(st RoomSets) RoomSets {
	if st.Current == nil || st.Next == nil {
		st.PauseDuration = nil
		st.Closing = true
		return st
	}
	pause := pauseMinutes(st.Current.End, st.Next.Start)
	st.PauseDuration = &pause
	st.Closing = pause > MaxPauseMinutes
	return st
}

// pauseMinutes rounds halves up, so -2.5 becomes -2. Negative values mean
// the sets overlap and are kept as is.
func pauseMinutes(end, start time.Time) int {
	return int(math.Floor(start.Sub(end).Minutes() + 0.5))
}

// FinishedGrace is how long after the last set ends the event still counts
// as running.
const FinishedGrace = time.Hour

// Finished reports whether every set ended more than grace before now. An
// empty lineup is finished.
func Finished(sets []Set, now time.Time, grace time.Duration) bool {
	cutoff := now.Add(-grace)
	for _, s := range sets {
		if !s.End.Before(cutoff) {
			return false
		}
	}
	return true
}
