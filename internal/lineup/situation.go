package lineup

import (
	"fmt"
	"strings"
	"time"
)

const (
	openedFloor = "✅"
	closedFloor = "🚫 closed"
	noDataRoom  = "⚠️ no data"
)

// FormatSituations renders one RoomSituation per room of meta.Rooms, in that
// order. Rooms without any set get the "no data" line; rooms present in
// states but missing from meta.Rooms are ignored. likes only drives the
// Liked flag. Times are rendered in now's location.
func FormatSituations(states map[string]RoomSets, meta Meta, likes []Like, now time.Time) []RoomSituation {
	out := make([]RoomSituation, 0, len(meta.Rooms))
	for _, room := range meta.Rooms {
		st, ok := states[room]
		if !ok {
			out = append(out, RoomSituation{
				Room:      room,
				Situation: room + " " + noDataRoom,
				Closed:    true,
			})
			continue
		}
		rs := formatRoom(room, st, meta, now)
		if rs.Like != nil {
			rs.Liked = IsLiked(likes, *rs.Like)
		}
		out = append(out, rs)
	}
	return out
}

func formatRoom(room string, st RoomSets, meta Meta, now time.Time) RoomSituation {
	var b strings.Builder
	b.WriteString(room)
	b.WriteString(" ")

	rs := RoomSituation{Room: room}

	if cur := st.Current; cur != nil {
		b.WriteString(openedFloor + " " + cur.DJ)
		if cur.IsScheduled() {
			rs.Like = &Like{
				DJ:                cur.DJ,
				Title:             meta.Title,
				BeginningSchedule: meta.BeginningSchedule,
				Room:              cur.Room,
				Started:           cur.Start,
				Meta:              cur.Meta,
			}
		}
	}

	switch {
	case st.Closing && st.Current != nil:
		b.WriteString(" (Closing" + formatAt(st.Current.End, now, true) + ")")
	case st.Closing && st.Next != nil:
		b.WriteString(closedUntil(*st.Next, now))
		rs.Closed = true
	case st.Closing:
		b.WriteString(closedFloor)
		rs.Closed = true
	case st.Next != nil:
		next := st.Next
		omitWeekday := st.Current != nil && st.Current.End.Equal(next.Start)
		at := formatAt(next.Start, now, omitWeekday)
		if st.PauseDuration != nil && *st.PauseDuration > 0 {
			fmt.Fprintf(&b, " (%s%s after %d min of pause)", next.DJ, at, *st.PauseDuration)
		} else {
			fmt.Fprintf(&b, " (%s%s)", next.DJ, at)
		}
	}

	rs.Situation = b.String()
	return rs
}

func closedUntil(next Set, now time.Time) string {
	if next.Kind == KindUnknown {
		if sameDay(next.Start, now) {
			return closedFloor + " until " + clock(next.Start, now)
		}
		return closedFloor + " until " + weekday(next.Start, now) + " at " + clock(next.Start, now)
	}
	return closedFloor + " (" + next.DJ + formatAt(next.Start, now, false) + ")"
}

// formatAt renders " at HH:MM" for instants on now's calendar day (or when
// omitWeekday is set) and ", Weekday at HH:MM" otherwise.
func formatAt(t, now time.Time, omitWeekday bool) string {
	if omitWeekday || sameDay(t, now) {
		return " at " + clock(t, now)
	}
	return ", " + weekday(t, now) + " at " + clock(t, now)
}

func clock(t, now time.Time) string {
	return t.In(now.Location()).Format("15:04")
}

func weekday(t, now time.Time) string {
	return t.In(now.Location()).Weekday().String()
}

func sameDay(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
