package lineup

import (
	"sort"
	"time"
)

const (
	closingLabel = "closing"
	closedLabel  = "closed"
)

// ScheduleEntry is one line of a room schedule: an authored set or the
// "you are here" marker.
type ScheduleEntry struct {
	Set   Set  `json:"set"`
	Liked bool `json:"liked"`
}

// ScheduleDay groups the entries starting on one calendar day.
type ScheduleDay struct {
	Label   string          `json:"label"`
	Date    time.Time       `json:"date"`
	Entries []ScheduleEntry `json:"entries"`
}

// RoomSchedule is the full timetable of one room as seen at a given instant.
type RoomSchedule struct {
	Room string        `json:"room"`
	Open bool          `json:"open"`
	Days []ScheduleDay `json:"days"`
	// Trailer holds the closing/closed line and, when it was not placed
	// between sets, the marker, in display order.
	Trailer []ScheduleEntry `json:"trailer"`
}

// BuildRoomSchedule lays out the known sets of room day by day and places
// the "you are here" marker exactly once. The marker is left out when no set
// of the room starts or ends on now's day.
func BuildRoomSchedule(sets []Set, room string, beginning time.Time, likes []Like, now time.Time) RoomSchedule {
	rs := RoomSchedule{Room: room}

	var own []Set
	for _, s := range sets {
		if s.Room == room && s.IsScheduled() {
			own = append(own, s)
		}
	}
	if len(own) == 0 {
		return rs
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Start.Before(own[j].Start) })

	for _, s := range own {
		if s.Contains(now) {
			rs.Open = true
			break
		}
	}

	lastEnd := own[len(own)-1].End
	markerAt, closesToday := markerPosition(own, now, lastEnd)
	marker := ScheduleEntry{Set: Set{Room: room, Start: now, End: now, Kind: KindMarker}}

	for i, s := range own {
		newDay := len(rs.Days) == 0 || !sameDay(s.Start, rs.Days[len(rs.Days)-1].Date)
		if i == markerAt && closesToday {
			last := &rs.Days[len(rs.Days)-1]
			last.Entries = append(last.Entries, marker)
		}
		if newDay {
			rs.Days = append(rs.Days, newScheduleDay(s.Start, now))
		}
		day := &rs.Days[len(rs.Days)-1]
		if i == markerAt && !closesToday {
			day.Entries = append(day.Entries, marker)
		}
		liked := IsLiked(likes, Like{DJ: s.DJ, Room: s.Room, BeginningSchedule: beginning})
		day.Entries = append(day.Entries, ScheduleEntry{Set: s, Liked: liked})
	}

	label := closedLabel
	if !lastEnd.Before(now) {
		label = closingLabel
	}
	trailer := ScheduleEntry{Set: Set{DJ: label, Room: room, Start: lastEnd, End: lastEnd, Kind: KindGap}}
	placeTrailing := markerAt == len(own)
	switch {
	case placeTrailing && label == closingLabel:
		rs.Trailer = []ScheduleEntry{marker, trailer}
	case placeTrailing:
		rs.Trailer = []ScheduleEntry{trailer, marker}
	default:
		rs.Trailer = []ScheduleEntry{trailer}
	}
	return rs
}

// markerPosition returns the index of the set the marker precedes, len(sets)
// for the trailer, or -1 when there is no marker. closesToday is set when the
// marker ends today's group rather than opening a later day.
func markerPosition(sets []Set, now, lastEnd time.Time) (int, bool) {
	touchesToday := false
	for _, s := range sets {
		if sameDay(s.Start, now) || sameDay(s.End, now) {
			touchesToday = true
			break
		}
	}
	if !touchesToday {
		return -1, false
	}
	if now.Before(lastEnd) {
		for i, s := range sets {
			if !s.Start.After(now) {
				continue
			}
			closesToday := i > 0 && !sameDay(s.Start, now) && sameDay(sets[i-1].Start, now)
			return i, closesToday
		}
	}
	return len(sets), false
}

func newScheduleDay(start, now time.Time) ScheduleDay {
	local := start.In(now.Location())
	label := local.Weekday().String()
	if sameDay(start, now) {
		label = "Today"
	}
	y, m, d := local.Date()
	return ScheduleDay{Label: label, Date: time.Date(y, m, d, 0, 0, 0, 0, now.Location())}
}
