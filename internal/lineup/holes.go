package lineup

import "sort"

// Hole is a KindGap set spanning the time between two consecutive sets of
// the same room. Overlap is set when the later set starts before the
// earlier one ends, which points at bad data.
type Hole struct {
	Gap     Set
	Before  string
	After   string
	Overlap bool
}

// Holes lists, room by room, every place where a set does not start exactly
// when the previous one ended. Unknown slots count as sets.
func Holes(sets []Set) []Hole {
	byRoom := make(map[string][]Set)
	var rooms []string
	for _, s := range sets {
		if s.Kind != KindScheduled && s.Kind != KindUnknown {
			continue
		}
		if _, ok := byRoom[s.Room]; !ok {
			rooms = append(rooms, s.Room)
		}
		byRoom[s.Room] = append(byRoom[s.Room], s)
	}

	var out []Hole
	for _, room := range rooms {
		rs := byRoom[room]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Start.Before(rs[j].Start) })
		for i := 1; i < len(rs); i++ {
			prev, cur := rs[i-1], rs[i]
			if cur.Start.Equal(prev.End) {
				continue
			}
			h := Hole{
				Gap:    Set{Room: room, Start: prev.End, End: cur.Start, Kind: KindGap},
				Before: prev.DJ,
				After:  cur.DJ,
			}
			if cur.Start.Before(prev.End) {
				h.Overlap = true
				h.Gap.Start, h.Gap.End = cur.Start, prev.End
			}
			out = append(out, h)
		}
	}
	return out
}
