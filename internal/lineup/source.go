package lineup

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

const defaultTimeZone = "CET"

// fileSet is one set entry of a lineup file.
type fileSet struct {
	Day      int       `yaml:"day"`
	Hour     int       `yaml:"hour"`
	Minute   int       `yaml:"minute"`
	Duration int       `yaml:"duration"`
	DJ       string    `yaml:"dj"`
	Meta     []SetMeta `yaml:"meta"`
}

type lineupFile struct {
	BeginningSchedule string `yaml:"beginningSchedule"`
	Demo              bool   `yaml:"demo"`
	Meta              Meta   `yaml:"meta"`
	Lineup            struct {
		Rooms []string             `yaml:"rooms"`
		Sets  map[string][]fileSet `yaml:"sets"`
	} `yaml:"lineup"`
}

// Replacement records an authored set dropped because a later entry of the
// same room overlapped it.
type Replacement struct {
	Dropped Set
	By      Set
}

// Source is a parsed lineup file along with what was noticed while
// building it.
type Source struct {
	Data     Data
	Location *time.Location
	Replaced []Replacement
	Holes    []Hole
}

// LoadFile reads and parses the lineup file at path. now is only used by
// demo files, which start the day before now.
func LoadFile(path string, now time.Time) (*Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lineup: %w", err)
	}
	return Parse(b, now)
}

// Parse builds a Source from lineup YAML. All validation problems are
// reported together.
func Parse(b []byte, now time.Time) (*Source, error) {
	var f lineupFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse lineup: %w", err)
	}

	var errs []error
	meta := f.Meta
	if strings.TrimSpace(meta.Title) == "" {
		errs = append(errs, errors.New("missing meta.title"))
	}
	if strings.TrimSpace(meta.Prefix) == "" {
		errs = append(errs, errors.New("missing meta.prefix"))
	}
	if len(f.Lineup.Rooms) == 0 {
		errs = append(errs, errors.New("missing lineup.rooms"))
	}
	if meta.TimeZone == "" {
		meta.TimeZone = defaultTimeZone
	}
	loc, err := time.LoadLocation(meta.TimeZone)
	if err != nil {
		errs = append(errs, fmt.Errorf("time zone %q: %w", meta.TimeZone, err))
		loc = time.UTC
	}

	var beginning time.Time
	if f.Demo {
		y, m, d := now.In(loc).AddDate(0, 0, -1).Date()
		beginning = time.Date(y, m, d, 0, 0, 0, 0, loc)
	} else if beginning, err = dateparse.ParseIn(f.BeginningSchedule, loc); err != nil {
		errs = append(errs, fmt.Errorf("beginningSchedule %q: %w", f.BeginningSchedule, err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	meta.Rooms = f.Lineup.Rooms
	meta.BeginningSchedule = beginning

	src := &Source{Location: loc}
	var sets []Set
	for _, room := range meta.Rooms {
		entries, ok := f.Lineup.Sets[room]
		if !ok {
			entries, ok = f.Lineup.Sets[strings.ToLower(room)]
		}
		if !ok {
			continue
		}
		for _, e := range entries {
			if e.Duration < 0 {
				errs = append(errs, fmt.Errorf("%s: %s has a negative duration", room, e.DJ))
				continue
			}
			s := fileSetToSet(e, room, beginning)
			var dropped []Set
			sets, dropped = addSet(sets, s)
			for _, d := range dropped {
				src.Replaced = append(src.Replaced, Replacement{Dropped: d, By: s})
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	SortSets(sets, meta.Rooms)
	src.Data = Data{Meta: meta, Sets: sets}
	src.Holes = Holes(sets)
	return src, nil
}

func fileSetToSet(e fileSet, room string, beginning time.Time) Set {
	y, m, d := beginning.Date()
	start := time.Date(y, m, d, e.Hour, e.Minute, 0, 0, beginning.Location()).AddDate(0, 0, e.Day)
	s := NewSet(e.DJ, room, start, start.Add(time.Duration(e.Duration)*time.Minute))
	s.Meta = e.Meta
	return s
}

// addSet appends s and drops the sets of the same room it overlaps.
func addSet(sets []Set, s Set) (kept, dropped []Set) {
	kept = sets[:0:0]
	for _, v := range sets {
		if v.Room == s.Room && v.End.After(s.Start) && v.Start.Before(s.End) {
			dropped = append(dropped, v)
			continue
		}
		kept = append(kept, v)
	}
	return append(kept, s), dropped
}

// SortSets orders sets by the position of their room in rooms, then by
// start. Rooms missing from rooms sort last, by name.
func SortSets(sets []Set, rooms []string) {
	order := make(map[string]int, len(rooms))
	for i, r := range rooms {
		order[r] = i
	}
	rank := func(room string) int {
		if i, ok := order[room]; ok {
			return i
		}
		return len(rooms)
	}
	sort.SliceStable(sets, func(i, j int) bool {
		ri, rj := rank(sets[i].Room), rank(sets[j].Room)
		if ri != rj {
			return ri < rj
		}
		if sets[i].Room != sets[j].Room {
			return sets[i].Room < sets[j].Room
		}
		return sets[i].Start.Before(sets[j].Start)
	})
}
