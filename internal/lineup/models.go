package lineup

import (
	"fmt"
	"strings"
	"time"
)

// Kind tells authored sets apart from the ones derived while rendering.
type Kind int

const (
	// KindScheduled is an authored performance with a real DJ name.
	KindScheduled Kind = iota
	// KindUnknown is an authored slot whose DJ is not known yet.
	KindUnknown
	// KindGap is synthesized: a hole between sets or the closing/closed trailer.
	KindGap
	// KindMarker is synthesized: the "you are here" position.
	KindMarker
)

// UnknownDJ is the wire and file spelling of a KindUnknown set's DJ.
const UnknownDJ = "?"

var kindNames = [...]string{
	KindScheduled: "scheduled",
	KindUnknown:   "unknown",
	KindGap:       "gap",
	KindMarker:    "marker",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid set kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is KindScheduled.
func (k *Kind) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	if s == "" {
		*k = KindScheduled
		return nil
	}
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid set kind %q", s)
}

// SetMeta is one key/value pair attached to a set, e.g. "dj.link.soundcloud".
type SetMeta struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Set is one scheduled performance in a room.
type Set struct {
	DJ    string    `json:"dj"`
	Room  string    `json:"room"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Meta  []SetMeta `json:"meta,omitempty"`
	Kind  Kind      `json:"kind"`
}

// NewSet builds an authored set, mapping the "?" DJ to KindUnknown.
func NewSet(dj, room string, start, end time.Time) Set {
	kind := KindScheduled
	if strings.TrimSpace(dj) == UnknownDJ {
		kind = KindUnknown
		dj = UnknownDJ
	}
	return Set{DJ: dj, Room: room, Start: start, End: end, Kind: kind}
}

// IsScheduled reports whether s is an authored set with a known DJ.
func (s Set) IsScheduled() bool {
	return s.Kind == KindScheduled
}

// Contains reports whether t lies within [Start, End], bounds inclusive.
func (s Set) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

const linkPrefix = "dj.link."

var linkServices = []string{"soundcloud", "spotify", "instagram", "bandcamp", "www"}

// Link is an external profile link of a DJ.
type Link struct {
	Service string `json:"service"`
	URL     string `json:"url"`
}

// Links returns the recognised external links of the set's DJ.
func (s Set) Links() []Link {
	return Links(s.Meta)
}

// Links returns the recognised dj.link.<service> entries in meta order.
func Links(meta []SetMeta) []Link {
	var out []Link
	for _, m := range meta {
		if !strings.HasPrefix(m.Key, linkPrefix) || m.Value == "" {
			continue
		}
		rest := strings.TrimPrefix(m.Key, linkPrefix)
		for _, svc := range linkServices {
			if strings.HasPrefix(rest, svc) {
				out = append(out, Link{Service: svc, URL: m.Value})
				break
			}
		}
	}
	return out
}

// Meta is the per-event configuration shipped with the lineup.
type Meta struct {
	AboutBigIcon              string    `json:"aboutBigIcon" yaml:"aboutBigIcon"`
	AboutShowShallowBunnyIcon bool      `json:"aboutShowShallowBunnyIcon" yaml:"aboutShowShallowBunnyIcon"`
	AboutShowSisyDuckIcon     bool      `json:"aboutShowSisyDuckIcon" yaml:"aboutShowSisyDuckIcon"`
	BotURL                    string    `json:"botUrl" yaml:"botUrl"`
	NowMapImage               string    `json:"nowMapImage" yaml:"nowMapImage"`
	NowShowDataSourceAd       bool      `json:"nowShowDataSourceAd" yaml:"nowShowDataSourceAd"`
	NowShowShallowBunnyAd     bool      `json:"nowShowShallowBunnyAd" yaml:"nowShowShallowBunnyAd"`
	NowShowSisyDuckAd         bool      `json:"nowShowSisyDuckAd" yaml:"nowShowSisyDuckAd"`
	NowSubmitPR               string    `json:"nowSubmitPR" yaml:"nowSubmitPR"`
	NowTextAfterMap           string    `json:"nowTextAfterMap" yaml:"nowTextAfterMap"`
	NowTextWhenFinished       string    `json:"nowTextWhenFinished" yaml:"nowTextWhenFinished"`
	MobileAppName             string    `json:"mobileAppName" yaml:"mobileAppName"`
	Prefix                    string    `json:"prefix" yaml:"prefix"`
	RoomYouAreHereEmoticon    string    `json:"roomYouAreHereEmoticon" yaml:"roomYouAreHereEmoticon"`
	Rooms                     []string  `json:"rooms" yaml:"-"`
	Title                     string    `json:"title" yaml:"title"`
	BeginningSchedule         time.Time `json:"beginningSchedule" yaml:"-"`
	TimeZone                  string    `json:"timeZone" yaml:"timeZone"`
}

// HasRoom reports whether room is listed in m.Rooms.
func (m Meta) HasRoom(room string) bool {
	for _, r := range m.Rooms {
		if r == room {
			return true
		}
	}
	return false
}

// Data is one fetched lineup: configuration plus the authored sets.
type Data struct {
	Meta Meta  `json:"meta"`
	Sets []Set `json:"sets"`
}

// RoomSets is the derived state of one room at a reference instant.
type RoomSets struct {
	Current *Set `json:"current"`
	Next    *Set `json:"next"`
	// PauseDuration is in minutes and only set when both Current and Next exist.
	PauseDuration *int `json:"pauseDuration"`
	Closing       bool `json:"closing"`
}

// RoomSituation is the human-readable status of one room.
type RoomSituation struct {
	Room      string `json:"room"`
	Situation string `json:"situation"`
	Like      *Like  `json:"like,omitempty"`
	Liked     bool   `json:"liked"`
	Closed    bool   `json:"closed"`
}

// Like is a user's saved favorite. Identity is (DJ, BeginningSchedule, Room).
type Like struct {
	DJ                string    `json:"dj" toml:"dj"`
	Title             string    `json:"title" toml:"title"`
	BeginningSchedule time.Time `json:"beginningSchedule" toml:"beginning_schedule"`
	Room              string    `json:"room" toml:"room"`
	Started           time.Time `json:"started" toml:"started"`
	Meta              []SetMeta `json:"meta" toml:"meta"`
}
