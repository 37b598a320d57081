package lineup

import (
	"testing"
	"time"
)

func mainMeta(rooms ...string) Meta {
	if len(rooms) == 0 {
		rooms = []string{"Main"}
	}
	return Meta{
		Title:             "Test Fest",
		Rooms:             rooms,
		BeginningSchedule: time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC),
	}
}

func situationAt(t *testing.T, sets []Set, now time.Time) RoomSituation {
	t.Helper()
	out := FormatSituations(ComputeRoomStates(sets, now), mainMeta(), nil, now)
	if len(out) != 1 {
		t.Fatalf("got %d situations, want 1", len(out))
	}
	return out[0]
}

func TestFormatSituations(t *testing.T) {
	tests := []struct {
		name       string
		sets       []Set
		now        time.Time
		want       string
		wantClosed bool
	}{
		{
			name: "playing_with_pause",
			sets: []Set{
				set(t, "Alice", "Main", at(t, 0, 10, 0), at(t, 0, 11, 0)),
				set(t, "Bob", "Main", at(t, 0, 11, 30), at(t, 0, 12, 30)),
			},
			now:  at(t, 0, 10, 30),
			want: "Main ✅ Alice (Bob at 11:30 after 30 min of pause)",
		},
		{
			name: "playing_back_to_back",
			sets: []Set{
				set(t, "Alice", "Main", at(t, 0, 10, 0), at(t, 0, 11, 0)),
				set(t, "Bob", "Main", at(t, 0, 11, 0), at(t, 0, 12, 0)),
			},
			now:  at(t, 0, 10, 30),
			want: "Main ✅ Alice (Bob at 11:00)",
		},
		{
			name: "back_to_back_past_midnight_omits_weekday",
			sets: []Set{
				set(t, "Alice", "Main", at(t, 0, 23, 0), at(t, 1, 1, 0)),
				set(t, "Bob", "Main", at(t, 1, 1, 0), at(t, 1, 3, 0)),
			},
			now:  at(t, 0, 23, 30),
			want: "Main ✅ Alice (Bob at 01:00)",
		},
		{
			name: "playing_last_set",
			sets: []Set{set(t, "Alice", "Main", at(t, 0, 10, 0), at(t, 0, 11, 0))},
			now:  at(t, 0, 10, 30),
			want: "Main ✅ Alice (Closing at 11:00)",
		},
		{
			name: "playing_last_set_ending_tomorrow",
			sets: []Set{set(t, "Alice", "Main", at(t, 0, 22, 0), at(t, 1, 2, 0))},
			now:  at(t, 0, 23, 0),
			want: "Main ✅ Alice (Closing at 02:00)",
		},
		{
			name: "closed_until_next_day",
			sets: []Set{
				set(t, "Alice", "Main", at(t, 0, 8, 0), at(t, 0, 9, 0)),
				set(t, "Bob", "Main", at(t, 1, 23, 0), at(t, 2, 1, 0)),
			},
			now:        at(t, 0, 10, 30),
			want:       "Main 🚫 closed (Bob, Saturday at 23:00)",
			wantClosed: true,
		},
		{
			name: "closed_until_later_today",
			sets: []Set{
				set(t, "Bob", "Main", at(t, 0, 22, 0), at(t, 1, 1, 0)),
			},
			now:        at(t, 0, 10, 30),
			want:       "Main 🚫 closed (Bob at 22:00)",
			wantClosed: true,
		},
		{
			name: "long_pause_is_closing",
			sets: []Set{
				set(t, "Alice", "Main", at(t, 0, 10, 0), at(t, 0, 11, 0)),
				set(t, "Bob", "Main", at(t, 0, 20, 0), at(t, 0, 21, 0)),
			},
			now:  at(t, 0, 10, 30),
			want: "Main ✅ Alice (Closing at 11:00)",
		},
		{
			name:       "closed_for_good",
			sets:       []Set{set(t, "Alice", "Main", at(t, 0, 8, 0), at(t, 0, 9, 0))},
			now:        at(t, 0, 10, 30),
			want:       "Main 🚫 closed",
			wantClosed: true,
		},
		{
			name:       "closed_until_unknown_slot_today",
			sets:       []Set{set(t, "?", "Main", at(t, 0, 22, 0), at(t, 0, 23, 0))},
			now:        at(t, 0, 10, 30),
			want:       "Main 🚫 closed until 22:00",
			wantClosed: true,
		},
		{
			name:       "closed_until_unknown_slot_later",
			sets:       []Set{set(t, "?", "Main", at(t, 2, 22, 0), at(t, 2, 23, 0))},
			now:        at(t, 0, 10, 30),
			want:       "Main 🚫 closed until Sunday at 22:00",
			wantClosed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := situationAt(t, tt.sets, tt.now)
			if got.Situation != tt.want {
				t.Errorf("situation = %q, want %q", got.Situation, tt.want)
			}
			if got.Closed != tt.wantClosed {
				t.Errorf("closed = %v, want %v", got.Closed, tt.wantClosed)
			}
			if got.Room != "Main" {
				t.Errorf("room = %q", got.Room)
			}
		})
	}
}

func TestFormatSituations_no_data_and_order(t *testing.T) {
	now := at(t, 0, 10, 30)
	sets := []Set{
		set(t, "Alice", "Garden", at(t, 0, 10, 0), at(t, 0, 11, 0)),
		set(t, "Ghost", "Basement", at(t, 0, 10, 0), at(t, 0, 11, 0)),
	}
	meta := mainMeta("Main", "Garden")
	out := FormatSituations(ComputeRoomStates(sets, now), meta, nil, now)
	if len(out) != len(meta.Rooms) {
		t.Fatalf("got %d situations, want %d", len(out), len(meta.Rooms))
	}
	if out[0].Situation != "Main ⚠️ no data" || !out[0].Closed {
		t.Errorf("first = %+v, want no data for Main", out[0])
	}
	if out[1].Room != "Garden" || out[1].Closed {
		t.Errorf("second = %+v, want open Garden", out[1])
	}
}

func TestFormatSituations_like(t *testing.T) {
	now := at(t, 0, 10, 30)
	meta := mainMeta()
	alice := set(t, "Alice", "Main", at(t, 0, 10, 0), at(t, 0, 11, 0))
	alice.Meta = []SetMeta{{Key: "dj.link.soundcloud", Value: "https://soundcloud.com/alice"}}

	t.Run("attached_for_scheduled_set", func(t *testing.T) {
		out := FormatSituations(ComputeRoomStates([]Set{alice}, now), meta, nil, now)
		like := out[0].Like
		if like == nil {
			t.Fatal("like should be attached")
		}
		if like.DJ != "Alice" || like.Room != "Main" || like.Title != "Test Fest" {
			t.Errorf("like = %+v", like)
		}
		if !like.Started.Equal(alice.Start) || !like.BeginningSchedule.Equal(meta.BeginningSchedule) {
			t.Errorf("like times = %v / %v", like.Started, like.BeginningSchedule)
		}
		if len(like.Meta) != 1 {
			t.Errorf("like meta = %v", like.Meta)
		}
		if out[0].Liked {
			t.Error("liked should be false with no likes")
		}
	})

	t.Run("liked_flag", func(t *testing.T) {
		likes := []Like{{DJ: "Alice", Room: "Main", BeginningSchedule: meta.BeginningSchedule}}
		out := FormatSituations(ComputeRoomStates([]Set{alice}, now), meta, likes, now)
		if !out[0].Liked {
			t.Error("liked should be true")
		}
		if out[0].Situation != "Main ✅ Alice (Closing at 11:00)" {
			t.Errorf("likes must not change the text, got %q", out[0].Situation)
		}
	})

	t.Run("not_attached_for_unknown_dj", func(t *testing.T) {
		unknown := set(t, "?", "Main", at(t, 0, 10, 0), at(t, 0, 11, 0))
		out := FormatSituations(ComputeRoomStates([]Set{unknown}, now), meta, nil, now)
		if out[0].Like != nil {
			t.Errorf("like = %+v, want nil", out[0].Like)
		}
	})
}

func TestFormatSituations_uses_now_location(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	now := at(t, 0, 10, 30).In(berlin)
	sets := []Set{set(t, "Alice", "Main", at(t, 0, 10, 0), at(t, 0, 11, 0))}
	got := situationAt(t, sets, now)
	if got.Situation != "Main ✅ Alice (Closing at 13:00)" {
		t.Errorf("situation = %q", got.Situation)
	}
}
