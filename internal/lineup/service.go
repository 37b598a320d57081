package lineup

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrUnknownRoom is returned for a room that is not part of the lineup.
var ErrUnknownRoom = errors.New("unknown room")

// Service serves the derived views of the current lineup and delegates likes
// persistence to a Repository. The lineup itself can be swapped at runtime.
type Service struct {
	repo Repository

	mu   sync.RWMutex
	data Data
	loc  *time.Location

	clock func() time.Time
}

// NewService returns a Service over data. loc is the event's time zone, used
// to render times; nil means UTC.
func NewService(repo Repository, data Data, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, data: data, loc: loc, clock: time.Now}
}

// SetClock replaces the wall clock used when no reference instant is given.
func (s *Service) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// Clock returns the current instant in the event's time zone.
func (s *Service) Clock() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock().In(s.loc)
}

// Replace swaps the served lineup, e.g. after the lineup file was edited.
func (s *Service) Replace(data Data, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.loc = loc
}

// Lineup returns the lineup as loaded.
func (s *Service) Lineup() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetCount returns the number of authored sets. Used for metrics.
func (s *Service) SetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Sets)
}

// Now returns one situation per room as seen at at.
func (s *Service) Now(at time.Time, likes []Like) []RoomSituation {
	data, at := s.snapshot(at)
	return FormatSituations(ComputeRoomStates(data.Sets, at), data.Meta, likes, at)
}

// RoomSchedule returns the timetable of room as seen at at.
func (s *Service) RoomSchedule(room string, at time.Time, likes []Like) (RoomSchedule, error) {
	data, at := s.snapshot(at)
	if !data.Meta.HasRoom(room) {
		return RoomSchedule{}, ErrUnknownRoom
	}
	return BuildRoomSchedule(data.Sets, room, data.Meta.BeginningSchedule, likes, at), nil
}

// Search returns the sets whose DJ best matches query.
func (s *Service) Search(query string) []Set {
	data, _ := s.snapshot(time.Time{})
	return Search(data.Sets, query)
}

// Manifest returns the web manifest of the current lineup.
func (s *Service) Manifest() Manifest {
	data, _ := s.snapshot(time.Time{})
	return BuildManifest(data.Meta)
}

// SyncLikes stores likes under token and returns what the client should keep.
func (s *Service) SyncLikes(ctx context.Context, token string, likes []Like) (string, []Like, error) {
	return s.repo.SyncLikes(ctx, token, likes)
}

// Likes returns the likes stored under token. An empty token yields no likes
// and no error.
func (s *Service) Likes(ctx context.Context, token string) ([]Like, error) {
	if token == "" {
		return nil, nil
	}
	return s.repo.GetLikes(ctx, token)
}

// TokenCount returns the number of tokens with synced likes.
func (s *Service) TokenCount(ctx context.Context) (int, error) {
	return s.repo.TokenCount(ctx)
}

// snapshot returns the lineup and at moved to the event's time zone; a zero
// at means the service clock.
func (s *Service) snapshot(at time.Time) (Data, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if at.IsZero() {
		at = s.clock()
	}
	return s.data, at.In(s.loc)
}
