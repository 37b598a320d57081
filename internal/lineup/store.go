package lineup

import "context"

// Store is the persistence abstraction for synced likes, keyed by the opaque
// token handed out to clients. Implementations can be in-memory, SQL or
// Redis; the Repository serializes access and never hands out the stored
// slices themselves.
type Store interface {
	GetLikes(ctx context.Context, token string) ([]Like, bool, error)
	SetLikes(ctx context.Context, token string, likes []Like) error
	CountTokens(ctx context.Context) (int, error)
}

// InMemoryStore is an in-memory implementation of Store. It is not safe for
// concurrent use on its own.
type InMemoryStore struct {
	likes map[string][]Like
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{likes: make(map[string][]Like)}
}

// GetLikes implements Store.GetLikes.
func (s *InMemoryStore) GetLikes(_ context.Context, token string) ([]Like, bool, error) {
	l, ok := s.likes[token]
	return l, ok, nil
}

// SetLikes implements Store.SetLikes.
func (s *InMemoryStore) SetLikes(_ context.Context, token string, likes []Like) error {
	s.likes[token] = likes
	return nil
}

// CountTokens implements Store.CountTokens.
func (s *InMemoryStore) CountTokens(context.Context) (int, error) {
	return len(s.likes), nil
}
