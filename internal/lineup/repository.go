package lineup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MaxLikes bounds the size of one synced likes list.
const MaxLikes = 500

// Repository defines the concurrency-safe contract for syncing likes lists.
type Repository interface {
	// SyncLikes replaces whatever is stored under token with likes and
	// returns the token to use from now on together with the stored list.
	// An empty or malformed token gets a fresh one. There is no merge with
	// the previous list: the last write wins.
	SyncLikes(ctx context.Context, token string, likes []Like) (string, []Like, error)

	// GetLikes returns the list stored under token, or ErrLikesNotFound.
	GetLikes(ctx context.Context, token string) ([]Like, error)

	// TokenCount returns the number of tokens with a stored list.
	// Used for metrics.
	TokenCount(ctx context.Context) (int, error)
}

var (
	// ErrTooManyLikes is returned when a synced list exceeds MaxLikes.
	ErrTooManyLikes = fmt.Errorf("more than %d likes", MaxLikes)

	// ErrLikesNotFound is returned when no list is stored under a token.
	ErrLikesNotFound = errors.New("no likes for token")
)

// StoreRepository is a concurrency-safe Repository on top of a Store.
type StoreRepository struct {
	mu       sync.RWMutex
	store    Store
	newToken func() string
}

// NewInMemoryRepository constructs a repository backed by an InMemoryStore.
func NewInMemoryRepository() *StoreRepository {
	return NewRepositoryWithStore(NewInMemoryStore())
}

// NewRepositoryWithStore constructs a repository that uses the given Store.
func NewRepositoryWithStore(store Store) *StoreRepository {
	return &StoreRepository{store: store, newToken: uuid.NewString}
}

// SyncLikes implements Repository.SyncLikes.
func (r *StoreRepository) SyncLikes(ctx context.Context, token string, likes []Like) (string, []Like, error) {
	if len(likes) > MaxLikes {
		return "", nil, ErrTooManyLikes
	}
	token, ok := canonicalToken(token)
	if !ok {
		token = r.newToken()
	}

	stored := Dedupe(likes)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.SetLikes(ctx, token, stored); err != nil {
		return "", nil, fmt.Errorf("store likes: %w", err)
	}
	return token, cloneLikes(stored), nil
}

// GetLikes implements Repository.GetLikes.
func (r *StoreRepository) GetLikes(ctx context.Context, token string) ([]Like, error) {
	token, ok := canonicalToken(token)
	if !ok {
		return nil, ErrLikesNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	likes, ok, err := r.store.GetLikes(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	if !ok {
		return nil, ErrLikesNotFound
	}
	return cloneLikes(likes), nil
}

// TokenCount implements Repository.TokenCount.
func (r *StoreRepository) TokenCount(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.CountTokens(ctx)
}

func cloneLikes(likes []Like) []Like {
	out := make([]Like, len(likes))
	copy(out, likes)
	return out
}

// canonicalToken maps every accepted uuid spelling (braces, urn:uuid:,
// undashed, upper case) to the dashed lower-case form used as storage key.
func canonicalToken(token string) (string, bool) {
	u, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return "", false
	}
	return u.String(), true
}
