package lineup

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "likes.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	storeContract(t, s)
}

func TestSQLiteStore_reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	repo := NewRepositoryWithStore(s)
	token, _, err := repo.SyncLikes(context.Background(), "", []Like{like("Alice", "Main", 0)})
	if err != nil {
		t.Fatalf("SyncLikes: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	got, err := NewRepositoryWithStore(s).GetLikes(context.Background(), token)
	if err != nil || len(got) != 1 || got[0].DJ != "Alice" {
		t.Errorf("after reopen got %v err %v", got, err)
	}
}
