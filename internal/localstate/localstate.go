// Package localstate persists the terminal client's likes and sync token.
// The state lives in ~/.config/dj-lineup/state.toml.
package localstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dj-lineup/internal/lineup"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultPath = "~/.config/dj-lineup/state.toml"

// State is what the client remembers between runs.
type State struct {
	Server string        `toml:"server,omitempty"`
	Token  string        `toml:"token"`
	Likes  []lineup.Like `toml:"likes"`
}

// DefaultPath returns the default state file path.
func DefaultPath() string {
	return defaultPath
}

// Load reads the state at path. A missing file is an empty state.
func Load(path string) (State, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return State{}, err
	}
	b, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := toml.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("decode state %s: %w", resolved, err)
	}
	return st, nil
}

// Save writes st to path, creating directories as needed. The file is
// replaced atomically.
func Save(path string, st State) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	b, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = defaultPath
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
