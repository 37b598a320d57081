package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("LINEUP_TEST_STR", "x")
	t.Setenv("LINEUP_TEST_EMPTY", "")
	if got := GetEnv("LINEUP_TEST_STR", "d"); got != "x" {
		t.Errorf("got %q", got)
	}
	if got := GetEnv("LINEUP_TEST_EMPTY", "d"); got != "d" {
		t.Errorf("empty should fall back, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("LINEUP_TEST_INT", "42")
	t.Setenv("LINEUP_TEST_BAD", "forty")
	if got := GetEnvInt("LINEUP_TEST_INT", 1); got != 42 {
		t.Errorf("got %d", got)
	}
	if got := GetEnvInt("LINEUP_TEST_BAD", 1); got != 1 {
		t.Errorf("invalid should fall back, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("LINEUP_TEST_BOOL", "1")
	t.Setenv("LINEUP_TEST_BAD", "maybe")
	if !GetEnvBool("LINEUP_TEST_BOOL", false) {
		t.Error("1 should read as true")
	}
	if !GetEnvBool("LINEUP_TEST_BAD", true) {
		t.Error("invalid should fall back")
	}
	if GetEnvBool("LINEUP_TEST_UNSET_BOOL", false) {
		t.Error("unset should fall back")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("LINEUP_TEST_DUR", "90m")
	t.Setenv("LINEUP_TEST_BAD", "soon")
	if got := GetEnvDuration("LINEUP_TEST_DUR", time.Second); got != 90*time.Minute {
		t.Errorf("got %v", got)
	}
	if got := GetEnvDuration("LINEUP_TEST_BAD", time.Second); got != time.Second {
		t.Errorf("invalid should fall back, got %v", got)
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("LINEUP_TEST_LIST", " https://a.example , ,https://b.example")
	got := GetEnvList("LINEUP_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("got %q", got)
	}
	t.Setenv("LINEUP_TEST_LIST", " , ")
	if got := GetEnvList("LINEUP_TEST_LIST", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Errorf("blank list should fall back, got %q", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LINEUP_TEST_FROM_FILE=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LINEUP_TEST_FROM_FILE", "")
	os.Unsetenv("LINEUP_TEST_FROM_FILE")
	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := GetEnv("LINEUP_TEST_FROM_FILE", ""); got != "yes" {
		t.Errorf("got %q", got)
	}
	if err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("missing file should return an error")
	}
}
