package lineupapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dj-lineup/internal/lineup"
)

func TestParseBaseURL(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL: %v", err)
	}
	if u.String() != "http://"+defaultBaseURL {
		t.Errorf("default = %q", u.String())
	}

	u, err = parseBaseURL("https://lineup.example/some/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL: %v", err)
	}
	if u.String() != "https://lineup.example" {
		t.Errorf("not normalized: %q", u.String())
	}
}

func TestClient_FetchLineup(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.June, 7, 22, 0, 0, 0, time.UTC)
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/api" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(lineup.Data{
			Meta: lineup.Meta{Title: "Fest", Rooms: []string{"Main"}},
			Sets: []lineup.Set{lineup.NewSet("?", "Main", start, start.Add(time.Hour))},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	data, err := c.FetchLineup(context.Background())
	if err != nil {
		t.Fatalf("FetchLineup: %v", err)
	}
	if data.Meta.Title != "Fest" || len(data.Sets) != 1 {
		t.Fatalf("data = %+v", data)
	}
	if data.Sets[0].Kind != lineup.KindUnknown || !data.Sets[0].Start.Equal(start) {
		t.Errorf("set = %+v", data.Sets[0])
	}
	if gotUserAgent != defaultUserAgent {
		t.Errorf("user agent = %q", gotUserAgent)
	}
}

func TestClient_SyncLikes(t *testing.T) {
	t.Parallel()

	var got lineup.LikesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/likes" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(lineup.LikesResponse{Token: "server-token", Likes: got.Likes[:1]})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	likes := []lineup.Like{{DJ: "Alice", Room: "Main"}, {DJ: "Bob", Room: "Main"}}
	token, kept, err := c.SyncLikes(context.Background(), "old", likes)
	if err != nil {
		t.Fatalf("SyncLikes: %v", err)
	}
	if got.Token != "old" || len(got.Likes) != 2 {
		t.Errorf("request = %+v", got)
	}
	if token != "server-token" || len(kept) != 1 || kept[0].DJ != "Alice" {
		t.Errorf("token %q likes %+v, want the server's answer", token, kept)
	}
}

func TestClient_api_error(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"more than 500 likes"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, _, err = c.SyncLikes(context.Background(), "", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "more than 500 likes" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClient_cancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchLineup(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
