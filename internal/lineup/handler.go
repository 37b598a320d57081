package lineup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dj-lineup/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/ijt/go-anytime"
)

const maxLikesBody = 1 << 20

// Handler exposes lineup HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// LikesRequest is the body of POST /api/likes.
type LikesRequest struct {
	Token string `json:"token"`
	Likes []Like `json:"likes"`
}

// LikesResponse is what the client should replace its local state with.
type LikesResponse struct {
	Token string `json:"token"`
	Likes []Like `json:"likes"`
}

// GetLineup handles GET /api.
func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Lineup())
}

// GetNow handles GET /api/now?at=&token=.
func (h *Handler) GetNow(w http.ResponseWriter, r *http.Request) {
	at, ok := h.referenceTime(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Now(at, h.likesFor(r)))
}

// GetRoom handles GET /api/rooms/{room}?at=&token=.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "room")
	if room == "" {
		writeError(w, http.StatusBadRequest, "missing room")
		return
	}
	at, ok := h.referenceTime(w, r)
	if !ok {
		return
	}

	sched, err := h.svc.RoomSchedule(room, at, h.likesFor(r))
	if err != nil {
		if errors.Is(err, ErrUnknownRoom) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error("room schedule failed", slog.String("room", room), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

// Search handles GET /api/search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	sets := h.svc.Search(q)
	if sets == nil {
		sets = []Set{}
	}
	h.log.Debug("search", slog.String("query", q), slog.Int("results", len(sets)))
	if h.metrics != nil {
		h.metrics.IncSearches()
	}
	writeJSON(w, http.StatusOK, sets)
}

// SyncLikes handles POST /api/likes.
// Body: { "token": "...", "likes": [...] }.
func (h *Handler) SyncLikes(w http.ResponseWriter, r *http.Request) {
	var req LikesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLikesBody)).Decode(&req); err != nil {
		h.log.Debug("invalid likes body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	token, likes, err := h.svc.SyncLikes(r.Context(), req.Token, req.Likes)
	if err != nil {
		if errors.Is(err, ErrTooManyLikes) {
			h.log.Info("likes rejected", slog.Int("count", len(req.Likes)))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("sync likes failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if token != req.Token {
		h.log.Info("likes token issued", slog.Int("likes", len(likes)))
	}
	if h.metrics != nil {
		h.metrics.IncLikesSynced()
	}
	writeJSON(w, http.StatusOK, LikesResponse{Token: token, Likes: likes})
}

// GetManifest handles GET /manifest and GET /manifest.webmanifest.
func (h *Handler) GetManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.svc.Manifest())
}

// referenceTime parses the optional at parameter ("tomorrow at 3pm",
// "2024-06-07 23:00") relative to the service clock. On failure it writes
// the 400 response itself.
func (h *Handler) referenceTime(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	now := h.svc.Clock()
	s := strings.TrimSpace(r.URL.Query().Get("at"))
	if s == "" {
		return now, true
	}
	at, err := anytime.Parse(s, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at: "+s)
		return time.Time{}, false
	}
	return at, true
}

// likesFor loads the likes of the token query parameter. Unknown tokens and
// storage failures both yield no likes; they only affect the liked flags.
func (h *Handler) likesFor(r *http.Request) []Like {
	token := r.URL.Query().Get("token")
	likes, err := h.svc.Likes(r.Context(), token)
	if err != nil && !errors.Is(err, ErrLikesNotFound) {
		h.log.Warn("load likes failed", slog.String("error", err.Error()))
	}
	return likes
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
