// Package status serves a small read-only HTTP API next to the SSH server:
// liveness, the sessions being played right now and the session journal.
package status

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/heapdefence/internal/registry"
	"github.com/vovakirdan/heapdefence/internal/storage"
)

const maxLimit = 100

// Journal is the read side of the session store.
type Journal interface {
	RecentSessions(limit int) ([]storage.SessionRecord, error)
	SessionByID(sessionID string) (*storage.SessionRecord, error)
}

// Active lists running sessions.
type Active interface {
	List() []registry.Session
}

type handler struct {
	active  Active
	journal Journal
	logger  *log.Logger
	started time.Time
}

// NewRouter builds the status API. journal may be nil when the database
// could not be opened; the journal endpoints then answer 503.
func NewRouter(active Active, journal Journal, logger *log.Logger) http.Handler {
	h := &handler{
		active:  active,
		journal: journal,
		logger:  logger,
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.health)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.listSessions)
		r.Get("/active", h.listActive)
		r.Get("/{id}", h.getSession)
	})

	return r
}

// sessionJSON is the wire form of a journal entry.
type sessionJSON struct {
	SessionID    string    `json:"session_id"`
	Player       string    `json:"player"`
	Mode         string    `json:"mode"`
	EndReason    string    `json:"end_reason"`
	StartedAt    time.Time `json:"started_at"`
	DurationMs   int64     `json:"duration_ms"`
	Ticks        int64     `json:"ticks"`
	DroppedTicks int64     `json:"dropped_ticks"`
	BoxesSpawned int64     `json:"boxes_spawned"`
	RowsCleared  int64     `json:"rows_cleared"`
	Crushes      int64     `json:"crushes"`
}

func toJSON(rec storage.SessionRecord) sessionJSON {
	return sessionJSON{
		SessionID:    rec.SessionID,
		Player:       rec.Player,
		Mode:         rec.Mode,
		EndReason:    rec.EndReason,
		StartedAt:    rec.StartedAt.UTC(),
		DurationMs:   rec.Duration.Milliseconds(),
		Ticks:        rec.Ticks,
		DroppedTicks: rec.DroppedTicks,
		BoxesSpawned: rec.BoxesSpawned,
		RowsCleared:  rec.RowsCleared,
		Crushes:      rec.Crushes,
	}
}

// health handles GET /healthz
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"uptime_s": int64(time.Since(h.started).Seconds()),
		"active":   len(h.active.List()),
	})
}

// listActive handles GET /sessions/active
func (h *handler) listActive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.active.List())
}

// listSessions handles GET /sessions?limit=N
func (h *handler) listSessions(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		respondError(w, http.StatusServiceUnavailable, "journal unavailable")
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	records, err := h.journal.RecentSessions(limit)
	if err != nil {
		h.logger.Error("list sessions", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot read journal")
		return
	}

	out := make([]sessionJSON, len(records))
	for i, rec := range records {
		out[i] = toJSON(rec)
	}
	respondJSON(w, http.StatusOK, out)
}

// getSession handles GET /sessions/{id}
func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		respondError(w, http.StatusServiceUnavailable, "journal unavailable")
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.journal.SessionByID(id)
	if err != nil {
		h.logger.Error("get session", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "cannot read journal")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, toJSON(*rec))
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
		)
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Client went away; nothing left to report to
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
