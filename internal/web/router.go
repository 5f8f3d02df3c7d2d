package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"kicklive/internal/realtime"
	"kicklive/internal/storage"
)

// StatusResponse describes the watcher's current state for the ops API.
type StatusResponse struct {
	State       string   `json:"state"`
	Channels    []string `json:"channels"`
	ClientCount int      `json:"client_count"`
}

// NewRouter builds the ops HTTP surface: health, status, metrics, the
// local event-relay websocket and the recent-chat lookup.
func NewRouter(mgr *realtime.Manager, hub *EventHub, redisStore *storage.RedisStore, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, StatusResponse{
			State:       mgr.State().String(),
			Channels:    mgr.Channels(),
			ClientCount: hub.ClientCount(),
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", hub.ServeWS)

	if redisStore != nil {
		r.Get("/chat/{chatroomID}/recent", recentChatHandler(redisStore, logger))
	}

	return r
}

func recentChatHandler(store *storage.RedisStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatroomID, err := strconv.ParseInt(chi.URLParam(r, "chatroomID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid chatroom id", http.StatusBadRequest)
			return
		}

		limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
		msgs, err := store.RecentChatMessages(r.Context(), chatroomID, limit)
		if err != nil {
			logger.Warn().Err(err).Msg("recent chat lookup failed")
			http.Error(w, "lookup failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, msgs)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
