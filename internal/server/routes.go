package server

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the full HTTP surface.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/player/{name}", s.handlePlayer).Methods(http.MethodGet)
	r.Handle("/score", s.rateLimit(http.HandlerFunc(s.handleScore))).Methods(http.MethodPost)
	r.HandleFunc("/community", s.handleCommunity).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if dir := s.Cfg.Server.StaticDir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			r.PathPrefix("/").Handler(cacheControl(http.FileServer(http.Dir(dir))))
		}
	}

	return s.cors(r)
}

// cacheControl mirrors the original static hosting's one-hour max-age.
func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
