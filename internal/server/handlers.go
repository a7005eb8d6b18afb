package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"debirunpop/internal/ledger"
	"debirunpop/internal/progress"
	"debirunpop/internal/storage"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Ledger.Leaderboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("fetching leaderboard")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	name := muxVar(r, "name")

	entry, err := s.Ledger.Player(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("fetching player")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type scoreRequest struct {
	Name  string `json:"name"`
	Delta int64  `json:"delta"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.SubmissionsRejected.WithLabelValues("bad_input").Inc()
		writeError(w, http.StatusBadRequest, "Bad input")
		return
	}

	err := s.Ledger.SubmitDelta(r.Context(), req.Name, req.Delta)
	if errors.Is(err, ledger.ErrBadInput) {
		s.Metrics.SubmissionsRejected.WithLabelValues("bad_input").Inc()
		writeError(w, http.StatusBadRequest, "Bad input")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("adding score")
		s.Metrics.SubmissionsRejected.WithLabelValues("storage").Inc()
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.Metrics.SubmissionsAccepted.Inc()
	s.publishCommunity(r)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// publishCommunity pushes the fresh total to websocket listeners and the
// metrics gauge after an accepted submission. Best effort.
func (s *Server) publishCommunity(r *http.Request) {
	total, err := s.Ledger.CommunityTotal(r.Context())
	if err != nil {
		log.Debug().Err(err).Msg("reading community total for broadcast")
		return
	}
	s.Metrics.CommunityTotal.Set(float64(total))

	p := progress.Compute(total, s.Cfg.Game.LevelBase, s.Cfg.Game.LevelGrowth)
	s.Hub.Broadcast(CommunityUpdate{
		Type:         "community",
		Total:        total,
		Level:        p.Level,
		Goal:         p.Goal,
		ScoreInLevel: p.ScoreInLevel,
	})
}

func (s *Server) handleCommunity(w http.ResponseWriter, r *http.Request) {
	total, err := s.Ledger.CommunityTotal(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("fetching community total")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"total": total})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("storage ping failed")
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"database":  s.Store.Type(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
