// internal/httpserver/routes_daily.go
//
// HTTP route for the daily puzzle:
//   - GET /daily/solve → solve today's (or ?date=YYYY-MM-DD) puzzle
//
// The daily solution is HMAC(salt, date) over the answer list, so the same
// date always yields the same word and, for a fixed seed, the same game.
// Runs are persisted with source "daily".

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/solve", s.handleDailySolve)
	})
}

func (s *Server) handleDailySolve(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := daily.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_date")
			return
		}
		date = d
	}
	cfg, err := s.policy(policyReq{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "invalid_config")
		return
	}

	solution, idx := daily.Answer(date, s.opts.DailySalt, s.opts.Lists.Answers)
	res, ok := s.simulate(w, r, solution, cfg, "daily")
	if !ok {
		return
	}
	res.Date = daily.DateKey(date)
	res.WordIndex = &idx
	writeJSON(w, http.StatusOK, res)
}
