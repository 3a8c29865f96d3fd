// internal/httpserver/routes_simulate.go
//
// Simulation routes (token-guarded when a JWT secret is configured):
//   - POST /simulate        → solve a known solution, persist the run
//   - GET  /simulate/stats  → turn histogram per (scoringMode, hardMode)
//   - GET  /simulate/recent → latest persisted runs

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/results"
	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// mountSimulate registers all /simulate routes.
func (s *Server) mountSimulate(r chi.Router) {
	r.Route("/simulate", func(r chi.Router) {
		r.Post("/", s.handleSimulate)
		r.Get("/stats", s.handleSimStats)
		r.Get("/recent", s.handleSimRecent)
	})
}

// simulateReq is the request payload for POST /simulate.
type simulateReq struct {
	policyReq
	Solution string `json:"solution"`
}

// simulateRes describes one simulated game.
type simulateRes struct {
	Solution  words.Word    `json:"solution"`
	Config    solver.Config `json:"config"`
	Solved    bool          `json:"solved"`
	Turns     []solver.Turn `json:"turns"`
	RunID     int64         `json:"runId,omitempty"`
	WordIndex *int          `json:"wordIndex,omitempty"`
	Date      string        `json:"date,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	solution, err := words.Parse(req.Solution)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	}
	if !s.opts.Lists.IsAnswer(solution) {
		writeError(w, http.StatusBadRequest, "not_an_answer")
		return
	}
	cfg, err := s.policy(req.policyReq)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config")
		return
	}

	res, ok := s.simulate(w, r, solution, cfg, "simulate")
	if !ok {
		return
	}
	if sub := subject(r); sub != "" {
		log.Info().Str("subject", sub).Str("solution", solution.String()).Int("turns", len(res.Turns)).Msg("simulated")
	}
	writeJSON(w, http.StatusOK, res)
}

// simulate plays cfg against solution and records the run. It writes the
// error response itself when it fails.
func (s *Server) simulate(w http.ResponseWriter, r *http.Request, solution words.Word, cfg solver.Config, source string) (*simulateRes, bool) {
	first, err := s.opening(r.Context(), cfg)
	if err != nil {
		writeSolverError(w, r, err)
		return nil, false
	}
	cfg.FirstGuess = first

	out, err := s.solverFor(cfg).Simulate(r.Context(), s.states[cfg.Pool], solution)
	if err != nil && out == nil {
		writeSolverError(w, r, err)
		return nil, false
	}
	if err != nil {
		// Turn limit and friends still produce a partial game worth recording.
		log.Warn().Err(err).Str("solution", solution.String()).Msg("simulation incomplete")
	}

	res := &simulateRes{Solution: solution, Config: cfg, Solved: out.Solved, Turns: out.Turns}
	if res.Turns == nil {
		res.Turns = []solver.Turn{}
	}
	if s.opts.Results != nil {
		id, err := s.opts.Results.Insert(r.Context(), results.FromResult(solution, cfg, out, source))
		if err != nil {
			log.Warn().Err(err).Str("solution", solution.String()).Msg("insert run")
		}
		res.RunID = id
	}
	return res, true
}

func (s *Server) handleSimStats(w http.ResponseWriter, r *http.Request) {
	if s.opts.Results == nil {
		writeError(w, http.StatusServiceUnavailable, "no_results_store")
		return
	}
	mode := s.opts.Defaults.Mode
	if v := r.URL.Query().Get("mode"); v != "" {
		m, err := scoring.ParseMode(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_config")
			return
		}
		mode = m
	}
	if mode == "" {
		mode = scoring.Entropy
	}
	hard := s.opts.Defaults.HardMode
	if v := r.URL.Query().Get("hard"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_config")
			return
		}
		hard = b
	}
	st, err := s.opts.Results.Stats(r.Context(), string(mode), hard)
	if err != nil {
		log.Error().Err(err).Msg("run stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSimRecent(w http.ResponseWriter, r *http.Request) {
	if s.opts.Results == nil {
		writeError(w, http.StatusServiceUnavailable, "no_results_store")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.opts.Results.Recent(r.Context(), min(limit, 200))
	if err != nil {
		log.Error().Err(err).Msg("recent runs")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
