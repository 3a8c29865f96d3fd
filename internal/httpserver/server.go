// internal/httpserver/server.go
//
// HTTP server wiring for the solver service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", "/debug/words".
//   - Interactive solver sessions: mounted under /solve.
//   - Simulation against known solutions (optional token auth): /simulate.
//   - Daily puzzle solve: /daily/solve.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Errors are JSON bodies of the form {"error":"<code>"}.
//   - Handlers share read-only word lists and initial States; per-session
//     state lives in the session store.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/results"
	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Options configures a Server. Lists is required; everything else has a
// usable zero value.
type Options struct {
	Lists    *words.Lists
	Weights  *words.Weights  // nil: unweighted
	Sessions store.Store     // nil: fresh in-memory store
	Results  *results.Store  // nil: runs are not persisted
	Defaults solver.Config   // policy for sessions that do not override it
	Scorer   *scoring.Scorer // parallelism template; Mode comes from the policy
	Seed     uint64          // tie-break seed; 0 seeds from the clock

	JWTSecret    string // empty: simulation routes are open
	DailySalt    string
	ClientOrigin string

	RequestTimeout time.Duration // default 30s
	SessionTTL     time.Duration // idle sessions older than this are swept; default 1h
}

// Server bundles the router, session store and solver dependencies.
type Server struct {
	r        *chi.Mux
	opts     Options
	sessions store.Store
	states   map[solver.PoolSource]*solver.State
	openings *openingCache
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) (*Server, error) {
	if opts.Lists == nil {
		return nil, errors.New("httpserver: word lists are required")
	}
	if opts.Sessions == nil {
		opts.Sessions = store.NewMemoryStore()
	}
	if opts.Scorer == nil {
		opts.Scorer = scoring.New(opts.Defaults.Mode)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}

	s := &Server{
		r:        chi.NewRouter(),
		opts:     opts,
		sessions: opts.Sessions,
		states:   make(map[solver.PoolSource]*solver.State, 2),
		openings: newOpeningCache(),
	}
	for _, src := range []solver.PoolSource{solver.SolutionsOnly, solver.SolutionsPlusAllowed} {
		st, err := solver.FromLists(opts.Lists, opts.Weights, src)
		if err != nil {
			return nil, err
		}
		s.states[src] = st
	}
	if _, err := s.policy(policyReq{}); err != nil {
		return nil, fmt.Errorf("httpserver: default policy: %w", err)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-solver","endpoints":["/health","/metrics","POST /solve/new","POST /simulate","GET /daily/solve"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := opts.Lists.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g, "length": opts.Lists.Length})
	})

	s.mountSolve(s.r)
	s.mountSimulate(s.r.With(s.requireToken()))
	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s, nil
}

// Start serves HTTP on addr until ctx is cancelled, sweeping idle sessions
// in the background.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.sweep(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(s.opts.SessionTTL / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.sessions.Sweep(ctx, now.Add(-s.opts.SessionTTL)); n > 0 {
				log.Info().Int("sessions", n).Msg("swept idle sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeSolverError maps solver sentinels to status codes.
func writeSolverError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, solver.ErrEmptyCandidateSet):
		writeError(w, http.StatusUnprocessableEntity, "empty_candidate_set")
	case errors.Is(err, solver.ErrNotInGuessPool):
		writeError(w, http.StatusBadRequest, "not_in_guess_pool")
	case errors.Is(err, words.ErrLengthMismatch):
		writeError(w, http.StatusBadRequest, "length_mismatch")
	case errors.Is(err, words.ErrInvalidWord):
		writeError(w, http.StatusBadRequest, "invalid_word")
	case errors.Is(err, solver.ErrTurnLimit):
		writeError(w, http.StatusConflict, "turn_limit")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("solver failure")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// policyReq carries optional per-request overrides of the default policy.
type policyReq struct {
	HardMode    *bool  `json:"hardMode"`
	ScoringMode string `json:"scoringMode"`
	FirstGuess  string `json:"firstGuess"`
	GuessPool   string `json:"guessPool"`
}

// policy merges overrides into the server defaults.
func (s *Server) policy(req policyReq) (solver.Config, error) {
	cfg := s.opts.Defaults
	if cfg.Pool == "" {
		cfg.Pool = solver.SolutionsPlusAllowed
	}
	if req.HardMode != nil {
		cfg.HardMode = *req.HardMode
	}
	if req.ScoringMode != "" {
		m, err := scoring.ParseMode(req.ScoringMode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = m
	}
	if cfg.Mode == "" {
		cfg.Mode = scoring.Entropy
	}
	if req.GuessPool != "" {
		p, err := solver.ParsePoolSource(req.GuessPool)
		if err != nil {
			return cfg, err
		}
		cfg.Pool = p
	}
	if req.FirstGuess != "" {
		g, err := words.Parse(req.FirstGuess)
		if err != nil {
			return cfg, err
		}
		if g.Len() != s.opts.Lists.Length {
			return cfg, words.ErrLengthMismatch
		}
		cfg.FirstGuess = g
	}
	// The opener must be playable in the session it seeds.
	if !cfg.FirstGuess.IsZero() && !s.states[cfg.Pool].InPool(cfg.FirstGuess) {
		return cfg, fmt.Errorf("%w: first guess %q, pool %s", solver.ErrNotInGuessPool, cfg.FirstGuess, cfg.Pool)
	}
	return cfg, nil
}

// solverFor returns a Solver for cfg with a fresh generator. Solvers are
// cheap; one per request keeps generators out of shared state.
func (s *Server) solverFor(cfg solver.Config) *solver.Solver {
	return solver.New(cfg, s.opts.Scorer, solver.NewRand(s.opts.Seed))
}

// opening returns the first guess for cfg, computed once per
// (pool source, mode, hard mode).
func (s *Server) opening(ctx context.Context, cfg solver.Config) (words.Word, error) {
	if !cfg.FirstGuess.IsZero() {
		return cfg.FirstGuess, nil
	}
	key := openingKey{pool: cfg.Pool, mode: cfg.Mode, hard: cfg.HardMode}
	return s.openings.get(ctx, key, func(ctx context.Context) (words.Word, error) {
		return s.solverFor(cfg).Opening(ctx, s.states[cfg.Pool])
	})
}
