// internal/httpserver/routes_solve.go
//
// Interactive solver sessions. The client plays a real puzzle and reports
// the feedback for each guess; the server narrows the candidates and
// recommends the next guess.
//   - POST   /solve/new          → create a session (optional policy overrides)
//   - GET    /solve/{id}         → session summary
//   - GET    /solve/{id}/next    → recommended guess (?top=N adds a ranking)
//   - POST   /solve/{id}/feedback → apply {guess, feedback}
//   - DELETE /solve/{id}         → drop the session
//
// Contradictory feedback answers 422 and leaves the session unchanged so the
// client can correct a typo and resubmit.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// sampleSize bounds the candidates listed in a session summary.
const sampleSize = 20

// mountSolve registers all /solve routes.
func (s *Server) mountSolve(r chi.Router) {
	r.Route("/solve", func(r chi.Router) {
		r.Post("/new", s.handleNewSession)
		r.Get("/{id}", s.handleSession)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Get("/{id}/next", s.handleNext)
		r.Post("/{id}/feedback", s.handleFeedback)
	})
}

// sessionRes summarizes a session.
type sessionRes struct {
	ID         string        `json:"id"`
	Config     solver.Config `json:"config"`
	Turns      []solver.Turn `json:"turns"`
	Solved     bool          `json:"solved"`
	Remaining  int           `json:"remaining"`
	PoolSize   int           `json:"poolSize"`
	Candidates []words.Word  `json:"candidates"` // first sampleSize
}

func summarize(sess *store.Session) sessionRes {
	turns := sess.Turns
	if turns == nil {
		turns = []solver.Turn{}
	}
	return sessionRes{
		ID:         sess.ID,
		Config:     sess.Config,
		Turns:      turns,
		Solved:     sess.Solved,
		Remaining:  sess.State.Len(),
		PoolSize:   sess.State.PoolLen(),
		Candidates: sess.State.Sample(sampleSize),
	}
}

// handleNewSession creates a session from the default policy plus overrides.
// An empty body is allowed.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req policyReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	cfg, err := s.policy(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config")
		return
	}
	sess := &store.Session{Config: cfg, State: s.states[cfg.Pool]}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Debug().Str("session", sess.ID).Str("mode", string(cfg.Mode)).Bool("hard", cfg.HardMode).Msg("session created")
	writeJSON(w, http.StatusCreated, summarize(sess))
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summarize(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	_ = s.sessions.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// nextRes is returned by /solve/{id}/next.
type nextRes struct {
	Guess     words.Word       `json:"guess"`
	Remaining int              `json:"remaining"`
	Ranked    []scoring.Ranked `json:"ranked,omitempty"`
}

// handleNext recommends the next guess. The opening of a fresh session comes
// from the server-wide cache.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if sess.Solved {
		writeError(w, http.StatusConflict, "solved")
		return
	}
	top := 0
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_top")
			return
		}
		top = min(n, 100)
	}

	sv := s.solverFor(sess.Config)
	var guess words.Word
	var err error
	if len(sess.Turns) == 0 {
		guess, err = s.opening(r.Context(), sess.Config)
	} else {
		guess, err = sv.ChooseGuess(r.Context(), sess.State)
	}
	if err != nil {
		writeSolverError(w, r, err)
		return
	}

	res := nextRes{Guess: guess, Remaining: sess.State.Len()}
	if top > 0 {
		if res.Ranked, err = sv.Rank(r.Context(), sess.State, top); err != nil {
			writeSolverError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// feedbackReq is the request payload for /solve/{id}/feedback.
type feedbackReq struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"` // g/y/b letters, 2/1/0 digits or emoji
}

// handleFeedback applies one observation.
//   - Guess must parse and be in the session's current guess pool.
//   - An all-Hit pattern marks the session solved.
//   - Otherwise the State is narrowed; an empty result is a 422.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	guess, err := words.Parse(req.Guess)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	}
	p, err := feedback.Parse(req.Feedback)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_feedback")
		return
	}

	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *store.Session) error {
		if sess.Solved {
			return errSessionSolved
		}
		if guess.Len() != sess.State.Length() || p.Len() != guess.Len() {
			return words.ErrLengthMismatch
		}
		if !sess.State.InPool(guess) {
			return solver.ErrNotInGuessPool
		}
		if p.Solved() {
			sess.Turns = append(sess.Turns, solver.Turn{Guess: guess, Pattern: p, Remaining: 1})
			sess.Solved = true
			return nil
		}
		next, err := sess.State.WithGuess(guess, p, sess.Config.HardMode)
		if err != nil {
			return err
		}
		sess.Turns = append(sess.Turns, solver.Turn{Guess: guess, Pattern: p, Remaining: next.Len()})
		sess.State = next
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, errSessionSolved):
		writeError(w, http.StatusConflict, "solved")
		return
	case err != nil:
		log.Debug().Err(err).Str("guess", req.Guess).Str("feedback", req.Feedback).Msg("feedback rejected")
		writeSolverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(sess))
}

var errSessionSolved = errors.New("session already solved")
