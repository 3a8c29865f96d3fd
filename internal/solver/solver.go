// internal/solver/solver.go
//
// Guess selection and the solve loop.
//
// Responsibilities:
//   - ChooseGuess: a lone candidate is guessed outright; otherwise every pool
//     word is scored and one of the top-scoring words is picked at random.
//   - Solve: guess, observe, narrow, repeat until an all-Hit pattern.
//   - Simulate: Solve against a known solution (see internal/game).
package solver

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// ErrTurnLimit is returned by Solve when Config.MaxTurns is reached first.
var ErrTurnLimit = errors.New("turn limit reached")

// Config is the solver policy.
type Config struct {
	HardMode   bool         `json:"hard_mode"`
	Mode       scoring.Mode `json:"scoring_mode"`
	FirstGuess words.Word   `json:"first_guess"` // zero value: computed
	Pool       PoolSource   `json:"guess_pool"`
	MaxTurns   int          `json:"max_turns"` // 0: unlimited
}

// Rand is the tie-break source. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded PCG generator. Seed 0 seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Solver picks guesses under a Config. A Solver is not safe for concurrent
// use because its Rand is not; give each goroutine its own.
type Solver struct {
	cfg    Config
	scorer *scoring.Scorer
	rng    Rand
}

// New returns a Solver. A nil scorer means scoring.New(cfg.Mode); a nil rng
// means a clock-seeded generator.
func New(cfg Config, scorer *scoring.Scorer, rng Rand) *Solver {
	if cfg.Mode == "" {
		cfg.Mode = scoring.Entropy
	}
	sc := scoring.New(cfg.Mode)
	if scorer != nil {
		cp := *scorer
		cp.Mode = cfg.Mode
		sc = &cp
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &Solver{cfg: cfg, scorer: sc, rng: rng}
}

// Config returns the solver policy.
func (s *Solver) Config() Config { return s.cfg }

// ChooseGuess returns the next guess for st.
func (s *Solver) ChooseGuess(ctx context.Context, st *State) (words.Word, error) {
	switch len(st.candidates) {
	case 0:
		return words.Word{}, ErrEmptyCandidateSet
	case 1:
		return st.candidates[0], nil
	}
	pool := s.guessable(st)
	scores, err := s.scorer.Score(ctx, st.candidates, st.weights, pool)
	if err != nil {
		return words.Word{}, err
	}
	best := scoring.Best(scores)
	if len(best) == 1 {
		return pool[best[0]], nil
	}
	return pool[best[s.rng.IntN(len(best))]], nil
}

// Opening returns the configured first guess, or computes one for st.
func (s *Solver) Opening(ctx context.Context, st *State) (words.Word, error) {
	if !s.cfg.FirstGuess.IsZero() {
		return s.cfg.FirstGuess, nil
	}
	return s.ChooseGuess(ctx, st)
}

// Rank scores the pool of st and returns the top guesses, best first.
func (s *Solver) Rank(ctx context.Context, st *State, top int) ([]scoring.Ranked, error) {
	if len(st.candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	pool := s.guessable(st)
	scores, err := s.scorer.Score(ctx, st.candidates, st.weights, pool)
	if err != nil {
		return nil, err
	}
	return scoring.Rank(pool, scores, top), nil
}

// guessable falls back to the candidates when the pool has run dry.
func (s *Solver) guessable(st *State) []words.Word {
	if len(st.pool) == 0 {
		return st.candidates
	}
	return st.pool
}

// FeedbackSource reports the pattern a guess produced.
type FeedbackSource interface {
	Feedback(ctx context.Context, guess words.Word) (feedback.Pattern, error)
}

// FeedbackFunc adapts a function to FeedbackSource.
type FeedbackFunc func(ctx context.Context, guess words.Word) (feedback.Pattern, error)

func (f FeedbackFunc) Feedback(ctx context.Context, guess words.Word) (feedback.Pattern, error) {
	return f(ctx, guess)
}

// Turn is one guess and what it revealed. Remaining counts the candidates
// left after the observation.
type Turn struct {
	Guess     words.Word       `json:"guess"`
	Pattern   feedback.Pattern `json:"feedback"`
	Remaining int              `json:"remaining"`
}

// Result is the outcome of a Solve.
type Result struct {
	Turns  []Turn `json:"turns"`
	Solved bool   `json:"solved"`
}

// Guesses lists the guesses in order.
func (r *Result) Guesses() []words.Word {
	out := make([]words.Word, len(r.Turns))
	for i, t := range r.Turns {
		out[i] = t.Guess
	}
	return out
}

// Solve plays st against src until an all-Hit pattern. The partial Result is
// returned alongside any error.
func (s *Solver) Solve(ctx context.Context, st *State, src FeedbackSource) (*Result, error) {
	res := &Result{}
	for turn := 1; ; turn++ {
		if s.cfg.MaxTurns > 0 && turn > s.cfg.MaxTurns {
			return res, fmt.Errorf("%w: %d", ErrTurnLimit, s.cfg.MaxTurns)
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var guess words.Word
		var err error
		if turn == 1 {
			guess, err = s.Opening(ctx, st)
		} else {
			guess, err = s.ChooseGuess(ctx, st)
		}
		if err != nil {
			return res, err
		}

		p, err := src.Feedback(ctx, guess)
		if err != nil {
			return res, err
		}
		if p.Len() != guess.Len() {
			return res, fmt.Errorf("%w: %d-symbol feedback for %q", words.ErrLengthMismatch, p.Len(), guess)
		}

		if p.Solved() {
			res.Turns = append(res.Turns, Turn{Guess: guess, Pattern: p, Remaining: 1})
			res.Solved = true
			metrics.SolveTurns.WithLabelValues(string(s.cfg.Mode), strconv.FormatBool(s.cfg.HardMode)).
				Observe(float64(turn))
			log.Debug().Int("turns", turn).Str("solution", guess.String()).Msg("solved")
			return res, nil
		}

		next, err := st.WithGuess(guess, p, s.cfg.HardMode)
		if err != nil {
			return res, err
		}
		res.Turns = append(res.Turns, Turn{Guess: guess, Pattern: p, Remaining: next.Len()})
		log.Debug().
			Int("turn", turn).
			Str("guess", guess.String()).
			Str("feedback", p.Letters()).
			Int("remaining", next.Len()).
			Msg("turn")
		st = next
	}
}

// Simulate solves st against a known solution.
func (s *Solver) Simulate(ctx context.Context, st *State, solution words.Word) (*Result, error) {
	if solution.Len() != st.Length() {
		return nil, fmt.Errorf("%w: solution %q, puzzle length %d", words.ErrLengthMismatch, solution, st.Length())
	}
	return s.Solve(ctx, st, game.New(solution, 0))
}
