// internal/solver/state.go
//
// State is an immutable snapshot of what is still possible: the candidate
// solutions (optionally weighted) and the words that may be guessed next.
// Observations produce a new State through WithGuess; nothing mutates a State
// after construction, so States can be shared between goroutines and
// sessions freely.
package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var (
	// ErrEmptyCandidateSet means the feedback contradicts every candidate,
	// usually a typo in user-entered feedback. Callers can ask again.
	ErrEmptyCandidateSet = errors.New("no candidates remain")

	// ErrInvalidWeight is returned for negative or non-finite weights.
	ErrInvalidWeight = words.ErrInvalidWeight

	// ErrNotInGuessPool is returned when an externally chosen guess is not
	// currently legal (already guessed, or excluded by hard mode).
	ErrNotInGuessPool = errors.New("guess not in guess pool")
)

// PoolSource selects the initial guess pool.
type PoolSource string

const (
	SolutionsOnly        PoolSource = "solutions_only"
	SolutionsPlusAllowed PoolSource = "solutions_plus_allowed"
)

// ParsePoolSource accepts the config spelling. Empty means SolutionsPlusAllowed.
func ParsePoolSource(s string) (PoolSource, error) {
	switch PoolSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", SolutionsPlusAllowed, "all":
		return SolutionsPlusAllowed, nil
	case SolutionsOnly, "solutions":
		return SolutionsOnly, nil
	}
	return "", fmt.Errorf("solver: unknown guess pool source %q", s)
}

// State is a candidate set plus a guess pool.
type State struct {
	length     int
	candidates []words.Word
	weights    []float64 // nil when unweighted
	pool       []words.Word
}

// NewState validates and copies its inputs. weights may be nil; otherwise it
// holds one finite non-negative value per candidate.
func NewState(candidates []words.Word, weights []float64, pool []words.Word) (*State, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	if err := feedback.SameLength(candidates, pool); err != nil {
		return nil, err
	}
	if weights != nil {
		if len(weights) != len(candidates) {
			return nil, fmt.Errorf("%w: %d weights for %d candidates", words.ErrLengthMismatch, len(weights), len(candidates))
		}
		for i, v := range weights {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s=%v", ErrInvalidWeight, candidates[i], v)
			}
		}
		weights = append([]float64(nil), weights...)
	}
	return &State{
		length:     candidates[0].Len(),
		candidates: append([]words.Word(nil), candidates...),
		weights:    weights,
		pool:       append([]words.Word(nil), pool...),
	}, nil
}

// FromLists builds the initial State: every answer is a candidate, weighted
// by w when w is non-nil, and the guess pool comes from src.
func FromLists(l *words.Lists, w *words.Weights, src PoolSource) (*State, error) {
	var weights []float64
	if w != nil {
		weights = w.For(l.Answers)
	}
	pool := l.Answers
	if src != SolutionsOnly {
		pool = l.All()
	}
	return NewState(l.Answers, weights, pool)
}

// Length is the puzzle word length.
func (s *State) Length() int { return s.length }

// Len is the number of remaining candidates.
func (s *State) Len() int { return len(s.candidates) }

// PoolLen is the number of words that may be guessed next.
func (s *State) PoolLen() int { return len(s.pool) }

// Weighted reports whether candidates carry weights.
func (s *State) Weighted() bool { return s.weights != nil }

// Candidates returns a copy of the remaining candidates.
func (s *State) Candidates() []words.Word { return append([]words.Word(nil), s.candidates...) }

// Weights returns a copy of the candidate weights, nil when unweighted.
func (s *State) Weights() []float64 {
	if s.weights == nil {
		return nil
	}
	return append([]float64(nil), s.weights...)
}

// Pool returns a copy of the guess pool.
func (s *State) Pool() []words.Word { return append([]words.Word(nil), s.pool...) }

// Sample returns up to n candidates in list order.
func (s *State) Sample(n int) []words.Word {
	n = min(n, len(s.candidates))
	return append([]words.Word(nil), s.candidates[:n]...)
}

// Contains reports whether w is still a candidate.
func (s *State) Contains(w words.Word) bool {
	for _, c := range s.candidates {
		if c == w {
			return true
		}
	}
	return false
}

// InPool reports whether w may be guessed next.
func (s *State) InPool(w words.Word) bool {
	for _, g := range s.pool {
		if g == w {
			return true
		}
	}
	return false
}

// WithGuess returns the State after observing p for guess.
//
//   - Candidates: those consistent with (guess, p).
//   - Pool: the old pool without guess; in hard mode also restricted to the
//     new candidates.
//
// Returns ErrEmptyCandidateSet when nothing is consistent.
func (s *State) WithGuess(guess words.Word, p feedback.Pattern, hardMode bool) (*State, error) {
	if guess.Len() != s.length || p.Len() != s.length {
		return nil, fmt.Errorf("%w: guess %q with %d-symbol feedback, puzzle length %d",
			words.ErrLengthMismatch, guess, p.Len(), s.length)
	}

	next := &State{length: s.length}
	next.candidates = make([]words.Word, 0, len(s.candidates))
	if s.weights != nil {
		next.weights = make([]float64, 0, len(s.candidates))
	}
	for i, c := range s.candidates {
		if !feedback.IsConsistent(c, guess, p) {
			continue
		}
		next.candidates = append(next.candidates, c)
		if s.weights != nil {
			next.weights = append(next.weights, s.weights[i])
		}
	}
	if len(next.candidates) == 0 {
		metrics.EmptyCandidates.Inc()
		return nil, fmt.Errorf("%w: %s → %s", ErrEmptyCandidateSet, guess, p.Letters())
	}

	var keep map[words.Word]int
	if hardMode {
		keep = words.Index(next.candidates)
	}
	next.pool = make([]words.Word, 0, len(s.pool))
	for _, g := range s.pool {
		if g == guess {
			continue
		}
		if keep != nil {
			if _, ok := keep[g]; !ok {
				continue
			}
		}
		next.pool = append(next.pool, g)
	}
	return next, nil
}
