// internal/scoring/scorer.go
//
// Guess scoring. Every guess in the pool is evaluated against every
// candidate; candidates are grouped into buckets by the pattern they would
// produce and the bucket distribution is reduced to a single score:
//
//   - entropy:              -Σ p_k log2 p_k over bucket shares (bits).
//   - weighted_elimination: Σ (W_k/W)(1 − W_k/W), the expected weighted
//     fraction of candidates eliminated.
//
// Higher is better in both modes. Guesses are split into chunks scored on an
// errgroup; each chunk writes only its own slice of the result.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Mode selects the scoring policy.
type Mode string

const (
	Entropy             Mode = "entropy"
	WeightedElimination Mode = "weighted_elimination"
)

// DefaultChunkSize is the number of guesses handed to one worker at a time.
const DefaultChunkSize = 128

// ErrNoCandidates is returned when asked to score against an empty set.
var ErrNoCandidates = errors.New("scoring: no candidates")

// ParseMode accepts the config spelling of a mode. Empty means Entropy.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Entropy:
		return Entropy, nil
	case WeightedElimination, "weighted":
		return WeightedElimination, nil
	}
	return "", fmt.Errorf("scoring: unknown mode %q", s)
}

// Scorer evaluates guess pools. The zero value scores by entropy on
// runtime.NumCPU() workers.
type Scorer struct {
	Mode      Mode
	Workers   int
	ChunkSize int
}

// New returns a Scorer for mode with default parallelism.
func New(mode Mode) *Scorer {
	return &Scorer{Mode: mode, Workers: runtime.NumCPU(), ChunkSize: DefaultChunkSize}
}

func (s *Scorer) mode() Mode {
	if s.Mode == "" {
		return Entropy
	}
	return s.Mode
}

// Score returns one score per guess. weights may be nil (uniform); otherwise
// it must have one non-negative finite entry per candidate. Entropy mode
// ignores weights.
func (s *Scorer) Score(ctx context.Context, candidates []words.Word, weights []float64, guesses []words.Word) ([]float64, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if err := feedback.SameLength(candidates, guesses); err != nil {
		return nil, err
	}
	mode := s.mode()
	if mode == Entropy {
		weights = nil
	} else if weights != nil {
		if len(weights) != len(candidates) {
			return nil, fmt.Errorf("%w: %d weights for %d candidates", words.ErrLengthMismatch, len(weights), len(candidates))
		}
		var total float64
		for i, v := range weights {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s=%v", words.ErrInvalidWeight, candidates[i], v)
			}
			total += v
		}
		if total == 0 {
			weights = nil
		}
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := s.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	start := time.Now()
	n := candidates[0].Len()
	scores := make([]float64, len(guesses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(guesses); lo += chunk {
		hi := min(lo+chunk, len(guesses))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := newBuckets(n)
			for i := lo; i < hi; i++ {
				scores[i] = scoreGuess(b, mode, candidates, weights, guesses[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.GuessesScored.WithLabelValues(string(mode)).Add(float64(len(guesses)))
	metrics.ScoreDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	return scores, nil
}

// scoreGuess buckets the candidates by pattern against guess and reduces the
// bucket masses.
func scoreGuess(b *buckets, mode Mode, candidates []words.Word, weights []float64, guess words.Word) float64 {
	for i, c := range candidates {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		b.add(feedback.Code(c, guess), w)
	}
	masses := b.drain()
	// Summing in sorted order makes equal distributions score bit-for-bit
	// equal, which tie detection relies on.
	slices.Sort(masses)
	if mode == WeightedElimination {
		return expectedElimination(masses)
	}
	return entropy(masses)
}

// entropy is the Shannon entropy in bits of the distribution masses/Σmasses.
func entropy(masses []float64) float64 {
	var total float64
	for _, m := range masses {
		total += m
	}
	var h float64
	for _, m := range masses {
		if m == 0 {
			continue
		}
		p := m / total
		h -= p * math.Log2(p)
	}
	return h
}

// expectedElimination is Σ p_k (1 − p_k) with p_k = W_k/W.
func expectedElimination(masses []float64) float64 {
	var total float64
	for _, m := range masses {
		total += m
	}
	if total == 0 {
		return 0
	}
	var e float64
	for _, m := range masses {
		p := m / total
		e += p * (1 - p)
	}
	return e
}

// Best returns the indexes of every score exactly equal to the maximum.
func Best(scores []float64) []int {
	if len(scores) == 0 {
		return nil
	}
	best := math.Inf(-1)
	var idx []int
	for i, v := range scores {
		switch {
		case v > best:
			best = v
			idx = append(idx[:0], i)
		case v == best:
			idx = append(idx, i)
		}
	}
	return idx
}

// Ranked is a guess with its score.
type Ranked struct {
	Guess words.Word `json:"guess"`
	Score float64    `json:"score"`
}

// Rank returns up to top guesses ordered by score, highest first; equal
// scores are ordered alphabetically.
func Rank(guesses []words.Word, scores []float64, top int) []Ranked {
	out := make([]Ranked, len(guesses))
	for i, g := range guesses {
		out[i] = Ranked{Guess: g, Score: scores[i]}
	}
	slices.SortFunc(out, func(a, b Ranked) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.Guess.String(), b.Guess.String())
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}
