// internal/solver/simulate.go
//
// Batch simulation: solve every solution in a list and summarize the turn
// distribution. The opening guess is the same for every solution, so it is
// computed once before fanning out.
package solver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// BatchOptions controls SimulateAll.
type BatchOptions struct {
	Seed    uint64 // per-solution generators derive from it; 0 seeds from the clock
	Workers int    // concurrent solves; <= 0 means 1

	// OnResult, when set, is called once per solution. Calls are serialized.
	OnResult func(solution words.Word, res *Result, err error)
}

// Summary aggregates simulation results.
type Summary struct {
	Games     int          `json:"games"`
	Solved    int          `json:"solved"`
	Histogram map[int]int  `json:"histogram"` // turns → games
	Average   float64      `json:"average"`   // over solved games
	Worst     []words.Word `json:"worst"`     // solutions with the most turns
	MaxTurns  int          `json:"max_turns"`
	totalTurn int
}

// Add folds one result into the summary.
func (s *Summary) Add(solution words.Word, r *Result) {
	if s.Histogram == nil {
		s.Histogram = make(map[int]int)
	}
	s.Games++
	if r == nil || !r.Solved {
		return
	}
	n := len(r.Turns)
	s.Solved++
	s.Histogram[n]++
	s.totalTurn += n
	s.Average = float64(s.totalTurn) / float64(s.Solved)
	switch {
	case n > s.MaxTurns:
		s.MaxTurns = n
		s.Worst = append(s.Worst[:0], solution)
	case n == s.MaxTurns:
		s.Worst = append(s.Worst, solution)
	}
}

// SimulateAll solves st against each solution. Each solve gets its own
// Solver and generator so results are reproducible for a fixed Seed
// regardless of Workers. A failed solve is reported through OnResult and
// counted as unsolved; only context cancellation aborts the batch.
func SimulateAll(ctx context.Context, cfg Config, scorer *scoring.Scorer, st *State, solutions []words.Word, opts BatchOptions) (*Summary, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = NewRand(0).Uint64()
	}

	if cfg.FirstGuess.IsZero() {
		first, err := New(cfg, scorer, NewRand(seed)).Opening(ctx, st)
		if err != nil {
			return nil, err
		}
		cfg.FirstGuess = first
	}

	workers := max(opts.Workers, 1)
	sum := &Summary{Histogram: make(map[int]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sol := range solutions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := New(cfg, scorer, NewRand(seed+uint64(i)+1))
			res, err := s.Simulate(gctx, st, sol)
			if gctx.Err() != nil {
				return gctx.Err()
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Add(sol, nil)
			} else {
				sum.Add(sol, res)
			}
			if opts.OnResult != nil {
				opts.OnResult(sol, res, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	return sum, nil
}
