package results

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	db, err := Open(Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db, assets.Migrations()))
	return NewStore(db)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(Memory)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	require.NoError(t, Migrate(db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestInsertAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	res := &solver.Result{
		Solved: true,
		Turns: []solver.Turn{
			{Guess: words.MustParse("tares"), Remaining: 4},
			{Guess: words.MustParse("perky"), Pattern: feedback.AllHit(5), Remaining: 1},
		},
	}
	cfg := solver.Config{Mode: scoring.Entropy, HardMode: true}
	id, err := s.Insert(ctx, FromResult(words.MustParse("perky"), cfg, res, "simulate"))
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "perky", r.Solution)
	assert.Equal(t, []string{"tares", "perky"}, r.Guesses)
	assert.Equal(t, 2, r.Turns)
	assert.Equal(t, "entropy", r.ScoringMode)
	assert.True(t, r.HardMode)
	assert.True(t, r.Solved)
	assert.NotEmpty(t, r.CreatedAt)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	runs := []Run{
		{Solution: "fills", Guesses: []string{"a", "b", "c"}, Turns: 3, ScoringMode: "entropy", Solved: true, Source: "simulate"},
		{Solution: "hills", Turns: 4, ScoringMode: "entropy", Solved: true, Source: "simulate"},
		{Solution: "mills", Turns: 4, ScoringMode: "entropy", Solved: true, Source: "simulate"},
		{Solution: "pills", Turns: 1, ScoringMode: "entropy", Solved: false, Source: "simulate"},
		{Solution: "wills", Turns: 2, ScoringMode: "entropy", HardMode: true, Solved: true, Source: "simulate"},
		{Solution: "gills", Turns: 5, ScoringMode: "weighted_elimination", Solved: true, Source: "simulate"},
	}
	require.NoError(t, s.InsertBatch(ctx, runs))

	st, err := s.Stats(ctx, "entropy", false)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Runs)
	assert.Equal(t, 3, st.Solved)
	assert.Equal(t, map[int]int{3: 1, 4: 2}, st.Histogram)
	assert.InDelta(t, 11.0/3, st.Average, 1e-12)

	empty, err := s.Stats(ctx, "entropy", true)
	require.NoError(t, err)
	assert.Equal(t, 1, empty.Runs)

	none, err := s.Stats(ctx, "minimax", false)
	require.NoError(t, err)
	assert.Zero(t, none.Runs)
	assert.Zero(t, none.Average)

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "gills", recent[0].Solution)
	assert.Nil(t, recent[0].Guesses)
}
