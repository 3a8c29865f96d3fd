package config

import (
	"testing"

	"github.com/matryer/is"

	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	var c Config
	is.NoErr(c.Load(nil))
	is.NoErr(c.Validate())

	is.Equal(c.Port, "5175")
	is.Equal(c.DBPath, "./data/solver.db")
	is.Equal(c.ScoringMode, "entropy")

	sc := c.Solver()
	is.Equal(sc.Mode, scoring.Entropy)
	is.Equal(sc.Pool, solver.SolutionsPlusAllowed)
	is.True(!sc.HardMode)
	is.True(sc.FirstGuess.IsZero())
}

func TestFlagsAndEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("SCORING_MODE", "weighted_elimination")
	t.Setenv("HARD_MODE", "true")
	t.Setenv("FIRST_GUESS", "TARES")
	t.Setenv("GUESS_POOL", "solutions_only")

	var c Config
	is.NoErr(c.Load([]string{"-port", "9000", "-seed", "42", "perky"}))
	is.NoErr(c.Validate())

	is.Equal(c.Port, "9000")
	is.Equal(c.Seed, uint64(42))
	is.Equal(c.Args, []string{"perky"})

	sc := c.Solver()
	is.Equal(sc.Mode, scoring.WeightedElimination)
	is.Equal(sc.Pool, solver.SolutionsOnly)
	is.True(sc.HardMode)
	is.Equal(sc.FirstGuess.String(), "tares")
	is.Equal(c.Scorer().Mode, scoring.WeightedElimination)
}

func TestFlagOverridesEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("PORT", "7000")
	var c Config
	is.NoErr(c.Load([]string{"-port", "8000"}))
	is.Equal(c.Port, "8000")
}

func TestSimulateDefaultsToHardMode(t *testing.T) {
	is := is.New(t)

	c := ForCommand("simulate")
	is.NoErr(c.Load(nil))
	is.True(c.Solver().HardMode)

	c = ForCommand("simulate")
	is.NoErr(c.Load([]string{"-hard-mode=false"}))
	is.True(!c.Solver().HardMode)

	c = ForCommand("serve")
	is.NoErr(c.Load(nil))
	is.True(!c.Solver().HardMode)
}

func TestSimulateHardModeFromEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("HARD_MODE", "false")
	c := ForCommand("simulate")
	is.NoErr(c.Load(nil))
	is.True(!c.HardMode)
}

func TestValidateRejects(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"mode":        func(c *Config) { c.ScoringMode = "minimax" },
		"pool":        func(c *Config) { c.GuessPool = "everything" },
		"first guess": func(c *Config) { c.FirstGuess = "ta-res" },
		"max turns":   func(c *Config) { c.MaxTurns = -1 },
		"workers":     func(c *Config) { c.Workers = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			var c Config
			is.NoErr(c.Load(nil))
			mutate(&c)
			is.True(c.Validate() != nil)
		})
	}
}
