// internal/config/config.go
//
// Process configuration. Every setting is a flag with an environment
// fallback (flag "scoring-mode" ↔ SCORING_MODE); a .env file in the working
// directory is loaded first when present. Explicit flags win over the
// environment.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"

	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

type Config struct {
	Port         string
	LogLevel     string
	LogPretty    bool
	DBPath       string
	ClientOrigin string

	AnswersFile string
	AllowedFile string
	WeightsFile string

	HardMode    bool
	ScoringMode string
	FirstGuess  string
	GuessPool   string
	MaxTurns    int

	Seed      uint64
	Workers   int
	ChunkSize int

	JWTSecret string
	DailySalt string

	// Args holds the positional arguments left after the flags.
	Args []string
}

// ForCommand returns the pre-Load defaults of a subcommand. Batch
// simulation plays in hard mode unless told otherwise.
func ForCommand(cmd string) Config {
	return Config{HardMode: cmd == "simulate"}
}

// Load reads .env (if any) and parses args with environment fallback.
// HardMode keeps its current value as the default.
func (c *Config) Load(args []string) error {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("go-solver", flag.ContinueOnError)

	fs.StringVar(&c.Port, "port", "5175", "HTTP listen port")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level")
	fs.BoolVar(&c.LogPretty, "log-pretty", false, "human-readable console logs")
	fs.StringVar(&c.DBPath, "db-path", "./data/solver.db", "SQLite database for simulation history")
	fs.StringVar(&c.ClientOrigin, "client-origin", "http://localhost:5173", "CORS origin allowed to call the API")

	fs.StringVar(&c.AnswersFile, "words-answers-file", "", "solution word list (default: embedded)")
	fs.StringVar(&c.AllowedFile, "words-allowed-file", "", "allowed guess list (default: embedded)")
	fs.StringVar(&c.WeightsFile, "words-weights-file", "", "JSON word frequencies, optionally gzipped (default: embedded)")

	fs.BoolVar(&c.HardMode, "hard-mode", c.HardMode, "restrict guesses to remaining candidates")
	fs.StringVar(&c.ScoringMode, "scoring-mode", string(scoring.Entropy), "entropy or weighted_elimination")
	fs.StringVar(&c.FirstGuess, "first-guess", "", "fixed opening guess (default: computed)")
	fs.StringVar(&c.GuessPool, "guess-pool", string(solver.SolutionsPlusAllowed), "solutions_only or solutions_plus_allowed")
	fs.IntVar(&c.MaxTurns, "max-turns", 0, "give up after this many turns (0: never)")

	fs.Uint64Var(&c.Seed, "seed", 0, "tie-break seed (0: time-based)")
	fs.IntVar(&c.Workers, "workers", runtime.NumCPU(), "scoring goroutines")
	fs.IntVar(&c.ChunkSize, "chunk-size", scoring.DefaultChunkSize, "guesses per scoring task")

	fs.StringVar(&c.JWTSecret, "jwt-secret", "", "HMAC secret guarding simulation routes (empty: open)")
	fs.StringVar(&c.DailySalt, "daily-salt", "wordle-daily", "salt for the daily answer selection")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Args = fs.Args()
	return nil
}

// Validate rejects settings the solver cannot run with.
func (c *Config) Validate() error {
	if _, err := scoring.ParseMode(c.ScoringMode); err != nil {
		return err
	}
	if _, err := solver.ParsePoolSource(c.GuessPool); err != nil {
		return err
	}
	if c.FirstGuess != "" {
		if _, err := words.Parse(c.FirstGuess); err != nil {
			return fmt.Errorf("config: first guess: %w", err)
		}
	}
	if c.MaxTurns < 0 {
		return fmt.Errorf("config: max turns must be >= 0, got %d", c.MaxTurns)
	}
	if c.Workers < 1 || c.ChunkSize < 1 {
		return fmt.Errorf("config: workers and chunk size must be positive")
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: empty port")
	}
	return nil
}

// Solver converts the settings into a solver policy. Call Validate first.
func (c *Config) Solver() solver.Config {
	mode, _ := scoring.ParseMode(c.ScoringMode)
	pool, _ := solver.ParsePoolSource(c.GuessPool)
	var first words.Word
	if c.FirstGuess != "" {
		first, _ = words.Parse(c.FirstGuess)
	}
	return solver.Config{
		HardMode:   c.HardMode,
		Mode:       mode,
		FirstGuess: first,
		Pool:       pool,
		MaxTurns:   c.MaxTurns,
	}
}

// Scorer returns a scorer with the configured parallelism.
func (c *Config) Scorer() *scoring.Scorer {
	mode, _ := scoring.ParseMode(c.ScoringMode)
	return &scoring.Scorer{Mode: mode, Workers: c.Workers, ChunkSize: c.ChunkSize}
}
