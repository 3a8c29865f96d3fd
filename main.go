package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/results"
	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const usage = `usage: go-solver [serve|simulate|solve|token] [flags] [solution|subject]`

// defaultOpening is the batch simulation opener when none is configured.
var defaultOpening = words.MustParse("tares")

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	cfg := config.ForCommand(cmd)
	if err := cfg.Load(args); err != nil {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	setupLogging(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "serve":
		err = serve(ctx, &cfg)
	case "simulate":
		err = simulate(ctx, &cfg)
	case "solve":
		err = solve(ctx, &cfg)
	case "token":
		err = token(&cfg)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("failed")
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

// loadWords loads the word lists and the frequency table.
func loadWords(cfg *config.Config) (*words.Lists, *words.Weights, error) {
	lists, err := words.NewProvider(cfg.AnswersFile, cfg.AllowedFile).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load word lists: %w", err)
	}
	weights, err := words.LoadWeights(cfg.WeightsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load weights: %w", err)
	}
	a, g := lists.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Int("length", lists.Length).Int("weights", weights.Len()).Msg("words loaded")
	return lists, weights, nil
}

func openResults(cfg *config.Config) (*results.Store, func(), error) {
	db, err := results.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := results.Migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return results.NewStore(db), func() { _ = db.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	lists, weights, err := loadWords(cfg)
	if err != nil {
		return err
	}
	runs, closeDB, err := openResults(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	srv, err := httpserver.New(httpserver.Options{
		Lists:        lists,
		Weights:      weights,
		Results:      runs,
		Defaults:     cfg.Solver(),
		Scorer:       cfg.Scorer(),
		Seed:         cfg.Seed,
		JWTSecret:    cfg.JWTSecret,
		DailySalt:    cfg.DailySalt,
		ClientOrigin: cfg.ClientOrigin,
	})
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set; simulation routes are open")
	}
	log.Info().Str("port", cfg.Port).Msg("starting go-solver")
	return srv.Start(ctx, ":"+cfg.Port)
}

// simulate solves every answer and prints the turn histogram.
func simulate(ctx context.Context, cfg *config.Config) error {
	lists, weights, err := loadWords(cfg)
	if err != nil {
		return err
	}
	sc := cfg.Solver()
	if sc.FirstGuess.IsZero() && lists.IsAllowed(defaultOpening) {
		sc.FirstGuess = defaultOpening
	}
	st, err := solver.FromLists(lists, weights, sc.Pool)
	if err != nil {
		return err
	}
	runs, closeDB, err := openResults(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	// Parallelism goes to games; each game scores on one goroutine.
	scorer := &scoring.Scorer{Mode: sc.Mode, Workers: 1, ChunkSize: cfg.ChunkSize}
	bar := progressbar.Default(int64(len(lists.Answers)), "simulating")
	var batch []results.Run
	var failed []string

	start := time.Now()
	sum, err := solver.SimulateAll(ctx, sc, scorer, st, lists.Answers, solver.BatchOptions{
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
		OnResult: func(sol words.Word, res *solver.Result, err error) {
			_ = bar.Add(1)
			if err != nil {
				failed = append(failed, sol.String())
				log.Debug().Err(err).Str("solution", sol.String()).Msg("simulation failed")
			}
			batch = append(batch, results.FromResult(sol, sc, res, "simulate"))
		},
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}
	if err := runs.InsertBatch(ctx, batch); err != nil {
		log.Warn().Err(err).Msg("persist runs")
	}

	fmt.Printf("\n%s, %s, hard=%v, first=%s: %d/%d solved, average %.4f turns (%s)\n",
		sc.Mode, sc.Pool, sc.HardMode, sc.FirstGuess, sum.Solved, sum.Games, sum.Average,
		time.Since(start).Round(time.Millisecond))
	turns := make([]int, 0, len(sum.Histogram))
	for n := range sum.Histogram {
		turns = append(turns, n)
	}
	slices.Sort(turns)
	for _, n := range turns {
		fmt.Printf("%3d: %5d %s\n", n, sum.Histogram[n], strings.Repeat("#", (sum.Histogram[n]*60+sum.Games-1)/sum.Games))
	}
	worst := words.Strings(sum.Worst)
	slices.Sort(worst)
	fmt.Printf("worst (%d turns): %s\n", sum.MaxTurns, strings.Join(worst, " "))
	if len(failed) > 0 {
		fmt.Printf("failed: %s\n", strings.Join(failed, " "))
	}
	return nil
}

// solve plays one game against a known solution and prints each turn.
func solve(ctx context.Context, cfg *config.Config) error {
	if len(cfg.Args) != 1 {
		return errors.New(usage)
	}
	lists, weights, err := loadWords(cfg)
	if err != nil {
		return err
	}
	solution, err := words.Parse(cfg.Args[0])
	if err != nil {
		return err
	}
	sc := cfg.Solver()
	st, err := solver.FromLists(lists, weights, sc.Pool)
	if err != nil {
		return err
	}

	res, err := solver.New(sc, cfg.Scorer(), solver.NewRand(cfg.Seed)).Simulate(ctx, st, solution)
	if res != nil {
		for i, t := range res.Turns {
			fmt.Printf("%d. %s  %s  %d left\n", i+1, feedback.Colorize(t.Guess, t.Pattern), t.Pattern, t.Remaining)
		}
	}
	return err
}

// token mints a bearer token for the simulation routes.
func token(cfg *config.Config) error {
	if len(cfg.Args) != 1 {
		return errors.New(usage)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	tok, exp, err := httpserver.SignToken(cfg.JWTSecret, cfg.Args[0], 30*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	log.Info().Time("expires", exp).Str("subject", cfg.Args[0]).Msg("token issued")
	return nil
}
