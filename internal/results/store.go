package results

import (
	"context"
	"database/sql"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Run is one recorded solve.
type Run struct {
	ID          int64    `json:"id"`
	Solution    string   `json:"solution"`
	Guesses     []string `json:"guesses"`
	Turns       int      `json:"turns"`
	ScoringMode string   `json:"scoringMode"`
	HardMode    bool     `json:"hardMode"`
	Solved      bool     `json:"solved"`
	Source      string   `json:"source"` // simulate | daily | session
	CreatedAt   string   `json:"createdAt"`
}

// FromResult builds a Run from a solve outcome.
func FromResult(solution words.Word, cfg solver.Config, res *solver.Result, source string) Run {
	r := Run{
		Solution:    solution.String(),
		ScoringMode: string(cfg.Mode),
		HardMode:    cfg.HardMode,
		Source:      source,
	}
	if res != nil {
		r.Guesses = words.Strings(res.Guesses())
		r.Turns = len(res.Turns)
		r.Solved = res.Solved
	}
	return r
}

// Stats aggregates runs for one (scoring mode, hard mode) pair.
type Stats struct {
	ScoringMode string      `json:"scoringMode"`
	HardMode    bool        `json:"hardMode"`
	Runs        int         `json:"runs"`
	Solved      int         `json:"solved"`
	Average     float64     `json:"average"` // turns over solved runs
	Histogram   map[int]int `json:"histogram"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records a run and returns its row ID.
func (s *Store) Insert(ctx context.Context, r Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(solution, guesses, turns, scoring_mode, hard_mode, solved, source)
		VALUES(?,?,?,?,?,?,?)`,
		r.Solution, strings.Join(r.Guesses, ","), r.Turns, r.ScoringMode, r.HardMode, r.Solved, r.Source,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertBatch records runs in one transaction.
func (s *Store) InsertBatch(ctx context.Context, runs []Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO runs(solution, guesses, turns, scoring_mode, hard_mode, solved, source)
		VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range runs {
		if _, err := stmt.ExecContext(ctx,
			r.Solution, strings.Join(r.Guesses, ","), r.Turns, r.ScoringMode, r.HardMode, r.Solved, r.Source,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Stats returns the turn distribution for mode and hard.
func (s *Store) Stats(ctx context.Context, mode string, hard bool) (*Stats, error) {
	st := &Stats{ScoringMode: mode, HardMode: hard, Histogram: make(map[int]int)}
	rows, err := s.db.QueryContext(ctx,
		`SELECT turns, solved, COUNT(1)
		FROM runs
		WHERE scoring_mode=? AND hard_mode=?
		GROUP BY turns, solved`, mode, hard,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var turns, cnt int
		var solved bool
		if err := rows.Scan(&turns, &solved, &cnt); err != nil {
			return nil, err
		}
		st.Runs += cnt
		if !solved {
			continue
		}
		st.Solved += cnt
		st.Histogram[turns] += cnt
		total += turns * cnt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if st.Solved > 0 {
		st.Average = float64(total) / float64(st.Solved)
	}
	return st, nil
}

// Recent returns the latest runs, newest first. Default limit is 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, solution, guesses, turns, scoring_mode, hard_mode, solved, source, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Run, 0, limit)
	for rows.Next() {
		var r Run
		var guesses string
		if err := rows.Scan(&r.ID, &r.Solution, &guesses, &r.Turns, &r.ScoringMode,
			&r.HardMode, &r.Solved, &r.Source, &r.CreatedAt); err != nil {
			return nil, err
		}
		if guesses != "" {
			r.Guesses = strings.Split(guesses, ",")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
