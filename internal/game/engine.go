// internal/game/engine.go
//
// Game engine for a single simulated session. A Game is the feedback oracle
// the solve loop plays against when the solution is known.
// Responsibilities:
//   - Create games with an optional row limit (0 = unlimited).
//   - Validate and apply guesses (length, optional allowed list).
//   - Score guesses with feedback.Compute.
//   - Track state transitions: playing → won/lost.
package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// DefaultRows is the canonical turn limit of the puzzle.
const DefaultRows = 6

var (
	ErrFinished   = errors.New("game finished")
	ErrNotAllowed = errors.New("not in word list")
)

// New constructs a game for answer with at most rows guesses (0 = unlimited).
func New(answer words.Word, rows int) *Game {
	return &Game{
		ID:     randomID(),
		Answer: answer,
		Rows:   rows,
	}
}

// ApplyGuess scores a guess and records it.
// Returns the pattern, the resulting status, or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must have the answer's length.
//   - If allowed is non-nil the guess must be in it.
//
// State transitions:
//   - All tiles Hit → Finished, Won.
//   - Else if the number of guesses reaches Rows (when Rows > 0) → Finished (loss).
func (g *Game) ApplyGuess(guess words.Word, allowed *words.Lists) (feedback.Pattern, Status, error) {
	if g.Finished {
		return feedback.Pattern{}, g.Status(), ErrFinished
	}
	if allowed != nil && !allowed.IsAllowed(guess) {
		return feedback.Pattern{}, g.Status(), fmt.Errorf("%w: %s", ErrNotAllowed, guess)
	}
	p, err := feedback.Compute(g.Answer, guess)
	if err != nil {
		return feedback.Pattern{}, g.Status(), err
	}
	g.Guesses = append(g.Guesses, guess)
	g.Patterns = append(g.Patterns, p)

	if p.Solved() {
		g.Finished, g.Won = true, true
	} else if g.Rows > 0 && len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return p, g.Status(), nil
}

// Feedback lets a Game serve as the solve loop's feedback source.
func (g *Game) Feedback(_ context.Context, guess words.Word) (feedback.Pattern, error) {
	p, _, err := g.ApplyGuess(guess, nil)
	return p, err
}

// Status reports the coarse state of the game.
func (g *Game) Status() Status {
	if g.Finished {
		if g.Won {
			return StatusWon
		}
		return StatusLost
	}
	return StatusPlaying
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
