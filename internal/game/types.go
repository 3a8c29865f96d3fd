// internal/game/types.go
//
// Core type definitions for a simulated game.
// Defines:
//   - Status: coarse lifecycle state (playing/won/lost).
//   - Game: a hidden solution plus the guesses made against it.

package game

import (
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Game holds the state of a single game against a known solution.
type Game struct {
	ID       string             // Unique game identifier (random hex string).
	Answer   words.Word         // The solution word.
	Rows     int                // Maximum number of guesses; 0 means unlimited.
	Guesses  []words.Word       // Guesses made so far.
	Patterns []feedback.Pattern // Feedback for each guess.
	Finished bool               // True once the game is over (won or lost).
	Won      bool               // True if the game was finished with a win.
}
