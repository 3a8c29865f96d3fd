package feedback

import (
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// IsConsistent reports whether candidate could be the solution after guess
// produced p. It agrees with Compute(candidate, guess) == p for all inputs
// but checks constraints directly instead of rebuilding the pattern:
//
//   - Hit positions must match the guess letter, other positions must not.
//   - For each guessed letter x with k Hit/Present tiles: the candidate holds
//     exactly k copies of x if some x tile is a Miss, at least k otherwise.
//   - Among the non-hit tiles of x, every Present precedes every Miss.
func IsConsistent(candidate, guess words.Word, p Pattern) bool {
	n := guess.Len()
	if candidate.Len() != n || p.Len() != n {
		return false
	}

	var (
		have     [26]int8 // copies in candidate
		credited [26]int8 // Hit + Present tiles per letter
		missed   [26]bool // saw a Miss tile for the letter
	)
	for i := 0; i < n; i++ {
		have[candidate.At(i)-'a']++
	}
	for i := 0; i < n; i++ {
		g := guess.At(i)
		j := g - 'a'
		switch p.s[i] {
		case Hit:
			if candidate.At(i) != g {
				return false
			}
			credited[j]++
		case Present:
			if candidate.At(i) == g || missed[j] {
				return false
			}
			credited[j]++
		case Miss:
			if candidate.At(i) == g {
				return false
			}
			missed[j] = true
		default:
			return false
		}
	}
	for j := 0; j < 26; j++ {
		if missed[j] {
			if have[j] != credited[j] {
				return false
			}
		} else if have[j] < credited[j] {
			return false
		}
	}
	return true
}

// Filter returns the candidates consistent with guess and p.
func Filter(candidates []words.Word, guess words.Word, p Pattern) []words.Word {
	out := make([]words.Word, 0, len(candidates))
	for _, c := range candidates {
		if IsConsistent(c, guess, p) {
			out = append(out, c)
		}
	}
	return out
}
