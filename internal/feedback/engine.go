package feedback

import (
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Compute scores guess against candidate using the two-pass Wordle rule.
//
// Pass 1:
//   - Mark exact matches as Hit.
//   - Count the remaining (non-hit) candidate letters.
//
// Pass 2:
//   - Left to right, each non-hit guess letter takes Present if an unused
//     candidate occurrence remains (and uses it up), otherwise Miss.
//
// This is what makes repeated letters behave: guess "lills" against
// "fills" only credits the second l.
func Compute(candidate, guess words.Word) (Pattern, error) {
	if candidate.Len() != guess.Len() {
		return Pattern{}, fmt.Errorf("%w: candidate %q, guess %q", words.ErrLengthMismatch, candidate, guess)
	}
	return compute(candidate, guess), nil
}

// compute assumes equal lengths and a–z letters.
func compute(candidate, guess words.Word) Pattern {
	n := guess.Len()
	var p Pattern
	p.n = uint8(n)

	// Letter frequency for the non-hit candidate positions (a–z).
	var counts [26]int8

	for i := 0; i < n; i++ {
		if guess.At(i) == candidate.At(i) {
			p.s[i] = Hit
		} else {
			counts[candidate.At(i)-'a']++
		}
	}
	for i := 0; i < n; i++ {
		if p.s[i] == Hit {
			continue
		}
		j := guess.At(i) - 'a'
		if counts[j] > 0 {
			p.s[i] = Present
			counts[j]--
		}
	}
	return p
}

// Matrix holds the pattern of every guess against every candidate,
// one row per guess.
type Matrix struct {
	Guesses    int
	Candidates int
	patterns   []Pattern
}

// At returns the pattern of guess g against candidate c (row/column indexes).
func (m *Matrix) At(g, c int) Pattern {
	return m.patterns[g*m.Candidates+c]
}

// Row returns the patterns of guess g against every candidate.
func (m *Matrix) Row(g int) []Pattern {
	return m.patterns[g*m.Candidates : (g+1)*m.Candidates]
}

// ComputeAll evaluates the Cartesian product of guesses and candidates.
// Results match calling Compute on each pair.
func ComputeAll(candidates, guesses []words.Word) (*Matrix, error) {
	if err := SameLength(candidates, guesses); err != nil {
		return nil, err
	}
	m := &Matrix{
		Guesses:    len(guesses),
		Candidates: len(candidates),
		patterns:   make([]Pattern, len(guesses)*len(candidates)),
	}
	for g, guess := range guesses {
		row := m.Row(g)
		for c, cand := range candidates {
			row[c] = compute(cand, guess)
		}
	}
	return m, nil
}

// Code returns compute(candidate, guess).Code() without the length check.
// Callers validate lengths once up front (see SameLength).
func Code(candidate, guess words.Word) uint32 {
	return compute(candidate, guess).Code()
}

// SameLength checks that every word across the given lists has one length.
func SameLength(lists ...[]words.Word) error {
	n := -1
	for _, l := range lists {
		for _, w := range l {
			if n < 0 {
				n = w.Len()
				continue
			}
			if w.Len() != n {
				return fmt.Errorf("%w: %q is not %d letters", words.ErrLengthMismatch, w, n)
			}
		}
	}
	return nil
}
