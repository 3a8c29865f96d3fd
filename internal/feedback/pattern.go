// internal/feedback/pattern.go
//
// Pattern is the per-letter feedback for one guess:
//   - Hit:     letter is correct and in the correct position.
//   - Present: letter occurs in the solution, not at this position, and its
//     multiplicity there is not yet used up by other Hit/Present tiles.
//   - Miss:    every occurrence of the letter is already accounted for, or it
//     does not occur at all.
//
// Patterns are produced by Compute or parsed from user input.
package feedback

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Symbol is the evaluation of a single letter.
type Symbol uint8

const (
	Miss Symbol = iota
	Present
	Hit
)

func (s Symbol) String() string {
	switch s {
	case Hit:
		return "hit"
	case Present:
		return "present"
	default:
		return "miss"
	}
}

// Pattern is an ordered sequence of symbols, one per guess letter.
type Pattern struct {
	s [words.MaxLength]Symbol
	n uint8
}

// Of builds a pattern from symbols.
func Of(symbols ...Symbol) Pattern {
	var p Pattern
	p.n = uint8(copy(p.s[:], symbols))
	return p
}

// AllHit is the solved pattern of length n.
func AllHit(n int) Pattern {
	var p Pattern
	for i := 0; i < n; i++ {
		p.s[i] = Hit
	}
	p.n = uint8(n)
	return p
}

// Len reports the number of symbols.
func (p Pattern) Len() int { return int(p.n) }

// At returns the symbol at position i.
func (p Pattern) At(i int) Symbol { return p.s[i] }

// Symbols returns a copy of the symbols.
func (p Pattern) Symbols() []Symbol {
	out := make([]Symbol, p.n)
	copy(out, p.s[:p.n])
	return out
}

// Solved reports whether every symbol is Hit.
func (p Pattern) Solved() bool {
	if p.n == 0 {
		return false
	}
	for i := 0; i < int(p.n); i++ {
		if p.s[i] != Hit {
			return false
		}
	}
	return true
}

// Hits counts Hit symbols.
func (p Pattern) Hits() int {
	c := 0
	for i := 0; i < int(p.n); i++ {
		if p.s[i] == Hit {
			c++
		}
	}
	return c
}

// Code packs the pattern as a base-3 number (Miss=0, Present=1, Hit=2),
// first letter most significant. Codes are unique among patterns of the same
// length and lie in [0, 3^n).
func (p Pattern) Code() uint32 {
	var c uint32
	for i := 0; i < int(p.n); i++ {
		c = c*3 + uint32(p.s[i])
	}
	return c
}

// FromCode is the inverse of Code for length n.
func FromCode(code uint32, n int) Pattern {
	var p Pattern
	p.n = uint8(n)
	for i := n - 1; i >= 0; i-- {
		p.s[i] = Symbol(code % 3)
		code /= 3
	}
	return p
}

// Parse reads a pattern from user input. Each position is one of:
//
//	hit:     g G 2 🟩
//	present: y Y 1 🟨
//	miss:    b B x X . - 0 ⬛ ⬜
//
// Whitespace is ignored.
func Parse(s string) (Pattern, error) {
	var p Pattern
	n := 0
	for _, r := range s {
		var sym Symbol
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case 'g', 'G', '2', '🟩':
			sym = Hit
		case 'y', 'Y', '1', '🟨':
			sym = Present
		case 'b', 'B', 'x', 'X', '.', '-', '0', '⬛', '⬜':
			sym = Miss
		default:
			return Pattern{}, fmt.Errorf("feedback: unexpected %q in %q", r, s)
		}
		if n == words.MaxLength {
			return Pattern{}, fmt.Errorf("feedback: %q is longer than %d", s, words.MaxLength)
		}
		p.s[n] = sym
		n++
	}
	if n == 0 {
		return Pattern{}, fmt.Errorf("feedback: empty pattern")
	}
	p.n = uint8(n)
	return p, nil
}

// String renders the pattern as emoji squares.
func (p Pattern) String() string {
	var b strings.Builder
	for i := 0; i < int(p.n); i++ {
		switch p.s[i] {
		case Hit:
			b.WriteString("🟩")
		case Present:
			b.WriteString("🟨")
		default:
			b.WriteString("⬛")
		}
	}
	return b.String()
}

// Letters renders the pattern with the g/y/b alphabet accepted by Parse.
func (p Pattern) Letters() string {
	b := make([]byte, p.n)
	for i := range b {
		switch p.s[i] {
		case Hit:
			b[i] = 'g'
		case Present:
			b[i] = 'y'
		default:
			b[i] = 'b'
		}
	}
	return string(b)
}

func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.Letters()), nil
}

func (p *Pattern) UnmarshalText(b []byte) error {
	q, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// Colorize renders word with ANSI backgrounds per symbol for terminals.
func Colorize(w words.Word, p Pattern) string {
	const (
		reset    = "\033[0m"
		grayBg   = "\033[48;5;236m\033[38;5;255m" // gray background, white text
		yellowBg = "\033[43m\033[30m"             // yellow background, black text
		greenBg  = "\033[42m\033[30m"             // green background, black text
	)
	if w.Len() != p.Len() {
		return w.String()
	}
	var b strings.Builder
	for i := 0; i < w.Len(); i++ {
		switch p.s[i] {
		case Hit:
			b.WriteString(greenBg)
		case Present:
			b.WriteString(yellowBg)
		default:
			b.WriteString(grayBg)
		}
		b.WriteByte(w.At(i) - 'a' + 'A')
		b.WriteByte(' ')
		b.WriteString(reset)
	}
	return b.String()
}
