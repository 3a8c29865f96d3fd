// internal/words/word.go
//
// Word is the fixed-length value type every other package works with.
// Letters live in a small inline array so words copy cheaply, compare
// with == and can be used as map keys.
package words

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLength is the longest word a puzzle may use.
const MaxLength = 15

var (
	// ErrLengthMismatch is returned when words (or a word and a pattern)
	// that must share the puzzle length do not.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidWord is returned for empty, too long, or non a–z input.
	ErrInvalidWord = errors.New("invalid word")
)

// Word holds up to MaxLength lowercase ASCII letters.
type Word struct {
	letters [MaxLength]byte
	n       uint8
}

// Parse trims and lowercases s and validates it as a word.
func Parse(s string) (Word, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > MaxLength {
		return Word{}, fmt.Errorf("%w: %q has %d letters", ErrInvalidWord, s, len(s))
	}
	var w Word
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return Word{}, fmt.Errorf("%w: %q", ErrInvalidWord, s)
		}
		w.letters[i] = c
	}
	w.n = uint8(len(s))
	return w, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Word {
	w, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return w
}

// ParseAll parses every entry of list and requires them all to have length n.
// Pass n = 0 to take the length from the first entry.
func ParseAll(list []string, n int) ([]Word, error) {
	out := make([]Word, 0, len(list))
	for _, s := range list {
		w, err := Parse(s)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			n = w.Len()
		}
		if w.Len() != n {
			return nil, fmt.Errorf("%w: %q is not %d letters", ErrLengthMismatch, s, n)
		}
		out = append(out, w)
	}
	return out, nil
}

// Len reports the number of letters.
func (w Word) Len() int { return int(w.n) }

// At returns the letter at position i.
func (w Word) At(i int) byte { return w.letters[i] }

// IsZero reports whether w is the zero Word.
func (w Word) IsZero() bool { return w.n == 0 }

func (w Word) String() string { return string(w.letters[:w.n]) }

// MarshalText lets words appear as plain strings in JSON.
func (w Word) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText accepts an empty string as the zero Word.
func (w *Word) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*w = Word{}
		return nil
	}
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*w = p
	return nil
}

// Strings converts a slice of words back to strings.
func Strings(ws []Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

// Index maps each word to its position in ws.
func Index(ws []Word) map[Word]int {
	m := make(map[Word]int, len(ws))
	for i, w := range ws {
		m[w] = i
	}
	return m
}
