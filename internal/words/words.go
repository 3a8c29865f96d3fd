// internal/words/words.go
//
// Word list providers for the solver.
//
// Responsibilities:
//   - Load answer and allowed guess lists from configured files or fall back
//     to the embedded defaults in the assets package.
//   - Normalize lists: lowercase, uniform length, no duplicates, and keep the
//     allowed list disjoint from the answers.
//   - Offer lookups (IsAnswer, IsAllowed) and the union used as a guess pool.
//
// Provider selection (NewProvider):
//  1. answers and allowed paths both set → load each file.
//  2. only allowed set → that file is used for both lists.
//  3. neither set → embedded defaults.
//
// Lists are loaded once at process start and are read-only afterwards.
package words

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
)

// Lists holds the two word lists of a puzzle variant.
type Lists struct {
	Answers []Word // possible solutions
	Allowed []Word // additional allowed guesses, disjoint from Answers
	Length  int

	answerSet  map[Word]struct{}
	allowedSet map[Word]struct{} // answers ∪ allowed
}

// Provider supplies word lists.
type Provider interface {
	Load() (*Lists, error)
}

// NewLists normalizes raw string lists into Lists. Entries that are not valid
// words, or whose length differs from the first answer, are skipped.
func NewLists(answers, allowed []string) (*Lists, error) {
	l := &Lists{
		answerSet:  make(map[Word]struct{}, len(answers)),
		allowedSet: make(map[Word]struct{}, len(answers)+len(allowed)),
	}
	skipped := 0
	for _, s := range answers {
		w, ok := l.accept(s)
		if !ok {
			skipped++
			continue
		}
		if _, dup := l.answerSet[w]; dup {
			continue
		}
		l.answerSet[w] = struct{}{}
		l.allowedSet[w] = struct{}{}
		l.Answers = append(l.Answers, w)
	}
	if len(l.Answers) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	for _, s := range allowed {
		w, ok := l.accept(s)
		if !ok {
			skipped++
			continue
		}
		if _, dup := l.allowedSet[w]; dup {
			continue
		}
		l.allowedSet[w] = struct{}{}
		l.Allowed = append(l.Allowed, w)
	}
	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Int("length", l.Length).Msg("words: skipped malformed entries")
	}
	return l, nil
}

func (l *Lists) accept(s string) (Word, bool) {
	w, err := Parse(s)
	if err != nil {
		return Word{}, false
	}
	if l.Length == 0 {
		l.Length = w.Len()
	}
	return w, w.Len() == l.Length
}

// All returns answers followed by the extra allowed guesses.
func (l *Lists) All() []Word {
	out := make([]Word, 0, len(l.Answers)+len(l.Allowed))
	out = append(out, l.Answers...)
	return append(out, l.Allowed...)
}

// IsAnswer reports whether w is a solution word.
func (l *Lists) IsAnswer(w Word) bool {
	_, ok := l.answerSet[w]
	return ok
}

// IsAllowed reports whether w is a valid guess (answers ∪ allowed).
func (l *Lists) IsAllowed(w Word) bool {
	_, ok := l.allowedSet[w]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed including answers).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return len(l.Answers), len(l.allowedSet)
}

// Embedded loads the lists compiled into the binary.
type Embedded struct{}

func (Embedded) Load() (*Lists, error) {
	ans, err := assets.AnswersList()
	if err != nil {
		return nil, fmt.Errorf("embedded answers: %w", err)
	}
	all, err := assets.AllowedList()
	if err != nil {
		return nil, fmt.Errorf("embedded allowed: %w", err)
	}
	return NewLists(ans, all)
}

// Files loads lists from disk. With AnswersPath empty, AllowedPath is used
// for both lists.
type Files struct {
	AnswersPath string
	AllowedPath string
}

func (f Files) Load() (*Lists, error) {
	allow, err := readWordFile(f.AllowedPath)
	if err != nil {
		return nil, err
	}
	ans := allow
	if f.AnswersPath != "" {
		if ans, err = readWordFile(f.AnswersPath); err != nil {
			return nil, err
		}
	}
	return NewLists(ans, allow)
}

// NewProvider picks a provider from the configured paths.
func NewProvider(answersPath, allowedPath string) Provider {
	switch {
	case allowedPath != "":
		return Files{AnswersPath: answersPath, AllowedPath: allowedPath}
	case answersPath != "":
		return Files{AnswersPath: answersPath, AllowedPath: answersPath}
	default:
		return Embedded{}
	}
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}
