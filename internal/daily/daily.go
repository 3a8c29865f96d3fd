// internal/daily/daily.go
//
// Deterministic daily puzzle selection. The solution for a date is
// HMAC(salt, YYYY-MM-DD) modulo the answer count, so every process with the
// same salt and list agrees on the day's word without shared state.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const dateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD key.
func ParseDate(key string) (time.Time, error) {
	t, err := time.Parse(dateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("daily: bad date %q: %w", key, err)
	}
	return t, nil
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Answer returns the solution for date and its index in answers.
func Answer(date time.Time, salt string, answers []words.Word) (words.Word, int) {
	if len(answers) == 0 {
		return words.Word{}, 0
	}
	i := WordIndex(date, salt, len(answers))
	return answers[i], i
}
