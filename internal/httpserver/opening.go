package httpserver

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Scoring the full pool against every answer dominates the first turn, and
// the first turn of a fresh State is the same for every session with the
// same policy.
type openingKey struct {
	pool solver.PoolSource
	mode scoring.Mode
	hard bool
}

func (k openingKey) String() string {
	s := string(k.pool) + "/" + string(k.mode)
	if k.hard {
		s += "/hard"
	}
	return s
}

type openingCache struct {
	mu    sync.RWMutex
	words map[openingKey]words.Word
	group singleflight.Group
}

func newOpeningCache() *openingCache {
	return &openingCache{words: make(map[openingKey]words.Word)}
}

// get returns the cached opening for key, computing it once. Concurrent
// callers for the same key share one computation. Failures are not cached.
func (c *openingCache) get(ctx context.Context, key openingKey, compute func(context.Context) (words.Word, error)) (words.Word, error) {
	c.mu.RLock()
	w, ok := c.words[key]
	c.mu.RUnlock()
	if ok {
		return w, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// Detached from the caller so one cancelled request does not fail
		// everyone waiting on the same key.
		w, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return words.Word{}, err
		}
		c.mu.Lock()
		c.words[key] = w
		c.mu.Unlock()
		return w, nil
	})
	if err != nil {
		return words.Word{}, err
	}
	return v.(words.Word), nil
}
