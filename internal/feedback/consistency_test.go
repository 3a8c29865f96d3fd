package feedback

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// allWords enumerates every word of length n over alphabet.
func allWords(n int, alphabet string) []words.Word {
	out := []words.Word{}
	var rec func(prefix string)
	rec = func(prefix string) {
		if len(prefix) == n {
			out = append(out, words.MustParse(prefix))
			return
		}
		for i := 0; i < len(alphabet); i++ {
			rec(prefix + alphabet[i:i+1])
		}
	}
	rec("")
	return out
}

func allPatterns(n int) []Pattern {
	total := uint32(1)
	for i := 0; i < n; i++ {
		total *= 3
	}
	out := make([]Pattern, 0, total)
	for c := uint32(0); c < total; c++ {
		out = append(out, FromCode(c, n))
	}
	return out
}

func TestIsConsistentEquivalentExhaustive(t *testing.T) {
	for _, tc := range []struct {
		n        int
		alphabet string
	}{
		{3, "abc"},
		{4, "ab"},
		{4, "abc"},
	} {
		ws := allWords(tc.n, tc.alphabet)
		ps := allPatterns(tc.n)
		for _, g := range ws {
			for _, c := range ws {
				want, err := Compute(c, g)
				require.NoError(t, err)
				for _, p := range ps {
					if IsConsistent(c, g, p) != (want == p) {
						t.Fatalf("guess %s candidate %s pattern %s: IsConsistent=%v, Compute=%s",
							g, c, p.Letters(), !(want == p), want.Letters())
					}
				}
			}
		}
	}
}

func TestIsConsistentEquivalentRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	ps := allPatterns(5)
	for i := 0; i < 300; i++ {
		g := randomWord(rng, 5, "aeilrst")
		c := randomWord(rng, 5, "aeilrst")
		want, err := Compute(c, g)
		require.NoError(t, err)
		for _, p := range ps {
			require.Equal(t, want == p, IsConsistent(c, g, p), "guess %s candidate %s pattern %s", g, c, p.Letters())
		}
	}
}

func TestIsConsistentLengthDisagreement(t *testing.T) {
	assert.False(t, IsConsistent(w("fills"), w("lills"), Of(M, H, H, H)))
	assert.False(t, IsConsistent(w("fill"), w("lills"), Of(M, H, H, H, H)))
}

func TestIsConsistentRejectsMissBeforePresent(t *testing.T) {
	// Against "salty", guess "llama" credits the first l, never the second.
	assert.True(t, IsConsistent(w("salty"), w("llama"), Of(P, M, P, M, M)))
	assert.False(t, IsConsistent(w("salty"), w("llama"), Of(M, P, P, M, M)))
}

func TestFilter(t *testing.T) {
	cands := []words.Word{w("perky"), w("jerky"), w("nerdy"), w("tares"), w("stare"), w("berry")}
	p, err := Compute(w("perky"), w("tares"))
	require.NoError(t, err)

	got := Filter(cands, w("tares"), p)
	assert.Equal(t, []string{"perky", "jerky", "nerdy", "berry"}, words.Strings(got))
}
