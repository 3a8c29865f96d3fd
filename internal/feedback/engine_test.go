package feedback

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const (
	M = Miss
	P = Present
	H = Hit
)

func w(s string) words.Word { return words.MustParse(s) }

func TestComputeFixtures(t *testing.T) {
	cases := []struct {
		candidate, guess string
		want             Pattern
	}{
		{"stare", "tares", Of(P, P, P, P, P)},
		{"lacks", "black", Of(M, P, P, P, P)},
		{"black", "lacks", Of(P, P, P, P, M)},
		{"zills", "fills", Of(M, H, H, H, H)},
		{"fills", "field", Of(H, H, M, H, M)},
		{"fills", "loser", Of(P, M, P, M, M)},
		{"fills", "lills", Of(M, H, H, H, H)},
		{"abbey", "babes", Of(P, P, H, H, M)},
		{"speed", "eerie", Of(P, P, M, M, M)},
		{"crane", "eerie", Of(M, M, P, M, H)},
		{"llama", "lolly", Of(H, M, P, M, M)},
		{"perky", "tares", Of(M, M, H, P, M)},
	}
	for _, tc := range cases {
		t.Run(tc.guess+"/"+tc.candidate, func(t *testing.T) {
			got, err := Compute(w(tc.candidate), w(tc.guess))
			require.NoError(t, err)
			assert.Equal(t, tc.want.Letters(), got.Letters())
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeLengthMismatch(t *testing.T) {
	_, err := Compute(w("fills"), w("fill"))
	assert.True(t, errors.Is(err, words.ErrLengthMismatch))
}

func TestComputeSelfIsSolved(t *testing.T) {
	for _, s := range []string{"a", "eerie", "llama", "mississippi", "perky"} {
		p, err := Compute(w(s), w(s))
		require.NoError(t, err)
		assert.True(t, p.Solved(), s)
		assert.Equal(t, AllHit(len(s)), p)
	}
}

func TestComputeHitCountMatchesPositions(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		c, g := randomWord(rng, 5, "abcde"), randomWord(rng, 5, "abcde")
		p, err := Compute(c, g)
		require.NoError(t, err)
		require.Equal(t, 5, p.Len())
		same := 0
		for j := 0; j < 5; j++ {
			if c.At(j) == g.At(j) {
				same++
			}
		}
		assert.Equal(t, same, p.Hits(), "%s vs %s", g, c)
	}
}

func TestComputeAllMatchesScalar(t *testing.T) {
	cands := []words.Word{w("fills"), w("stare"), w("lacks"), w("eerie"), w("perky")}
	guesses := []words.Word{w("lills"), w("tares"), w("black"), w("speed")}

	m, err := ComputeAll(cands, guesses)
	require.NoError(t, err)
	require.Equal(t, len(guesses), m.Guesses)
	require.Equal(t, len(cands), m.Candidates)
	for g, guess := range guesses {
		for c, cand := range cands {
			want, err := Compute(cand, guess)
			require.NoError(t, err)
			assert.Equal(t, want, m.At(g, c))
		}
	}

	for c, cand := range cands {
		assert.Equal(t, m.At(1, c).Code(), Code(cand, guesses[1]))
	}
}

func TestComputeAllLengthMismatch(t *testing.T) {
	_, err := ComputeAll([]words.Word{w("fills")}, []words.Word{w("tar")})
	assert.ErrorIs(t, err, words.ErrLengthMismatch)
}

func randomWord(rng *rand.Rand, n int, alphabet string) words.Word {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return words.MustParse(string(b))
}
