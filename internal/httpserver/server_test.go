package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/results"
	"github.com/robalobadob/wordle/apps/go-solver/internal/scoring"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, secret string) *Server {
	t.Helper()
	lists, err := words.Embedded{}.Load()
	require.NoError(t, err)
	weights, err := words.LoadWeights("")
	require.NoError(t, err)

	db, err := results.Open(results.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, results.Migrate(db, assets.Migrations()))

	s, err := New(Options{
		Lists:     lists,
		Weights:   weights,
		Results:   results.NewStore(db),
		Defaults:  solver.Config{Mode: scoring.Entropy, Pool: solver.SolutionsPlusAllowed},
		Seed:      7,
		JWTSecret: secret,
		DailySalt: "test-salt",
	})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func letters(t *testing.T, solution, guess words.Word) string {
	t.Helper()
	p, err := feedback.Compute(solution, guess)
	require.NoError(t, err)
	return p.Letters()
}

func TestDiagnostics(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/debug/words", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	counts := decode[map[string]int](t, rec)
	assert.Equal(t, 5, counts["length"])
	assert.Greater(t, counts["allowed"], counts["answers"])

	rec = do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "solver_sessions")
}

func TestSessionSolvesPerky(t *testing.T) {
	s := newTestServer(t, "")
	perky := words.MustParse("perky")

	rec := do(t, s, http.MethodPost, "/solve/new", map[string]any{"firstGuess": "tares"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess := decode[sessionRes](t, rec)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "tares", sess.Config.FirstGuess.String())
	assert.Len(t, sess.Candidates, sampleSize)

	for turn := 1; turn <= 8 && !sess.Solved; turn++ {
		rec = do(t, s, http.MethodGet, "/solve/"+sess.ID+"/next", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		next := decode[nextRes](t, rec)
		if turn == 1 {
			assert.Equal(t, "tares", next.Guess.String())
		}

		rec = do(t, s, http.MethodPost, "/solve/"+sess.ID+"/feedback", feedbackReq{
			Guess:    next.Guess.String(),
			Feedback: letters(t, perky, next.Guess),
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		sess = decode[sessionRes](t, rec)
		assert.Len(t, sess.Turns, turn)
	}

	require.True(t, sess.Solved)
	assert.LessOrEqual(t, len(sess.Turns), 6)
	assert.Equal(t, "perky", sess.Turns[len(sess.Turns)-1].Guess.String())

	rec = do(t, s, http.MethodGet, "/solve/"+sess.ID+"/next", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodDelete, "/solve/"+sess.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodGet, "/solve/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionRejectsBadFeedback(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/solve/new", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[sessionRes](t, rec).ID
	path := "/solve/" + id + "/feedback"

	rec = do(t, s, http.MethodPost, path, feedbackReq{Guess: "tares", Feedback: "bbgyb"})
	require.Equal(t, http.StatusOK, rec.Code)
	before := decode[sessionRes](t, rec)

	// A y with every other position green cannot be satisfied.
	rec = do(t, s, http.MethodPost, path, feedbackReq{Guess: "perky", Feedback: "ggggy"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "empty_candidate_set", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, path, feedbackReq{Guess: "tares", Feedback: "bbgyb"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_in_guess_pool", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, path, feedbackReq{Guess: "perky", Feedback: "gg"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "length_mismatch", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, path, feedbackReq{Guess: "perky", Feedback: "gqggg"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_feedback", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, "/solve/"+id, nil)
	after := decode[sessionRes](t, rec)
	assert.Equal(t, before.Remaining, after.Remaining)
	assert.Len(t, after.Turns, 1)
}

func TestHardModeSession(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/solve/new", map[string]any{"hardMode": true, "firstGuess": "tares"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decode[sessionRes](t, rec)
	assert.True(t, sess.Config.HardMode)

	rec = do(t, s, http.MethodPost, "/solve/"+sess.ID+"/feedback", feedbackReq{Guess: "tares", Feedback: "bbgyb"})
	require.Equal(t, http.StatusOK, rec.Code)
	sess = decode[sessionRes](t, rec)
	assert.Equal(t, sess.Remaining, sess.PoolSize)

	// roate reuses the eliminated a and t.
	rec = do(t, s, http.MethodPost, "/solve/"+sess.ID+"/feedback", feedbackReq{Guess: "roate", Feedback: "bbbbb"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_in_guess_pool", errorCode(t, rec))
}

func TestFirstGuessMustBeInPool(t *testing.T) {
	s := newTestServer(t, "")

	// tares is an allowed guess but not a solution.
	rec := do(t, s, http.MethodPost, "/solve/new", map[string]any{"guessPool": "solutions_only", "firstGuess": "tares"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_config", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/simulate", map[string]any{"solution": "perky", "guessPool": "solutions_only", "firstGuess": "tares"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_config", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/solve/new", map[string]any{"guessPool": "solutions_only", "firstGuess": "perky"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[sessionRes](t, rec).ID

	rec = do(t, s, http.MethodGet, "/solve/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[nextRes](t, rec)
	assert.Equal(t, "perky", next.Guess.String())

	// The recommended opener is accepted as a guess.
	rec = do(t, s, http.MethodPost, "/solve/"+id+"/feedback", feedbackReq{Guess: "perky", Feedback: "bbbbb"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestNewRejectsDefaultOpenerOutsidePool(t *testing.T) {
	lists, err := words.Embedded{}.Load()
	require.NoError(t, err)

	_, err = New(Options{
		Lists:    lists,
		Defaults: solver.Config{Pool: solver.SolutionsOnly, FirstGuess: words.MustParse("tares")},
	})
	require.ErrorIs(t, err, solver.ErrNotInGuessPool)

	_, err = New(Options{
		Lists:    lists,
		Defaults: solver.Config{Pool: solver.SolutionsPlusAllowed, FirstGuess: words.MustParse("tares")},
	})
	require.NoError(t, err)
}

func TestNextRankingAndOpeningCache(t *testing.T) {
	s := newTestServer(t, "")

	var guesses []string
	for range 2 {
		rec := do(t, s, http.MethodPost, "/solve/new", map[string]any{"guessPool": "solutions_only"})
		require.Equal(t, http.StatusCreated, rec.Code)
		id := decode[sessionRes](t, rec).ID

		rec = do(t, s, http.MethodGet, "/solve/"+id+"/next?top=3", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		next := decode[nextRes](t, rec)
		require.Len(t, next.Ranked, 3)
		assert.GreaterOrEqual(t, next.Ranked[0].Score, next.Ranked[1].Score)
		assert.GreaterOrEqual(t, next.Ranked[1].Score, next.Ranked[2].Score)
		assert.Equal(t, next.Ranked[0].Score, mustScore(t, next.Ranked, next.Guess))
		guesses = append(guesses, next.Guess.String())
	}
	assert.Equal(t, guesses[0], guesses[1])
	assert.Len(t, s.openings.words, 1)

	rec := do(t, s, http.MethodPost, "/solve/new", map[string]any{"scoringMode": "minimax"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_config", errorCode(t, rec))
}

// mustScore finds the score of g in ranked.
func mustScore(t *testing.T, ranked []scoring.Ranked, g words.Word) float64 {
	t.Helper()
	for _, r := range ranked {
		if r.Guess == g {
			return r.Score
		}
	}
	t.Fatalf("%s not among the top guesses", g)
	return 0
}

func TestSimulateRequiresToken(t *testing.T) {
	s := newTestServer(t, testSecret)
	body := map[string]any{"solution": "perky", "firstGuess": "tares"}

	rec := do(t, s, http.MethodPost, "/simulate", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/simulate", body, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))

	wrong, _, err := SignToken("other-secret", "ci", time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/simulate", body, "Authorization", "Bearer "+wrong)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, _, err := SignToken(testSecret, "ci", time.Hour)
	require.NoError(t, err)
	auth := []string{"Authorization", "Bearer " + tok}

	rec = do(t, s, http.MethodPost, "/simulate", body, auth...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[simulateRes](t, rec)
	assert.True(t, res.Solved)
	assert.Positive(t, res.RunID)
	assert.Equal(t, "tares", res.Turns[0].Guess.String())
	assert.Equal(t, "perky", res.Turns[len(res.Turns)-1].Guess.String())
	assert.LessOrEqual(t, len(res.Turns), 6)

	rec = do(t, s, http.MethodPost, "/simulate", map[string]any{"solution": "tares"}, auth...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_an_answer", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, "/simulate/stats?mode=entropy&hard=false", nil, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[results.Stats](t, rec)
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 1, st.Solved)

	rec = do(t, s, http.MethodGet, "/simulate/recent", nil, auth...)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]results.Run](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, "perky", runs[0].Solution)
}

func TestExpiredToken(t *testing.T) {
	s := newTestServer(t, testSecret)
	tok, _, err := SignToken(testSecret, "ci", -time.Minute)
	require.NoError(t, err)
	rec := do(t, s, http.MethodGet, "/simulate/stats", nil, "Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDailySolveIsDeterministic(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/daily/solve?date=2024-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a := decode[simulateRes](t, rec)
	assert.Equal(t, "2024-03-01", a.Date)
	require.NotNil(t, a.WordIndex)
	assert.True(t, a.Solved)
	assert.Equal(t, a.Solution, a.Turns[len(a.Turns)-1].Guess)

	rec = do(t, s, http.MethodGet, "/daily/solve?date=2024-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	b := decode[simulateRes](t, rec)
	assert.Equal(t, a.Solution, b.Solution)
	assert.Equal(t, a.Turns, b.Turns)

	rec = do(t, s, http.MethodGet, "/daily/solve?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
