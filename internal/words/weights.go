package words

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
)

// ErrInvalidWeight is returned for negative or non-finite weights.
var ErrInvalidWeight = errors.New("invalid weight")

// Weights is a relative frequency table keyed by word.
type Weights struct {
	m     map[Word]float64
	floor float64
}

// NewWeights validates a frequency table. Entries that are not words are
// ignored; negative or non-finite values are rejected.
func NewWeights(freq map[string]float64) (*Weights, error) {
	w := &Weights{m: make(map[Word]float64, len(freq))}
	first := true
	for s, v := range freq {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %q=%v", ErrInvalidWeight, s, v)
		}
		word, err := Parse(s)
		if err != nil {
			continue
		}
		w.m[word] = v
		if first || v < w.floor {
			w.floor = v
			first = false
		}
	}
	return w, nil
}

// ReadWeights decodes a JSON object of word → frequency.
func ReadWeights(r io.Reader) (*Weights, error) {
	var freq map[string]float64
	if err := json.NewDecoder(r).Decode(&freq); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	return NewWeights(freq)
}

// LoadWeights reads a weights file; paths ending in .gz are gunzipped.
// An empty path loads the embedded table.
func LoadWeights(path string) (*Weights, error) {
	if path == "" {
		f, err := assets.Weights()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadWeights(f)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return ReadWeights(r)
}

// Len reports the number of words with an explicit weight.
func (w *Weights) Len() int { return len(w.m) }

// Lookup returns the raw weight for word and whether it was present.
func (w *Weights) Lookup(word Word) (float64, bool) {
	v, ok := w.m[word]
	return v, ok
}

// For returns one weight per candidate. Words missing from the table get the
// minimum observed weight, then the result is renormalized to sum to 1.
// If every weight is zero the distribution falls back to uniform.
func (w *Weights) For(candidates []Word) []float64 {
	out := make([]float64, len(candidates))
	if len(candidates) == 0 {
		return out
	}
	var total float64
	for i, c := range candidates {
		v, ok := w.m[c]
		if !ok {
			v = w.floor
		}
		out[i] = v
		total += v
	}
	if total == 0 {
		u := 1 / float64(len(out))
		for i := range out {
			out[i] = u
		}
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
