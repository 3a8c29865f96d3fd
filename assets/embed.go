// assets/embed.go
//
// Embedded default data shipped with the binary:
//   - answers.txt:  solution words (one per line, '#' comments allowed).
//   - allowed.txt:  extra allowed guesses.
//   - weights.json: relative word frequencies for weighted scoring.
//   - sql/*.sql:    schema migrations for the results database.
package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed allowed.txt answers.txt weights.json sql/*.sql
var FS embed.FS

// ReadLines reads a word list, skipping blank lines and '#' comments.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

func AnswersList() ([]string, error) {
	return readLines("answers.txt")
}

func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}

// Weights opens the embedded frequency table. The caller closes it.
func Weights() (fs.File, error) {
	return FS.Open("weights.json")
}

// Migrations returns the embedded sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// Only fails if the embed pattern above is wrong.
		panic(err)
	}
	return sub
}
