// Package assets embeds the files the server ships with: SQL migrations for
// the word list catalog and the default word list.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed default_words.txt sql/*.sql
var FS embed.FS

// readLines returns the trimmed, non-blank, non-comment lines of name.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// DefaultWords returns the display strings of the built-in word list.
func DefaultWords() ([]string, error) {
	return readLines("default_words.txt")
}

// Migrations returns the embedded migration directory rooted at sql/.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
