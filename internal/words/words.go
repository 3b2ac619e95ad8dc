// internal/words/words.go
//
// Provides word list management for the puzzle engine.
//
// Responsibilities:
//   - Load the default word list from a file (WORDS_FILE) or fall back to
//     the embedded list shipped in assets.
//   - Normalize display strings into puzzle.Word values (uppercase key,
//     whitespace removed, A–Z only), dropping invalid lines and duplicate keys.
//
// Initialization is run once (sync.Once); Load and Normalize are pure and
// usable on their own.

package words

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// ErrEmpty is returned when a list normalizes to zero usable words.
var ErrEmpty = errors.New("words: list is empty")

var (
	initOnce   sync.Once
	defaults   []puzzle.Word
	initialErr error
)

// Init loads the default list exactly once. An empty path selects the
// embedded list.
func Init(path string) error {
	initOnce.Do(func() {
		defaults, initialErr = Load(path)
	})
	return initialErr
}

// Default returns a copy of the list loaded by Init.
func Default() []puzzle.Word {
	out := make([]puzzle.Word, len(defaults))
	copy(out, defaults)
	return out
}

// Load reads display words from path, or from the embedded list when path is
// empty, and normalizes them.
func Load(path string) ([]puzzle.Word, error) {
	var lines []string
	var err error
	if path == "" {
		lines, err = assets.DefaultWords()
	} else {
		lines, err = readWordFile(path)
	}
	if err != nil {
		return nil, err
	}
	ws, skipped := Normalize(lines)
	for _, s := range skipped {
		log.Warn().Str("word", s).Str("source", sourceName(path)).Msg("skipping invalid word")
	}
	if len(ws) == 0 {
		return nil, ErrEmpty
	}
	return ws, nil
}

// Normalize converts display strings into words, preserving order. Invalid
// entries and repeated keys are returned in skipped.
func Normalize(displays []string) (ws []puzzle.Word, skipped []string) {
	seen := make(map[string]struct{}, len(displays))
	for _, d := range displays {
		w, err := puzzle.NewWord(d)
		if err != nil {
			skipped = append(skipped, d)
			continue
		}
		if _, dup := seen[w.Key]; dup {
			skipped = append(skipped, d)
			continue
		}
		seen[w.Key] = struct{}{}
		ws = append(ws, w)
	}
	return ws, skipped
}

// Displays returns the display strings of ws.
func Displays(ws []puzzle.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Display
	}
	return out
}

// readWordFile loads one display word per line, skipping blanks and
// '#' comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
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

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
