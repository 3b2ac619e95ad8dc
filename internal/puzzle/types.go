// internal/puzzle/types.go
//
// Core type definitions for the word search engine.
// Defines:
//   - Word: a display string plus its normalized grid key.
//   - Cell/Path: grid coordinates and straight-line runs of them.
//   - Direction: the eight unit steps a word may be laid along.
//   - State: found flags keyed by word key.
//   - Phase: build progress of a session.

package puzzle

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidWord is returned by NewWord when the normalized key is empty or
// contains anything other than A–Z.
var ErrInvalidWord = errors.New("puzzle: word must contain only letters A-Z")

// Word is one hidden word. Key is what gets placed and searched in the grid.
type Word struct {
	Display string `json:"display"`
	Key     string `json:"key"`
}

// NewWord normalizes display into a Word: the key is the display string
// uppercased with all whitespace removed.
func NewWord(display string) (Word, error) {
	display = strings.TrimSpace(display)
	key := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, display)
	if key == "" || !isUpperAlpha(key) {
		return Word{}, ErrInvalidWord
	}
	return Word{Display: display, Key: key}, nil
}

// isUpperAlpha reports whether s consists only of ASCII A–Z.
func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// Cell addresses a single grid square.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Path is an ordered run of cells. Paths produced by the engine always have
// a constant stride of one Direction.
type Path []Cell

// Reversed returns a copy of p in reverse order.
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// IsLine reports whether p is a non-empty straight run: every consecutive
// pair differs by the same unit Direction.
func (p Path) IsLine() bool {
	if len(p) == 0 {
		return false
	}
	if len(p) == 1 {
		return true
	}
	d := Direction{DR: p[1].Row - p[0].Row, DC: p[1].Col - p[0].Col}
	if !d.valid() {
		return false
	}
	for i := 2; i < len(p); i++ {
		if p[i].Row-p[i-1].Row != d.DR || p[i].Col-p[i-1].Col != d.DC {
			return false
		}
	}
	return true
}

// Direction is a unit step (DR, DC) with both components in {-1, 0, 1},
// excluding (0, 0).
type Direction struct {
	DR int
	DC int
}

// Directions lists the eight candidate directions in scan order:
// right, left, down, up, then the four diagonals.
var Directions = [8]Direction{
	{0, 1}, {0, -1},
	{1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func (d Direction) valid() bool {
	if d.DR == 0 && d.DC == 0 {
		return false
	}
	return d.DR >= -1 && d.DR <= 1 && d.DC >= -1 && d.DC <= 1
}

// State maps word keys to their found flag.
type State map[string]bool

// NewState returns a State with every key of words set to false.
func NewState(words []Word) State {
	st := make(State, len(words))
	for _, w := range words {
		st[w.Key] = false
	}
	return st
}

// IsComplete reports whether every entry in st is true.
func IsComplete(st State) bool {
	for _, found := range st {
		if !found {
			return false
		}
	}
	return true
}

// Phase tracks how far a session's grid has been built.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseWordsPlaced
	PhaseHolesFilled
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseWordsPlaced:
		return "words_placed"
	case PhaseHolesFilled:
		return "holes_filled"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}
