// internal/puzzle/grid.go
//
// Grid construction: empty grid, conflict-free random word placement and
// noise fill. Placement is a bounded random search with no backtracking;
// the only invariant is that a differing letter is never overwritten.

package puzzle

import (
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultSize is the grid edge length used when none is configured.
	DefaultSize = 14

	// MaxPlacementTries bounds the random (direction, start) attempts per word.
	MaxPlacementTries = 1000

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Grid is an N×N matrix of letters. A zero byte marks an empty cell.
type Grid struct {
	size  int
	cells [][]byte
}

// NewGrid returns a size×size grid of empty cells.
func NewGrid(size int) *Grid {
	if size < 0 {
		size = 0
	}
	cells := make([][]byte, size)
	for r := range cells {
		cells[r] = make([]byte, size)
	}
	return &Grid{size: size, cells: cells}
}

// Size returns the edge length.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// At returns the letter at c, or 0 if c is empty or out of bounds.
func (g *Grid) At(c Cell) byte {
	if !g.InBounds(c.Row, c.Col) {
		return 0
	}
	return g.cells[c.Row][c.Col]
}

// Empty reports whether any cell is still unfilled.
func (g *Grid) Empty() bool {
	for _, row := range g.cells {
		for _, ch := range row {
			if ch == 0 {
				return true
			}
		}
	}
	return false
}

// Rows renders each row as a string; empty cells become '.'.
func (g *Grid) Rows() []string {
	out := make([]string, g.size)
	buf := make([]byte, g.size)
	for r, row := range g.cells {
		for c, ch := range row {
			if ch == 0 {
				ch = '.'
			}
			buf[c] = ch
		}
		out[r] = string(buf)
	}
	return out
}

// Letters reads the letters along p. ok is false if any cell is out of
// bounds or empty.
func (g *Grid) Letters(p Path) (string, bool) {
	buf := make([]byte, len(p))
	for i, c := range p {
		ch := g.At(c)
		if ch == 0 {
			return "", false
		}
		buf[i] = ch
	}
	return string(buf), true
}

// CanPlace reports whether key fits starting at (row, col) along d: every
// target cell must be in bounds and either empty or already holding the
// same letter.
func (g *Grid) CanPlace(key string, row, col int, d Direction) bool {
	for i := 0; i < len(key); i++ {
		rr, cc := row+d.DR*i, col+d.DC*i
		if !g.InBounds(rr, cc) {
			return false
		}
		if ch := g.cells[rr][cc]; ch != 0 && ch != key[i] {
			return false
		}
	}
	return true
}

// write lays key down from (row, col) along d and returns the path it used.
// Callers must have checked CanPlace.
func (g *Grid) write(key string, row, col int, d Direction) Path {
	p := make(Path, len(key))
	for i := 0; i < len(key); i++ {
		rr, cc := row+d.DR*i, col+d.DC*i
		g.cells[rr][cc] = key[i]
		p[i] = Cell{Row: rr, Col: cc}
	}
	return p
}

// PlaceWord tries up to MaxPlacementTries random (direction, start) pairs and
// writes key at the first one that fits. It returns false when the budget is
// exhausted; the grid is left untouched in that case.
func (g *Grid) PlaceWord(rng *rand.Rand, key string) (Path, bool) {
	if key == "" || g.size == 0 {
		return nil, false
	}
	for t := 0; t < MaxPlacementTries; t++ {
		d := Directions[rng.IntN(len(Directions))]
		r := rng.IntN(g.size)
		c := rng.IntN(g.size)
		if g.CanPlace(key, r, c, d) {
			return g.write(key, r, c, d), true
		}
	}
	return nil, false
}

// PlaceAll places words longest key first. Failures are logged and returned;
// they never stop the remaining words from being placed.
func (g *Grid) PlaceAll(rng *rand.Rand, words []Word) (map[string]Path, []Word) {
	order := make([]Word, len(words))
	copy(order, words)
	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i].Key) > len(order[j].Key)
	})

	placed := make(map[string]Path, len(order))
	var failed []Word
	for _, w := range order {
		p, ok := g.PlaceWord(rng, w.Key)
		if !ok {
			log.Warn().
				Str("word", w.Key).
				Int("size", g.size).
				Int("tries", MaxPlacementTries).
				Msg("could not place word")
			failed = append(failed, w)
			continue
		}
		placed[w.Key] = p
	}
	return placed, failed
}

// FillHoles assigns a uniform random letter to every empty cell.
func (g *Grid) FillHoles(rng *rand.Rand) {
	for _, row := range g.cells {
		for c, ch := range row {
			if ch == 0 {
				row[c] = alphabet[rng.IntN(len(alphabet))]
			}
		}
	}
}
