// internal/puzzle/engine.go
//
// Session lifecycle for a single word search.
// Responsibilities:
//   - Build a puzzle: empty grid → words placed → holes filled → ready.
//   - Confirm player selections and track found words.
//   - Reveal every remaining word via exhaustive search.
//   - Restart with fresh randomness, replacing grid and state together.
//
// A Puzzle is not safe for concurrent use; callers serialize access.
package puzzle

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// Puzzle is the explicit session state: grid, found flags and bookkeeping.
type Puzzle struct {
	Size       int             // Edge length, fixed for the life of the session.
	Words      []Word          // Word set in display order.
	Grid       *Grid           // Current grid.
	State      State           // Found flags keyed by Word.Key.
	Phase      Phase           // Build progress; PhaseReady once New returns.
	Placements map[string]Path // Where the builder put each word.
	Failed     []Word          // Words that could not be placed.
	FoundPaths map[string]Path // Path confirmed (or revealed) for each found word.
	Revealed   bool            // True once Reveal forced completion.
}

// Revelation is one word located by Reveal.
type Revelation struct {
	Word Word `json:"word"`
	Path Path `json:"path"`
}

// New runs the full build pipeline and returns a ready puzzle.
// Words that cannot be placed are listed in Failed and can never be found.
func New(rng *mrand.Rand, size int, words []Word) *Puzzle {
	p := &Puzzle{Size: size, Words: words}
	p.build(rng)
	return p
}

// Restart discards grid and state and rebuilds both from scratch with the
// same size and words.
func (p *Puzzle) Restart(rng *mrand.Rand) {
	p.build(rng)
}

// build constructs a new grid/state pair and swaps it in only when ready,
// so no partial state from a previous round survives.
func (p *Puzzle) build(rng *mrand.Rand) {
	next := Puzzle{Size: p.Size, Words: p.Words, Phase: PhaseEmpty}
	next.Grid = NewGrid(p.Size)

	next.Placements, next.Failed = next.Grid.PlaceAll(rng, p.Words)
	next.Phase = PhaseWordsPlaced

	next.Grid.FillHoles(rng)
	next.Phase = PhaseHolesFilled

	next.State = NewState(p.Words)
	next.FoundPaths = make(map[string]Path)
	next.Phase = PhaseReady

	*p = next
}

// Confirm matches path against the word set. On a hit the word is marked
// found and its path recorded; confirming an already found word still
// reports the match but keeps the first recorded path.
func (p *Puzzle) Confirm(path Path) (Word, bool) {
	w, ok := MatchSelection(p.Grid, p.Words, path)
	if !ok {
		return Word{}, false
	}
	p.markFound(w, path)
	return w, true
}

// Reveal locates every word not yet found and marks it found. Words absent
// from the grid stay unfound. After Reveal the session reports Done.
func (p *Puzzle) Reveal() []Revelation {
	var out []Revelation
	for _, w := range p.Words {
		if p.State[w.Key] {
			continue
		}
		path, ok := FindWordPath(p.Grid, w.Key)
		if !ok {
			continue
		}
		p.markFound(w, path)
		out = append(out, Revelation{Word: w, Path: path})
	}
	p.Revealed = true
	return out
}

func (p *Puzzle) markFound(w Word, path Path) {
	p.State[w.Key] = true
	if _, seen := p.FoundPaths[w.Key]; !seen {
		cp := make(Path, len(path))
		copy(cp, path)
		p.FoundPaths[w.Key] = cp
	}
}

// Complete reports whether every word has been found.
func (p *Puzzle) Complete() bool { return IsComplete(p.State) }

// Done reports whether the completion UI should show: all words found or a
// reveal was forced.
func (p *Puzzle) Done() bool { return p.Revealed || p.Complete() }

// Progress returns (found, total).
func (p *Puzzle) Progress() (int, int) {
	n := 0
	for _, found := range p.State {
		if found {
			n++
		}
	}
	return n, len(p.State)
}

// NewRand returns a PCG-backed generator for the given seed pair.
func NewRand(seed1, seed2 uint64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(seed1, seed2))
}

// RandomRand returns a generator seeded from crypto/rand.
func RandomRand() *mrand.Rand {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return NewRand(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
}
