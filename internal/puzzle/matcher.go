package puzzle

// MatchSelection reads the letters along path and returns the word whose key
// equals them read forward or backward. Forward matches are checked across
// the whole word set first. An empty path, a path leaving the grid or a miss
// all yield ok == false.
func MatchSelection(g *Grid, words []Word, path Path) (Word, bool) {
	if len(path) == 0 {
		return Word{}, false
	}
	text, ok := g.Letters(path)
	if !ok {
		return Word{}, false
	}
	rev := reverse(text)
	for _, w := range words {
		if w.Key == text {
			return w, true
		}
	}
	for _, w := range words {
		if w.Key == rev {
			return w, true
		}
	}
	return Word{}, false
}

// FindWordPath scans every start cell in row-major order and every direction
// in Directions order, trying key forward and then reversed at each
// (start, direction). The first full match is returned, which is not
// necessarily the placement the builder chose if the word also occurs by
// chance elsewhere.
func FindWordPath(g *Grid, key string) (Path, bool) {
	if key == "" {
		return nil, false
	}
	rev := reverse(key)
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			for _, d := range Directions {
				if p, ok := g.readAlong(key, r, c, d); ok {
					return p, true
				}
				if p, ok := g.readAlong(rev, r, c, d); ok {
					return p, true
				}
			}
		}
	}
	return nil, false
}

// readAlong compares want letter by letter from (row, col) along d and
// returns the covered path on a full match.
func (g *Grid) readAlong(want string, row, col int, d Direction) (Path, bool) {
	p := make(Path, 0, len(want))
	for i := 0; i < len(want); i++ {
		rr, cc := row+d.DR*i, col+d.DC*i
		if !g.InBounds(rr, cc) || g.cells[rr][cc] != want[i] {
			return nil, false
		}
		p = append(p, Cell{Row: rr, Col: cc})
	}
	return p, true
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
