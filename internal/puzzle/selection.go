package puzzle

// Selection is the pure reducer behind the click-to-select gesture: the
// first click anchors, later clicks on a straight line from the anchor
// stretch the path, clicks off-line are ignored.
type Selection struct {
	Active bool `json:"active"`
	Path   Path `json:"path"`
}

// Click folds one cell click into s.
func (s Selection) Click(c Cell) Selection {
	if !s.Active || len(s.Path) == 0 {
		return Selection{Active: true, Path: Path{c}}
	}
	head := s.Path[0]
	if !SameLine(head, c) {
		return s
	}
	return Selection{Active: true, Path: Line(head, c)}
}

// Clear drops any selection in progress.
func (s Selection) Clear() Selection { return Selection{} }

// SameLine reports whether a and b share a row, a column or a diagonal.
func SameLine(a, b Cell) bool {
	return a.Row == b.Row || a.Col == b.Col || abs(a.Row-b.Row) == abs(a.Col-b.Col)
}

// Line returns the straight path from a to b inclusive. The caller must
// ensure SameLine(a, b).
func Line(a, b Cell) Path {
	dr, dc := sign(b.Row-a.Row), sign(b.Col-a.Col)
	n := max(abs(a.Row-b.Row), abs(a.Col-b.Col)) + 1
	p := make(Path, n)
	for i := 0; i < n; i++ {
		p[i] = Cell{Row: a.Row + dr*i, Col: a.Col + dc*i}
	}
	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
