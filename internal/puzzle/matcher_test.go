package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWords(t *testing.T, displays ...string) []Word {
	t.Helper()
	out := make([]Word, 0, len(displays))
	for _, d := range displays {
		w, err := NewWord(d)
		require.NoError(t, err, d)
		out = append(out, w)
	}
	return out
}

func TestMatchSelection(t *testing.T) {
	g := gridFromRows(t,
		"CATQ",
		"XOXX",
		"XXGX",
		"TODX",
	)
	words := mustWords(t, "cat", "dog", "cog")

	cases := []struct {
		name string
		path Path
		want string
		ok   bool
	}{
		{"forward row", Path{{0, 0}, {0, 1}, {0, 2}}, "CAT", true},
		{"reversed row", Path{{0, 2}, {0, 1}, {0, 0}}, "CAT", true},
		{"diagonal forward", Path{{0, 0}, {1, 1}, {2, 2}}, "COG", true},
		{"bottom row reversed", Path{{3, 2}, {3, 1}, {3, 0}}, "", false},
		{"two letters", Path{{3, 2}, {3, 1}}, "", false},
		{"partial word", Path{{0, 0}, {0, 1}}, "", false},
		{"empty path", Path{}, "", false},
		{"leaves grid", Path{{0, 2}, {0, 3}, {0, 4}}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := MatchSelection(g, words, tc.path)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, w.Key)
		})
	}
}

func TestMatchSelectionPrefersForward(t *testing.T) {
	g := gridFromRows(t,
		"TOP",
		"XXX",
		"XXX",
	)
	words := mustWords(t, "pot", "top")
	w, ok := MatchSelection(g, words, Path{{0, 0}, {0, 1}, {0, 2}})
	require.True(t, ok)
	assert.Equal(t, "TOP", w.Key)

	w, ok = MatchSelection(g, words, Path{{0, 2}, {0, 1}, {0, 0}})
	require.True(t, ok)
	assert.Equal(t, "POT", w.Key)
}

func TestFindWordPathScanOrder(t *testing.T) {
	g := gridFromRows(t,
		"XXXXX",
		"XTACX",
		"XXXXX",
		"XCATX",
		"XXXXX",
	)
	// Row 1 reads TAC left to right, so the reversed attempt at (1,1) going
	// right hits before the forward copy on row 3.
	p, ok := FindWordPath(g, "CAT")
	require.True(t, ok)
	assert.Equal(t, Path{{1, 1}, {1, 2}, {1, 3}}, p)
}

func TestFindWordPathAllDirections(t *testing.T) {
	for _, d := range Directions {
		g := NewGrid(7)
		// Lay the word from the centre so every direction fits.
		g.write("WORD", 3, 3, d)
		g.FillHoles(NewRand(uint64(d.DR+2), uint64(d.DC+2)))

		p, ok := FindWordPath(g, "WORD")
		require.True(t, ok, "direction %+v", d)
		got, _ := g.Letters(p)
		assert.True(t, got == "WORD" || got == "DROW", "direction %+v read %q", d, got)
		assert.True(t, p.IsLine())
	}
}

func TestFindWordPathMissing(t *testing.T) {
	g := gridFromRows(t, "AB", "CD")
	p, ok := FindWordPath(g, "ZZ")
	assert.False(t, ok)
	assert.Nil(t, p)

	_, ok = FindWordPath(g, "")
	assert.False(t, ok)

	_, ok = FindWordPath(g, "ABCDE")
	assert.False(t, ok)
}

func TestFindWordPathSingleLetter(t *testing.T) {
	g := gridFromRows(t, "AB", "CD")
	p, ok := FindWordPath(g, "D")
	require.True(t, ok)
	assert.Equal(t, Path{{1, 1}}, p)
}
