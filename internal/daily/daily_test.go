package daily

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	assert.Equal(t, "2026-03-01", DateKey(ts))
}

func TestSeedDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	a1, a2 := Seed(day, "salt")
	b1, b2 := Seed(later, "salt")
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)

	c1, c2 := Seed(day.Add(24*time.Hour), "salt")
	assert.False(t, a1 == c1 && a2 == c2, "next day differs")

	d1, d2 := Seed(day, "other")
	assert.False(t, a1 == d1 && a2 == d2, "salt changes the seed")
}

func TestSeedLongSalt(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NotPanics(t, func() { Seed(day, strings.Repeat("x", 200)) })
	assert.NotPanics(t, func() { Seed(day, "") })
}
