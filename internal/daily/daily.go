// Package daily derives the deterministic seed behind the puzzle of the day.
// Everyone asking for the same date with the same salt gets the same grid.
package daily

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a PCG seed pair from BLAKE2b-256 keyed by salt over the date
// key of t. Salts longer than a BLAKE2b key are hashed down first.
func Seed(t time.Time, salt string) (uint64, uint64) {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// Only reachable with an oversized key, which is ruled out above.
		panic(err)
	}
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}
