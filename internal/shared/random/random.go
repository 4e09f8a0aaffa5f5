package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"time"
)

// SeedFunc supplies entropy for randomized game rolls (expedition
// outcomes, homeworld placement). Injected so tests can pin outcomes.
type SeedFunc func() int64

// CryptoSeed draws a seed from the OS entropy source, out of players'
// reach.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
