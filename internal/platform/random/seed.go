// Package random provides cryptographic seed generation helpers.
//
// Production callers seed the spotlight rotation with high-entropy values
// so each request draws an independent selection, while tests can supply
// fixed seeds for reproducible draws.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
