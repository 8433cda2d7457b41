// Package sampling implements secure sampling of bytes and integers.
package sampling

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"
)

// DerivedKeySize is the size in bytes of the keys returned by [DeriveKey].
const DerivedKeySize = 32

// DeriveKey derives a child key from a master key using blake3 in key-derivation mode.
// Distinct (label, index) pairs give independent keys, which lets every worker of a
// concurrent job own its own [KeyedPRNG] while the whole job stays reproducible
// from a single master key.
func DeriveKey(master []byte, label string, index int) (key []byte) {

	material := make([]byte, len(master)+8)
	copy(material, master)
	binary.LittleEndian.PutUint64(material[len(master):], uint64(index))

	key = make([]byte, DerivedKeySize)
	blake3.DeriveKey(fmt.Sprintf("cathieyun/bfv %s", label), material, key)
	return
}

// RandUint64 returns a random value between 0 and 0xFFFFFFFFFFFFFFFF read from prng.
func RandUint64(prng PRNG) uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := prng.Read(b); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// RandFloat64 returns a random float in [0, 1) with 53 bits of precision read from prng.
func RandFloat64(prng PRNG) float64 {
	return float64(RandUint64(prng)>>11) / (1 << 53)
}
