// Package ring implements arithmetic in the negacyclic ring Z_q[X]/(X^N+1) for a single modulus q,
// together with samplers for the uniform, ternary and discrete Gaussian distributions.
package ring

import (
	"fmt"
	"math/bits"

	"github.com/cathieyun/bfv/utils"
)

// MaxModulus is the largest modulus supported by a [Ring].
// Coefficients are stored on 64 bits and the sum of two reduced
// coefficients must not overflow.
const MaxModulus = uint64(1) << 63

// Ring is a structure that keeps all the variables required to operate on polynomials
// of degree N with coefficients in Z_q.
// A Ring is read-only once created and can be shared between goroutines.
type Ring struct {
	n int

	// Modulus
	modulus uint64

	// 2^bit_length(Modulus-1) - 1
	mask uint64

	// nil if the modulus does not enable the NTT for this degree.
	*nttTable
}

// NewRing creates a new Ring of degree N and modulus q.
// N can be any positive integer. If q is a prime congruent to 1 modulo 2N and N is a power of two,
// polynomial multiplication uses the negacyclic NTT, otherwise it uses the schoolbook product.
func NewRing(N int, q uint64) (r *Ring, err error) {

	if N <= 0 {
		return nil, fmt.Errorf("invalid ring degree: N=%d must be positive", N)
	}

	if q <= 1 {
		return nil, fmt.Errorf("invalid modulus: q=%d must be greater than 1", q)
	}

	if q > MaxModulus {
		return nil, fmt.Errorf("invalid modulus: q=%d exceeds the maximum modulus 2^63", q)
	}

	r = &Ring{
		n:       N,
		modulus: q,
		mask:    (1 << uint64(bits.Len64(q-1))) - 1,
	}

	if utils.IsPowerOfTwo(N) && (q-1)%uint64(2*N) == 0 && IsPrime(q) {
		if r.nttTable, err = newNTTTable(N, q); err != nil {
			return nil, fmt.Errorf("cannot generate NTT constants: %w", err)
		}
	}

	return
}

// N returns the degree of the ring.
func (r Ring) N() int {
	return r.n
}

// Modulus returns the modulus of the ring.
func (r Ring) Modulus() uint64 {
	return r.modulus
}

// Mask returns 2^bit_length(Modulus-1) - 1.
func (r Ring) Mask() uint64 {
	return r.mask
}

// NTTEnabled returns true if polynomial products in this ring go through the NTT.
func (r Ring) NTTEnabled() bool {
	return r.nttTable != nil
}

// NewPoly allocates a new zero polynomial in the ring.
func (r Ring) NewPoly() Poly {
	return NewPoly(r.n)
}

// Equal checks if the two rings have the same degree and modulus.
func (r Ring) Equal(other *Ring) bool {
	return other != nil && r.n == other.n && r.modulus == other.modulus
}

// String returns a short description of the ring.
func (r Ring) String() string {
	return fmt.Sprintf("Z_%d[X]/(X^%d+1)", r.modulus, r.n)
}
