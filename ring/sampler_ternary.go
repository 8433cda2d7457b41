package ring

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cathieyun/bfv/utils/sampling"
)

const ternarySamplerPrecision = 56

// TernarySampler keeps the state of a polynomial sampler in the ternary distribution.
type TernarySampler struct {
	baseSampler
	threshold uint64
	hw        int
	sample    func(pol Poly, f func(a, b, c uint64) uint64)
}

// NewTernarySampler creates a new instance of TernarySampler from a PRNG, the ring definition and the distribution
// parameters (see type Ternary).
func NewTernarySampler(prng sampling.PRNG, baseRing *Ring, X Ternary) (ts *TernarySampler, err error) {
	ts = new(TernarySampler)
	ts.baseSampler = baseSampler{prng: prng, baseRing: baseRing}
	switch {
	case X.P != 0 && X.H == 0:
		if !(X.P > 0 && X.P <= 1) {
			return nil, fmt.Errorf("invalid Ternary distribution: P=%f must be in (0, 1]", X.P)
		}
		ts.threshold = uint64(math.Round(X.P * math.Exp2(ternarySamplerPrecision)))
		ts.sample = ts.sampleProba
	case X.P == 0 && X.H != 0:
		if X.H < 0 || X.H > baseRing.N() {
			return nil, fmt.Errorf("invalid Ternary distribution: H=%d must be in [1, %d]", X.H, baseRing.N())
		}
		ts.hw = X.H
		ts.sample = ts.sampleSparse
	default:
		return nil, fmt.Errorf("invalid Ternary distribution: exactly one of (H, P) should be > 0")
	}

	return
}

// Read samples a polynomial into pol.
func (ts *TernarySampler) Read(pol Poly) {
	ts.sample(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadNew allocates and samples a polynomial.
func (ts *TernarySampler) ReadNew() (pol Poly) {
	pol = ts.baseRing.NewPoly()
	ts.Read(pol)
	return pol
}

// ReadAndAdd samples a ternary polynomial and adds it on pol.
func (ts *TernarySampler) ReadAndAdd(pol Poly) {
	ts.sample(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

// sampleProba draws one 64-bit word per coefficient: the top 56 bits decide
// whether the coefficient is non-zero and the lowest bit gives its sign.
func (ts *TernarySampler) sampleProba(pol Poly, f func(a, b, c uint64) uint64) {

	q := ts.baseRing.Modulus()
	N := ts.baseRing.N()

	// [0] = 0, [1] = 1, [2] = -1 mod q
	lut := [3]uint64{0, 1, q - 1}

	var word, index uint64

	for i := 0; i < N; i++ {

		word = sampling.RandUint64(ts.prng)

		index = 0
		if word>>(64-ternarySamplerPrecision) < ts.threshold {
			index = 1 + word&1
		}

		pol.Coeffs[i] = f(pol.Coeffs[i], lut[index], q)
	}
}

func (ts *TernarySampler) sampleSparse(pol Poly, f func(a, b, c uint64) uint64) {

	q := ts.baseRing.Modulus()
	N := ts.baseRing.N()

	index := make([]int, N)
	for i := 0; i < N; i++ {
		index[i] = i
	}

	values := make([]uint64, N)

	var mask, j uint64

	for i := 0; i < ts.hw; i++ {

		// rejection sampling of a random variable between [0, len(index)]
		mask = (1 << uint64(bits.Len64(uint64(N-i)))) - 1
		j = RandUniform(ts.prng, uint64(N-i), mask)

		// random binary digit [0, 1] (0 = 1, 1 = -1)
		if randInt64(ts.prng, 1) == 0 {
			values[index[j]] = 1
		} else {
			values[index[j]] = q - 1
		}

		// Remove the element in position j of the slice (order not preserved)
		index[j] = index[len(index)-1]
		index = index[:len(index)-1]
	}

	for i := 0; i < N; i++ {
		pol.Coeffs[i] = f(pol.Coeffs[i], values[i], q)
	}
}
