package ring

import (
	"encoding/binary"

	"github.com/cathieyun/bfv/utils/sampling"
)

// UniformSampler wraps a sampling.PRNG and represents the state of a sampler of uniform polynomials.
type UniformSampler struct {
	baseSampler
	randomBufferN []byte
	ptr           int
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG and ring definition.
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) (u *UniformSampler) {
	return &UniformSampler{
		baseSampler:   baseSampler{prng: prng, baseRing: baseRing},
		randomBufferN: make([]byte, 1024),
	}
}

// Read samples a polynomial with coefficients uniformly distributed over [0, q-1] on pol.
func (u *UniformSampler) Read(pol Poly) {
	u.read(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadAndAdd samples a uniform polynomial and adds it on pol.
func (u *UniformSampler) ReadAndAdd(pol Poly) {
	u.read(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

func (u *UniformSampler) read(pol Poly, f func(a, b, c uint64) uint64) {

	var randomUint uint64

	prng := u.prng
	N := u.baseRing.N()
	qi := u.baseRing.Modulus()
	mask := u.baseRing.Mask()

	buffer := u.randomBufferN
	byteArrayLength := len(buffer)

	var ptr int
	if ptr = u.ptr; ptr == 0 || ptr == byteArrayLength {
		if _, err := prng.Read(buffer); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		ptr = 0 // for the case where ptr == byteArrayLength
	}

	coeffs := pol.Coeffs

	for i := 0; i < N; i++ {

		// Samples an integer between [0, qi-1]
		for {

			// Refills the buff if it runs empty
			if ptr == byteArrayLength {
				if _, err := prng.Read(buffer); err != nil {
					// Sanity check, this error should not happen.
					panic(err)
				}
				ptr = 0
			}

			// Reads bytes from the buff
			randomUint = binary.BigEndian.Uint64(buffer[ptr:ptr+8]) & mask
			ptr += 8

			// If the integer is between [0, qi-1], breaks the loop
			if randomUint < qi {
				break
			}
		}

		coeffs[i] = f(coeffs[i], randomUint, qi)
	}

	u.ptr = ptr
}

// ReadNew generates a new polynomial with coefficients following a uniform distribution over [0, q-1].
func (u *UniformSampler) ReadNew() (pol Poly) {
	pol = u.baseRing.NewPoly()
	u.Read(pol)
	return
}

// RandUniform samples a uniform randomInt variable in the range [0, mask] until randomInt is in the range [0, v-1].
// mask needs to be of the form 2^n -1.
func RandUniform(prng sampling.PRNG, v uint64, mask uint64) (randomInt uint64) {
	for {
		randomInt = randInt64(prng, mask)
		if randomInt < v {
			return randomInt
		}
	}
}

// randInt64 samples a uniform variable in the range [0, mask], where mask is of the form 2^n-1, with n in [0, 64].
func randInt64(prng sampling.PRNG, mask uint64) uint64 {
	return mask & sampling.RandUint64(prng)
}
