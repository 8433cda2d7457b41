package ring

import (
	"fmt"
	"math"

	"github.com/cathieyun/bfv/utils/sampling"
)

const maxGaussianBound = 1 << 62

// GaussianSampler keeps the state of a truncated Gaussian polynomial sampler.
type GaussianSampler struct {
	baseSampler
	xe DiscreteGaussian
}

// NewGaussianSampler creates a new instance of GaussianSampler from a PRNG, a ring definition and the
// discrete Gaussian parameters. Samples are reduced modulo the ring modulus.
// A zero Bound is read as 6*Sigma and a zero Sigma gives a sampler that always
// returns the zero polynomial.
func NewGaussianSampler(prng sampling.PRNG, baseRing *Ring, X DiscreteGaussian) (g *GaussianSampler, err error) {

	if !(X.Sigma >= 0 && X.Bound >= 0) || math.IsInf(X.Sigma, 0) || math.IsInf(X.Bound, 0) {
		return nil, fmt.Errorf("invalid DiscreteGaussian distribution: Sigma=%f and Bound=%f must be finite and non-negative", X.Sigma, X.Bound)
	}

	if X.Bound == 0 {
		X.Bound = 6 * X.Sigma
	}

	// samples are rounded to int64
	if X.Sigma >= maxGaussianBound || X.Bound >= maxGaussianBound {
		return nil, fmt.Errorf("invalid DiscreteGaussian distribution: Sigma=%f and Bound=%f (or 6*Sigma) must be smaller than 2^62", X.Sigma, X.Bound)
	}

	return &GaussianSampler{
		baseSampler: baseSampler{prng: prng, baseRing: baseRing},
		xe:          X,
	}, nil
}

// Read samples a truncated Gaussian polynomial on pol.
func (g *GaussianSampler) Read(pol Poly) {
	g.read(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadNew samples a new truncated Gaussian polynomial.
func (g *GaussianSampler) ReadNew() (pol Poly) {
	pol = g.baseRing.NewPoly()
	g.Read(pol)
	return pol
}

// ReadAndAdd samples a truncated Gaussian polynomial and adds it on pol.
func (g *GaussianSampler) ReadAndAdd(pol Poly) {
	g.read(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

func (g *GaussianSampler) read(pol Poly, f func(a, b, c uint64) uint64) {

	q := g.baseRing.Modulus()
	N := g.baseRing.N()

	if g.xe.Sigma == 0 {
		for i := 0; i < N; i++ {
			pol.Coeffs[i] = f(pol.Coeffs[i], 0, q)
		}
		return
	}

	var coeff int64

	for i := 0; i < N; i++ {

		for {
			if x := math.Round(g.normFloat64() * g.xe.Sigma); math.Abs(x) <= g.xe.Bound {
				coeff = int64(x)
				break
			}
		}

		// coefficients larger than q are wrapped around
		if coeff < 0 {
			pol.Coeffs[i] = f(pol.Coeffs[i], CRed(q-uint64(-coeff)%q, q), q)
		} else {
			pol.Coeffs[i] = f(pol.Coeffs[i], uint64(coeff)%q, q)
		}
	}
}

// normFloat64 returns a standard normal variate using the Box-Muller transform.
func (g *GaussianSampler) normFloat64() float64 {
	u1 := 1 - sampling.RandFloat64(g.prng) // (0, 1]
	u2 := sampling.RandFloat64(g.prng)
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
