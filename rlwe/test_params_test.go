package rlwe

import (
	"github.com/cathieyun/bfv/ring"
)

type TestParametersLiteral struct {
	// P is the scaling factor of the modulus-raised relinearization key.
	P uint64
	ParametersLiteral
}

var (
	// testInsecure are insecure parameters used for the sole purpose of fast testing.
	testInsecure = []TestParametersLiteral{
		// NTT-friendly prime
		{
			P: 0x3ffffffb,
			ParametersLiteral: ParametersLiteral{
				N: 1024,
				Q: 0x3ee0001,
			},
		},
		// prime without negacyclic NTT, Base=31623 and DigitCount=1
		{
			P: 1 << 20,
			ParametersLiteral: ParametersLiteral{
				N: 1024,
				Q: 1000000007,
			},
		},
		// power of two modulus, Base=65536 and DigitCount=2
		{
			P: 1 << 30,
			ParametersLiteral: ParametersLiteral{
				N:  64,
				Q:  1 << 32,
				Xs: ring.Ternary{H: 32},
			},
		},
		// tiny modulus, Base=5 and DigitCount=1
		{
			P: 1 << 50,
			ParametersLiteral: ParametersLiteral{
				N:  16,
				Q:  17,
				Xs: ring.DiscreteGaussian{Sigma: 1, Bound: 3},
			},
		},
	}
)
