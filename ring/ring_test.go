package ring

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cathieyun/bfv/utils/sampling"
)

var DefaultSigma = 3.2
var DefaultBound = 6.0 * DefaultSigma

// minimum p-value accepted by the chi-square goodness-of-fit tests
const chiSquarePValue = 1e-6

func testString(opname string, ringQ *Ring) string {
	return fmt.Sprintf("%s/N=%d/Q=%d/NTT=%t", opname, ringQ.N(), ringQ.Modulus(), ringQ.NTTEnabled())
}

type testParams struct {
	ringQ          *Ring
	prng           sampling.PRNG
	uniformSampler *UniformSampler
}

func genTestParams(defaultParams testParameter) (tc *testParams, err error) {

	tc = new(testParams)

	if tc.ringQ, err = NewRing(defaultParams.N, defaultParams.Q); err != nil {
		return nil, err
	}
	if tc.prng, err = sampling.NewKeyedPRNG([]byte{'r', 'i', 'n', 'g'}); err != nil {
		return nil, err
	}
	tc.uniformSampler = NewUniformSampler(tc.prng, tc.ringQ)
	return
}

func TestRing(t *testing.T) {

	var err error

	testNewRing(t)
	testPrimes(t)

	for _, defaultParam := range testParameters[:] {

		var tc *testParams
		if tc, err = genTestParams(defaultParam); err != nil {
			t.Fatal(err)
		}

		testModularReduction(tc, t)
		testNTT(tc, t)
		testMulPoly(tc, t)
		testAddSubNeg(tc, t)
		testMulScalar(tc, t)
		testCentered(tc, t)
		testExtendBasis(tc, t)
		testSampler(tc, t)
	}

	testDistributionParameters(t)
}

func testNewRing(t *testing.T) {
	t.Run("NewRing", func(t *testing.T) {
		r, err := NewRing(0, 17)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(16, 1)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(16, 0)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(16, MaxModulus+1)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(16, MaxModulus)
		require.NoError(t, err)
		require.False(t, r.NTTEnabled())

		r, err = NewRing(3, 7)
		require.NoError(t, err)
		require.False(t, r.NTTEnabled())

		r, err = NewRing(16, 97) // 97 = 1 mod 32
		require.NoError(t, err)
		require.True(t, r.NTTEnabled())
		require.Equal(t, uint64(127), r.Mask())
		require.True(t, r.Equal(&Ring{n: 16, modulus: 97}))
	})
}

func testPrimes(t *testing.T) {
	t.Run("Primes", func(t *testing.T) {
		require.True(t, IsPrime(17))
		require.True(t, IsPrime(1000000007))
		require.False(t, IsPrime(1<<32))

		psi, err := PrimitiveNthRoot(97, 32)
		require.NoError(t, err)
		require.Equal(t, uint64(96), ModExp(psi, 16, 97))
		require.Equal(t, uint64(1), ModExp(psi, 32, 97))

		_, err = PrimitiveNthRoot(1000000007, 2048)
		require.Error(t, err)
	})
}

func testModularReduction(tc *testParams, t *testing.T) {

	t.Run(testString("ModularReduction", tc.ringQ), func(t *testing.T) {

		q := tc.ringQ.Modulus()
		bigQ := new(big.Int).SetUint64(q)

		for i := 0; i < 64; i++ {
			x := sampling.RandUint64(tc.prng) % q
			y := sampling.RandUint64(tc.prng) % q

			want := new(big.Int).Mul(new(big.Int).SetUint64(x), new(big.Int).SetUint64(y))
			want.Mod(want, bigQ)

			require.Equal(t, want.Uint64(), MulMod(x, y, q))
			require.Equal(t, new(big.Int).Mod(new(big.Int).Add(new(big.Int).SetUint64(x), new(big.Int).SetUint64(y)), bigQ).Uint64(), CRed(x+y, q))
		}

		require.Equal(t, uint64(1), ModExp(12345, 0, q))
		require.Equal(t, MulMod(MulMod(3, 3, q), 3, q), ModExp(3, 3, q))
	})
}

func testNTT(tc *testParams, t *testing.T) {

	if !tc.ringQ.NTTEnabled() {
		return
	}

	t.Run(testString("NTT/INTT", tc.ringQ), func(t *testing.T) {
		ringQ := tc.ringQ
		p0 := tc.uniformSampler.ReadNew()
		p1 := ringQ.NewPoly()
		ringQ.NTT(p0, p1)
		ringQ.INTT(p1, p1)
		require.True(t, p0.Equal(&p1))
	})
}

func testMulPoly(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	N := ringQ.N()
	q := ringQ.Modulus()

	t.Run(testString("MulPoly/Negacyclic", ringQ), func(t *testing.T) {
		// X^(N-1) * X = X^N = -1
		a, b, c := ringQ.NewPoly(), ringQ.NewPoly(), ringQ.NewPoly()
		if N == 1 {
			t.Skip("N=1")
		}
		a.Coeffs[N-1] = 1
		b.Coeffs[1] = 1
		ringQ.MulPoly(a, b, c)

		want := ringQ.NewPoly()
		want.Coeffs[0] = q - 1
		require.True(t, want.Equal(&c))
	})

	t.Run(testString("MulPoly/MatchesNaive", ringQ), func(t *testing.T) {
		a := tc.uniformSampler.ReadNew()
		b := tc.uniformSampler.ReadNew()

		c0, c1 := ringQ.NewPoly(), ringQ.NewPoly()
		ringQ.MulPoly(a, b, c0)
		ringQ.MulPolyNaive(a, b, c1)
		require.True(t, c0.Equal(&c1))

		// commutativity
		ringQ.MulPoly(b, a, c1)
		require.True(t, c0.Equal(&c1))
	})

	t.Run(testString("MulPoly/Aliasing", ringQ), func(t *testing.T) {
		a := tc.uniformSampler.ReadNew()
		b := tc.uniformSampler.ReadNew()

		want := ringQ.NewPoly()
		ringQ.MulPoly(a, b, want)

		aCopy := a.CopyNew()
		ringQ.MulPoly(*aCopy, b, *aCopy)
		require.True(t, want.Equal(aCopy))

		sq := ringQ.NewPoly()
		ringQ.MulPolyNaive(a, a, sq)
		ringQ.MulPoly(a, a, a)
		require.True(t, sq.Equal(&a))
	})

	t.Run(testString("MulPolyThenAdd", ringQ), func(t *testing.T) {
		a := tc.uniformSampler.ReadNew()
		b := tc.uniformSampler.ReadNew()
		c := tc.uniformSampler.ReadNew()

		want := ringQ.NewPoly()
		ringQ.MulPoly(a, b, want)
		ringQ.Add(want, c, want)

		ringQ.MulPolyThenAdd(a, b, c)
		require.True(t, want.Equal(&c))
	})
}

func testAddSubNeg(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ

	t.Run(testString("Add/Sub/Neg", ringQ), func(t *testing.T) {
		a := tc.uniformSampler.ReadNew()
		b := tc.uniformSampler.ReadNew()

		c := ringQ.NewPoly()
		ringQ.Add(a, b, c)
		ringQ.Sub(c, b, c)
		require.True(t, a.Equal(&c))

		ringQ.Neg(a, c)
		ringQ.Add(a, c, c)
		require.True(t, ringQ.NewPoly().Equal(&c))

		zero := ringQ.NewPoly()
		ringQ.Neg(zero, zero)
		require.True(t, ringQ.NewPoly().Equal(&zero))
	})
}

func testMulScalar(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	q := ringQ.Modulus()

	t.Run(testString("MulScalar", ringQ), func(t *testing.T) {
		a := tc.uniformSampler.ReadNew()

		b := ringQ.NewPoly()
		ringQ.MulScalar(a, 3, b)

		c := ringQ.NewPoly()
		ringQ.Add(a, a, c)
		ringQ.Add(c, a, c)
		require.True(t, b.Equal(&c))

		// scalar is reduced before the multiplication
		ringQ.MulScalar(a, q+1, b)
		require.True(t, a.Equal(&b))

		ringQ.MulScalar(a, q-1, b)
		ringQ.Neg(a, c)
		require.True(t, b.Equal(&c))
	})
}

func testCentered(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ

	t.Run(testString("PolyToCentered/SetCentered", ringQ), func(t *testing.T) {
		a := tc.uniformSampler.ReadNew()
		values := make([]int64, ringQ.N())
		ringQ.PolyToCentered(a, values)

		half := int64(ringQ.Modulus() >> 1)
		for _, v := range values {
			require.LessOrEqual(t, v, half)
			require.Greater(t, v, -half-1)
		}

		b := ringQ.NewPoly()
		ringQ.SetCentered(values, b)
		require.True(t, a.Equal(&b))
	})
}

func testExtendBasis(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	q := ringQ.Modulus()

	if q > MaxModulus/7 {
		return
	}

	t.Run(testString("ExtendBasisSmallNorm", ringQ), func(t *testing.T) {

		ringPQ, err := NewRing(ringQ.N(), 7*q)
		require.NoError(t, err)

		sampler, err := NewTernarySampler(tc.prng, ringQ, Ternary{P: 2.0 / 3.0})
		require.NoError(t, err)
		s := sampler.ReadNew()

		sPQ := ringPQ.NewPoly()
		ExtendBasisSmallNorm(q, ringPQ, s, sPQ)

		valuesQ := make([]int64, ringQ.N())
		valuesPQ := make([]int64, ringQ.N())
		ringQ.PolyToCentered(s, valuesQ)
		ringPQ.PolyToCentered(sPQ, valuesPQ)
		require.Equal(t, valuesQ, valuesPQ)
	})
}

func testSampler(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	N := ringQ.N()
	q := ringQ.Modulus()

	t.Run(testString("Sampler/Uniform", ringQ), func(t *testing.T) {
		pol := tc.uniformSampler.ReadNew()
		for j := 0; j < N; j++ {
			require.Less(t, pol.Coeffs[j], q)
		}
	})

	t.Run(testString("Sampler/Uniform/ChiSquare", ringQ), func(t *testing.T) {

		// Buckets the coefficients of many samples in [0, q) into equal-width bins.
		bins := 16
		if q < uint64(bins) {
			bins = int(q)
		}

		obs := make([]float64, bins)
		var total int
		for total < 1<<14 {
			for _, c := range tc.uniformSampler.ReadNew().Coeffs {
				obs[int(new(big.Int).Div(new(big.Int).Mul(new(big.Int).SetUint64(c), big.NewInt(int64(bins))), new(big.Int).SetUint64(q)).Int64())]++
				total++
			}
		}

		// expected mass of each bin [ceil(k*q/bins), ceil((k+1)*q/bins))
		exp := make([]float64, bins)
		for k := range exp {
			lo := ceilDiv(uint64(k), q, uint64(bins))
			hi := ceilDiv(uint64(k+1), q, uint64(bins))
			exp[k] = float64(total) * float64(hi-lo) / float64(q)
		}

		chi2 := stat.ChiSquare(obs, exp)
		pValue := distuv.ChiSquared{K: float64(bins - 1)}.Survival(chi2)
		require.Greater(t, pValue, chiSquarePValue)
	})

	t.Run(testString("Sampler/Gaussian/SmallSigma", ringQ), func(t *testing.T) {

		dist := DiscreteGaussian{Sigma: DefaultSigma, Bound: DefaultBound}

		sampler, err := NewSampler(tc.prng, ringQ, dist)
		require.NoError(t, err)

		noiseBound := int64(dist.Bound)

		values := make([]int64, N)
		samples := []float64{}
		for len(samples) < 1<<14 {
			ringQ.PolyToCentered(sampler.ReadNew(), values)
			for _, v := range values {
				if uint64(2*noiseBound) < q {
					require.LessOrEqual(t, v, noiseBound)
					require.GreaterOrEqual(t, v, -noiseBound)
				}
				samples = append(samples, float64(v))
			}
		}

		if uint64(2*noiseBound) < q {
			std, err := stats.StandardDeviation(samples)
			require.NoError(t, err)
			require.InDelta(t, DefaultSigma, std, 0.1)

			mean, err := stats.Mean(samples)
			require.NoError(t, err)
			require.InDelta(t, 0, mean, 0.1)
		}
	})

	t.Run(testString("Sampler/Gaussian/ZeroSigma", ringQ), func(t *testing.T) {
		sampler, err := NewSampler(tc.prng, ringQ, DiscreteGaussian{})
		require.NoError(t, err)
		pol := tc.uniformSampler.ReadNew()
		sampler.Read(pol)
		require.True(t, ringQ.NewPoly().Equal(&pol))
	})

	t.Run(testString("Sampler/Gaussian/Invalid", ringQ), func(t *testing.T) {
		for _, X := range []DiscreteGaussian{
			{Sigma: -1},
			{Sigma: 3.2, Bound: -1},
			{Sigma: math.NaN()},
			{Sigma: 3.2, Bound: math.NaN()},
			{Sigma: math.Inf(1)},
			{Sigma: 3.2, Bound: math.Inf(1)},
			{Sigma: 1e19}, // 6*Sigma overflows int64
			{Sigma: 1e18}, // 6*Sigma >= 2^62
			{Sigma: 1, Bound: 1 << 62},
		} {
			_, err := NewSampler(tc.prng, ringQ, X)
			require.Error(t, err, "%+v", X)
		}
	})

	t.Run(testString("Sampler/Ternary/Uniform", ringQ), func(t *testing.T) {

		sampler, err := NewSampler(tc.prng, ringQ, Ternary{P: 2.0 / 3.0})
		require.NoError(t, err)

		obs := make([]float64, 3)
		var total int
		for total < 1<<14 {
			for _, c := range sampler.ReadNew().Coeffs {
				switch c {
				case 0:
					obs[0]++
				case 1:
					obs[1]++
				case q - 1:
					obs[2]++
				default:
					t.Fatalf("coefficient %d is not ternary", c)
				}
				total++
			}
		}

		exp := []float64{float64(total) / 3, float64(total) / 3, float64(total) / 3}
		pValue := distuv.ChiSquared{K: 2}.Survival(stat.ChiSquare(obs, exp))
		require.Greater(t, pValue, chiSquarePValue)
	})

	for _, p := range []float64{.5, 1. / 3., 1} {
		t.Run(testString(fmt.Sprintf("Sampler/Ternary/p=%1.2f", p), ringQ), func(t *testing.T) {

			sampler, err := NewSampler(tc.prng, ringQ, Ternary{P: p})
			require.NoError(t, err)

			pol := sampler.ReadNew()

			for _, c := range pol.Coeffs {
				require.True(t, c == 0 || c == q-1 || c == 1)
				if p == 1 {
					require.NotZero(t, c)
				}
			}
		})
	}

	for _, h := range []int{1, N / 4, N} {
		t.Run(testString(fmt.Sprintf("Sampler/Ternary/hw=%d", h), ringQ), func(t *testing.T) {

			sampler, err := NewSampler(tc.prng, ringQ, Ternary{H: h})
			require.NoError(t, err)

			checkPoly := func(pol Poly) {
				var hw int
				for _, c := range pol.Coeffs {
					require.True(t, c == 0 || c == q-1 || c == 1)
					if c != 0 {
						hw++
					}
				}
				require.Equal(t, h, hw)
			}

			pol := tc.uniformSampler.ReadNew()
			sampler.Read(pol)
			checkPoly(pol)

			checkPoly(sampler.ReadNew())
		})
	}

	t.Run(testString("Sampler/Ternary/Invalid", ringQ), func(t *testing.T) {
		for _, X := range []Ternary{{}, {P: 0.5, H: 1}, {P: 2}, {P: -0.5}, {P: math.NaN()}, {P: math.Inf(1)}, {H: N + 1}, {H: -1}} {
			_, err := NewSampler(tc.prng, ringQ, X)
			require.Error(t, err)
		}
	})

	t.Run(testString("Sampler/ReadAndAdd", ringQ), func(t *testing.T) {
		seed := []byte{0x01}

		prng0, _ := sampling.NewKeyedPRNG(seed)
		prng1, _ := sampling.NewKeyedPRNG(seed)

		for _, X := range []DistributionParameters{Uniform{}, Ternary{P: 0.5}, DiscreteGaussian{Sigma: DefaultSigma}} {

			s0, err := NewSampler(prng0, ringQ, X)
			require.NoError(t, err)
			s1, err := NewSampler(prng1, ringQ, X)
			require.NoError(t, err)

			acc := tc.uniformSampler.ReadNew()
			want := ringQ.NewPoly()
			ringQ.Add(acc, s0.ReadNew(), want)

			s1.ReadAndAdd(acc)
			require.True(t, want.Equal(&acc), X.Type())
		}
	})
}

func testDistributionParameters(t *testing.T) {

	t.Run("DistributionParameters/JSON", func(t *testing.T) {

		for _, X := range []DistributionParameters{Uniform{}, Ternary{P: 2.0 / 3.0}, Ternary{H: 64}, DiscreteGaussian{Sigma: 3.2, Bound: 19.2}} {
			data, err := json.Marshal(X)
			require.NoError(t, err)

			var m map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &m))

			Xhave, err := ParametersFromMap(m)
			require.NoError(t, err)
			require.Equal(t, X, Xhave)
		}

		for _, data := range []string{
			`{}`,
			`{"Type":"Binomial"}`,
			`{"Type":"Ternary"}`,
			`{"Type":"Ternary","P":0.5,"H":2}`,
			`{"Type":"Ternary","H":2.5}`,
			`{"Type":"DiscreteGaussian"}`,
		} {
			var m map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(data), &m))
			_, err := ParametersFromMap(m)
			require.Error(t, err, data)
		}
	})
}

func ceilDiv(k, q, bins uint64) uint64 {
	num := new(big.Int).Mul(new(big.Int).SetUint64(k), new(big.Int).SetUint64(q))
	num.Add(num, new(big.Int).SetUint64(bins-1))
	return num.Div(num, new(big.Int).SetUint64(bins)).Uint64()
}
