package rlwe

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/cathieyun/bfv/ring"
	"github.com/cathieyun/bfv/utils"
)

// NoiseStats reports the distribution of the centered coefficients of an error polynomial.
type NoiseStats struct {
	StdDev float64
	Min    float64
	Max    float64
}

// InBound returns true if every coefficient has an absolute value of at most bound.
func (n NoiseStats) InBound(bound float64) bool {
	return utils.Max(-n.Min, n.Max) <= bound
}

func (n NoiseStats) String() string {
	return fmt.Sprintf("std=%.4f min=%.0f max=%.0f", n.StdDev, n.Min, n.Max)
}

// NoisePublicKey returns the statistics of the error e = pk[0] + pk[1]*s of pk.
func NoisePublicKey(pk *PublicKey, sk *SecretKey, params Parameters) (NoiseStats, error) {

	if pk == nil {
		return NoiseStats{}, errNilKey("PublicKey")
	}

	if err := NewKeyGenerator(params).checkSecretKey(sk); err != nil {
		return NoiseStats{}, err
	}

	if err := checkDimensions(params, pk.Value[0], pk.Value[1]); err != nil {
		return NoiseStats{}, err
	}

	r := params.RingQ()

	e := r.NewPoly()
	decryptZero(r, pk.Value, sk.Value, e)

	return noiseStats(r, e)
}

// NoiseRelinearizationKey returns the statistics of the error e_i = rlk[i][0] + rlk[i][1]*s - Base^i * s^2
// of each element of rlk, in order.
func NoiseRelinearizationKey(rlk *RelinearizationKey, sk *SecretKey, params Parameters) (noise []NoiseStats, err error) {

	if rlk == nil {
		return nil, errNilKey("RelinearizationKey")
	}

	if err = NewKeyGenerator(params).checkSecretKey(sk); err != nil {
		return
	}

	r := params.RingQ()
	q := r.Modulus()

	s2 := r.NewPoly()
	r.MulPoly(sk.Value, sk.Value, s2)

	e := r.NewPoly()
	buff := r.NewPoly()

	noise = make([]NoiseStats, len(rlk.Value))

	for i := range rlk.Value {

		if err = checkDimensions(params, rlk.Value[i][0], rlk.Value[i][1]); err != nil {
			return nil, err
		}

		decryptZero(r, rlk.Value[i], sk.Value, e)
		r.MulScalar(s2, ring.ModExp(rlk.Base, uint64(i), q), buff)
		r.Sub(e, buff, e)

		if noise[i], err = noiseStats(r, e); err != nil {
			return nil, err
		}
	}

	return
}

// NoiseSimpleRelinearizationKey returns the statistics of the error e = rlk[0] + rlk[1]*s - s^2 of rlk.
func NoiseSimpleRelinearizationKey(rlk *SimpleRelinearizationKey, sk *SecretKey, params Parameters) (NoiseStats, error) {

	if rlk == nil {
		return NoiseStats{}, errNilKey("SimpleRelinearizationKey")
	}

	if err := NewKeyGenerator(params).checkSecretKey(sk); err != nil {
		return NoiseStats{}, err
	}

	if err := checkDimensions(params, rlk.Value[0], rlk.Value[1]); err != nil {
		return NoiseStats{}, err
	}

	r := params.RingQ()

	s2 := r.NewPoly()
	r.MulPoly(sk.Value, sk.Value, s2)

	e := r.NewPoly()
	decryptZero(r, rlk.Value, sk.Value, e)
	r.Sub(e, s2, e)

	return noiseStats(r, e)
}

// NoiseModulusRaisedRelinearizationKey returns the statistics of the error e = rlk[0] + rlk[1]*s - P*s^2
// of rlk, computed modulo P*Q.
func NoiseModulusRaisedRelinearizationKey(rlk *ModulusRaisedRelinearizationKey, sk *SecretKey, params Parameters) (NoiseStats, error) {

	if rlk == nil {
		return NoiseStats{}, errNilKey("ModulusRaisedRelinearizationKey")
	}

	if err := NewKeyGenerator(params).checkSecretKey(sk); err != nil {
		return NoiseStats{}, err
	}

	if err := checkDimensions(params, rlk.Value[0], rlk.Value[1]); err != nil {
		return NoiseStats{}, err
	}

	ringPQ, err := NewKeyGenerator(params).raisedRing(rlk.P)
	if err != nil {
		return NoiseStats{}, err
	}

	if ringPQ.Modulus() != rlk.Modulus {
		return NoiseStats{}, &ConfigurationError{Field: "Modulus", Reason: fmt.Sprintf("=%d is not P*Q=%d", rlk.Modulus, ringPQ.Modulus())}
	}

	sPQ := ringPQ.NewPoly()
	ring.ExtendBasisSmallNorm(params.Q(), ringPQ, sk.Value, sPQ)

	s2 := ringPQ.NewPoly()
	ringPQ.MulPoly(sPQ, sPQ, s2)
	ringPQ.MulScalar(s2, rlk.P, s2)

	e := ringPQ.NewPoly()
	decryptZero(ringPQ, rlk.Value, sPQ, e)
	ringPQ.Sub(e, s2, e)

	return noiseStats(ringPQ, e)
}

// decryptZero writes ct[0] + ct[1]*s on res.
func decryptZero(r *ring.Ring, ct [2]ring.Poly, s, res ring.Poly) {
	res.Copy(ct[0])
	r.MulPolyThenAdd(ct[1], s, res)
}

func errNilKey(name string) error {
	return &ConfigurationError{Field: name, Reason: "cannot be nil"}
}

func checkDimensions(params Parameters, polys ...ring.Poly) error {
	for _, p := range polys {
		if p.N() != params.N() {
			return &DimensionMismatchError{Want: params.N(), Have: p.N()}
		}
	}
	return nil
}

func noiseStats(r *ring.Ring, e ring.Poly) (noise NoiseStats, err error) {

	centered := make([]int64, r.N())
	r.PolyToCentered(e, centered)

	values := make(stats.Float64Data, len(centered))
	for i, c := range centered {
		values[i] = float64(c)
	}

	if noise.StdDev, err = stats.StandardDeviation(values); err != nil {
		return
	}

	if noise.Min, err = values.Min(); err != nil {
		return
	}

	noise.Max, err = values.Max()

	return
}
