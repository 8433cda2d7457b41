package rlwe

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/google/go-cmp/cmp"

	"github.com/cathieyun/bfv/ring"
)

// ParametersLiteral is a literal representation of RLWE parameters. It has public fields and
// is used to express unchecked user-defined parameters literally into Go programs.
// The [NewParametersFromLiteral] function is used to generate the actual checked parameters
// from the literal representation.
//
// Users must set the ring dimension N and the modulus Q.
//
// Optionally, users may specify
//   - the digit base of the digit-decomposition relinearization key (Base),
//     which defaults to ceil(sqrt(Q)).
//   - the secret distribution (Xs) and the error distribution (Xe).
type ParametersLiteral struct {
	N    int
	Q    uint64
	Base uint64                      `json:",omitempty"`
	Xs   ring.DistributionParameters `json:",omitempty"`
	Xe   ring.DistributionParameters `json:",omitempty"`
}

// Parameters represents a set of generic RLWE parameters. Its fields are private and
// immutable. See [ParametersLiteral] for user-specified parameters.
type Parameters struct {
	ringQ      *ring.Ring
	base       uint64
	digitCount int
	xs         ring.DistributionParameters
	xe         ring.DistributionParameters
}

// NewParametersFromLiteral instantiates a set of generic RLWE parameters from a [ParametersLiteral] specification.
// It returns the empty parameters [Parameters]{} and a non-nil error if the specified parameters are invalid:
//   - a [*ConfigurationError] if N <= 0, Q <= 1, Base == 1, Base > Q or if a distribution is invalid.
//   - a [*ArithmeticRangeError] if Q is larger than [ring.MaxModulus].
//
// If Xs is left unset, its value is set to [DefaultXs].
// If Xe is left unset, its value is set to [DefaultXe].
func NewParametersFromLiteral(paramDef ParametersLiteral) (params Parameters, err error) {

	if paramDef.N <= 0 {
		return Parameters{}, &ConfigurationError{Field: "N", Reason: fmt.Sprintf("=%d must be positive", paramDef.N)}
	}

	if paramDef.Q <= 1 {
		return Parameters{}, &ConfigurationError{Field: "Q", Reason: fmt.Sprintf("=%d must be greater than 1", paramDef.Q)}
	}

	if paramDef.Q > ring.MaxModulus {
		return Parameters{}, &ArithmeticRangeError{Operation: fmt.Sprintf("Q=%d", paramDef.Q), Limit: ring.MaxModulus}
	}

	if paramDef.Xs == nil {
		paramDef.Xs = DefaultXs
	}

	if paramDef.Xe == nil {
		// prevents the zero value of ParameterLiteral to result in a noise-less parameter instance.
		paramDef.Xe = DefaultXe
	}

	base := paramDef.Base
	if base == 0 {
		base = CeilSqrt(paramDef.Q)
	}

	if base <= 1 {
		return Parameters{}, &ConfigurationError{Field: "Base", Reason: fmt.Sprintf("=%d must be greater than 1", base)}
	}

	digitCount := DigitCount(paramDef.Q, base)

	if digitCount == 0 {
		return Parameters{}, &ConfigurationError{Field: "Base", Reason: fmt.Sprintf("=%d gives zero digits for Q=%d", base, paramDef.Q)}
	}

	if params.ringQ, err = ring.NewRing(paramDef.N, paramDef.Q); err != nil {
		return Parameters{}, fmt.Errorf("rlwe.NewParametersFromLiteral: %w", err)
	}

	switch paramDef.Xs.(type) {
	case ring.Ternary, ring.DiscreteGaussian:
	default:
		return Parameters{}, &ConfigurationError{Field: "Xs", Reason: fmt.Sprintf("of type %T is not a small-norm distribution", paramDef.Xs)}
	}

	if _, isGaussian := paramDef.Xe.(ring.DiscreteGaussian); !isGaussian {
		return Parameters{}, &ConfigurationError{Field: "Xe", Reason: fmt.Sprintf("of type %T is not a ring.DiscreteGaussian", paramDef.Xe)}
	}

	// Samplers do not read from their PRNG at creation, this only checks the distribution parameters.
	for _, X := range []struct {
		name string
		dist ring.DistributionParameters
	}{{"Xs", paramDef.Xs}, {"Xe", paramDef.Xe}} {
		if _, err = ring.NewSampler(nil, params.ringQ, X.dist); err != nil {
			return Parameters{}, &ConfigurationError{Field: X.name, Reason: err.Error()}
		}
	}

	params.base = base
	params.digitCount = digitCount
	params.xs = paramDef.Xs
	params.xe = paramDef.Xe

	return params, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		N:    p.N(),
		Q:    p.Q(),
		Base: p.base,
		Xs:   p.xs,
		Xe:   p.xe,
	}
}

// N returns the ring dimension.
func (p Parameters) N() int {
	return p.ringQ.N()
}

// Q returns the modulus.
func (p Parameters) Q() uint64 {
	return p.ringQ.Modulus()
}

// LogQ returns the size of the modulus in bits.
func (p Parameters) LogQ() int {
	return bits.Len64(p.Q())
}

// RingQ returns a pointer to the ring Z_Q[X]/(X^N+1).
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// Base returns the digit base of the digit-decomposition relinearization key.
func (p Parameters) Base() uint64 {
	return p.base
}

// DigitCount returns floor(log_Base(Q)), the number of elements of the
// digit-decomposition relinearization key.
func (p Parameters) DigitCount() int {
	return p.digitCount
}

// Xs returns the [ring.DistributionParameters] of the secret.
func (p Parameters) Xs() ring.DistributionParameters {
	return p.xs
}

// Xe returns the [ring.DistributionParameters] of the error.
func (p Parameters) Xe() ring.DistributionParameters {
	return p.xe
}

// NoiseBound returns the truncation bound of the error distribution.
func (p Parameters) NoiseBound() float64 {
	xe := p.xe.(ring.DiscreteGaussian)
	if xe.Bound == 0 {
		return 6 * xe.Sigma
	}
	return xe.Bound
}

// Equal checks two Parameter structs for equality.
func (p Parameters) Equal(other *Parameters) (res bool) {
	if p.ringQ == nil || other.ringQ == nil {
		return p.ringQ == other.ringQ
	}
	res = p.ringQ.Equal(other.ringQ)
	res = res && (p.base == other.base)
	res = res && (p.digitCount == other.digitCount)
	res = res && cmp.Equal(p.xs, other.xs)
	res = res && cmp.Equal(p.xe, other.xe)
	return
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(params)
	return
}

// UnmarshalJSON reads a JSON representation on the target ParametersLiteral struct.
func (p *ParametersLiteral) UnmarshalJSON(b []byte) (err error) {
	var pl struct {
		N    int
		Q    uint64
		Base uint64
		Xs   map[string]interface{}
		Xe   map[string]interface{}
	}

	if err = json.Unmarshal(b, &pl); err != nil {
		return err
	}

	p.N, p.Q, p.Base = pl.N, pl.Q, pl.Base

	if pl.Xs != nil {
		if p.Xs, err = ring.ParametersFromMap(pl.Xs); err != nil {
			return err
		}
	}

	if pl.Xe != nil {
		if p.Xe, err = ring.ParametersFromMap(pl.Xe); err != nil {
			return err
		}
	}

	return
}

// CeilSqrt returns ceil(sqrt(x)), computed exactly.
func CeilSqrt(x uint64) (r uint64) {
	r = new(big.Int).Sqrt(new(big.Int).SetUint64(x)).Uint64()
	if r*r < x {
		r++
	}
	return
}

// DigitCount returns floor(log_base(q)), the largest l such that base^l <= q.
// It is computed with integer arithmetic so that exact powers of the base are
// never misclassified by floating point rounding. base must be greater than 1.
func DigitCount(q, base uint64) (l int) {
	for acc := uint64(1); ; l++ {
		hi, lo := bits.Mul64(acc, base)
		if hi != 0 || lo > q {
			return
		}
		acc = lo
	}
}
