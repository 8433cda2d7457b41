package rlwe

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/cathieyun/bfv/ring"
)

// SecretKey is a type for generic RLWE secret keys.
// Value holds the secret polynomial s reduced modulo Q.
type SecretKey struct {
	Value ring.Poly
}

// PublicKey is a type for generic RLWE public keys.
// Value[0] = -(a*s + e) and Value[1] = a, modulo Q.
type PublicKey struct {
	Value [2]ring.Poly
}

// RelinearizationKey is a digit-decomposition relinearization key.
// Value[i] = [-(a_i*s + e_i) + Base^i * s^2, a_i] modulo Q, for i in [0, DigitCount).
// The order of Value is significant: the i-th element must be used with the i-th digit
// in base Base of the ciphertext component it relinearizes.
type RelinearizationKey struct {
	Value      [][2]ring.Poly
	Base       uint64
	DigitCount int
}

// SimpleRelinearizationKey is a relinearization key without digit decomposition.
// Value[0] = -(a*s + e) + s^2 and Value[1] = a, modulo Q.
type SimpleRelinearizationKey struct {
	Value [2]ring.Poly
}

// ModulusRaisedRelinearizationKey is a relinearization key generated under the raised modulus P*Q.
// Value[0] = -(a*s + e) + P * s^2 and Value[1] = a, modulo Modulus = P*Q.
// After applying it, the evaluator must divide the result by P and round to the nearest integer.
type ModulusRaisedRelinearizationKey struct {
	Value   [2]ring.Poly
	P       uint64
	Modulus uint64
}

// NewSecretKey generates a new [SecretKey] with zero values.
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{Value: params.RingQ().NewPoly()}
}

// NewPublicKey returns a new [PublicKey] with zero values.
func NewPublicKey(params Parameters) (pk *PublicKey) {
	return &PublicKey{Value: newPair(params.RingQ())}
}

// NewRelinearizationKey returns a new [RelinearizationKey] with zero values.
func NewRelinearizationKey(params Parameters) (rlk *RelinearizationKey) {
	rlk = &RelinearizationKey{
		Value:      make([][2]ring.Poly, params.DigitCount()),
		Base:       params.Base(),
		DigitCount: params.DigitCount(),
	}
	for i := range rlk.Value {
		rlk.Value[i] = newPair(params.RingQ())
	}
	return
}

// NewSimpleRelinearizationKey returns a new [SimpleRelinearizationKey] with zero values.
func NewSimpleRelinearizationKey(params Parameters) *SimpleRelinearizationKey {
	return &SimpleRelinearizationKey{Value: newPair(params.RingQ())}
}

func newPair(r *ring.Ring) [2]ring.Poly {
	return [2]ring.Poly{r.NewPoly(), r.NewPoly()}
}

func copyPair(p [2]ring.Poly) [2]ring.Poly {
	return [2]ring.Poly{*p[0].CopyNew(), *p[1].CopyNew()}
}

// N returns the dimension of the secret key.
func (sk SecretKey) N() int {
	return sk.Value.N()
}

// CopyNew creates a deep copy of the receiver secret key and returns it.
func (sk SecretKey) CopyNew() *SecretKey {
	return &SecretKey{Value: *sk.Value.CopyNew()}
}

// Equal performs a deep equal.
func (sk SecretKey) Equal(other *SecretKey) bool {
	return other != nil && cmp.Equal(sk.Value, other.Value)
}

// CopyNew creates a deep copy of the receiver public key and returns it.
func (pk PublicKey) CopyNew() *PublicKey {
	return &PublicKey{Value: copyPair(pk.Value)}
}

// Equal performs a deep equal.
func (pk PublicKey) Equal(other *PublicKey) bool {
	return other != nil && cmp.Equal(pk.Value, other.Value)
}

// CopyNew creates a deep copy of the receiver and returns it.
func (rlk RelinearizationKey) CopyNew() *RelinearizationKey {
	Value := make([][2]ring.Poly, len(rlk.Value))
	for i := range rlk.Value {
		Value[i] = copyPair(rlk.Value[i])
	}
	return &RelinearizationKey{Value: Value, Base: rlk.Base, DigitCount: rlk.DigitCount}
}

// Equal performs a deep equal.
func (rlk RelinearizationKey) Equal(other *RelinearizationKey) bool {
	return other != nil && rlk.Base == other.Base && rlk.DigitCount == other.DigitCount && cmp.Equal(rlk.Value, other.Value)
}

// Scheme returns [DigitDecomposition].
func (rlk RelinearizationKey) Scheme() RelinearizationScheme {
	return DigitDecomposition
}

func (rlk RelinearizationKey) isEvaluationKey() {}

// CopyNew creates a deep copy of the receiver and returns it.
func (rlk SimpleRelinearizationKey) CopyNew() *SimpleRelinearizationKey {
	return &SimpleRelinearizationKey{Value: copyPair(rlk.Value)}
}

// Equal performs a deep equal.
func (rlk SimpleRelinearizationKey) Equal(other *SimpleRelinearizationKey) bool {
	return other != nil && cmp.Equal(rlk.Value, other.Value)
}

// Scheme returns [Simple].
func (rlk SimpleRelinearizationKey) Scheme() RelinearizationScheme {
	return Simple
}

func (rlk SimpleRelinearizationKey) isEvaluationKey() {}

// CopyNew creates a deep copy of the receiver and returns it.
func (rlk ModulusRaisedRelinearizationKey) CopyNew() *ModulusRaisedRelinearizationKey {
	return &ModulusRaisedRelinearizationKey{Value: copyPair(rlk.Value), P: rlk.P, Modulus: rlk.Modulus}
}

// Equal performs a deep equal.
func (rlk ModulusRaisedRelinearizationKey) Equal(other *ModulusRaisedRelinearizationKey) bool {
	return other != nil && rlk.P == other.P && rlk.Modulus == other.Modulus && cmp.Equal(rlk.Value, other.Value)
}

// Scheme returns [ModulusRaising].
func (rlk ModulusRaisedRelinearizationKey) Scheme() RelinearizationScheme {
	return ModulusRaising
}

func (rlk ModulusRaisedRelinearizationKey) isEvaluationKey() {}

// RelinearizationScheme identifies one of the relinearization key constructions.
type RelinearizationScheme int

const (
	// DigitDecomposition selects the [RelinearizationKey].
	DigitDecomposition = RelinearizationScheme(iota)
	// Simple selects the [SimpleRelinearizationKey].
	Simple
	// ModulusRaising selects the [ModulusRaisedRelinearizationKey].
	ModulusRaising
)

func (s RelinearizationScheme) String() string {
	switch s {
	case DigitDecomposition:
		return "DigitDecomposition"
	case Simple:
		return "Simple"
	case ModulusRaising:
		return "ModulusRaising"
	default:
		return fmt.Sprintf("RelinearizationScheme(%d)", int(s))
	}
}

// EvaluationKey is implemented by [*RelinearizationKey], [*SimpleRelinearizationKey]
// and [*ModulusRaisedRelinearizationKey].
type EvaluationKey interface {
	Scheme() RelinearizationScheme
	isEvaluationKey()
}

// EvaluationKeyParameters selects a relinearization key construction.
// P is the scaling factor of the [ModulusRaising] scheme and is ignored by the others.
type EvaluationKeyParameters struct {
	Scheme RelinearizationScheme
	P      uint64
}
