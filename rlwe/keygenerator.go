package rlwe

import (
	"fmt"
	"math/bits"

	"github.com/cathieyun/bfv/ring"
	"github.com/cathieyun/bfv/utils/sampling"
)

// KeyGenerator is a structure that generates RLWE secret keys, public keys and relinearization keys.
// It only stores the [Parameters] and every method reads its randomness from the [sampling.PRNG]
// it is given, so a KeyGenerator can be shared between goroutines as long as each uses its own PRNG.
type KeyGenerator struct {
	params Parameters
}

// NewKeyGenerator creates a new [KeyGenerator], from which the secret and public keys,
// as well as the relinearization keys can be generated.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	return &KeyGenerator{params: params}
}

// GenSecretKeyNew generates a new [SecretKey] with coefficients sampled from Xs.
func (kgen KeyGenerator) GenSecretKeyNew(prng sampling.PRNG) (sk *SecretKey, err error) {

	if prng == nil {
		return nil, errNilPRNG()
	}

	sampler, err := ring.NewSampler(prng, kgen.params.RingQ(), kgen.params.Xs())
	if err != nil {
		return nil, fmt.Errorf("cannot GenSecretKeyNew: %w", err)
	}

	sk = NewSecretKey(kgen.params)
	sampler.Read(sk.Value)
	return
}

// GenPublicKeyNew generates a new [PublicKey] (-(a*s + e), a) from the provided [SecretKey],
// with a uniform in Z_Q[X]/(X^N+1) and e sampled from Xe.
func (kgen KeyGenerator) GenPublicKeyNew(sk *SecretKey, prng sampling.PRNG) (pk *PublicKey, err error) {

	if err = kgen.checkInputs(sk, prng); err != nil {
		return nil, err
	}

	pk = NewPublicKey(kgen.params)

	if err = encryptZero(kgen.params.RingQ(), kgen.params.Xe(), sk.Value, prng, pk.Value); err != nil {
		return nil, fmt.Errorf("cannot GenPublicKeyNew: %w", err)
	}

	return
}

// GenKeyPairNew generates a new [SecretKey] and a corresponding [PublicKey].
func (kgen KeyGenerator) GenKeyPairNew(prng sampling.PRNG) (sk *SecretKey, pk *PublicKey, err error) {
	if sk, err = kgen.GenSecretKeyNew(prng); err != nil {
		return nil, nil, err
	}

	if pk, err = kgen.GenPublicKeyNew(sk, prng); err != nil {
		return nil, nil, err
	}

	return
}

// GenRelinearizationKeyNew generates a new digit-decomposition [RelinearizationKey] from the provided [SecretKey].
// The key holds DigitCount pairs (-(a_i*s + e_i) + Base^i * s^2, a_i), in increasing order of i.
func (kgen KeyGenerator) GenRelinearizationKeyNew(sk *SecretKey, prng sampling.PRNG) (rlk *RelinearizationKey, err error) {

	if err = kgen.checkInputs(sk, prng); err != nil {
		return nil, err
	}

	r := kgen.params.RingQ()
	q := r.Modulus()

	s2 := r.NewPoly()
	r.MulPoly(sk.Value, sk.Value, s2)

	buff := r.NewPoly()

	rlk = NewRelinearizationKey(kgen.params)

	for i := range rlk.Value {

		if err = encryptZero(r, kgen.params.Xe(), sk.Value, prng, rlk.Value[i]); err != nil {
			return nil, fmt.Errorf("cannot GenRelinearizationKeyNew: %w", err)
		}

		r.MulScalar(s2, ring.ModExp(rlk.Base, uint64(i), q), buff)
		r.Add(rlk.Value[i][0], buff, rlk.Value[i][0])
	}

	return
}

// GenSimpleRelinearizationKeyNew generates a new [SimpleRelinearizationKey] (-(a*s + e) + s^2, a)
// from the provided [SecretKey].
func (kgen KeyGenerator) GenSimpleRelinearizationKeyNew(sk *SecretKey, prng sampling.PRNG) (rlk *SimpleRelinearizationKey, err error) {

	if err = kgen.checkInputs(sk, prng); err != nil {
		return nil, err
	}

	r := kgen.params.RingQ()

	rlk = NewSimpleRelinearizationKey(kgen.params)

	if err = encryptZero(r, kgen.params.Xe(), sk.Value, prng, rlk.Value); err != nil {
		return nil, fmt.Errorf("cannot GenSimpleRelinearizationKeyNew: %w", err)
	}

	s2 := r.NewPoly()
	r.MulPoly(sk.Value, sk.Value, s2)
	r.Add(rlk.Value[0], s2, rlk.Value[0])

	return
}

// GenModulusRaisedRelinearizationKeyNew generates a new [ModulusRaisedRelinearizationKey]
// (-(a*s + e) + p * s^2, a) over the ring Z_{p*Q}[X]/(X^N+1) from the provided [SecretKey].
// The secret is lifted to the modulus p*Q through its centered representative.
//
// It returns a [*ConfigurationError] if p is zero and a [*ArithmeticRangeError] if p*Q
// is larger than [ring.MaxModulus].
func (kgen KeyGenerator) GenModulusRaisedRelinearizationKeyNew(sk *SecretKey, p uint64, prng sampling.PRNG) (rlk *ModulusRaisedRelinearizationKey, err error) {

	ringPQ, err := kgen.raisedRing(p)
	if err != nil {
		return nil, err
	}

	if err = kgen.checkInputs(sk, prng); err != nil {
		return nil, err
	}

	sPQ := ringPQ.NewPoly()
	ring.ExtendBasisSmallNorm(kgen.params.Q(), ringPQ, sk.Value, sPQ)

	rlk = &ModulusRaisedRelinearizationKey{
		Value:   [2]ring.Poly{ringPQ.NewPoly(), ringPQ.NewPoly()},
		P:       p,
		Modulus: ringPQ.Modulus(),
	}

	if err = encryptZero(ringPQ, kgen.params.Xe(), sPQ, prng, rlk.Value); err != nil {
		return nil, fmt.Errorf("cannot GenModulusRaisedRelinearizationKeyNew: %w", err)
	}

	// p * s^2 mod p*Q
	s2 := ringPQ.NewPoly()
	ringPQ.MulPoly(sPQ, sPQ, s2)
	ringPQ.MulScalar(s2, p, s2)
	ringPQ.Add(rlk.Value[0], s2, rlk.Value[0])

	return
}

// raisedRing returns the ring Z_{p*Q}[X]/(X^N+1).
func (kgen KeyGenerator) raisedRing(p uint64) (*ring.Ring, error) {

	if p == 0 {
		return nil, &ConfigurationError{Field: "P", Reason: "=0 must be at least 1"}
	}

	q := kgen.params.Q()

	hi, pq := bits.Mul64(p, q)
	if hi != 0 || pq > ring.MaxModulus {
		return nil, &ArithmeticRangeError{Operation: fmt.Sprintf("P*Q=%d*%d", p, q), Limit: ring.MaxModulus}
	}

	r, err := ring.NewRing(kgen.params.N(), pq)
	if err != nil {
		return nil, fmt.Errorf("cannot GenModulusRaisedRelinearizationKeyNew: %w", err)
	}

	return r, nil
}

// checkInputs checks that sk is a secret key of the target parameters and that prng is not nil.
func (kgen KeyGenerator) checkInputs(sk *SecretKey, prng sampling.PRNG) error {

	if err := kgen.checkSecretKey(sk); err != nil {
		return err
	}

	if prng == nil {
		return errNilPRNG()
	}

	return nil
}

func (kgen KeyGenerator) checkSecretKey(sk *SecretKey) error {

	if sk == nil {
		return &ConfigurationError{Field: "SecretKey", Reason: "cannot be nil"}
	}

	if sk.N() != kgen.params.N() {
		return &DimensionMismatchError{Want: kgen.params.N(), Have: sk.N()}
	}

	return nil
}

func errNilPRNG() error {
	return &ConfigurationError{Field: "PRNG", Reason: "cannot be nil"}
}

// encryptZero writes (-(a*s + e), a) on ct, with a uniform in r and e sampled from xe.
// a is sampled before e.
func encryptZero(r *ring.Ring, xe ring.DistributionParameters, s ring.Poly, prng sampling.PRNG, ct [2]ring.Poly) (err error) {

	gaussianSampler, err := ring.NewSampler(prng, r, xe)
	if err != nil {
		return
	}

	ring.NewUniformSampler(prng, r).Read(ct[1])
	gaussianSampler.Read(ct[0])

	r.MulPolyThenAdd(ct[1], s, ct[0])
	r.Neg(ct[0], ct[0])

	return
}
