package rlwe

import (
	"fmt"
	"sync"

	"github.com/cathieyun/bfv/utils/sampling"
)

// GenEvaluationKeyNew generates the relinearization key of the construction selected by evkParams.
func (kgen KeyGenerator) GenEvaluationKeyNew(sk *SecretKey, evkParams EvaluationKeyParameters, prng sampling.PRNG) (evk EvaluationKey, err error) {

	switch evkParams.Scheme {
	case DigitDecomposition:
		var rlk *RelinearizationKey
		if rlk, err = kgen.GenRelinearizationKeyNew(sk, prng); err == nil {
			evk = rlk
		}
	case Simple:
		var rlk *SimpleRelinearizationKey
		if rlk, err = kgen.GenSimpleRelinearizationKeyNew(sk, prng); err == nil {
			evk = rlk
		}
	case ModulusRaising:
		var rlk *ModulusRaisedRelinearizationKey
		if rlk, err = kgen.GenModulusRaisedRelinearizationKeyNew(sk, evkParams.P, prng); err == nil {
			evk = rlk
		}
	default:
		err = &ConfigurationError{Field: "Scheme", Reason: fmt.Sprintf("%s is not supported", evkParams.Scheme)}
	}

	return
}

// GenEvaluationKeysNew generates one relinearization key per element of evkParams, concurrently.
// seed keys a [sampling.KeyedPRNG] and must be between 1 and 64 bytes long. The i-th key reads its
// randomness from the stream [sampling.KeyedPRNG.Derive]("relinearization-key", i) of that PRNG, so
// the returned keys only depend on sk, seed and evkParams. The keys are returned in the order of evkParams.
//
// All evkParams are checked before any key is generated.
func (kgen KeyGenerator) GenEvaluationKeysNew(sk *SecretKey, seed []byte, evkParams ...EvaluationKeyParameters) (evks []EvaluationKey, err error) {

	if len(seed) == 0 {
		return nil, &ConfigurationError{Field: "Seed", Reason: "cannot be empty"}
	}

	master, err := sampling.NewKeyedPRNG(seed)
	if err != nil {
		return nil, &ConfigurationError{Field: "Seed", Reason: err.Error()}
	}

	if err = kgen.checkSecretKey(sk); err != nil {
		return nil, err
	}

	for _, evkParam := range evkParams {
		switch evkParam.Scheme {
		case DigitDecomposition, Simple:
		case ModulusRaising:
			if _, err = kgen.raisedRing(evkParam.P); err != nil {
				return nil, err
			}
		default:
			return nil, &ConfigurationError{Field: "Scheme", Reason: fmt.Sprintf("%s is not supported", evkParam.Scheme)}
		}
	}

	evks = make([]EvaluationKey, len(evkParams))
	errs := make([]error, len(evkParams))

	var wg sync.WaitGroup
	wg.Add(len(evkParams))

	for i := range evkParams {
		go func(i int) {
			defer wg.Done()

			prng, err := master.Derive("relinearization-key", i)
			if err != nil {
				errs[i] = err
				return
			}

			evks[i], errs[i] = kgen.GenEvaluationKeyNew(sk, evkParams[i], prng)
		}(i)
	}

	wg.Wait()

	for i := range errs {
		if errs[i] != nil {
			return nil, fmt.Errorf("cannot GenEvaluationKeysNew: key %d: %w", i, errs[i])
		}
	}

	return
}
