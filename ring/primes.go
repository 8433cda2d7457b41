package ring

import (
	"fmt"
	"math/big"
)

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// PrimitiveNthRoot returns a primitive NthRoot-th root of unity modulo the prime q.
// NthRoot must be a power of two dividing q-1.
func PrimitiveNthRoot(q uint64, NthRoot uint64) (psi uint64, err error) {

	if (q-1)%NthRoot != 0 {
		return 0, fmt.Errorf("q=%d is not congruent to 1 modulo %d", q, NthRoot)
	}

	exp := (q - 1) / NthRoot

	// With NthRoot a power of two, x^((q-1)/NthRoot) has order exactly
	// NthRoot iff its (NthRoot/2)-th power is -1.
	for x := uint64(2); x < q; x++ {
		if psi = ModExp(x, exp, q); ModExp(psi, NthRoot>>1, q) == q-1 {
			return psi, nil
		}
	}

	return 0, fmt.Errorf("no primitive %d-th root of unity modulo %d", NthRoot, q)
}

