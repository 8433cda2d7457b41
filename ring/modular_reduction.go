package ring

import (
	"math/bits"
)

// CRed reduces a in [0, 2q-1] to a mod q.
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}

// MulMod computes x * y mod q for x, y in [0, q).
func MulMod(x, y, q uint64) (r uint64) {
	hi, lo := bits.Mul64(x, y)
	_, r = bits.Div64(hi, lo, q)
	return
}

// ModExp performs the modular exponentiation x^e mod q.
func ModExp(x, e, q uint64) (result uint64) {
	result = 1 % q
	x %= q
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = MulMod(result, x, q)
		}
		x = MulMod(x, x, q)
	}
	return result
}

// ModInverse returns x^-1 mod q for a prime q.
func ModInverse(x, q uint64) uint64 {
	return ModExp(x, q-2, q)
}
