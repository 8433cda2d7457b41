package ring

import (
	"math/bits"

	"github.com/cathieyun/bfv/utils"
)

// nttTable stores the constants of the negacyclic NTT of a ring.
type nttTable struct {
	psi       uint64   // primitive 2N-th root of unity
	psiInv    uint64   // psi^-1
	nInv      uint64   // N^-1 mod q
	roots     []uint64 // powers of psi in bit-reversed order
	rootsInv  []uint64 // powers of psi^-1 in bit-reversed order
	logNRoots int
}

func newNTTTable(N int, q uint64) (t *nttTable, err error) {

	t = new(nttTable)

	if t.psi, err = PrimitiveNthRoot(q, uint64(2*N)); err != nil {
		return nil, err
	}

	t.psiInv = ModInverse(t.psi, q)
	t.nInv = ModInverse(uint64(N), q)
	t.logNRoots = bits.Len64(uint64(N)) - 1

	t.roots = make([]uint64, N)
	t.rootsInv = make([]uint64, N)

	power, powerInv := uint64(1), uint64(1)
	for i := 0; i < N; i++ {
		j := utils.BitReverse64(i, t.logNRoots)
		t.roots[j] = power
		t.rootsInv[j] = powerInv
		power = MulMod(power, t.psi, q)
		powerInv = MulMod(powerInv, t.psiInv, q)
	}

	return
}

// NTT evaluates p1 on the 2N-th roots of unity and writes the result on p2.
// The ring must be NTT-enabled.
func (r Ring) NTT(p1, p2 Poly) {

	if r.nttTable == nil {
		panic("cannot NTT: ring modulus does not enable the NTT")
	}

	if &p1.Coeffs[0] != &p2.Coeffs[0] {
		copy(p2.Coeffs, p1.Coeffs)
	}

	nttNegacyclic(p2.Coeffs, r.n, r.modulus, r.roots)
}

// INTT is the inverse of [Ring.NTT].
func (r Ring) INTT(p1, p2 Poly) {

	if r.nttTable == nil {
		panic("cannot INTT: ring modulus does not enable the NTT")
	}

	if &p1.Coeffs[0] != &p2.Coeffs[0] {
		copy(p2.Coeffs, p1.Coeffs)
	}

	inttNegacyclic(p2.Coeffs, r.n, r.modulus, r.nInv, r.rootsInv)
}

func butterfly(U, V, psi, q uint64) (uint64, uint64) {
	V = MulMod(V, psi, q)
	return CRed(U+V, q), CRed(U+q-V, q)
}

func invbutterfly(U, V, psi, q uint64) (uint64, uint64) {
	return CRed(U+V, q), MulMod(CRed(U+q-V, q), psi, q)
}

// nttNegacyclic is the in-place Cooley-Tukey forward transform with merged pre-multiplication by
// the powers of psi, taking natural order input to bit-reversed order output.
func nttNegacyclic(coeffs []uint64, N int, q uint64, roots []uint64) {

	t := N
	for m := 1; m < N; m <<= 1 {

		t >>= 1

		for i := 0; i < m; i++ {

			j1 := 2 * i * t
			j2 := j1 + t
			psi := roots[m+i]

			for j := j1; j < j2; j++ {
				coeffs[j], coeffs[j+t] = butterfly(coeffs[j], coeffs[j+t], psi, q)
			}
		}
	}
}

// inttNegacyclic is the in-place Gentleman-Sande inverse transform, taking bit-reversed
// order input to natural order output and scaling by N^-1.
func inttNegacyclic(coeffs []uint64, N int, q, nInv uint64, rootsInv []uint64) {

	t := 1
	for m := N; m > 1; m >>= 1 {

		j1 := 0
		h := m >> 1

		for i := 0; i < h; i++ {

			j2 := j1 + t
			psi := rootsInv[h+i]

			for j := j1; j < j2; j++ {
				coeffs[j], coeffs[j+t] = invbutterfly(coeffs[j], coeffs[j+t], psi, q)
			}

			j1 += t << 1
		}

		t <<= 1
	}

	for j := range coeffs[:N] {
		coeffs[j] = MulMod(coeffs[j], nInv, q)
	}
}
