package ring

import (
	"github.com/cathieyun/bfv/utils"
)

// Poly is the structure that contains the coefficients of a polynomial.
// The coefficients are expected to be in [0, q) for the modulus q of the [Ring] operating on it.
type Poly struct {
	Coeffs []uint64
}

// NewPoly creates a new polynomial with N zero coefficients.
func NewPoly(N int) Poly {
	return Poly{Coeffs: make([]uint64, N)}
}

// N returns the number of coefficients of the polynomial.
func (pol Poly) N() int {
	return len(pol.Coeffs)
}

// CopyNew creates an exact copy of the target polynomial.
func (pol Poly) CopyNew() *Poly {
	Coeffs := make([]uint64, len(pol.Coeffs))
	copy(Coeffs, pol.Coeffs)
	return &Poly{Coeffs: Coeffs}
}

// Copy copies the coefficients of p1 on the target polynomial.
// Only min(N(pol), N(p1)) coefficients are copied.
func (pol *Poly) Copy(p1 Poly) {
	copy(pol.Coeffs, p1.Coeffs)
}

// Equal returns true if the receiver Poly is equal to the provided other Poly.
func (pol Poly) Equal(other *Poly) bool {

	if other == nil {
		return false
	}

	return utils.EqualSlice(pol.Coeffs, other.Coeffs)
}
