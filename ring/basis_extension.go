package ring

// ExtendBasisSmallNorm extends a small-norm polynomial pIn in Z_qIn to pOut in the ring rOut.
// Each coefficient is mapped through its centered representative in (-qIn/2, qIn/2], so
// coefficients with |c| < rOut.Modulus()/2 keep their signed value.
// pIn and pOut can alias if both rings have the same degree.
func ExtendBasisSmallNorm(qIn uint64, rOut *Ring, pIn, pOut Poly) {

	qOut := rOut.Modulus()
	half := qIn >> 1

	var c uint64
	for i := 0; i < rOut.N(); i++ {

		c = pIn.Coeffs[i]

		if c > half {
			// c - qIn < 0
			pOut.Coeffs[i] = CRed(qOut-(qIn-c)%qOut, qOut)
		} else {
			pOut.Coeffs[i] = c % qOut
		}
	}
}
