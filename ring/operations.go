package ring

// Add evaluates p3 = p1 + p2 mod q.
func (r Ring) Add(p1, p2, p3 Poly) {
	q := r.modulus
	for i := 0; i < r.n; i++ {
		p3.Coeffs[i] = CRed(p1.Coeffs[i]+p2.Coeffs[i], q)
	}
}

// Sub evaluates p3 = p1 - p2 mod q.
func (r Ring) Sub(p1, p2, p3 Poly) {
	q := r.modulus
	for i := 0; i < r.n; i++ {
		p3.Coeffs[i] = CRed(p1.Coeffs[i]+q-p2.Coeffs[i], q)
	}
}

// Neg evaluates p2 = -p1 mod q.
func (r Ring) Neg(p1, p2 Poly) {
	q := r.modulus
	for i := 0; i < r.n; i++ {
		p2.Coeffs[i] = CRed(q-p1.Coeffs[i], q)
	}
}

// MulScalar evaluates p2 = p1 * scalar mod q.
// The scalar does not need to be reduced.
func (r Ring) MulScalar(p1 Poly, scalar uint64, p2 Poly) {
	q := r.modulus
	scalar %= q
	for i := 0; i < r.n; i++ {
		p2.Coeffs[i] = MulMod(p1.Coeffs[i], scalar, q)
	}
}

// MulCoeffs evaluates p3 = p1 * p2 coefficient-wise mod q.
func (r Ring) MulCoeffs(p1, p2, p3 Poly) {
	q := r.modulus
	for i := 0; i < r.n; i++ {
		p3.Coeffs[i] = MulMod(p1.Coeffs[i], p2.Coeffs[i], q)
	}
}

// MulPoly evaluates p3 = p1 * p2 mod (X^N+1, q).
// p3 can alias p1 or p2.
func (r Ring) MulPoly(p1, p2, p3 Poly) {

	if r.nttTable == nil {
		r.MulPolyNaive(p1, p2, p3)
		return
	}

	buff := r.NewPoly()
	r.NTT(p1, buff)

	if &p1.Coeffs[0] == &p2.Coeffs[0] {
		r.MulCoeffs(buff, buff, p3)
	} else {
		r.NTT(p2, p3)
		r.MulCoeffs(buff, p3, p3)
	}

	r.INTT(p3, p3)
}

// MulPolyThenAdd evaluates p3 = p3 + p1 * p2 mod (X^N+1, q).
func (r Ring) MulPolyThenAdd(p1, p2, p3 Poly) {
	buff := r.NewPoly()
	r.MulPoly(p1, p2, buff)
	r.Add(p3, buff, p3)
}

// MulPolyNaive evaluates p3 = p1 * p2 mod (X^N+1, q) with the schoolbook negacyclic convolution.
// p3 can alias p1 or p2.
func (r Ring) MulPolyNaive(p1, p2, p3 Poly) {

	N := r.n
	q := r.modulus

	acc := make([]uint64, N)

	a, b := p1.Coeffs[:N], p2.Coeffs[:N]

	for i := 0; i < N; i++ {

		if a[i] == 0 {
			continue
		}

		// X^(i+j) = -X^(i+j-N) for i+j >= N
		for j := 0; j < N-i; j++ {
			acc[i+j] = CRed(acc[i+j]+MulMod(a[i], b[j], q), q)
		}

		for j := N - i; j < N; j++ {
			acc[i+j-N] = CRed(acc[i+j-N]+q-MulMod(a[i], b[j], q), q)
		}
	}

	copy(p3.Coeffs, acc)
}

// PolyToCentered writes the centered representative of each coefficient of p1,
// that is the representative in (-q/2, q/2], on values.
func (r Ring) PolyToCentered(p1 Poly, values []int64) {
	q := r.modulus
	half := q >> 1
	for i := 0; i < r.n; i++ {
		if c := p1.Coeffs[i]; c > half {
			values[i] = -int64(q - c)
		} else {
			values[i] = int64(c)
		}
	}
}

// SetCentered sets the coefficients of p1 to the given signed values reduced mod q.
func (r Ring) SetCentered(values []int64, p1 Poly) {
	q := r.modulus
	for i := 0; i < r.n; i++ {
		if v := values[i]; v < 0 {
			p1.Coeffs[i] = CRed(q-uint64(-v)%q, q)
		} else {
			p1.Coeffs[i] = uint64(v) % q
		}
	}
}
