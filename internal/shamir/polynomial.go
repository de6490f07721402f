package shamir

// polynomial is f(X) = c₀ + c₁⋅X + … + cₜ⋅Xᵗ over the field.
type polynomial struct {
	coefficients []uint64
}

// newPolynomial builds a polynomial of the given degree whose constant term is
// constant and whose other coefficients are drawn from src.
func newPolynomial(constant uint64, degree int, src RandomSource) (*polynomial, error) {
	p := &polynomial{coefficients: make([]uint64, degree+1)}
	p.coefficients[0] = constant % Prime

	for i := 1; i <= degree; i++ {
		c, err := src.Uniform(Prime)
		if err != nil {
			p.wipe()
			return nil, err
		}
		p.coefficients[i] = c
	}

	return p, nil
}

// evaluate computes f(x) with Horner's method.
func (p *polynomial) evaluate(x uint64) uint64 {
	if x%Prime == 0 {
		panic("attempt to leak secret")
	}

	var result uint64
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ⋅x + aₙ₋₁
		result = add(mul(result, x), p.coefficients[i])
	}
	return result
}

// wipe zeroes the coefficients.
func (p *polynomial) wipe() {
	for i := range p.coefficients {
		p.coefficients[i] = 0
	}
}
