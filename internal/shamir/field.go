package shamir

import "math/bits"

// field.go implements arithmetic in the prime field of integers modulo Prime.

// Prime is the field modulus, the Mersenne prime 2^31 - 1.
// It is part of the share format: shares are meaningless to anyone using a
// different modulus, even though it is never written out with them.
const Prime uint64 = 2147483647

// Power computes base^exponent mod modulus by square-and-multiply.
// Products are formed in 128 bits, so any non-zero 64-bit modulus is safe.
// Power(a, 0, m) is 1 for every m > 1.
func Power(base, exponent, modulus uint64) uint64 {
	if modulus == 0 {
		panic("shamir: zero modulus")
	}

	result := 1 % modulus
	base %= modulus
	for exponent > 0 {
		if exponent&1 == 1 {
			result = mulMod(result, base, modulus)
		}
		exponent >>= 1
		base = mulMod(base, base, modulus)
	}
	return result
}

// Inverse returns a^-1 mod modulus using Fermat's little theorem.
// The modulus must be prime for the result to be meaningful.
func Inverse(a, modulus uint64) (uint64, error) {
	if modulus < 2 {
		return 0, ErrInvalidModulus
	}
	if a%modulus == 0 {
		return 0, ErrDivisionByZero
	}
	return Power(a, modulus-2, modulus), nil
}

// mulMod returns a*b mod m without overflow.
func mulMod(a, b, m uint64) uint64 {
	// a%m and b%m are below m, so hi < m and Div64 cannot panic.
	hi, lo := bits.Mul64(a%m, b%m)
	_, rem := bits.Div64(hi, lo, m)
	return rem
}

// The helpers below take operands already reduced mod Prime.
// Prime < 2^31, so sums and products fit in 64 bits.

func add(a, b uint64) uint64 {
	return (a + b) % Prime
}

func sub(a, b uint64) uint64 {
	return (a + Prime - b) % Prime
}

func mul(a, b uint64) uint64 {
	return (a * b) % Prime
}

func neg(a uint64) uint64 {
	return (Prime - a) % Prime
}
