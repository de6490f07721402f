package shamir

import "errors"

var (
	// ErrInvalidThreshold is returned when k < 1 or k > n.
	ErrInvalidThreshold = errors.New("threshold k must satisfy 1 <= k <= n")

	// ErrTooManyShares is returned when n does not fit below the field modulus.
	ErrTooManyShares = errors.New("total shares n must be less than the field modulus")

	// ErrNilRandomSource is returned when Generate is called without a random source.
	ErrNilRandomSource = errors.New("random source is required")

	// ErrSamplingExhausted is returned when rejection sampling keeps failing.
	ErrSamplingExhausted = errors.New("random source failed to produce a field element")

	// ErrEmptySecret reports a secret that encodes to zero.
	ErrEmptySecret = errors.New("secret is empty")

	// ErrSecretTooLarge reports a secret longer than the field can hold.
	ErrSecretTooLarge = errors.New("secret exceeds field capacity")

	// ErrLeadingZeroByte reports a secret whose leading zero bytes are lost on decode.
	ErrLeadingZeroByte = errors.New("secret starts with a zero byte")

	// ErrNoShares is returned when no shares are provided to Reconstruct.
	ErrNoShares = errors.New("no shares provided")

	// ErrInvalidIndex is returned when a share index is 0 or not below the modulus.
	ErrInvalidIndex = errors.New("invalid share index")

	// ErrInvalidValue is returned when a share value is not a field element.
	ErrInvalidValue = errors.New("invalid share value")

	// ErrDuplicateShareIndex is returned when two shares carry the same index.
	ErrDuplicateShareIndex = errors.New("duplicate share index")

	// ErrDivisionByZero is returned when the inverse of zero is requested.
	ErrDivisionByZero = errors.New("arithmetic error: division by zero")

	// ErrInvalidModulus is returned for a modulus below 2.
	ErrInvalidModulus = errors.New("modulus must be at least 2")
)
