package shamir

// MaxSecretBytes is the number of secret bytes the field holds without loss.
// 2^24 - 1 < Prime, while a 4-byte secret can already exceed it.
const MaxSecretBytes = 3

// Encode folds the secret into a field element, treating its bytes as a
// big-endian base-256 number reduced mod Prime.
//
// The reduction is lossy: secrets longer than MaxSecretBytes only keep their
// residue, so distinct long secrets can share an encoding.
func Encode(secret []byte) uint64 {
	var acc uint64
	for _, b := range secret {
		acc = (acc*256 + uint64(b)) % Prime
	}
	return acc
}

// Decode turns a field element back into bytes, most significant first.
// Zero decodes to an empty slice and leading zero bytes are never produced.
func Decode(v uint64) []byte {
	out := make([]byte, 0, 4)
	for v > 0 {
		out = append(out, byte(v%256))
		v /= 256
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CheckCapacity reports whether Decode(Encode(secret)) would differ from the
// secret, or whether the secret is empty. Generate never calls it; callers
// decide whether a non-nil result is a warning or a failure.
func CheckCapacity(secret []byte) error {
	switch {
	case len(secret) == 0:
		return ErrEmptySecret
	case len(secret) > MaxSecretBytes:
		return ErrSecretTooLarge
	case secret[0] == 0:
		return ErrLeadingZeroByte
	}
	return nil
}
