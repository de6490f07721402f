// Package shamir implements (k,n) threshold secret sharing over the prime
// field of integers modulo Prime (2^31 - 1).
//
// A secret is folded into a single field element (see Encode), used as the
// constant term of a random polynomial of degree k-1, and the polynomial is
// evaluated at the indices 1..n. Any k shares recover the constant term by
// Lagrange interpolation at zero; fewer than k reveal nothing about it.
//
// Shares are not authenticated. Wrong, mixed or too few shares reconstruct a
// wrong secret without any error.
package shamir

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Share is one point on the sharing polynomial.
type Share struct {
	Index uint64 `json:"index"` // The x-coordinate, 1-based
	Value uint64 `json:"value"` // The polynomial evaluated at Index
}

// String returns the share as "<index> <value>".
func (s Share) String() string {
	return strconv.FormatUint(s.Index, 10) + " " + strconv.FormatUint(s.Value, 10)
}

// Generate splits a secret into n shares, any k of which reconstruct it.
// Shares are returned in index order 1..n. Secrets longer than
// MaxSecretBytes are silently reduced mod Prime; use CheckCapacity first
// when exact round-tripping matters.
func Generate(secret []byte, n, k int, src RandomSource) ([]Share, error) {
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d, n=%d", ErrInvalidThreshold, k, n)
	}
	if uint64(n) >= Prime {
		return nil, fmt.Errorf("%w: n=%d", ErrTooManyShares, n)
	}
	if src == nil {
		return nil, ErrNilRandomSource
	}

	poly, err := newPolynomial(Encode(secret), k-1, src)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random coefficients: %w", err)
	}
	defer poly.wipe()

	shares := make([]Share, n)
	for i := range shares {
		x := uint64(i + 1)
		shares[i] = Share{Index: x, Value: poly.evaluate(x)}
	}

	return shares, nil
}

// GenerateBatch splits several secrets concurrently with the same n and k.
// newSource is called once per secret so that no source is shared between
// goroutines. Results are in the order of secrets; the first failure cancels
// the secrets not yet started.
func GenerateBatch(ctx context.Context, secrets [][]byte, n, k int, newSource func() RandomSource) ([][]Share, error) {
	if newSource == nil {
		return nil, ErrNilRandomSource
	}

	results := make([][]Share, len(secrets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, secret := range secrets {
		i, secret := i, secret
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			shares, err := Generate(secret, n, k, newSource())
			if err != nil {
				return fmt.Errorf("secret %d: %w", i+1, err)
			}
			results[i] = shares
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Reconstruct recovers the secret bytes from k shares of the same generation.
// It cannot tell whether the shares are genuine or whether k matches the
// threshold used at generation time.
func Reconstruct(shares []Share) ([]byte, error) {
	v, err := Interpolate(shares)
	if err != nil {
		return nil, err
	}
	return Decode(v), nil
}

// Interpolate returns the constant term of the unique polynomial of degree
// len(shares)-1 through the given points, by Lagrange interpolation at x = 0.
func Interpolate(shares []Share) (uint64, error) {
	if len(shares) == 0 {
		return 0, ErrNoShares
	}
	if err := validateShares(shares); err != nil {
		return 0, err
	}

	var secret uint64
	for i, sI := range shares {
		num, den := uint64(1), uint64(1)
		for j, sJ := range shares {
			if i == j {
				continue
			}
			// lᵢ(0) = ∏ (0 - xⱼ) / (xᵢ - xⱼ)
			num = mul(num, neg(sJ.Index))
			den = mul(den, sub(sI.Index, sJ.Index))
		}

		inv, err := Inverse(den, Prime)
		if err != nil {
			return 0, fmt.Errorf("share %d: %w", sI.Index, err)
		}
		secret = add(secret, mul(mul(sI.Value, num), inv))
	}

	return secret, nil
}

func validateShares(shares []Share) error {
	seen := make(map[uint64]struct{}, len(shares))
	for _, s := range shares {
		if s.Index == 0 || s.Index >= Prime {
			return fmt.Errorf("%w: %d", ErrInvalidIndex, s.Index)
		}
		if s.Value >= Prime {
			return fmt.Errorf("%w: share %d has value %d", ErrInvalidValue, s.Index, s.Value)
		}
		if _, ok := seen[s.Index]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateShareIndex, s.Index)
		}
		seen[s.Index] = struct{}{}
	}
	return nil
}
