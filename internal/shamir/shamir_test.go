package shamir

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"
)

var errBrokenSource = errors.New("entropy unavailable")

// brokenSource fails every draw.
type brokenSource struct{}

func (brokenSource) Uniform(uint64) (uint64, error) { return 0, errBrokenSource }

// seededSource returns a deterministic source for reproducible tests.
func seededSource(seed byte) RandomSource {
	return NewReaderSource(rand.New(rand.NewSource(int64(seed))))
}

// combinations calls fn with every k-subset of shares, in index order.
func combinations(shares []Share, k int, fn func([]Share)) {
	subset := make([]Share, 0, k)
	var walk func(start int)
	walk = func(start int) {
		if len(subset) == k {
			fn(append([]Share(nil), subset...))
			return
		}
		for i := start; i < len(shares); i++ {
			subset = append(subset, shares[i])
			walk(i + 1)
			subset = subset[:len(subset)-1]
		}
	}
	walk(0)
}

//nolint:gocognit // Test function with many sub-cases
func TestGenerateReconstruct_EverySubset(t *testing.T) {
	tests := []struct {
		name   string
		secret []byte
		n, k   int
	}{
		{"SingleByte", []byte("A"), 5, 3},
		{"TwoBytes", []byte("AB"), 5, 3},
		{"ThreeBytes", []byte("xyz"), 6, 4},
		{"MaxThreeBytes", []byte{0xff, 0xff, 0xff}, 4, 2},
		{"InnerZero", []byte{0x01, 0x00, 0xff}, 5, 5},
		{"ThresholdOne", []byte("k1"), 4, 1},
		{"ThresholdSameAsN", []byte("ok"), 7, 7},
		{"MinShares", []byte("z"), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Generate(tt.secret, tt.n, tt.k, NewCryptoSource())
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if len(shares) != tt.n {
				t.Fatalf("Expected %d shares, got %d", tt.n, len(shares))
			}

			combinations(shares, tt.k, func(subset []Share) {
				got, err := Reconstruct(subset)
				if err != nil {
					t.Fatalf("Reconstruct failed for %v: %v", subset, err)
				}
				if !bytes.Equal(got, tt.secret) {
					t.Errorf("Subset %v: got %x, want %x", subset, got, tt.secret)
				}
			})
		})
	}
}

func TestReconstruct_OrderIndependent(t *testing.T) {
	secret := []byte("Go!")
	shares, err := Generate(secret, 5, 3, NewCryptoSource())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	orders := [][]Share{
		{shares[0], shares[2], shares[4]},
		{shares[4], shares[0], shares[2]},
		{shares[2], shares[4], shares[0]},
	}
	for i, o := range orders {
		got, err := Reconstruct(o)
		if err != nil {
			t.Fatalf("order %d: %v", i, err)
		}
		if !bytes.Equal(got, secret) {
			t.Errorf("order %d: got %q, want %q", i, got, secret)
		}
	}
}

func TestGenerateReconstruct_LargeN(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := rng.Intn(50) + 1
		k := rng.Intn(n) + 1
		secret := []byte{byte(rng.Intn(255) + 1), byte(rng.Intn(256)), byte(rng.Intn(256))}[:rng.Intn(3)+1]

		shares, err := Generate(secret, n, k, NewCryptoSource())
		if err != nil {
			t.Fatalf("iter %d: Generate(n=%d, k=%d) failed: %v", i, n, k, err)
		}

		rng.Shuffle(len(shares), func(a, b int) { shares[a], shares[b] = shares[b], shares[a] })
		got, err := Reconstruct(shares[:k])
		if err != nil {
			t.Fatalf("iter %d: Reconstruct failed: %v", i, err)
		}
		if !bytes.Equal(got, secret) {
			t.Fatalf("iter %d: got %x, want %x", i, got, secret)
		}
	}
}

func TestScenarioAB(t *testing.T) {
	secret := []byte("AB")
	if Encode(secret) != 16706 {
		t.Fatalf("Encode(AB) = %d, want 16706", Encode(secret))
	}

	shares, err := Generate(secret, 5, 3, seededSource(7))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	got, err := Reconstruct([]Share{shares[1], shares[3], shares[4]})
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0x41, 0x42}) {
		t.Errorf("got %x, want 4142", got)
	}
}

func TestEmptySecret(t *testing.T) {
	shares, err := Generate(nil, 4, 2, NewCryptoSource())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	got, err := Reconstruct(shares[2:])
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty secret, got %x", got)
	}
}

func TestGenerate_IndicesAreOneToN(t *testing.T) {
	shares, err := Generate([]byte("idx"), 20, 4, NewCryptoSource())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i, s := range shares {
		if s.Index == 0 {
			t.Fatal("share with index 0 issued")
		}
		if s.Index != uint64(i+1) {
			t.Errorf("share %d has index %d", i, s.Index)
		}
		if s.Value >= Prime {
			t.Errorf("share %d value %d outside field", i, s.Value)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate([]byte("det"), 5, 3, seededSource(42))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate([]byte("det"), 5, 3, seededSource(42))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("share %d differs between identical seeds: %v vs %v", i, a[i], b[i])
		}
	}

	c, err := Generate([]byte("det"), 5, 3, seededSource(43))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if a[0] == c[0] && a[1] == c[1] && a[2] == c[2] {
		t.Error("different seeds produced identical shares")
	}
}

func TestThresholdOne_SharesEqualSecret(t *testing.T) {
	shares, err := Generate([]byte("AB"), 3, 1, NewCryptoSource())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, s := range shares {
		if s.Value != 16706 {
			t.Errorf("degree-0 polynomial share %d = %d, want 16706", s.Index, s.Value)
		}
	}
}

func TestThresholdInsufficiency(t *testing.T) {
	secret := []byte("key")
	want := Encode(secret)
	matches := 0

	for i := 0; i < 500; i++ {
		shares, err := Generate(secret, 5, 3, NewCryptoSource())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		v, err := Interpolate(shares[:2])
		if err != nil {
			t.Fatalf("Interpolate failed: %v", err)
		}
		if v == want {
			matches++
		}
	}

	// Each trial matches with probability about 1/Prime.
	if matches > 1 {
		t.Errorf("k-1 shares recovered the secret %d times out of 500", matches)
	}
}

func TestTamperedShare(t *testing.T) {
	secret := []byte("abc")
	shares, _ := Generate(secret, 5, 3, NewCryptoSource())

	shares[2].Value = (shares[2].Value + 1) % Prime
	got, err := Reconstruct(shares[:3])
	if err != nil {
		t.Fatalf("tampered share should not be detected, got error %v", err)
	}
	if bytes.Equal(got, secret) {
		t.Error("Reconstructed correct secret despite tampered share")
	}
}

func TestValidation(t *testing.T) {
	secret := []byte("s")
	tests := []struct {
		name string
		n, k int
		src  RandomSource
		want error
	}{
		{"k zero", 5, 0, NewCryptoSource(), ErrInvalidThreshold},
		{"k negative", 5, -1, NewCryptoSource(), ErrInvalidThreshold},
		{"k above n", 2, 3, NewCryptoSource(), ErrInvalidThreshold},
		{"n zero", 0, 0, NewCryptoSource(), ErrInvalidThreshold},
		{"n at modulus", int(Prime), 2, NewCryptoSource(), ErrTooManyShares},
		{"nil source", 3, 2, nil, ErrNilRandomSource},
		{"broken source", 3, 2, brokenSource{}, errBrokenSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(secret, tt.n, tt.k, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("Generate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInterpolate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		shares []Share
		want   error
	}{
		{"no shares", nil, ErrNoShares},
		{"duplicate index", []Share{{1, 10}, {2, 20}, {1, 30}}, ErrDuplicateShareIndex},
		{"zero index", []Share{{0, 10}, {2, 20}}, ErrInvalidIndex},
		{"index at modulus", []Share{{Prime, 10}, {2, 20}}, ErrInvalidIndex},
		{"value at modulus", []Share{{1, Prime}, {2, 20}}, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpolate(tt.shares)
			if !errors.Is(err, tt.want) {
				t.Errorf("Interpolate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInterpolate_KnownLine(t *testing.T) {
	// f(x) = 7 + 3x: f(1) = 10, f(2) = 13, f(4) = 19.
	v, err := Interpolate([]Share{{2, 13}, {4, 19}})
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	if v != 7 {
		t.Errorf("got %d, want 7", v)
	}

	// f(x) = 5 - x wraps below zero: f(6) = P - 1, f(7) = P - 2.
	v, err = Interpolate([]Share{{6, Prime - 1}, {7, Prime - 2}})
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	if v != 5 {
		t.Errorf("got %d, want 5", v)
	}
}

func TestEvaluateAtZeroPanics(t *testing.T) {
	p, err := newPolynomial(9, 2, NewCryptoSource())
	if err != nil {
		t.Fatalf("newPolynomial failed: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("evaluate(0) should panic")
		}
	}()
	p.evaluate(0)
}

func TestPolynomialWipe(t *testing.T) {
	p, err := newPolynomial(9, 3, NewCryptoSource())
	if err != nil {
		t.Fatalf("newPolynomial failed: %v", err)
	}
	p.wipe()
	for i, c := range p.coefficients {
		if c != 0 {
			t.Errorf("coefficient %d not wiped", i)
		}
	}
}

func TestGenerateBatch(t *testing.T) {
	secrets := [][]byte{[]byte("one"), []byte("two"), []byte("3"), nil, []byte("AB")}
	results, err := GenerateBatch(context.Background(), secrets, 5, 3, func() RandomSource {
		return NewCryptoSource()
	})
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if len(results) != len(secrets) {
		t.Fatalf("got %d results, want %d", len(results), len(secrets))
	}

	for i, shares := range results {
		got, err := Reconstruct(shares[2:])
		if err != nil {
			t.Fatalf("secret %d: %v", i, err)
		}
		if !bytes.Equal(got, secrets[i]) {
			t.Errorf("secret %d: got %q, want %q", i, got, secrets[i])
		}
	}
}

func TestGenerateBatch_Errors(t *testing.T) {
	_, err := GenerateBatch(context.Background(), [][]byte{[]byte("a")}, 3, 2, nil)
	if !errors.Is(err, ErrNilRandomSource) {
		t.Errorf("nil factory error = %v", err)
	}

	_, err = GenerateBatch(context.Background(), [][]byte{[]byte("a"), []byte("b")}, 2, 3, func() RandomSource {
		return NewCryptoSource()
	})
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("invalid threshold error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = GenerateBatch(ctx, [][]byte{[]byte("a")}, 3, 2, func() RandomSource {
		return NewCryptoSource()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context error = %v", err)
	}
}

func TestShareString(t *testing.T) {
	s := Share{Index: 3, Value: 2147483646}
	if s.String() != "3 2147483646" {
		t.Errorf("String() = %q", s.String())
	}
}
