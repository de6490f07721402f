package sharefile

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/mrz1836/quorum/internal/shamir"
)

// EnvelopeVersion is the current envelope format version.
const EnvelopeVersion = 1

var (
	// ErrUnsupportedVersion is returned for an envelope of an unknown version.
	ErrUnsupportedVersion = errors.New("unsupported envelope version")

	// ErrModulusMismatch is returned for an envelope produced over another field.
	ErrModulusMismatch = errors.New("envelope modulus does not match field")

	// ErrInvalidEnvelope is returned for an envelope with inconsistent parameters.
	ErrInvalidEnvelope = errors.New("invalid share envelope")
)

// Envelope is the self-describing form of a share stored in sealed files.
type Envelope struct {
	Version   uint8     `cbor:"1,keyasint"`
	RunID     uuid.UUID `cbor:"2,keyasint"`
	Threshold uint32    `cbor:"3,keyasint"`
	Total     uint32    `cbor:"4,keyasint"`
	Modulus   uint64    `cbor:"5,keyasint"`
	Index     uint64    `cbor:"6,keyasint"`
	Value     uint64    `cbor:"7,keyasint"`
}

// NewEnvelope wraps share s from a (k,n) generation identified by runID.
func NewEnvelope(runID uuid.UUID, k, n int, s shamir.Share) Envelope {
	return Envelope{
		Version:   EnvelopeVersion,
		RunID:     runID,
		Threshold: uint32(k), //nolint:gosec // k <= n, bounded by the caller's share count
		Total:     uint32(n), //nolint:gosec // n is validated by shamir.Generate
		Modulus:   shamir.Prime,
		Index:     s.Index,
		Value:     s.Value,
	}
}

// Share returns the share carried by the envelope.
func (e Envelope) Share() shamir.Share {
	return shamir.Share{Index: e.Index, Value: e.Value}
}

//nolint:gochecknoglobals // Encoding mode is immutable after init
var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

// Marshal encodes the envelope as deterministic CBOR.
func (e Envelope) Marshal() ([]byte, error) {
	data, err := encMode.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return data, nil
}

// UnmarshalEnvelope decodes and validates an envelope.
func UnmarshalEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	if err := e.Validate(); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// Validate checks the version, the modulus and the share parameters.
func (e Envelope) Validate() error {
	if e.Version != EnvelopeVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, e.Version)
	}
	if e.Modulus != shamir.Prime {
		return fmt.Errorf("%w: %d", ErrModulusMismatch, e.Modulus)
	}
	if e.Threshold < 1 || e.Threshold > e.Total {
		return fmt.Errorf("%w: threshold %d of %d", ErrInvalidEnvelope, e.Threshold, e.Total)
	}
	if e.Index < 1 || e.Index > uint64(e.Total) {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidEnvelope, e.Index, e.Total)
	}
	if e.Value >= shamir.Prime {
		return fmt.Errorf("%w: value out of field", ErrInvalidEnvelope)
	}
	return nil
}
