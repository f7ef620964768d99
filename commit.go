package multisig

import (
	"fmt"
)

// CommitSecret is a signer's one-time nonce for a single signing session.
// It must never be reused across messages: two responses under the same
// secret leak the private key. The secret is exclusively owned by its
// session and should be zeroized as soon as the response is produced.
type CommitSecret struct {
	curve       Curve
	value       Scalar
	initialized bool
}

// GenerateCommitSecret draws a fresh nonce uniformly from [1, order-1].
func GenerateCommitSecret(curve Curve) (*CommitSecret, error) {
	value, err := curve.ScalarRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate commit secret: %w", err)
	}
	return &CommitSecret{curve: curve, value: value, initialized: true}, nil
}

// NewCommitSecretFromBytes decodes a fixed-width secret scalar from src at
// offset. Short buffers, out-of-range scalars and zero are rejected.
func NewCommitSecretFromBytes(curve Curve, src []byte, offset int) (*CommitSecret, error) {
	raw, err := readBytes(src, offset, curve.ScalarSize())
	if err != nil {
		return nil, err
	}
	value, err := curve.ScalarFromBytes(raw)
	if err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, ErrScalarZero
	}
	return &CommitSecret{curve: curve, value: value, initialized: true}, nil
}

// Initialized reports whether a usable secret is present.
func (cs *CommitSecret) Initialized() bool {
	return cs != nil && cs.initialized
}

// Serialize writes the fixed-width scalar encoding at offset and returns the
// buffer and the offset just past it. Fails on an uninitialized secret
// rather than emitting a zero block that could pass for a real value.
func (cs *CommitSecret) Serialize(dst []byte, offset int) ([]byte, int, error) {
	if !cs.Initialized() {
		return dst, offset, ErrNotInitialized
	}
	dst, next := putBytes(dst, offset, cs.value.Bytes())
	return dst, next, nil
}

// Equal compares two secrets in constant time. Uninitialized secrets are
// never equal to anything, including each other.
func (cs *CommitSecret) Equal(other *CommitSecret) bool {
	if !cs.Initialized() || !other.Initialized() {
		return false
	}
	return SecureCompare(cs.value.Bytes(), other.value.Bytes())
}

// Clone returns an independent deep copy of the secret.
func (cs *CommitSecret) Clone() (*CommitSecret, error) {
	if !cs.Initialized() {
		return nil, ErrNotInitialized
	}
	raw := cs.value.Bytes()
	value, err := cs.curve.ScalarFromBytes(raw)
	ZeroizeBytes(raw)
	if err != nil {
		return nil, err
	}
	return &CommitSecret{curve: cs.curve, value: value, initialized: true}, nil
}

// Zeroize wipes the secret and marks it uninitialized.
func (cs *CommitSecret) Zeroize() {
	if cs == nil {
		return
	}
	if cs.value != nil {
		cs.value.Zeroize()
	}
	cs.initialized = false
}

// value accessor used by the response derivation.
func (cs *CommitSecret) scalar() Scalar { return cs.value }

// CommitPoint is the public commitment secret·G broadcast during round one.
type CommitPoint struct {
	curve       Curve
	point       Point
	initialized bool
}

// NewCommitPoint returns an uninitialized commit point.
func NewCommitPoint(curve Curve) *CommitPoint {
	return &CommitPoint{curve: curve}
}

// CommitPointFromSecret derives the commitment secret·G.
func CommitPointFromSecret(secret *CommitSecret) (*CommitPoint, error) {
	if !secret.Initialized() {
		return nil, ErrNotInitialized
	}
	cp := NewCommitPoint(secret.curve)
	if err := cp.Set(secret); err != nil {
		return nil, err
	}
	return cp, nil
}

// NewCommitPointFromBytes decodes a commit point from src at offset,
// rejecting off-curve encodings and the identity element.
func NewCommitPointFromBytes(curve Curve, src []byte, offset int) (*CommitPoint, error) {
	raw, err := readBytes(src, offset, curve.PointSize())
	if err != nil {
		return nil, err
	}
	point, err := curve.PointFromBytes(raw)
	if err != nil {
		return nil, err
	}
	if point.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	return &CommitPoint{curve: curve, point: point, initialized: true}, nil
}

// Set recomputes the point from the given secret.
func (cp *CommitPoint) Set(secret *CommitSecret) error {
	if !secret.Initialized() {
		return ErrNotInitialized
	}
	point := cp.curve.BasePoint().Mul(secret.scalar())
	if point.IsIdentity() {
		return ErrIdentityPoint
	}
	cp.point = point
	cp.initialized = true
	return nil
}

// Initialized reports whether the commit point holds a value.
func (cp *CommitPoint) Initialized() bool {
	return cp != nil && cp.initialized
}

// Point exposes the underlying curve point.
func (cp *CommitPoint) Point() Point { return cp.point }

// Serialize writes the canonical point encoding at offset.
func (cp *CommitPoint) Serialize(dst []byte, offset int) ([]byte, int, error) {
	if !cp.Initialized() {
		return dst, offset, ErrNotInitialized
	}
	dst, next := putBytes(dst, offset, cp.point.Bytes())
	return dst, next, nil
}

// Equal reports exact point equality of two initialized commit points.
func (cp *CommitPoint) Equal(other *CommitPoint) bool {
	if !cp.Initialized() || !other.Initialized() {
		return false
	}
	return cp.point.Equal(other.point)
}

// Clone returns an independent deep copy.
func (cp *CommitPoint) Clone() (*CommitPoint, error) {
	if !cp.Initialized() {
		return nil, ErrNotInitialized
	}
	point, err := cp.curve.PointFromBytes(cp.point.Bytes())
	if err != nil {
		return nil, err
	}
	return &CommitPoint{curve: cp.curve, point: point, initialized: true}, nil
}
