package multisig

import (
	"fmt"
)

// PrivateKey wraps a signer's long-term secret scalar. It exclusively owns
// its scalar: copies are deep and Zeroize wipes the only reference.
type PrivateKey struct {
	curve Curve
	value Scalar
}

// PublicKey wraps the curve point matching a PrivateKey. Aggregated public
// keys are represented with the same type.
type PublicKey struct {
	curve Curve
	point Point
}

// GenerateKeyPair draws a fresh private key and derives its public key.
func GenerateKeyPair(curve Curve) (*PrivateKey, *PublicKey, error) {
	secret, err := curve.ScalarRandom()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	priv := &PrivateKey{curve: curve, value: secret}
	pub, err := priv.Public()
	if err != nil {
		secret.Zeroize()
		return nil, nil, err
	}
	return priv, pub, nil
}

// NewPrivateKeyFromBytes decodes a fixed-width private key scalar from src
// at offset. Zero and out-of-range scalars are rejected.
func NewPrivateKeyFromBytes(curve Curve, src []byte, offset int) (*PrivateKey, error) {
	raw, err := readBytes(src, offset, curve.ScalarSize())
	if err != nil {
		return nil, err
	}
	scalar, err := curve.ScalarFromBytes(raw)
	if err != nil {
		return nil, err
	}
	if scalar.IsZero() {
		return nil, ErrScalarZero
	}
	return &PrivateKey{curve: curve, value: scalar}, nil
}

// Public derives the public key point value·G.
func (pk *PrivateKey) Public() (*PublicKey, error) {
	if pk.value == nil {
		return nil, ErrNotInitialized
	}
	point := pk.curve.BasePoint().Mul(pk.value)
	if point.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	return &PublicKey{curve: pk.curve, point: point}, nil
}

// Scalar exposes the underlying secret scalar for response derivation.
func (pk *PrivateKey) Scalar() Scalar { return pk.value }

// Serialize appends the fixed-width key encoding at offset.
func (pk *PrivateKey) Serialize(dst []byte, offset int) ([]byte, int, error) {
	if pk.value == nil {
		return dst, offset, ErrNotInitialized
	}
	dst, next := putBytes(dst, offset, pk.value.Bytes())
	return dst, next, nil
}

// Zeroize wipes the secret scalar.
func (pk *PrivateKey) Zeroize() {
	if pk.value != nil {
		pk.value.Zeroize()
	}
}

// NewPublicKeyFromBytes decodes a public key point from src at offset,
// rejecting off-curve encodings and the identity element.
func NewPublicKeyFromBytes(curve Curve, src []byte, offset int) (*PublicKey, error) {
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
	return &PublicKey{curve: curve, point: point}, nil
}

// NewPublicKeyFromPoint wraps an existing curve point as a public key.
// Used by the aggregator for sums of enrolled keys.
func NewPublicKeyFromPoint(curve Curve, point Point) (*PublicKey, error) {
	if point == nil {
		return nil, ErrNotInitialized
	}
	if point.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	return &PublicKey{curve: curve, point: point}, nil
}

// Point exposes the underlying curve point.
func (p *PublicKey) Point() Point { return p.point }

// Initialized reports whether the key holds a point.
func (p *PublicKey) Initialized() bool { return p != nil && p.point != nil }

// Serialize appends the canonical point encoding at offset.
func (p *PublicKey) Serialize(dst []byte, offset int) ([]byte, int, error) {
	if !p.Initialized() {
		return dst, offset, ErrNotInitialized
	}
	dst, next := putBytes(dst, offset, p.point.Bytes())
	return dst, next, nil
}

// Equal reports value equality of two public keys.
func (p *PublicKey) Equal(other *PublicKey) bool {
	if !p.Initialized() || !other.Initialized() {
		return false
	}
	return p.point.Equal(other.point)
}

// Clone returns an independent deep copy.
func (p *PublicKey) Clone() (*PublicKey, error) {
	if !p.Initialized() {
		return nil, ErrNotInitialized
	}
	point, err := p.curve.PointFromBytes(p.point.Bytes())
	if err != nil {
		return nil, err
	}
	return &PublicKey{curve: p.curve, point: point}, nil
}
