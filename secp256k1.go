package multisig

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"runtime"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Secp256k1Curve implements the Curve interface for secp256k1
type Secp256k1Curve struct{}

// NewSecp256k1Curve creates a new secp256k1 curve instance
func NewSecp256k1Curve() *Secp256k1Curve {
	return &Secp256k1Curve{}
}

func (c *Secp256k1Curve) Name() string    { return "secp256k1" }
func (c *Secp256k1Curve) ScalarSize() int { return 32 }
func (c *Secp256k1Curve) PointSize() int  { return 65 } // Uncompressed

func (c *Secp256k1Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidScalarLength
	}

	scalar := new(btcec.ModNScalar)
	if overflow := scalar.SetBytes((*[32]byte)(data)); overflow != 0 {
		return nil, ErrInvalidScalar
	}

	return &Secp256k1Scalar{inner: scalar}, nil
}

func (c *Secp256k1Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("need at least 32 bytes for uniform scalar generation, got %d", len(data))
	}

	// Use first 32 bytes and reduce modulo curve order
	scalar := new(btcec.ModNScalar)
	scalar.SetBytes((*[32]byte)(data[:32]))
	return &Secp256k1Scalar{inner: scalar}, nil
}

func (c *Secp256k1Curve) ScalarRandom() (Scalar, error) {
	for {
		bytes := make([]byte, 32)
		if _, err := rand.Read(bytes); err != nil {
			return nil, err
		}

		scalar := new(btcec.ModNScalar)
		overflow := scalar.SetBytes((*[32]byte)(bytes))
		ZeroizeBytes(bytes)
		if overflow == 0 && !scalar.IsZero() {
			return &Secp256k1Scalar{inner: scalar}, nil
		}
		// Overflow or zero draw, try again with new random bytes
	}
}

func (c *Secp256k1Curve) ScalarZero() Scalar {
	return &Secp256k1Scalar{inner: new(btcec.ModNScalar)}
}

func (c *Secp256k1Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 33 && len(data) != 65 {
		return nil, ErrInvalidPointLength
	}

	pubKey, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}

	return &Secp256k1Point{inner: pubKey}, nil
}

func (c *Secp256k1Curve) BasePoint() Point {
	return &Secp256k1Point{inner: btcec.Generator()}
}

func (c *Secp256k1Curve) PointIdentity() Point {
	// Point at infinity
	return &Secp256k1Point{inner: nil}
}

func (c *Secp256k1Curve) ValidateScalar(data []byte) error {
	if len(data) != 32 {
		return ErrInvalidScalarLength
	}

	scalar := new(btcec.ModNScalar)
	overflow := scalar.SetBytes((*[32]byte)(data))
	if overflow != 0 {
		return ErrInvalidScalar
	}

	return nil
}

func (c *Secp256k1Curve) ValidatePoint(data []byte) error {
	_, err := c.PointFromBytes(data)
	return err
}

// Secp256k1Scalar implements the Scalar interface
type Secp256k1Scalar struct {
	inner *btcec.ModNScalar
}

func (s *Secp256k1Scalar) Bytes() []byte {
	var bytes [32]byte
	s.inner.PutBytes(&bytes)
	return bytes[:]
}

func (s *Secp256k1Scalar) String() string {
	return hex.EncodeToString(s.Bytes())
}

func (s *Secp256k1Scalar) Add(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Add(s.inner).Add(other.(*Secp256k1Scalar).inner)
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Sub(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Add(s.inner).Add(other.(*Secp256k1Scalar).inner.Negate())
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Mul(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Set(s.inner).Mul(other.(*Secp256k1Scalar).inner)
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Negate() Scalar {
	result := new(btcec.ModNScalar)
	result.Add(s.inner).Negate()
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Equal(other Scalar) bool {
	return s.inner.Equals(other.(*Secp256k1Scalar).inner)
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.inner.IsZero()
}

func (s *Secp256k1Scalar) Zeroize() {
	s.inner.Zero()
	runtime.KeepAlive(s)
}

// Secp256k1Point implements the Point interface
type Secp256k1Point struct {
	inner *btcec.PublicKey
}

func (p *Secp256k1Point) Bytes() []byte {
	if p.inner == nil {
		return make([]byte, 65) // Point at infinity
	}
	return p.inner.SerializeUncompressed()
}

func (p *Secp256k1Point) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *Secp256k1Point) Add(other Point) Point {
	if p.inner == nil {
		return other
	}
	if other.(*Secp256k1Point).inner == nil {
		return p
	}

	// Convert to Jacobian coordinates for addition
	var result btcec.JacobianPoint
	p.inner.AsJacobian(&result)

	var otherJac btcec.JacobianPoint
	other.(*Secp256k1Point).inner.AsJacobian(&otherJac)

	btcec.AddNonConst(&result, &otherJac, &result)

	// P + (-P) lands on the point at infinity (Z = 0)
	if result.Z.IsZero() {
		return &Secp256k1Point{inner: nil}
	}

	result.ToAffine()
	pubKey := btcec.NewPublicKey(&result.X, &result.Y)

	return &Secp256k1Point{inner: pubKey}
}

func (p *Secp256k1Point) Sub(other Point) Point {
	return p.Add(other.Negate())
}

func (p *Secp256k1Point) Mul(scalar Scalar) Point {
	if p.inner == nil {
		return p // Point at infinity
	}

	var result btcec.JacobianPoint
	var pointJac btcec.JacobianPoint
	p.inner.AsJacobian(&pointJac)

	btcec.ScalarMultNonConst(scalar.(*Secp256k1Scalar).inner, &pointJac, &result)

	// Zero scalar maps everything to infinity
	if result.Z.IsZero() {
		return &Secp256k1Point{inner: nil}
	}

	result.ToAffine()
	pubKey := btcec.NewPublicKey(&result.X, &result.Y)

	return &Secp256k1Point{inner: pubKey}
}

func (p *Secp256k1Point) Negate() Point {
	if p.inner == nil {
		return p // Point at infinity
	}

	var jac btcec.JacobianPoint
	p.inner.AsJacobian(&jac)

	// Negate Y coordinate
	jac.Y.Negate(1)

	jac.ToAffine()
	pubKey := btcec.NewPublicKey(&jac.X, &jac.Y)

	return &Secp256k1Point{inner: pubKey}
}

func (p *Secp256k1Point) Equal(other Point) bool {
	if p.inner == nil && other.(*Secp256k1Point).inner == nil {
		return true
	}
	if p.inner == nil || other.(*Secp256k1Point).inner == nil {
		return false
	}

	return p.inner.IsEqual(other.(*Secp256k1Point).inner)
}

func (p *Secp256k1Point) IsIdentity() bool {
	return p.inner == nil
}
