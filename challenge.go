package multisig

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// HashAlgorithm specifies which hash algorithm derives challenge scalars
type HashAlgorithm int

const (
	// SHA256_HKDF uses SHA256 with HKDF (compatible with existing deployments)
	SHA256_HKDF HashAlgorithm = iota
	// BLAKE2B uses Blake2b with domain separation (better security and performance)
	BLAKE2B
	// SHAKE256 uses SHAKE256 XOF (best for key derivation, quantum-resistant)
	SHAKE256
)

// DefaultHashAlgorithm is used wherever a caller does not pick one explicitly.
const DefaultHashAlgorithm = SHA256_HKDF

// Challenge binds one signing session to a message and to the aggregated
// commitment and public key of its signer set. Every honest participant
// recomputes the same scalar from the same inputs.
type Challenge struct {
	curve       Curve
	value       Scalar
	initialized bool
}

// NewChallenge computes the session challenge with the default hash algorithm.
func NewChallenge(curve Curve, aggregatedCommit *CommitPoint, aggregatedPubKey *PublicKey, message []byte) (*Challenge, error) {
	c := &Challenge{curve: curve}
	if err := c.Set(aggregatedCommit, aggregatedPubKey, message); err != nil {
		return nil, err
	}
	return c, nil
}

// NewChallengeFromBytes decodes a fixed-width challenge scalar from src at
// offset. Zero and out-of-range scalars are rejected.
func NewChallengeFromBytes(curve Curve, src []byte, offset int) (*Challenge, error) {
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
	return &Challenge{curve: curve, value: value, initialized: true}, nil
}

// Set computes challenge = H(encode(aggCommit) || encode(aggPubKey) || message)
// with the default hash algorithm. Fails if either aggregate is uninitialized.
func (c *Challenge) Set(aggregatedCommit *CommitPoint, aggregatedPubKey *PublicKey, message []byte) error {
	return c.SetWithHash(aggregatedCommit, aggregatedPubKey, message, DefaultHashAlgorithm)
}

// SetWithHash computes the challenge under a specific hash algorithm.
func (c *Challenge) SetWithHash(aggregatedCommit *CommitPoint, aggregatedPubKey *PublicKey, message []byte, algorithm HashAlgorithm) error {
	if !aggregatedCommit.Initialized() || !aggregatedPubKey.Initialized() {
		return ErrNotInitialized
	}

	value, err := challengeHash(c.curve, algorithm,
		aggregatedCommit.Point().Bytes(),
		aggregatedPubKey.Point().Bytes(),
		message)
	if err != nil {
		return err
	}
	if value.IsZero() {
		// Vanishing challenge would let any response verify
		return ErrScalarZero
	}

	c.value = value
	c.initialized = true
	return nil
}

// Initialized reports whether the challenge holds a value.
func (c *Challenge) Initialized() bool {
	return c != nil && c.initialized
}

// Scalar exposes the underlying challenge scalar.
func (c *Challenge) Scalar() Scalar { return c.value }

// Serialize writes the fixed-width scalar encoding at offset.
func (c *Challenge) Serialize(dst []byte, offset int) ([]byte, int, error) {
	if !c.Initialized() {
		return dst, offset, ErrNotInitialized
	}
	dst, next := putBytes(dst, offset, c.value.Bytes())
	return dst, next, nil
}

// Equal reports value equality of two initialized challenges.
func (c *Challenge) Equal(other *Challenge) bool {
	if !c.Initialized() || !other.Initialized() {
		return false
	}
	return c.value.Equal(other.value)
}

// Clone returns an independent deep copy.
func (c *Challenge) Clone() (*Challenge, error) {
	if !c.Initialized() {
		return nil, ErrNotInitialized
	}
	value, err := c.curve.ScalarFromBytes(c.value.Bytes())
	if err != nil {
		return nil, err
	}
	return &Challenge{curve: c.curve, value: value, initialized: true}, nil
}

const challengeDomain = "CANOPY_MULTISIG_CHALLENGE_v1"

// challengeHash derives a challenge scalar from the concatenated transcript
// parts under the chosen algorithm, domain-separated by protocol tag and
// curve name.
func challengeHash(curve Curve, algorithm HashAlgorithm, parts ...[]byte) (Scalar, error) {
	switch algorithm {
	case SHA256_HKDF:
		return challengeHashHKDF(curve, challengeDomain, parts)
	case BLAKE2B:
		return challengeHashBlake2b(curve, challengeDomain, parts)
	case SHAKE256:
		return challengeHashShake256(curve, challengeDomain, parts)
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %d", algorithm)
	}
}

// challengeHashHKDF derives the scalar using SHA256+HKDF (compatible)
func challengeHashHKDF(curve Curve, domain string, parts [][]byte) (Scalar, error) {
	salt := []byte(domain + ":" + curve.Name())

	ikm := make([]byte, 0, 128)
	for _, part := range parts {
		ikm = append(ikm, part...)
	}

	hkdfReader := hkdf.New(sha256.New, ikm, salt, []byte("challenge"))
	scalarBytes := make([]byte, 64) // 64 bytes for uniform scalar generation
	if _, err := io.ReadFull(hkdfReader, scalarBytes); err != nil {
		return nil, fmt.Errorf("HKDF challenge generation failed: %w", err)
	}

	scalar, err := curve.ScalarFromUniformBytes(scalarBytes)

	ZeroizeBytes(ikm)
	ZeroizeBytes(scalarBytes)

	if err != nil {
		return nil, fmt.Errorf("challenge scalar conversion failed: %w", err)
	}
	return scalar, nil
}

// challengeHashBlake2b derives the scalar using Blake2b (better performance)
func challengeHashBlake2b(curve Curve, domain string, parts [][]byte) (Scalar, error) {
	hasher, err := blake2b.New(64, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Blake2b hasher: %w", err)
	}

	hasher.Write([]byte(domain + "_BLAKE2B"))
	hasher.Write([]byte(curve.Name()))
	for _, part := range parts {
		hasher.Write(part)
	}

	scalarBytes := hasher.Sum(nil)

	scalar, err := curve.ScalarFromUniformBytes(scalarBytes)
	ZeroizeBytes(scalarBytes)
	if err != nil {
		return nil, fmt.Errorf("challenge scalar conversion failed: %w", err)
	}
	return scalar, nil
}

// challengeHashShake256 derives the scalar using SHAKE256
func challengeHashShake256(curve Curve, domain string, parts [][]byte) (Scalar, error) {
	shake := sha3.NewShake256()

	shake.Write([]byte(domain + "_SHAKE256"))
	shake.Write([]byte(curve.Name()))
	for _, part := range parts {
		shake.Write(part)
	}

	scalarBytes := make([]byte, 64)
	if _, err := io.ReadFull(shake, scalarBytes); err != nil {
		return nil, fmt.Errorf("SHAKE256 read failed: %w", err)
	}

	scalar, err := curve.ScalarFromUniformBytes(scalarBytes)
	ZeroizeBytes(scalarBytes)
	if err != nil {
		return nil, fmt.Errorf("challenge scalar conversion failed: %w", err)
	}
	return scalar, nil
}
