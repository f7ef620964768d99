package multisig

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const commitSecretDomain = "CANOPY_MULTISIG_NONCE_v1"

// DeriveCommitSecret derives a per-round commit secret deterministically from
// the signer's private key, the message, and a round context string. Two
// rounds over different messages or contexts never share a secret, and the
// same inputs always reproduce the same secret, so a signer that crashes and
// restarts mid-round cannot be tricked into reusing a nonce with a different
// challenge.
//
// The context must be unique per round (for example a chain height and round
// number). Reusing a context with a different signer set is safe because the
// challenge transcript binds the set, but reusing it for two distinct rounds
// over the same message is not.
func DeriveCommitSecret(curve Curve, privateKey *PrivateKey, message, context []byte) (*CommitSecret, error) {
	if privateKey == nil || privateKey.Scalar() == nil {
		return nil, ErrNotInitialized
	}
	if len(message) == 0 {
		return nil, ErrEmptyInput
	}

	salt := []byte(commitSecretDomain + ":" + curve.Name())

	info := make([]byte, 0, len(message)+len(context)+16)
	info = append(info, []byte("msg:")...)
	info = append(info, message...)
	info = append(info, []byte(":ctx:")...)
	info = append(info, context...)

	ikm := privateKey.Scalar().Bytes()
	hkdfReader := hkdf.New(sha256.New, ikm, salt, info)

	scalarBytes := make([]byte, 64)
	if _, err := io.ReadFull(hkdfReader, scalarBytes); err != nil {
		ZeroizeBytes(ikm)
		return nil, fmt.Errorf("failed to derive commit secret: %w", err)
	}
	ZeroizeBytes(ikm)

	scalar, err := curve.ScalarFromUniformBytes(scalarBytes)
	ZeroizeBytes(scalarBytes)
	if err != nil {
		return nil, fmt.Errorf("commit secret scalar conversion failed: %w", err)
	}
	if scalar.IsZero() {
		scalar.Zeroize()
		return nil, ErrScalarZero
	}

	return &CommitSecret{curve: curve, value: scalar, initialized: true}, nil
}
