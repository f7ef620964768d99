package multisig

import (
	"fmt"

	"github.com/canopy-network/canopy/lib/crypto"
)

const (
	possessionDomain = "CANOPY_MULTISIG_POP_v1"
	identityDomain   = "CANOPY_MULTISIG_IDENTITY_v1"
)

// PossessionProof is a Schnorr proof of knowledge of the private key behind a
// public key. Aggregated Schnorr keys are vulnerable to rogue-key attacks if
// arbitrary keys may join a signer set, so enrollment demands this proof.
type PossessionProof struct {
	Challenge Scalar
	Response  Scalar
}

// ProvePossession creates a proof of knowledge for the given key pair.
func ProvePossession(curve Curve, privateKey *PrivateKey, publicKey *PublicKey) (*PossessionProof, error) {
	return ProvePossessionWithHash(curve, privateKey, publicKey, DefaultHashAlgorithm)
}

// ProvePossessionWithHash creates a proof of knowledge using the chosen
// challenge hash.
func ProvePossessionWithHash(curve Curve, privateKey *PrivateKey, publicKey *PublicKey, algorithm HashAlgorithm) (*PossessionProof, error) {
	if privateKey == nil || privateKey.Scalar() == nil || !publicKey.Initialized() {
		return nil, ErrNotInitialized
	}

	nonce, err := curve.ScalarRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	defer nonce.Zeroize()

	commitment := curve.BasePoint().Mul(nonce)

	challenge, err := possessionChallenge(curve, algorithm, publicKey.Point(), commitment, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute challenge: %w", err)
	}

	// s = r + c*x
	cx := challenge.Mul(privateKey.Scalar())
	response := nonce.Add(cx)
	cx.Zeroize()

	return &PossessionProof{Challenge: challenge, Response: response}, nil
}

// Verify checks the proof against the public key it claims to speak for.
func (pp *PossessionProof) Verify(curve Curve, publicKey *PublicKey) bool {
	return pp.VerifyWithHash(curve, publicKey, DefaultHashAlgorithm)
}

// VerifyWithHash checks the proof under the chosen challenge hash.
func (pp *PossessionProof) VerifyWithHash(curve Curve, publicKey *PublicKey, algorithm HashAlgorithm) bool {
	if pp == nil || pp.Challenge == nil || pp.Response == nil || !publicKey.Initialized() {
		return false
	}

	// R' = s*G - c*X
	commitment := curve.BasePoint().Mul(pp.Response).Sub(publicKey.Point().Mul(pp.Challenge))

	expected, err := possessionChallenge(curve, algorithm, publicKey.Point(), commitment, nil)
	if err != nil {
		return false
	}
	return pp.Challenge.Equal(expected)
}

// Serialize writes challenge then response at offset.
func (pp *PossessionProof) Serialize(dst []byte, offset int) ([]byte, int, error) {
	if pp.Challenge == nil || pp.Response == nil {
		return dst, offset, ErrNotInitialized
	}
	dst, next := putBytes(dst, offset, pp.Challenge.Bytes())
	dst, next = putBytes(dst, next, pp.Response.Bytes())
	return dst, next, nil
}

// NewPossessionProofFromBytes decodes a proof from src at offset.
func NewPossessionProofFromBytes(curve Curve, src []byte, offset int) (*PossessionProof, error) {
	raw, err := readBytes(src, offset, curve.ScalarSize())
	if err != nil {
		return nil, err
	}
	challenge, err := curve.ScalarFromBytes(raw)
	if err != nil {
		return nil, err
	}
	raw, err = readBytes(src, offset+curve.ScalarSize(), curve.ScalarSize())
	if err != nil {
		return nil, err
	}
	response, err := curve.ScalarFromBytes(raw)
	if err != nil {
		return nil, err
	}
	return &PossessionProof{Challenge: challenge, Response: response}, nil
}

// IdentityBinding ties a signer's Schnorr public key to its Canopy validator
// BLS key. The proof is a Schnorr proof whose challenge transcript includes
// the BLS public key, so it only verifies against that exact validator
// identity.
type IdentityBinding struct {
	BLSPublicKey []byte
	Proof        *PossessionProof
}

// BindValidatorIdentity proves that the holder of privateKey is the validator
// identified by blsKey.
func BindValidatorIdentity(curve Curve, privateKey *PrivateKey, publicKey *PublicKey, blsKey *crypto.BLS12381PrivateKey) (*IdentityBinding, error) {
	return BindValidatorIdentityWithHash(curve, privateKey, publicKey, blsKey, DefaultHashAlgorithm)
}

// BindValidatorIdentityWithHash is BindValidatorIdentity with a configurable
// challenge hash.
func BindValidatorIdentityWithHash(curve Curve, privateKey *PrivateKey, publicKey *PublicKey, blsKey *crypto.BLS12381PrivateKey, algorithm HashAlgorithm) (*IdentityBinding, error) {
	if privateKey == nil || privateKey.Scalar() == nil || !publicKey.Initialized() {
		return nil, ErrNotInitialized
	}
	if blsKey == nil {
		return nil, fmt.Errorf("BLS key cannot be nil")
	}
	blsPubKey := blsKey.PublicKey()
	if blsPubKey == nil {
		return nil, fmt.Errorf("BLS public key is nil")
	}
	blsPubKeyBytes := blsPubKey.Bytes()

	nonce, err := curve.ScalarRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	defer nonce.Zeroize()

	commitment := curve.BasePoint().Mul(nonce)

	challenge, err := identityChallenge(curve, algorithm, publicKey.Point(), commitment, blsPubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compute binding challenge: %w", err)
	}

	cx := challenge.Mul(privateKey.Scalar())
	response := nonce.Add(cx)
	cx.Zeroize()

	return &IdentityBinding{
		BLSPublicKey: blsPubKeyBytes,
		Proof:        &PossessionProof{Challenge: challenge, Response: response},
	}, nil
}

// Verify checks the binding against the Schnorr public key.
func (ib *IdentityBinding) Verify(curve Curve, publicKey *PublicKey) bool {
	return ib.VerifyWithHash(curve, publicKey, DefaultHashAlgorithm)
}

// VerifyWithHash checks the binding under the chosen challenge hash.
func (ib *IdentityBinding) VerifyWithHash(curve Curve, publicKey *PublicKey, algorithm HashAlgorithm) bool {
	if ib == nil || ib.Proof == nil || ib.Proof.Challenge == nil || ib.Proof.Response == nil {
		return false
	}
	if len(ib.BLSPublicKey) == 0 || !publicKey.Initialized() {
		return false
	}

	commitment := curve.BasePoint().Mul(ib.Proof.Response).Sub(publicKey.Point().Mul(ib.Proof.Challenge))

	expected, err := identityChallenge(curve, algorithm, publicKey.Point(), commitment, ib.BLSPublicKey)
	if err != nil {
		return false
	}
	return ib.Proof.Challenge.Equal(expected)
}

// possessionChallenge computes c = H(X || R [|| extra]) under possessionDomain.
func possessionChallenge(curve Curve, algorithm HashAlgorithm, publicKey, commitment Point, extra []byte) (Scalar, error) {
	return domainChallenge(curve, algorithm, possessionDomain, publicKey, commitment, extra)
}

// identityChallenge computes the binding challenge under identityDomain.
func identityChallenge(curve Curve, algorithm HashAlgorithm, publicKey, commitment Point, blsPubKey []byte) (Scalar, error) {
	return domainChallenge(curve, algorithm, identityDomain, publicKey, commitment, blsPubKey)
}

func domainChallenge(curve Curve, algorithm HashAlgorithm, domain string, publicKey, commitment Point, extra []byte) (Scalar, error) {
	parts := [][]byte{publicKey.Bytes(), commitment.Bytes()}
	if len(extra) > 0 {
		parts = append(parts, extra)
	}
	switch algorithm {
	case SHA256_HKDF:
		return challengeHashHKDF(curve, domain, parts)
	case BLAKE2B:
		return challengeHashBlake2b(curve, domain, parts)
	case SHAKE256:
		return challengeHashShake256(curve, domain, parts)
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %d", algorithm)
	}
}

// Member is one enrolled signer.
type Member struct {
	PublicKey *PublicKey
	Binding   *IdentityBinding // nil when the deployment does not bind validator identities
}

// SignerSet is the enrollment registry for a signing group. Keys only enter
// the set with a valid proof of possession, which closes the rogue-key attack
// on aggregated public keys.
type SignerSet struct {
	curve     Curve
	algorithm HashAlgorithm
	audit     AuditEventHandler
	members   []Member
	index     map[string]int
}

// SignerSetOption customizes a SignerSet.
type SignerSetOption func(*SignerSet)

// WithSignerSetHash selects the hash used to verify enrollment proofs.
func WithSignerSetHash(algorithm HashAlgorithm) SignerSetOption {
	return func(s *SignerSet) { s.algorithm = algorithm }
}

// WithSignerSetAudit wires an observer for enrollment events.
func WithSignerSetAudit(handler AuditEventHandler) SignerSetOption {
	return func(s *SignerSet) { s.audit = handler }
}

// NewSignerSet creates an empty enrollment registry.
func NewSignerSet(curve Curve, opts ...SignerSetOption) *SignerSet {
	s := &SignerSet{
		curve:     curve,
		algorithm: DefaultHashAlgorithm,
		index:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enroll admits a public key after verifying its proof of possession.
// Returns the member's index in the set.
func (s *SignerSet) Enroll(publicKey *PublicKey, proof *PossessionProof) (int, error) {
	if !publicKey.Initialized() {
		return 0, ErrNotInitialized
	}
	if len(s.members) >= MaxSigners {
		return 0, fmt.Errorf("signer set full: maximum %d members", MaxSigners)
	}
	key := string(publicKey.Point().Bytes())
	if prev, ok := s.index[key]; ok {
		emitAudit(s.audit, newAuditEvent(AuditEventEnrollmentRejected, prev, "duplicate public key"))
		return 0, ErrDuplicateEnrollment.WithContext("member", prev)
	}
	if !proof.VerifyWithHash(s.curve, publicKey, s.algorithm) {
		emitAudit(s.audit, newAuditEvent(AuditEventEnrollmentRejected, -1, "possession proof failed"))
		return 0, ErrPossessionProofInvalid
	}

	clone, err := publicKey.Clone()
	if err != nil {
		return 0, err
	}
	idx := len(s.members)
	s.members = append(s.members, Member{PublicKey: clone})
	s.index[key] = idx
	emitAudit(s.audit, newAuditEvent(AuditEventSignerEnrolled, idx, "signer enrolled"))
	return idx, nil
}

// EnrollValidator admits a public key with both a proof of possession and a
// validator identity binding.
func (s *SignerSet) EnrollValidator(publicKey *PublicKey, proof *PossessionProof, binding *IdentityBinding) (int, error) {
	if binding == nil {
		return 0, fmt.Errorf("identity binding cannot be nil")
	}
	if !binding.VerifyWithHash(s.curve, publicKey, s.algorithm) {
		emitAudit(s.audit, newAuditEvent(AuditEventEnrollmentRejected, -1, "identity binding failed"))
		return 0, ErrIdentityBindingInvalid
	}
	idx, err := s.Enroll(publicKey, proof)
	if err != nil {
		return 0, err
	}
	s.members[idx].Binding = binding
	return idx, nil
}

// Len returns the number of enrolled members.
func (s *SignerSet) Len() int { return len(s.members) }

// Member returns the member at index i.
func (s *SignerSet) Member(i int) (Member, error) {
	if i < 0 || i >= len(s.members) {
		return Member{}, ErrUnknownSigner.WithContext("signer", i)
	}
	return s.members[i], nil
}

// PublicKeys returns the members' public keys in enrollment order, the shape
// NewAggregatorSession expects.
func (s *SignerSet) PublicKeys() []*PublicKey {
	out := make([]*PublicKey, len(s.members))
	for i, m := range s.members {
		out[i] = m.PublicKey
	}
	return out
}

// AggregatedPubKey returns the sum of all enrolled keys.
func (s *SignerSet) AggregatedPubKey() (*PublicKey, error) {
	return AggregatePubKeys(s.curve, s.PublicKeys())
}
