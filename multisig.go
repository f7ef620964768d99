package multisig

// Stateless aggregator operations for the EC-Schnorr multisignature scheme.
// The aggregator combines per-signer values into group-level values and
// finalizes the round into a single compact signature. Pairing of commit,
// public key and response is positional: callers keep one stable
// index-to-signer mapping across all three sequences.

// AggregatePubKeys sums the given public keys via group addition. The input
// order does not affect the result.
func AggregatePubKeys(curve Curve, pubkeys []*PublicKey) (*PublicKey, error) {
	if len(pubkeys) == 0 {
		return nil, ErrEmptyInput
	}

	sum := curve.PointIdentity()
	for _, pk := range pubkeys {
		if !pk.Initialized() {
			return nil, ErrNotInitialized
		}
		sum = sum.Add(pk.Point())
	}
	if sum.IsIdentity() {
		// Keys cancelling to the identity cannot certify anything
		return nil, ErrIdentityPoint
	}

	return &PublicKey{curve: curve, point: sum}, nil
}

// AggregateCommits sums the given commit points via group addition.
func AggregateCommits(curve Curve, commitPoints []*CommitPoint) (*CommitPoint, error) {
	if len(commitPoints) == 0 {
		return nil, ErrEmptyInput
	}

	sum := curve.PointIdentity()
	for _, cp := range commitPoints {
		if !cp.Initialized() {
			return nil, ErrNotInitialized
		}
		sum = sum.Add(cp.Point())
	}
	if sum.IsIdentity() {
		return nil, ErrIdentityPoint
	}

	return &CommitPoint{curve: curve, point: sum, initialized: true}, nil
}

// AggregateResponses sums the given response scalars mod the curve order.
// Only responses that passed VerifyResponse should be summed.
func AggregateResponses(curve Curve, responses []*Response) (*Response, error) {
	if len(responses) == 0 {
		return nil, ErrEmptyInput
	}

	sum := curve.ScalarZero()
	for _, r := range responses {
		if !r.Initialized() {
			return nil, ErrNotInitialized
		}
		sum = sum.Add(r.Scalar())
	}

	return &Response{curve: curve, value: sum, initialized: true}, nil
}

// AggregateSign packages the challenge and the aggregated response as the
// final signature. It performs no algebraic check of its own: the caller is
// responsible for having verified every response that went into the sum.
func AggregateSign(challenge *Challenge, aggregatedResponse *Response) (*Signature, error) {
	if !challenge.Initialized() || !aggregatedResponse.Initialized() {
		return nil, ErrNotInitialized
	}

	c, err := challenge.Clone()
	if err != nil {
		return nil, err
	}
	r, err := aggregatedResponse.Clone()
	if err != nil {
		return nil, err
	}

	return &Signature{curve: challenge.curve, challenge: c, response: r}, nil
}

// VerifyResponse checks response·G + challenge·pubkey == commitPoint for a
// single signer. A false return is the expected fraud-detection outcome for
// a faulty or malicious signer, never an exceptional condition: run it
// against every individual response before aggregating so a bad signer can
// be identified and excluded instead of silently corrupting the sum.
func VerifyResponse(response *Response, challenge *Challenge, pubkey *PublicKey, commitPoint *CommitPoint) bool {
	if !response.Initialized() || !challenge.Initialized() {
		return false
	}
	if !pubkey.Initialized() || !commitPoint.Initialized() {
		return false
	}

	curve := response.curve
	left := curve.BasePoint().Mul(response.Scalar()).
		Add(pubkey.Point().Mul(challenge.Scalar()))

	return left.Equal(commitPoint.Point())
}

// Signature is the final multisignature output: the session challenge and
// the aggregated response. It verifies against the aggregated public key of
// the same signer set that produced it.
type Signature struct {
	curve     Curve
	challenge *Challenge
	response  *Response
}

// NewSignatureFromBytes decodes a signature (challenge then response, fixed
// width each) from src at offset.
func NewSignatureFromBytes(curve Curve, src []byte, offset int) (*Signature, error) {
	challenge, err := NewChallengeFromBytes(curve, src, offset)
	if err != nil {
		return nil, err
	}
	response, err := NewResponseFromBytes(curve, src, offset+curve.ScalarSize())
	if err != nil {
		return nil, err
	}
	return &Signature{curve: curve, challenge: challenge, response: response}, nil
}

// Challenge returns the signature's challenge component.
func (sig *Signature) Challenge() *Challenge { return sig.challenge }

// Response returns the signature's aggregated response component.
func (sig *Signature) Response() *Response { return sig.response }

// Serialize writes challenge then response at offset.
func (sig *Signature) Serialize(dst []byte, offset int) ([]byte, int, error) {
	dst, next, err := sig.challenge.Serialize(dst, offset)
	if err != nil {
		return dst, offset, err
	}
	return sig.response.Serialize(dst, next)
}

// Verify checks the signature against the aggregated public key with the
// default hash algorithm.
func (sig *Signature) Verify(message []byte, aggregatedPubKey *PublicKey) bool {
	return sig.VerifyWithHash(message, aggregatedPubKey, DefaultHashAlgorithm)
}

// VerifyWithHash reconstructs the aggregated commitment
// Q = response·G + challenge·aggPubKey and accepts iff hashing Q with the
// aggregated public key and the message reproduces the challenge.
func (sig *Signature) VerifyWithHash(message []byte, aggregatedPubKey *PublicKey, algorithm HashAlgorithm) bool {
	if sig == nil || !sig.challenge.Initialized() || !sig.response.Initialized() {
		return false
	}
	if !aggregatedPubKey.Initialized() {
		return false
	}

	curve := sig.curve
	reconstructed := curve.BasePoint().Mul(sig.response.Scalar()).
		Add(aggregatedPubKey.Point().Mul(sig.challenge.Scalar()))
	if reconstructed.IsIdentity() {
		return false
	}

	expected, err := challengeHash(curve, algorithm,
		reconstructed.Bytes(),
		aggregatedPubKey.Point().Bytes(),
		message)
	if err != nil {
		return false
	}

	return expected.Equal(sig.challenge.Scalar())
}
