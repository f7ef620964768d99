package multisig

import (
	"fmt"
	"sort"
)

// SignerState tracks a signer's progress through one signing round.
type SignerState int

const (
	SignerStateNoSecret SignerState = iota
	SignerStateSecretGenerated
	SignerStateCommitPublished
	SignerStateChallengeReceived
	SignerStateResponseSent
)

func (s SignerState) String() string {
	switch s {
	case SignerStateNoSecret:
		return "no_secret"
	case SignerStateSecretGenerated:
		return "secret_generated"
	case SignerStateCommitPublished:
		return "commit_published"
	case SignerStateChallengeReceived:
		return "challenge_received"
	case SignerStateResponseSent:
		return "response_sent"
	default:
		return "unknown"
	}
}

// SignerSession drives one signer through a signing round: draw a commit
// secret, publish the commit point, accept the aggregator's challenge, emit
// the response. The commit secret is wiped as soon as the response exists, so
// a session cannot respond twice.
type SignerSession struct {
	curve      Curve
	privateKey *PrivateKey
	state      SignerState

	secret    *CommitSecret
	commit    *CommitPoint
	challenge *Challenge
}

// NewSignerSession creates a session for one round. The private key is
// borrowed, not owned: the caller remains responsible for zeroizing it.
func NewSignerSession(curve Curve, privateKey *PrivateKey) (*SignerSession, error) {
	if privateKey == nil || privateKey.Scalar() == nil {
		return nil, ErrNotInitialized
	}
	return &SignerSession{
		curve:      curve,
		privateKey: privateKey,
		state:      SignerStateNoSecret,
	}, nil
}

// State returns the session's current position in the round.
func (s *SignerSession) State() SignerState { return s.state }

// GenerateSecret draws a fresh commit secret for this round.
func (s *SignerSession) GenerateSecret() error {
	if s.state != SignerStateNoSecret {
		return ErrSessionOrder.WithContext("state", s.state.String()).
			WithContext("operation", "generate_secret")
	}
	secret, err := GenerateCommitSecret(s.curve)
	if err != nil {
		return err
	}
	s.secret = secret
	s.state = SignerStateSecretGenerated
	return nil
}

// UseDerivedSecret installs a deterministically derived commit secret instead
// of a random one. See DeriveCommitSecret.
func (s *SignerSession) UseDerivedSecret(secret *CommitSecret) error {
	if s.state != SignerStateNoSecret {
		return ErrSessionOrder.WithContext("state", s.state.String()).
			WithContext("operation", "use_derived_secret")
	}
	if !secret.Initialized() {
		return ErrNotInitialized
	}
	s.secret = secret
	s.state = SignerStateSecretGenerated
	return nil
}

// Commit computes and returns the commit point for the round's secret.
func (s *SignerSession) Commit() (*CommitPoint, error) {
	if s.state != SignerStateSecretGenerated {
		return nil, ErrSessionOrder.WithContext("state", s.state.String()).
			WithContext("operation", "commit")
	}
	commit, err := CommitPointFromSecret(s.secret)
	if err != nil {
		return nil, err
	}
	s.commit = commit
	s.state = SignerStateCommitPublished
	out, err := commit.Clone()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReceiveChallenge accepts the aggregator's challenge for this round.
func (s *SignerSession) ReceiveChallenge(challenge *Challenge) error {
	if s.state != SignerStateCommitPublished {
		return ErrSessionOrder.WithContext("state", s.state.String()).
			WithContext("operation", "receive_challenge")
	}
	if !challenge.Initialized() {
		return ErrNotInitialized
	}
	clone, err := challenge.Clone()
	if err != nil {
		return err
	}
	s.challenge = clone
	s.state = SignerStateChallengeReceived
	return nil
}

// Respond computes the response r = k - c*x and destroys the commit secret.
// A session can respond exactly once.
func (s *SignerSession) Respond() (*Response, error) {
	if s.state != SignerStateChallengeReceived {
		return nil, ErrSessionOrder.WithContext("state", s.state.String()).
			WithContext("operation", "respond")
	}
	response, err := NewResponse(s.secret, s.challenge, s.privateKey)
	if err != nil {
		return nil, err
	}
	s.secret.Zeroize()
	s.secret = nil
	s.state = SignerStateResponseSent
	return response, nil
}

// AggregatorState tracks the aggregator's progress through a round.
type AggregatorState int

const (
	AggregatorStateCollectingCommits AggregatorState = iota
	AggregatorStateCommitsAggregated
	AggregatorStateChallengeComputed
	AggregatorStateCollectingResponses
	AggregatorStateResponsesVerified
	AggregatorStateFinalized
)

func (s AggregatorState) String() string {
	switch s {
	case AggregatorStateCollectingCommits:
		return "collecting_commits"
	case AggregatorStateCommitsAggregated:
		return "commits_aggregated"
	case AggregatorStateChallengeComputed:
		return "challenge_computed"
	case AggregatorStateCollectingResponses:
		return "collecting_responses"
	case AggregatorStateResponsesVerified:
		return "responses_verified"
	case AggregatorStateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// AggregatorSession coordinates one signing round across a fixed signer set.
// Signers are addressed by their index into the set given at construction.
// Each response is checked against its signer's commit before it is accepted,
// so a misbehaving signer is identified the moment it responds.
type AggregatorSession struct {
	curve     Curve
	pubKeys   []*PublicKey
	message   []byte
	algorithm HashAlgorithm
	audit     AuditEventHandler
	state     AggregatorState

	commits   map[int]*CommitPoint
	responses map[int]*Response
	invalid   map[int]bool

	aggregatedPubKey *PublicKey
	aggregatedCommit *CommitPoint
	challenge        *Challenge
}

// AggregatorOption customizes an AggregatorSession.
type AggregatorOption func(*AggregatorSession)

// WithHashAlgorithm selects the challenge hash for the round.
func WithHashAlgorithm(algorithm HashAlgorithm) AggregatorOption {
	return func(a *AggregatorSession) { a.algorithm = algorithm }
}

// WithAuditHandler wires an observer for round lifecycle events.
func WithAuditHandler(handler AuditEventHandler) AggregatorOption {
	return func(a *AggregatorSession) { a.audit = handler }
}

// NewAggregatorSession starts a round over the given signer set and message.
// The set is validated up front; the aggregated public key is fixed for the
// lifetime of the round.
func NewAggregatorSession(curve Curve, pubKeys []*PublicKey, message []byte, opts ...AggregatorOption) (*AggregatorSession, error) {
	if err := ValidateSignerSet(pubKeys); err != nil {
		return nil, err
	}
	if len(message) == 0 {
		return nil, ErrEmptyInput
	}

	aggregatedPubKey, err := AggregatePubKeys(curve, pubKeys)
	if err != nil {
		return nil, err
	}

	session := &AggregatorSession{
		curve:            curve,
		pubKeys:          pubKeys,
		message:          append([]byte(nil), message...),
		algorithm:        DefaultHashAlgorithm,
		state:            AggregatorStateCollectingCommits,
		commits:          make(map[int]*CommitPoint),
		responses:        make(map[int]*Response),
		invalid:          make(map[int]bool),
		aggregatedPubKey: aggregatedPubKey,
	}
	for _, opt := range opts {
		opt(session)
	}

	emitAudit(session.audit, newAuditEvent(AuditEventRoundStarted, -1, "signing round started").
		WithDetail("signers", len(pubKeys)).
		WithDetail("curve", curve.Name()))
	return session, nil
}

// State returns the session's current position in the round.
func (a *AggregatorSession) State() AggregatorState { return a.state }

// AggregatedPubKey returns the sum of the signer set's public keys.
func (a *AggregatorSession) AggregatedPubKey() *PublicKey { return a.aggregatedPubKey }

// AddCommit records signer i's commit point. Every signer in the set must
// commit before the round can advance.
func (a *AggregatorSession) AddCommit(signer int, commit *CommitPoint) error {
	if a.state != AggregatorStateCollectingCommits {
		return ErrSessionOrder.WithContext("state", a.state.String()).
			WithContext("operation", "add_commit")
	}
	if signer < 0 || signer >= len(a.pubKeys) {
		return ErrUnknownSigner.WithContext("signer", signer)
	}
	if _, ok := a.commits[signer]; ok {
		return ErrDuplicateSigner.WithContext("signer", signer)
	}
	if !commit.Initialized() {
		emitAudit(a.audit, newAuditEvent(AuditEventCommitRejected, signer, "uninitialized commit point"))
		return ErrNotInitialized
	}
	clone, err := commit.Clone()
	if err != nil {
		return err
	}
	a.commits[signer] = clone
	emitAudit(a.audit, newAuditEvent(AuditEventCommitAccepted, signer, "commit point recorded"))
	return nil
}

// AggregateCommits sums all recorded commit points. Errors if any signer has
// not committed yet.
func (a *AggregatorSession) AggregateCommits() (*CommitPoint, error) {
	if a.state != AggregatorStateCollectingCommits {
		return nil, ErrSessionOrder.WithContext("state", a.state.String()).
			WithContext("operation", "aggregate_commits")
	}
	if len(a.commits) != len(a.pubKeys) {
		return nil, ErrRoundIncomplete.
			WithContext("have", len(a.commits)).
			WithContext("want", len(a.pubKeys))
	}

	ordered := make([]*CommitPoint, len(a.pubKeys))
	for i := range a.pubKeys {
		ordered[i] = a.commits[i]
	}
	aggregated, err := AggregateCommits(a.curve, ordered)
	if err != nil {
		return nil, err
	}
	a.aggregatedCommit = aggregated
	a.state = AggregatorStateCommitsAggregated
	emitAudit(a.audit, newAuditEvent(AuditEventCommitsAggregated, -1, "commit points aggregated"))
	return aggregated.Clone()
}

// ComputeChallenge derives the round's challenge from the aggregated commit,
// the aggregated public key, and the message.
func (a *AggregatorSession) ComputeChallenge() (*Challenge, error) {
	if a.state != AggregatorStateCommitsAggregated {
		return nil, ErrSessionOrder.WithContext("state", a.state.String()).
			WithContext("operation", "compute_challenge")
	}
	challenge := &Challenge{curve: a.curve}
	if err := challenge.SetWithHash(a.aggregatedCommit, a.aggregatedPubKey, a.message, a.algorithm); err != nil {
		return nil, err
	}
	a.challenge = challenge
	a.state = AggregatorStateChallengeComputed
	emitAudit(a.audit, newAuditEvent(AuditEventChallengeComputed, -1, "challenge computed"))
	return challenge.Clone()
}

// AddResponse records signer i's response after checking it against that
// signer's commit. Returns false when the response fails verification; the
// signer is then marked invalid and the error identifies it.
func (a *AggregatorSession) AddResponse(signer int, response *Response) (bool, error) {
	if a.state != AggregatorStateChallengeComputed && a.state != AggregatorStateCollectingResponses {
		return false, ErrSessionOrder.WithContext("state", a.state.String()).
			WithContext("operation", "add_response")
	}
	if signer < 0 || signer >= len(a.pubKeys) {
		return false, ErrUnknownSigner.WithContext("signer", signer)
	}
	if _, ok := a.responses[signer]; ok {
		return false, ErrDuplicateSigner.WithContext("signer", signer)
	}
	if !response.Initialized() {
		return false, ErrNotInitialized
	}

	if !VerifyResponse(response, a.challenge, a.pubKeys[signer], a.commits[signer]) {
		a.invalid[signer] = true
		emitAudit(a.audit, newAuditEvent(AuditEventResponseRejected, signer, "response failed verification"))
		return false, ErrFaultySigners.WithContext("signer", signer)
	}

	clone, err := response.Clone()
	if err != nil {
		return false, err
	}
	a.responses[signer] = clone
	emitAudit(a.audit, newAuditEvent(AuditEventResponseVerified, signer, "response verified"))

	if len(a.responses) == len(a.pubKeys) {
		a.state = AggregatorStateResponsesVerified
	} else {
		a.state = AggregatorStateCollectingResponses
	}
	return true, nil
}

// InvalidSigners returns the indices of signers whose responses failed
// verification, in ascending order.
func (a *AggregatorSession) InvalidSigners() []int {
	out := make([]int, 0, len(a.invalid))
	for signer := range a.invalid {
		out = append(out, signer)
	}
	sort.Ints(out)
	return out
}

// Finalize aggregates the verified responses into the final signature. The
// challenge binds the full commit set, so a round with any faulty signer
// cannot be salvaged: Finalize errors and the caller must rerun the round
// with the faulty signers excluded.
func (a *AggregatorSession) Finalize() (*Signature, error) {
	if len(a.invalid) > 0 {
		emitAudit(a.audit, newAuditEvent(AuditEventRoundAborted, -1, "round aborted due to faulty signers").
			WithDetail("invalid_signers", a.InvalidSigners()))
		return nil, ErrFaultySigners.WithContext("invalid_signers", a.InvalidSigners())
	}
	if a.state != AggregatorStateResponsesVerified {
		return nil, ErrSessionOrder.WithContext("state", a.state.String()).
			WithContext("operation", "finalize")
	}

	ordered := make([]*Response, len(a.pubKeys))
	for i := range a.pubKeys {
		ordered[i] = a.responses[i]
	}
	aggregatedResponse, err := AggregateResponses(a.curve, ordered)
	if err != nil {
		return nil, err
	}
	signature, err := AggregateSign(a.challenge, aggregatedResponse)
	if err != nil {
		return nil, err
	}

	if !signature.VerifyWithHash(a.message, a.aggregatedPubKey, a.algorithm) {
		return nil, fmt.Errorf("aggregated signature failed self-verification")
	}

	a.state = AggregatorStateFinalized
	emitAudit(a.audit, newAuditEvent(AuditEventRoundFinalized, -1, "signature finalized"))
	return signature, nil
}
