package multisig

import (
	"fmt"
)

// MaxSigners bounds the size of a signer set. Signing rounds are all-or-nothing
// over the participating set, so very large sets mostly add coordination cost.
const MaxSigners = 1000

// ValidateSignerSet checks that a slice of public keys forms a usable signer
// set: non-empty, within bounds, every key initialized, no duplicates.
func ValidateSignerSet(pubKeys []*PublicKey) error {
	if len(pubKeys) == 0 {
		return ErrEmptyInput
	}
	if len(pubKeys) > MaxSigners {
		return fmt.Errorf("signer set too large: %d exceeds maximum %d", len(pubKeys), MaxSigners)
	}

	seen := make(map[string]int, len(pubKeys))
	for i, pk := range pubKeys {
		if pk == nil || !pk.Initialized() {
			return fmt.Errorf("signer %d: %w", i, ErrNotInitialized)
		}
		key := string(pk.Point().Bytes())
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("signer %d duplicates signer %d", i, prev)
		}
		seen[key] = i
	}
	return nil
}

// QuorumAssessment reports how a signer count relates to common fault models.
type QuorumAssessment struct {
	Signers            int  `json:"signers"`
	ByzantineTolerance int  `json:"byzantine_tolerance"` // faults tolerated under 3f+1
	CrashTolerance     int  `json:"crash_tolerance"`     // faults tolerated under 2f+1
	ByzantineSafe      bool `json:"byzantine_safe"`
	Recommendation     string `json:"recommendation"`
}

// AssessQuorum evaluates a signer count against Byzantine and crash fault
// thresholds. The signature itself requires all participants, so tolerance
// here describes how many members a deployment can lose and still convene a
// fresh round with a reduced set that its consensus layer accepts.
func AssessQuorum(signers int) QuorumAssessment {
	assessment := QuorumAssessment{Signers: signers}
	if signers <= 0 {
		assessment.Recommendation = "signer set is empty"
		return assessment
	}

	assessment.ByzantineTolerance = (signers - 1) / 3
	assessment.CrashTolerance = (signers - 1) / 2
	assessment.ByzantineSafe = assessment.ByzantineTolerance >= 1

	switch {
	case signers < 4:
		assessment.Recommendation = "fewer than 4 signers cannot tolerate any Byzantine fault"
	case assessment.ByzantineTolerance == 1:
		assessment.Recommendation = "tolerates a single Byzantine fault; consider a larger set for production"
	default:
		assessment.Recommendation = fmt.Sprintf("tolerates up to %d Byzantine faults", assessment.ByzantineTolerance)
	}
	return assessment
}

// validateCurveMatch ensures every provided curve name matches the expected
// curve before points or scalars from different sources are combined.
func validateCurveMatch(curve Curve, others ...Curve) error {
	for _, other := range others {
		if other == nil {
			return fmt.Errorf("nil curve")
		}
		if other.Name() != curve.Name() {
			return fmt.Errorf("curve mismatch: %s vs %s", curve.Name(), other.Name())
		}
	}
	return nil
}
