package multisig

import (
	"fmt"
)

// ErrorCategory represents the category of multisig error
type ErrorCategory string

const (
	ErrorCategorySerialization ErrorCategory = "serialization"
	ErrorCategoryCommitment    ErrorCategory = "commitment"
	ErrorCategoryChallenge     ErrorCategory = "challenge"
	ErrorCategoryResponse      ErrorCategory = "response"
	ErrorCategoryAggregation   ErrorCategory = "aggregation"
	ErrorCategoryEnrollment    ErrorCategory = "enrollment"
	ErrorCategorySession       ErrorCategory = "session"
	ErrorCategoryCryptographic ErrorCategory = "cryptographic"
	ErrorCategoryInternal      ErrorCategory = "internal"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	ErrorSeverityLow      ErrorSeverity = "low"      // Non-critical, operation can continue
	ErrorSeverityMedium   ErrorSeverity = "medium"   // Important, may affect functionality
	ErrorSeverityHigh     ErrorSeverity = "high"     // Critical, operation should stop
	ErrorSeverityCritical ErrorSeverity = "critical" // System-level failure
)

// MultiSigError represents a structured error in the multisig library
type MultiSigError struct {
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Cause       error                  `json:"-"` // Original error, not serialized
	Context     map[string]interface{} `json:"context,omitempty"`
	Recoverable bool                   `json:"recoverable"`
}

// Error implements the error interface
func (e *MultiSigError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *MultiSigError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *MultiSigError) WithContext(key string, value interface{}) *MultiSigError {
	// Create a copy to avoid race conditions
	newError := &MultiSigError{
		Category:    e.Category,
		Severity:    e.Severity,
		Code:        e.Code,
		Message:     e.Message,
		Recoverable: e.Recoverable,
		Cause:       e.Cause,
		Context:     make(map[string]interface{}),
	}

	for k, v := range e.Context {
		newError.Context[k] = v
	}
	newError.Context[key] = value
	return newError
}

// WithCause sets the underlying cause of the error
func (e *MultiSigError) WithCause(cause error) *MultiSigError {
	newError := &MultiSigError{
		Category:    e.Category,
		Severity:    e.Severity,
		Code:        e.Code,
		Message:     e.Message,
		Recoverable: e.Recoverable,
		Cause:       cause,
		Context:     make(map[string]interface{}),
	}

	for k, v := range e.Context {
		newError.Context[k] = v
	}
	return newError
}

// IsRecoverable returns whether the error is recoverable
func (e *MultiSigError) IsRecoverable() bool {
	return e.Recoverable
}

// NewMultiSigError creates a new multisig error
func NewMultiSigError(category ErrorCategory, severity ErrorSeverity, code, message string) *MultiSigError {
	return &MultiSigError{
		Category:    category,
		Severity:    severity,
		Code:        code,
		Message:     message,
		Context:     make(map[string]interface{}),
		Recoverable: severity != ErrorSeverityCritical,
	}
}

// Serialization errors
var (
	ErrDecodeFailed = NewMultiSigError(
		ErrorCategorySerialization, ErrorSeverityMedium, "DECODE_FAILED",
		"failed to decode value from byte stream")
)

// Session errors
var (
	ErrSessionOrder = NewMultiSigError(
		ErrorCategorySession, ErrorSeverityHigh, "SESSION_ORDER",
		"operation attempted out of protocol order")

	ErrDuplicateSigner = NewMultiSigError(
		ErrorCategorySession, ErrorSeverityMedium, "DUPLICATE_SIGNER",
		"signer already contributed in this round")

	ErrUnknownSigner = NewMultiSigError(
		ErrorCategorySession, ErrorSeverityMedium, "UNKNOWN_SIGNER",
		"signer index not in this round's signer set")

	ErrRoundIncomplete = NewMultiSigError(
		ErrorCategorySession, ErrorSeverityMedium, "ROUND_INCOMPLETE",
		"round is missing contributions from one or more signers")

	ErrFaultySigners = NewMultiSigError(
		ErrorCategorySession, ErrorSeverityHigh, "FAULTY_SIGNERS",
		"one or more responses failed verification; rerun the round without them")
)

// Enrollment errors
var (
	ErrPossessionProofInvalid = NewMultiSigError(
		ErrorCategoryEnrollment, ErrorSeverityHigh, "POSSESSION_PROOF_INVALID",
		"proof of possession does not verify against the public key")

	ErrDuplicateEnrollment = NewMultiSigError(
		ErrorCategoryEnrollment, ErrorSeverityMedium, "DUPLICATE_ENROLLMENT",
		"public key is already enrolled in the signer set")

	ErrIdentityBindingInvalid = NewMultiSigError(
		ErrorCategoryEnrollment, ErrorSeverityHigh, "IDENTITY_BINDING_INVALID",
		"validator identity binding failed verification")
)

// Cryptographic errors
var (
	ErrRandomnessGeneration = NewMultiSigError(
		ErrorCategoryCryptographic, ErrorSeverityCritical, "RANDOMNESS_GENERATION_FAILED",
		"failed to generate secure randomness")

	ErrHashComputation = NewMultiSigError(
		ErrorCategoryCryptographic, ErrorSeverityHigh, "HASH_COMPUTATION_FAILED",
		"hash computation failed")
)

// WrapError wraps an existing error with multisig error context
func WrapError(err error, category ErrorCategory, severity ErrorSeverity, code, message string) *MultiSigError {
	return NewMultiSigError(category, severity, code, message).WithCause(err)
}

// IsErrorCategory checks if an error belongs to a specific category
func IsErrorCategory(err error, category ErrorCategory) bool {
	if msErr, ok := err.(*MultiSigError); ok {
		return msErr.Category == category
	}
	return false
}

// IsRecoverableError checks if an error is recoverable
func IsRecoverableError(err error) bool {
	if msErr, ok := err.(*MultiSigError); ok {
		return msErr.IsRecoverable()
	}
	return true // Non-multisig errors are assumed recoverable
}
