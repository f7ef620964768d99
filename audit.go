package multisig

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// AuditEventType identifies a point in the signing round lifecycle.
type AuditEventType string

const (
	AuditEventRoundStarted       AuditEventType = "round_started"
	AuditEventCommitAccepted     AuditEventType = "commit_accepted"
	AuditEventCommitRejected     AuditEventType = "commit_rejected"
	AuditEventCommitsAggregated  AuditEventType = "commits_aggregated"
	AuditEventChallengeComputed  AuditEventType = "challenge_computed"
	AuditEventResponseVerified   AuditEventType = "response_verified"
	AuditEventResponseRejected   AuditEventType = "response_rejected"
	AuditEventRoundFinalized     AuditEventType = "round_finalized"
	AuditEventRoundAborted       AuditEventType = "round_aborted"
	AuditEventSignerEnrolled     AuditEventType = "signer_enrolled"
	AuditEventEnrollmentRejected AuditEventType = "enrollment_rejected"
)

// AuditEvent records one step of a signing round for external observers.
type AuditEvent struct {
	ID          string                 `json:"id"`
	Type        AuditEventType         `json:"type"`
	Timestamp   time.Time              `json:"timestamp"`
	SignerIndex int                    `json:"signer_index,omitempty"` // -1 when not signer-specific
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// AuditEventHandler receives round lifecycle events. Implementations must be
// safe for concurrent use and must not block.
type AuditEventHandler interface {
	HandleAuditEvent(event AuditEvent)
}

// NullAuditHandler discards all events.
type NullAuditHandler struct{}

func (NullAuditHandler) HandleAuditEvent(AuditEvent) {}

// generateEventID returns a unique identifier for an audit event.
func generateEventID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fall back to a timestamp-only ID rather than failing the round.
		return fmt.Sprintf("evt-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("evt-%d-%s", time.Now().UnixNano(), hex.EncodeToString(buf[:]))
}

// newAuditEvent builds an event with a fresh ID and timestamp.
func newAuditEvent(eventType AuditEventType, signerIndex int, message string) AuditEvent {
	return AuditEvent{
		ID:          generateEventID(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		SignerIndex: signerIndex,
		Message:     message,
		Details:     make(map[string]interface{}),
	}
}

// WithDetail attaches a key/value pair to the event and returns it.
func (e AuditEvent) WithDetail(key string, value interface{}) AuditEvent {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// emitAudit sends an event to the handler if one is configured.
func emitAudit(handler AuditEventHandler, event AuditEvent) {
	if handler != nil {
		handler.HandleAuditEvent(event)
	}
}
