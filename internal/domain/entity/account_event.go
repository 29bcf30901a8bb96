package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountEventType names a lifecycle change of an account.
type AccountEventType string

const (
	AccountEventRegistered        AccountEventType = "account.registered"
	AccountEventDeleted           AccountEventType = "account.deleted"
	AccountEventBiometricEnrolled AccountEventType = "account.biometric_enrolled"
)

// AccountEvent is emitted after a committed change to an account.
// It carries the external identifier only; internal ids stay inside the service.
// ID is unique per event so consumers can drop redeliveries.
type AccountEvent struct {
	ID         uuid.UUID        `json:"id"`
	Type       AccountEventType `json:"type"`
	ExternalID uuid.UUID        `json:"external_id"`
	RequestID  string           `json:"request_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewAccountEvent stamps a fresh event of type t for the account identified by externalID.
func NewAccountEvent(t AccountEventType, externalID uuid.UUID, requestID string, now time.Time) *AccountEvent {
	return &AccountEvent{
		ID:         uuid.New(),
		Type:       t,
		ExternalID: externalID,
		RequestID:  requestID,
		OccurredAt: now.UTC(),
	}
}
