package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered investor.
// PasswordHash is persisted with the ledger document. Investor responses go through dto.UserOutput.
type User struct {
	ID           uuid.UUID  `json:"id"`
	PublicID     string     `json:"publicId"` // 5-digit display id
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	ReferralCode string     `json:"referralCode"`
	ReferredBy   *uuid.UUID `json:"referredBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// PublicID bounds
const (
	PublicIDMin = 10000
	PublicIDMax = 99999
)
