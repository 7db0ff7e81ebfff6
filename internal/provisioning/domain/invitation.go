package domain

import "time"

// InvitationStatus is the lifecycle state of an invitation. Pending is the
// only non-terminal state; an invitation transitions out of it exactly once.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// Terminal reports whether no further transition is legal from s.
func (s InvitationStatus) Terminal() bool {
	return s == InvitationAccepted || s == InvitationExpired || s == InvitationRevoked
}

// Invitation binds an email address to a role and business via a single-use,
// time-limited token. Only the SHA-256 fingerprint of the token is stored;
// the raw token exists solely in the creation response and the dispatched
// notification.
type Invitation struct {
	ID         string
	Email      string
	Role       Role // Admin, Member or Client; never SuperAdmin
	BusinessID string
	TokenHash  string
	Status     InvitationStatus
	ExpiresAt  time.Time
	InvitedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ExpiredAt reports whether the invitation's window has passed at now.
// Expiry is evaluated lazily at read time; the stored status may still say
// Pending.
func (i Invitation) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
