package domain

import "time"

// Business is one tenant workspace. The current_* counters are derived
// state: they must equal the true count of active users of that role in the
// business, and every role-mutating write updates them in the same
// transaction.
type Business struct {
	ID             string
	Name           string
	MaxAdmins      int
	MaxMembers     int
	CurrentAdmins  int
	CurrentMembers int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// QuotaSnapshot is the read-only projection served by the member-quotas
// endpoint.
type QuotaSnapshot struct {
	BusinessID     string `json:"business_id"`
	MaxAdmins      int    `json:"max_admins"`
	MaxMembers     int    `json:"max_members"`
	CurrentAdmins  int    `json:"current_admins"`
	CurrentMembers int    `json:"current_members"`
	// EffectiveMaxAdmins folds the global admin ceiling into the
	// per-business limit.
	EffectiveMaxAdmins int `json:"effective_max_admins"`
}
