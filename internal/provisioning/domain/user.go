package domain

import "time"

// User is a provisioned account. Users are never hard-deleted; deactivation
// flips Active and releases the quota slot for their role.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string // argon2id PHC string
	Role         Role
	BusinessID   *string // nil only for SuperAdmin
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InBusiness reports whether the user belongs to businessID.
func (u User) InBusiness(businessID string) bool {
	return u.BusinessID != nil && *u.BusinessID == businessID
}
