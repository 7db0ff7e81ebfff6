package domain

import "time"

// AdminRequestStatus is the lifecycle state of a self-service admin request.
type AdminRequestStatus string

const (
	AdminRequestPending  AdminRequestStatus = "pending"
	AdminRequestApproved AdminRequestStatus = "approved"
	AdminRequestRejected AdminRequestStatus = "rejected"
)

// Terminal reports whether no further transition is legal from s.
func (s AdminRequestStatus) Terminal() bool {
	return s == AdminRequestApproved || s == AdminRequestRejected
}

// AdminRequest is a self-service request for the Admin role, resolved by a
// human decision rather than an invitation. ProcessedAt and ProcessedBy are
// set together, exactly once, alongside the terminal status.
type AdminRequest struct {
	ID          string
	Name        string
	Email       string
	Status      AdminRequestStatus
	Reason      string // verbatim reviewer note, typically on rejection
	RequestedAt time.Time
	ProcessedAt *time.Time
	ProcessedBy *string
}
