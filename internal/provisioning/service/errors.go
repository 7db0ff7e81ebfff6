// Package service implements the provisioning workflows on top of the store:
// quota accounting, invitation lifecycle, admin self-requests, first-user
// bootstrap and credential sessions. Services hold no state beyond their
// dependencies and are safe for concurrent use.
package service

import "errors"

// Shared sentinels. Workflow-specific errors live next to their service.
var (
	ErrValidation       = errors.New("invalid request")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrQuotaExceeded means the business has no free seat for the requested
	// role. The check-and-increment happens in the store, so this is
	// authoritative even under concurrent signups.
	ErrQuotaExceeded = errors.New("quota exceeded")
)
