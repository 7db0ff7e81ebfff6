// Package notify dispatches provisioning events that need to reach a human:
// invitation tokens and admin request outcomes. Delivery transport is
// pluggable; the default writes structured log records so a mail relay can
// be swapped in without touching the services.
package notify

import (
	"context"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
)

// Dispatcher receives provisioning events. Implementations must not block
// the calling request for long; failures are logged, never surfaced to the
// user who triggered the event.
type Dispatcher interface {
	// InvitationIssued fires when an invitation is created or resent. token
	// is the raw single-use token that must reach the invitee.
	InvitationIssued(ctx context.Context, inv domain.Invitation, token string)

	// AdminRequestResolved fires when a pending admin request reaches a
	// terminal status.
	AdminRequestResolved(ctx context.Context, req domain.AdminRequest)
}
