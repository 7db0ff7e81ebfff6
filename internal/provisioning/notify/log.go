package notify

import (
	"context"
	"log/slog"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

// LogDispatcher writes events to the contextual logger. The raw invitation
// token is only emitted at debug level so production logs never carry a
// usable credential.
type LogDispatcher struct{}

var _ Dispatcher = LogDispatcher{}

func (LogDispatcher) InvitationIssued(ctx context.Context, inv domain.Invitation, token string) {
	log := slogx.FromContext(ctx)

	log.Info("invitation issued",
		slog.String("invitation_id", inv.ID),
		slog.String("email", inv.Email),
		slog.String("role", string(inv.Role)),
		slog.String("business_id", inv.BusinessID),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	log.Debug("invitation token", slog.String("invitation_id", inv.ID), slog.String("token", token))
}

func (LogDispatcher) AdminRequestResolved(ctx context.Context, req domain.AdminRequest) {
	slogx.FromContext(ctx).Info("admin request resolved",
		slog.String("request_id", req.ID),
		slog.String("email", req.Email),
		slog.String("status", string(req.Status)),
	)
}
