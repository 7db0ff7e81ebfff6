package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

// UserService covers account administration outside the signup flows.
// Accounts are never hard-deleted; removal is a deactivation that frees the
// seat.
type UserService struct {
	Store store.Store
	Quota *QuotaService
}

// Deactivate flips a user inactive and returns their quota seat in the same
// transaction. The actor must outrank the target per the role matrix and,
// below SuperAdmin, share the target's business. Deactivating an already
// inactive user is a no-op.
func (s *UserService) Deactivate(ctx context.Context, actor domain.User, userID string) error {
	log := slogx.FromContext(ctx)

	if userID == "" {
		return ErrValidation
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Resolve the target inside the transaction.
		target, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		// 2. Authorize: matrix first, then business scope. SuperAdmins are
		// untouchable and reach everywhere; Admins only into their own
		// business.
		if !domain.CanManageRole(actor.Role, target.Role) {
			return ErrPermissionDenied
		}
		if actor.Role != domain.RoleSuperAdmin &&
			(target.BusinessID == nil || !actor.InBusiness(*target.BusinessID)) {
			return ErrPermissionDenied
		}

		if !target.Active {
			return nil
		}

		// 3. Flip the flag and give the seat back atomically; the counters
		// track active users only.
		if err := tx.Users().SetUserActive(ctx, target.ID, false); err != nil {
			return err
		}
		if target.BusinessID != nil {
			return s.Quota.ReleaseIn(ctx, tx, *target.BusinessID, target.Role)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("user deactivated",
		slog.String("user_id", userID),
		slog.String("actor_id", actor.ID),
	)
	return nil
}
