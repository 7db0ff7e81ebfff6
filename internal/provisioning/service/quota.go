package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

// QuotaService owns the seat accounting for admins and members. Reservation
// is a single conditional UPDATE in the store, so two concurrent signups
// racing for the last seat cannot both win. Client seats are not metered.
type QuotaService struct {
	Store store.Store

	// GlobalAdminCeiling caps admins per business regardless of the
	// business's own max_admins.
	GlobalAdminCeiling int
}

// Reserve takes one seat for role in the business, against the root store.
func (s *QuotaService) Reserve(ctx context.Context, businessID string, role domain.Role) error {
	return s.ReserveIn(ctx, s.Store, businessID, role)
}

// ReserveIn takes one seat against st, which may be transaction-scoped.
// Pass the Tx when the seat must commit or roll back with other writes.
func (s *QuotaService) ReserveIn(ctx context.Context, st store.Store, businessID string, role domain.Role) error {
	log := slogx.FromContext(ctx)

	var err error
	switch role {
	case domain.RoleAdmin:
		err = st.Businesses().ReserveAdminSlot(ctx, businessID, s.GlobalAdminCeiling)
	case domain.RoleMember:
		err = st.Businesses().ReserveMemberSlot(ctx, businessID)
	case domain.RoleClient:
		return nil
	default:
		return ErrValidation
	}

	switch {
	case errors.Is(err, store.ErrQuotaExceeded):
		log.Warn("quota reservation denied",
			slog.String("business_id", businessID),
			slog.String("role", string(role)),
		)
		return ErrQuotaExceeded
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case err != nil:
		log.Error("quota reservation failed", slog.Any("error", err))
		return err
	}
	return nil
}

// Release returns one seat for role, against the root store.
func (s *QuotaService) Release(ctx context.Context, businessID string, role domain.Role) error {
	return s.ReleaseIn(ctx, s.Store, businessID, role)
}

// ReleaseIn returns one seat against st. The store floors counters at zero,
// so a spurious release cannot drive a counter negative.
func (s *QuotaService) ReleaseIn(ctx context.Context, st store.Store, businessID string, role domain.Role) error {
	switch role {
	case domain.RoleAdmin:
		return st.Businesses().ReleaseAdminSlot(ctx, businessID)
	case domain.RoleMember:
		return st.Businesses().ReleaseMemberSlot(ctx, businessID)
	case domain.RoleClient:
		return nil
	default:
		return ErrValidation
	}
}

// Available reports whether the business currently has a free seat for role.
// This is a point-in-time read for UX pre-checks; the reservation itself is
// the only authoritative gate.
func (s *QuotaService) Available(ctx context.Context, businessID string, role domain.Role) (bool, error) {
	b, err := s.Store.Businesses().GetBusinessByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	switch role {
	case domain.RoleAdmin:
		return b.CurrentAdmins < min(b.MaxAdmins, s.GlobalAdminCeiling), nil
	case domain.RoleMember:
		return b.CurrentMembers < b.MaxMembers, nil
	case domain.RoleClient:
		return true, nil
	default:
		return false, ErrValidation
	}
}

// Snapshot returns the quota counters for a business, with the global admin
// ceiling folded into EffectiveMaxAdmins.
func (s *QuotaService) Snapshot(ctx context.Context, businessID string) (domain.QuotaSnapshot, error) {
	b, err := s.Store.Businesses().GetBusinessByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.QuotaSnapshot{}, ErrNotFound
		}
		return domain.QuotaSnapshot{}, err
	}

	return domain.QuotaSnapshot{
		BusinessID:         b.ID,
		MaxAdmins:          b.MaxAdmins,
		MaxMembers:         b.MaxMembers,
		CurrentAdmins:      b.CurrentAdmins,
		CurrentMembers:     b.CurrentMembers,
		EffectiveMaxAdmins: min(b.MaxAdmins, s.GlobalAdminCeiling),
	}, nil
}

// Recount recomputes the true active admin and member counts from the users
// table. The stored counters must match; a drift indicates a write path that
// skipped counter upkeep.
func (s *QuotaService) Recount(ctx context.Context, businessID string) (admins, members int, err error) {
	admins, err = s.Store.Users().CountActiveByRole(ctx, businessID, domain.RoleAdmin)
	if err != nil {
		return 0, 0, err
	}
	members, err = s.Store.Users().CountActiveByRole(ctx, businessID, domain.RoleMember)
	if err != nil {
		return 0, 0, err
	}
	return admins, members, nil
}
