package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/notify"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/cryptox"
	"github.com/crewdeskhq/crewdesk/pkg/idx"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

var (
	ErrInvalidInvitation         = errors.New("invitation not found or revoked")
	ErrInvitationExpired         = errors.New("invitation expired")
	ErrInvitationAlreadyConsumed = errors.New("invitation already consumed")
	ErrEmailTaken                = errors.New("email already registered")
)

// InvitationService owns the invitation lifecycle: minting, validation,
// acceptance, resend and revocation. Tokens are single-use and only their
// SHA-256 fingerprint is persisted; the raw token travels once through the
// creation response and the notification dispatch.
type InvitationService struct {
	Store  store.Store
	Quota  *QuotaService
	Notify notify.Dispatcher

	// Window is how long a freshly minted or resent token stays valid.
	Window time.Duration
}

// Create mints a new invitation on behalf of actor.
func (s *InvitationService) Create(
	ctx context.Context,
	actor domain.User,
	email string,
	role domain.Role,
	businessID string,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input. SuperAdmin is never provisioned by invitation.
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || businessID == "" || !role.Valid() || role == domain.RoleSuperAdmin {
		return domain.Invitation{}, "", ErrValidation
	}

	// 2. Authorize: role matrix first, then business scope. A SuperAdmin
	// invites into any business; an Admin only into their own.
	if !domain.CanSendInvite(actor.Role, role) {
		log.Warn("invitation denied by role matrix",
			slog.String("actor_role", string(actor.Role)),
			slog.String("invite_role", string(role)),
		)
		return domain.Invitation{}, "", ErrPermissionDenied
	}
	if actor.Role != domain.RoleSuperAdmin && !actor.InBusiness(businessID) {
		return domain.Invitation{}, "", ErrPermissionDenied
	}

	// 3. Pre-check seat availability. Non-binding: the authoritative gate is
	// the reservation at acceptance, this just fails the obvious case early.
	if ok, err := s.Quota.Available(ctx, businessID, role); err != nil {
		return domain.Invitation{}, "", err
	} else if !ok {
		return domain.Invitation{}, "", ErrQuotaExceeded
	}

	// 4. Mint and fingerprint the token.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	now := time.Now()
	inv := domain.Invitation{
		ID:         idx.New().String(),
		Email:      email,
		Role:       role,
		BusinessID: businessID,
		TokenHash:  cryptox.FingerprintToken(token),
		Status:     domain.InvitationPending,
		ExpiresAt:  now.Add(s.Window),
		InvitedBy:  actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	// 5. Hand the raw token to the dispatcher; the response carries it too.
	s.Notify.InvitationIssued(ctx, inv, token)

	log.Debug("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("role", string(role)),
		slog.String("business_id", businessID),
	)
	return inv, token, nil
}

// Validate resolves a raw token to its invitation without consuming it.
// Expiry is evaluated lazily against the wall clock, so a pending row past
// its window reads as expired even before housekeeping touches it.
func (s *InvitationService) Validate(ctx context.Context, token string) (domain.Invitation, error) {
	if token == "" {
		return domain.Invitation{}, ErrValidation
	}

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInvalidInvitation
		}
		return domain.Invitation{}, err
	}

	if err := usableInvitation(inv, time.Now()); err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

// Accept consumes a token and provisions the invited user. The seat
// reservation, user insert and pending→accepted flip commit atomically, so
// two concurrent accepts of the same token produce exactly one user.
func (s *InvitationService) Accept(
	ctx context.Context,
	token, displayName, password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input and hash the password outside the transaction;
	// argon2 is deliberately slow.
	if token == "" || displayName == "" || password == "" {
		return domain.User{}, ErrValidation
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now()

		// 2. Resolve and re-check the invitation inside the transaction.
		inv, err := tx.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidInvitation
			}
			return err
		}
		if err := usableInvitation(inv, now); err != nil {
			return err
		}

		// 3. Reserve the seat. This is the authoritative quota gate.
		if err := s.Quota.ReserveIn(ctx, tx, inv.BusinessID, inv.Role); err != nil {
			return err
		}

		// 4. Create the user bound to the invitation's email and role.
		businessID := inv.BusinessID
		user = domain.User{
			ID:           idx.New().String(),
			Email:        inv.Email,
			DisplayName:  displayName,
			PasswordHash: hash,
			Role:         inv.Role,
			BusinessID:   &businessID,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		// 5. Consume the token. A stale flip means someone else got here
		// between our read and write; roll everything back.
		if err := tx.Invitations().MarkInvitationAccepted(ctx, inv.ID); err != nil {
			if errors.Is(err, store.ErrStaleStatus) {
				return ErrInvitationAlreadyConsumed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("invitation accepted",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Resend rotates the token on a still-pending invitation and extends its
// window. The old token stops resolving immediately.
func (s *InvitationService) Resend(ctx context.Context, actor domain.User, id string) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	inv, err := s.authorizedInvitation(ctx, actor, id)
	if err != nil {
		return domain.Invitation{}, "", err
	}
	if inv.Status.Terminal() {
		return domain.Invitation{}, "", invitationStateError(inv.Status)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	newExpiry := time.Now().Add(s.Window)
	newHash := cryptox.FingerprintToken(token)
	if err := s.Store.Invitations().RotateInvitationToken(ctx, inv.ID, newHash, newExpiry); err != nil {
		if errors.Is(err, store.ErrStaleStatus) {
			return domain.Invitation{}, "", s.staleInvitationError(ctx, inv.ID)
		}
		return domain.Invitation{}, "", err
	}
	inv.TokenHash = newHash
	inv.ExpiresAt = newExpiry

	s.Notify.InvitationIssued(ctx, inv, token)

	log.Debug("invitation resent", slog.String("invitation_id", inv.ID))
	return inv, token, nil
}

// Revoke cancels a pending invitation. Terminal invitations stay as they
// are; revoking an accepted invitation does not touch the provisioned user.
func (s *InvitationService) Revoke(ctx context.Context, actor domain.User, id string) error {
	inv, err := s.authorizedInvitation(ctx, actor, id)
	if err != nil {
		return err
	}
	if inv.Status.Terminal() {
		return invitationStateError(inv.Status)
	}

	if err := s.Store.Invitations().MarkInvitationRevoked(ctx, inv.ID); err != nil {
		if errors.Is(err, store.ErrStaleStatus) {
			return s.staleInvitationError(ctx, inv.ID)
		}
		return err
	}

	slogx.FromContext(ctx).Info("invitation revoked", slog.String("invitation_id", inv.ID))
	return nil
}

// ListByBusiness returns the invitations of a business, newest first, with
// lazily expired rows reported as expired.
func (s *InvitationService) ListByBusiness(ctx context.Context, actor domain.User, businessID string) ([]domain.Invitation, error) {
	if !actor.Role.Can(domain.PermManageMembers) {
		return nil, ErrPermissionDenied
	}
	if actor.Role != domain.RoleSuperAdmin && !actor.InBusiness(businessID) {
		return nil, ErrPermissionDenied
	}

	invs, err := s.Store.Invitations().ListInvitationsByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range invs {
		if invs[i].Status == domain.InvitationPending && invs[i].ExpiredAt(now) {
			invs[i].Status = domain.InvitationExpired
		}
	}
	return invs, nil
}

// authorizedInvitation loads an invitation and checks the actor may manage
// it: matrix allows the invitation's role, and the business matches unless
// the actor is SuperAdmin.
func (s *InvitationService) authorizedInvitation(ctx context.Context, actor domain.User, id string) (domain.Invitation, error) {
	if id == "" {
		return domain.Invitation{}, ErrValidation
	}

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, err
	}

	if !domain.CanSendInvite(actor.Role, inv.Role) {
		return domain.Invitation{}, ErrPermissionDenied
	}
	if actor.Role != domain.RoleSuperAdmin && !actor.InBusiness(inv.BusinessID) {
		return domain.Invitation{}, ErrPermissionDenied
	}
	return inv, nil
}

// usableInvitation is the shared gate for Validate and Accept: the row must
// be pending and inside its window at now.
func usableInvitation(inv domain.Invitation, now time.Time) error {
	if inv.Status.Terminal() {
		return invitationStateError(inv.Status)
	}
	if inv.ExpiredAt(now) {
		return ErrInvitationExpired
	}
	return nil
}

// invitationStateError maps a terminal status onto the error that describes
// it: accepted reads as consumed, revoked as invalid, expired as expired.
func invitationStateError(status domain.InvitationStatus) error {
	switch status {
	case domain.InvitationAccepted:
		return ErrInvitationAlreadyConsumed
	case domain.InvitationExpired:
		return ErrInvitationExpired
	default:
		return ErrInvalidInvitation
	}
}

// staleInvitationError re-reads an invitation after a lost conditional flip
// so the error names the state that actually won the race.
func (s *InvitationService) staleInvitationError(ctx context.Context, id string) error {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		return ErrInvalidInvitation
	}
	return invitationStateError(inv.Status)
}
