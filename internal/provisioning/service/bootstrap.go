package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/cryptox"
	"github.com/crewdeskhq/crewdesk/pkg/idx"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

var ErrAlreadyInitialized = errors.New("system already initialized")

// BootstrapService handles the one-time first-user path. The very first
// signup against an empty system becomes the SuperAdmin; the claim is a
// unique-constrained marker row inserted in the same transaction as the
// user, so concurrent first signups elect exactly one winner.
type BootstrapService struct {
	Store store.Store
}

// Initialized reports whether the bootstrap claim has been recorded.
func (s *BootstrapService) Initialized(ctx context.Context) (bool, error) {
	return s.Store.System().IsInitialized(ctx)
}

// Bootstrap provisions the SuperAdmin. SuperAdmin belongs to no business
// and consumes no quota.
func (s *BootstrapService) Bootstrap(ctx context.Context, email, displayName, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || displayName == "" || password == "" {
		return domain.User{}, ErrValidation
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		BusinessID:   nil,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// The claim insert fails once any user or prior claim exists, which
		// closes the race between two empty-system signups.
		if err := tx.System().ClaimBootstrap(ctx, now); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyInitialized
			}
			return err
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("system bootstrapped", slog.String("user_id", user.ID))
	return user, nil
}
