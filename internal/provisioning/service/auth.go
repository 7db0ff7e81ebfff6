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
	"github.com/crewdeskhq/crewdesk/pkg/jwtx"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

// SignupRequest carries the three signup variants. InvitationToken wins
// over BusinessID; an empty system ignores both and bootstraps.
type SignupRequest struct {
	Email           string
	DisplayName     string
	Password        string
	InvitationToken string
	BusinessID      string
}

// AuthService is the thin session layer: signup routing, credential login
// and the store-backed re-read that privileged handlers use instead of
// trusting token payloads.
type AuthService struct {
	Store       store.Store
	Invitations *InvitationService
	Bootstrap   *BootstrapService
	Quota       *QuotaService

	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

// Signup provisions an account and returns a live session. Routing:
//
//  1. empty system        → bootstrap SuperAdmin
//  2. invitation token    → accept invitation, inherit its role/business
//  3. explicit business   → join as Member
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	var user domain.User
	switch {
	case empty:
		user, err = s.Bootstrap.Bootstrap(ctx, req.Email, req.DisplayName, req.Password)
		// Losing the bootstrap race falls through to the normal paths.
		if errors.Is(err, ErrAlreadyInitialized) {
			return s.Signup(ctx, req)
		}
	case req.InvitationToken != "":
		user, err = s.Invitations.Accept(ctx, req.InvitationToken, req.DisplayName, req.Password)
	case req.BusinessID != "":
		user, err = s.directJoin(ctx, req)
	default:
		return domain.Session{}, ErrValidation
	}
	if err != nil {
		return domain.Session{}, err
	}

	log.Info("signup completed",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return s.mintSession(user)
}

// Login verifies credentials and returns a fresh session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.Session{}, ErrValidation
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login failed", slog.String("user_id", user.ID))
		return domain.Session{}, ErrInvalidCredentials
	}
	if !user.Active {
		return domain.Session{}, ErrAccountDisabled
	}

	log.Info("login succeeded", slog.String("user_id", user.ID))
	return s.mintSession(user)
}

// RefreshUser re-reads the account behind a verified token. Privileged
// handlers call this so role changes and deactivation take effect on the
// next request, not at token expiry.
func (s *AuthService) RefreshUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrPermissionDenied
		}
		return domain.User{}, err
	}
	if !user.Active {
		return domain.User{}, ErrAccountDisabled
	}
	return user, nil
}

// directJoin provisions a Member in an explicitly named business, with the
// seat reservation and user insert in one transaction.
func (s *AuthService) directJoin(ctx context.Context, req SignupRequest) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.DisplayName == "" || req.Password == "" {
		return domain.User{}, ErrValidation
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now()
	businessID := req.BusinessID
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		BusinessID:   &businessID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.Quota.ReserveIn(ctx, tx, businessID, domain.RoleMember); err != nil {
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
	return user, nil
}

func (s *AuthService) mintSession(user domain.User) (domain.Session, error) {
	token, err := s.Signer.Sign(jwtx.NewSessionClaims(user.ID, s.Issuer, s.SessionTTL))
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.SessionTTL.Seconds()),
		UserID:      user.ID,
		Role:        user.Role,
		BusinessID:  user.BusinessID,
	}, nil
}
