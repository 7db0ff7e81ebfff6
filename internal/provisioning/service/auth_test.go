package service

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, svc *services) (*AuthService, jwtx.Verifier) {
	t.Helper()

	signer, verifier, err := jwtx.NewEphemeralKeyPair("crewdesk-test")
	require.NoError(t, err)

	return &AuthService{
		Store:       svc.store,
		Invitations: svc.invites,
		Bootstrap:   svc.bootstrap,
		Quota:       svc.quota,
		Signer:      signer,
		Issuer:      "crewdesk-test",
		SessionTTL:  time.Hour,
	}, verifier
}

func TestSignupRouting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	auth, verifier := newAuthService(t, svc)

	// 1. Empty system: first signup bootstraps the SuperAdmin.
	sess, err := auth.Signup(ctx, SignupRequest{
		Email:       "founder@crewdesk.test",
		DisplayName: "Founder",
		Password:    "a strong password",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperAdmin, sess.Role)
	require.Nil(t, sess.BusinessID)
	require.Equal(t, "Bearer", sess.TokenType)

	claims, err := verifier.Verify(sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, sess.UserID, claims.Subject)

	b := svc.seedBusiness(t, 3, 5)

	// 2. Initialized system without token or business is rejected.
	_, err = auth.Signup(ctx, SignupRequest{
		Email:       "drifter@crewdesk.test",
		DisplayName: "Drifter",
		Password:    "some password",
	})
	require.ErrorIs(t, err, ErrValidation)

	// 3. Direct signup into a named business joins as Member.
	sess, err = auth.Signup(ctx, SignupRequest{
		Email:       "worker@acme.test",
		DisplayName: "Worker",
		Password:    "another password",
		BusinessID:  b.ID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, sess.Role)
	require.NotNil(t, sess.BusinessID)
	require.Equal(t, b.ID, *sess.BusinessID)

	// 4. Invitation token wins over everything else.
	founder, err := svc.store.Users().GetUserByEmail(ctx, "founder@crewdesk.test")
	require.NoError(t, err)
	_, token, err := svc.invites.Create(ctx, founder, "chief@acme.test", domain.RoleAdmin, b.ID)
	require.NoError(t, err)

	sess, err = auth.Signup(ctx, SignupRequest{
		Email:           "ignored@acme.test", // invitation email wins
		DisplayName:     "Chief",
		Password:        "chief password",
		InvitationToken: token,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, sess.Role)

	chief, err := svc.store.Users().GetUserByEmail(ctx, "chief@acme.test")
	require.NoError(t, err)
	require.Equal(t, sess.UserID, chief.ID)
}

func TestSignupDirectJoinRespectsMemberQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	auth, _ := newAuthService(t, svc)

	_, err := auth.Signup(ctx, SignupRequest{
		Email:       "founder@crewdesk.test",
		DisplayName: "Founder",
		Password:    "a strong password",
	})
	require.NoError(t, err)

	b := svc.seedBusiness(t, 3, 1)

	_, err = auth.Signup(ctx, SignupRequest{
		Email:       "first@acme.test",
		DisplayName: "First",
		Password:    "first password",
		BusinessID:  b.ID,
	})
	require.NoError(t, err)

	_, err = auth.Signup(ctx, SignupRequest{
		Email:       "second@acme.test",
		DisplayName: "Second",
		Password:    "second password",
		BusinessID:  b.ID,
	})
	require.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	auth, _ := newAuthService(t, svc)

	b := svc.seedBusiness(t, 3, 5)
	user := svc.seedUser(t, "member@acme.test", domain.RoleMember, b.ID)

	t.Run("correct credentials", func(t *testing.T) {
		sess, err := auth.Login(ctx, "member@acme.test", "correct horse battery staple")
		require.NoError(t, err)
		require.Equal(t, user.ID, sess.UserID)
		require.Equal(t, domain.RoleMember, sess.Role)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		_, err := auth.Login(ctx, "Member@Acme.Test", "correct horse battery staple")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "member@acme.test", "wrong password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		_, err := auth.Login(ctx, "ghost@acme.test", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, svc.store.Users().SetUserActive(ctx, user.ID, false))
		t.Cleanup(func() {
			require.NoError(t, svc.store.Users().SetUserActive(ctx, user.ID, true))
		})

		_, err := auth.Login(ctx, "member@acme.test", "correct horse battery staple")
		require.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestRefreshUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	auth, _ := newAuthService(t, svc)

	b := svc.seedBusiness(t, 3, 5)
	user := svc.seedUser(t, "member@acme.test", domain.RoleMember, b.ID)

	got, err := auth.RefreshUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// Role changes surface on the next re-read, not at token expiry.
	require.NoError(t, svc.store.Users().UpdateUserRole(ctx, user.ID, domain.RoleAdmin))
	got, err = auth.RefreshUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)

	require.NoError(t, svc.store.Users().SetUserActive(ctx, user.ID, false))
	_, err = auth.RefreshUser(ctx, user.ID)
	require.ErrorIs(t, err, ErrAccountDisabled)

	_, err = auth.RefreshUser(ctx, "no-such-user")
	require.ErrorIs(t, err, ErrPermissionDenied)
}
