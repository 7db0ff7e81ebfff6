package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func testUser(email string, role domain.Role, businessID *string) domain.User {
	now := time.Now()
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         role,
		BusinessID:   businessID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testBusiness(maxAdmins, maxMembers int) domain.Business {
	now := time.Now()
	return domain.Business{
		ID:         idx.New().String(),
		Name:       "Test Business",
		MaxAdmins:  maxAdmins,
		MaxMembers: maxMembers,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func testInvitation(businessID, invitedBy string) domain.Invitation {
	now := time.Now()
	return domain.Invitation{
		ID:         idx.New().String(),
		Email:      "invitee@acme.test",
		Role:       domain.RoleMember,
		BusinessID: businessID,
		TokenHash:  idx.New().String(), // any unique string works as a hash
		Status:     domain.InvitationPending,
		ExpiresAt:  now.Add(24 * time.Hour),
		InvitedBy:  invitedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestUsersUniqueEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	u := testUser("dup@acme.test", domain.RoleSuperAdmin, nil)
	require.NoError(t, st.Users().CreateUser(ctx, u))

	dup := testUser("dup@acme.test", domain.RoleSuperAdmin, nil)
	require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
}

func TestUsersRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	b := testBusiness(3, 5)
	require.NoError(t, st.Businesses().CreateBusiness(ctx, b))

	u := testUser("alice@acme.test", domain.RoleMember, &b.ID)
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, domain.RoleMember, got.Role)
	require.NotNil(t, got.BusinessID)
	require.Equal(t, b.ID, *got.BusinessID)
	require.True(t, got.Active)

	byEmail, err := st.Users().GetUserByEmail(ctx, "alice@acme.test")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersCountActiveByRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	b := testBusiness(3, 5)
	require.NoError(t, st.Businesses().CreateBusiness(ctx, b))

	active := testUser("active@acme.test", domain.RoleMember, &b.ID)
	require.NoError(t, st.Users().CreateUser(ctx, active))

	inactive := testUser("inactive@acme.test", domain.RoleMember, &b.ID)
	require.NoError(t, st.Users().CreateUser(ctx, inactive))
	require.NoError(t, st.Users().SetUserActive(ctx, inactive.ID, false))

	n, err := st.Users().CountActiveByRole(ctx, b.ID, domain.RoleMember)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBusinessSlotReservation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	b := testBusiness(2, 1)
	require.NoError(t, st.Businesses().CreateBusiness(ctx, b))

	t.Run("admin seat honours the lower of the two limits", func(t *testing.T) {
		// max_admins=2 but global ceiling 1: only one reservation fits.
		require.NoError(t, st.Businesses().ReserveAdminSlot(ctx, b.ID, 1))
		require.ErrorIs(t, st.Businesses().ReserveAdminSlot(ctx, b.ID, 1), store.ErrQuotaExceeded)

		// Raising the ceiling frees the second seat up to max_admins.
		require.NoError(t, st.Businesses().ReserveAdminSlot(ctx, b.ID, 10))
		require.ErrorIs(t, st.Businesses().ReserveAdminSlot(ctx, b.ID, 10), store.ErrQuotaExceeded)
	})

	t.Run("member seat", func(t *testing.T) {
		require.NoError(t, st.Businesses().ReserveMemberSlot(ctx, b.ID))
		require.ErrorIs(t, st.Businesses().ReserveMemberSlot(ctx, b.ID), store.ErrQuotaExceeded)
	})

	t.Run("release floors at zero", func(t *testing.T) {
		require.NoError(t, st.Businesses().ReleaseMemberSlot(ctx, b.ID))
		require.NoError(t, st.Businesses().ReleaseMemberSlot(ctx, b.ID)) // already at zero

		got, err := st.Businesses().GetBusinessByID(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, 0, got.CurrentMembers)
	})

	t.Run("unknown business", func(t *testing.T) {
		require.ErrorIs(t, st.Businesses().ReserveAdminSlot(ctx, "missing", 10), store.ErrNotFound)
	})
}

func TestInvitationConditionalFlips(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	b := testBusiness(3, 5)
	require.NoError(t, st.Businesses().CreateBusiness(ctx, b))
	inviter := testUser("admin@acme.test", domain.RoleAdmin, &b.ID)
	require.NoError(t, st.Users().CreateUser(ctx, inviter))

	inv := testInvitation(b.ID, inviter.ID)
	require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))

	t.Run("accept once", func(t *testing.T) {
		require.NoError(t, st.Invitations().MarkInvitationAccepted(ctx, inv.ID))

		got, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationAccepted, got.Status)
	})

	t.Run("accept twice is stale", func(t *testing.T) {
		require.ErrorIs(t, st.Invitations().MarkInvitationAccepted(ctx, inv.ID), store.ErrStaleStatus)
	})

	t.Run("revoke after accept is stale", func(t *testing.T) {
		require.ErrorIs(t, st.Invitations().MarkInvitationRevoked(ctx, inv.ID), store.ErrStaleStatus)
	})

	t.Run("rotate after accept is stale", func(t *testing.T) {
		err := st.Invitations().RotateInvitationToken(ctx, inv.ID, "newhash", time.Now().Add(time.Hour))
		require.ErrorIs(t, err, store.ErrStaleStatus)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		require.ErrorIs(t, st.Invitations().MarkInvitationAccepted(ctx, "missing"), store.ErrNotFound)
	})
}

func TestInvitationTokenRotation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	b := testBusiness(3, 5)
	require.NoError(t, st.Businesses().CreateBusiness(ctx, b))
	inviter := testUser("admin@acme.test", domain.RoleAdmin, &b.ID)
	require.NoError(t, st.Users().CreateUser(ctx, inviter))

	inv := testInvitation(b.ID, inviter.ID)
	oldHash := inv.TokenHash
	require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))

	newExpiry := time.Now().Add(48 * time.Hour)
	require.NoError(t, st.Invitations().RotateInvitationToken(ctx, inv.ID, "freshhash", newExpiry))

	_, err := st.Invitations().GetInvitationByTokenHash(ctx, oldHash)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.Invitations().GetInvitationByTokenHash(ctx, "freshhash")
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)
	require.WithinDuration(t, newExpiry, got.ExpiresAt, time.Second)
}

func TestInvitationHousekeepingSparesPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	b := testBusiness(3, 5)
	require.NoError(t, st.Businesses().CreateBusiness(ctx, b))
	inviter := testUser("admin@acme.test", domain.RoleAdmin, &b.ID)
	require.NoError(t, st.Users().CreateUser(ctx, inviter))

	pending := testInvitation(b.ID, inviter.ID)
	require.NoError(t, st.Invitations().CreateInvitation(ctx, pending))

	revoked := testInvitation(b.ID, inviter.ID)
	revoked.Email = "revoked@acme.test"
	require.NoError(t, st.Invitations().CreateInvitation(ctx, revoked))
	require.NoError(t, st.Invitations().MarkInvitationRevoked(ctx, revoked.ID))

	// Cutoff in the future: everything terminal qualifies, pending survives.
	require.NoError(t, st.Invitations().DeleteTerminalInvitationsBefore(ctx, time.Now().Add(time.Hour)))

	_, err := st.Invitations().GetInvitationByID(ctx, pending.ID)
	require.NoError(t, err)

	_, err = st.Invitations().GetInvitationByID(ctx, revoked.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdminRequestProcessedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	// processed_by references users, so the reviewer must exist.
	reviewer := testUser("reviewer@crewdesk.test", domain.RoleSuperAdmin, nil)
	require.NoError(t, st.Users().CreateUser(ctx, reviewer))

	req := domain.AdminRequest{
		ID:          idx.New().String(),
		Name:        "Jordan Blake",
		Email:       "jordan@acme.test",
		Status:      domain.AdminRequestPending,
		RequestedAt: time.Now(),
	}
	require.NoError(t, st.AdminRequests().CreateAdminRequest(ctx, req))

	pending, err := st.AdminRequests().HasPendingAdminRequest(ctx, "jordan@acme.test")
	require.NoError(t, err)
	require.True(t, pending)

	now := time.Now()
	require.NoError(t, st.AdminRequests().MarkAdminRequestProcessed(ctx, req.ID, domain.AdminRequestRejected, reviewer.ID, "no", now))

	got, err := st.AdminRequests().GetAdminRequestByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AdminRequestRejected, got.Status)
	require.Equal(t, "no", got.Reason)
	require.NotNil(t, got.ProcessedAt)
	require.NotNil(t, got.ProcessedBy)

	err = st.AdminRequests().MarkAdminRequestProcessed(ctx, req.ID, domain.AdminRequestApproved, reviewer.ID, "", now)
	require.ErrorIs(t, err, store.ErrStaleStatus)

	pending, err = st.AdminRequests().HasPendingAdminRequest(ctx, "jordan@acme.test")
	require.NoError(t, err)
	require.False(t, pending)
}

func TestClaimBootstrap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	initialized, err := st.System().IsInitialized(ctx)
	require.NoError(t, err)
	require.False(t, initialized)

	require.NoError(t, st.System().ClaimBootstrap(ctx, time.Now()))
	require.ErrorIs(t, st.System().ClaimBootstrap(ctx, time.Now()), store.ErrAlreadyExists)

	initialized, err = st.System().IsInitialized(ctx)
	require.NoError(t, err)
	require.True(t, initialized)
}

func TestClaimBootstrapBlockedByExistingUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	u := testUser("existing@acme.test", domain.RoleSuperAdmin, nil)
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.ErrorIs(t, st.System().ClaimBootstrap(ctx, time.Now()), store.ErrAlreadyExists)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	b := testBusiness(3, 5)
	require.NoError(t, st.Businesses().CreateBusiness(ctx, b))

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Businesses().ReserveMemberSlot(ctx, b.ID); err != nil {
			return err
		}
		u := testUser("rollback@acme.test", domain.RoleMember, &b.ID)
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := st.Businesses().GetBusinessByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.CurrentMembers)

	_, err = st.Users().GetUserByEmail(ctx, "rollback@acme.test")
	require.ErrorIs(t, err, store.ErrNotFound)
}
