package service

import (
	"context"
	"testing"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/stretchr/testify/require"
)

func TestAdminRequestSubmit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)

	req, err := svc.requests.Submit(ctx, "Jordan Blake", "Jordan@Acme.Test")
	require.NoError(t, err)
	require.Equal(t, domain.AdminRequestPending, req.Status)
	require.Equal(t, "jordan@acme.test", req.Email)

	t.Run("duplicate pending request is rejected", func(t *testing.T) {
		_, err := svc.requests.Submit(ctx, "Jordan Blake", "jordan@acme.test")
		require.ErrorIs(t, err, ErrDuplicateRequest)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.requests.Submit(ctx, "", "someone@acme.test")
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestAdminRequestApprove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	b := svc.seedBusiness(t, 3, 5)
	reviewer := svc.seedUser(t, "admin@acme.test", domain.RoleAdmin, b.ID)
	svc.seedUser(t, "jordan@acme.test", domain.RoleMember, b.ID)

	req, err := svc.requests.Submit(ctx, "Jordan Blake", "jordan@acme.test")
	require.NoError(t, err)

	got, err := svc.requests.Process(ctx, reviewer.ID, req.ID, true, "")
	require.NoError(t, err)
	require.Equal(t, domain.AdminRequestApproved, got.Status)
	require.NotNil(t, got.ProcessedAt)
	require.NotNil(t, got.ProcessedBy)
	require.Equal(t, reviewer.ID, *got.ProcessedBy)

	// The account was elevated and the quota ledger moved one seat from
	// members to admins.
	target, err := svc.store.Users().GetUserByEmail(ctx, "jordan@acme.test")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, target.Role)

	snap, err := svc.quota.Snapshot(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 2, snap.CurrentAdmins)
	require.Equal(t, 0, snap.CurrentMembers)

	t.Run("processing again", func(t *testing.T) {
		_, err := svc.requests.Process(ctx, reviewer.ID, req.ID, false, "changed my mind")
		require.ErrorIs(t, err, ErrAlreadyProcessed)
	})
}

func TestAdminRequestReject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	b := svc.seedBusiness(t, 3, 5)
	reviewer := svc.seedUser(t, "admin@acme.test", domain.RoleAdmin, b.ID)
	svc.seedUser(t, "jordan@acme.test", domain.RoleMember, b.ID)

	req, err := svc.requests.Submit(ctx, "Jordan Blake", "jordan@acme.test")
	require.NoError(t, err)

	got, err := svc.requests.Process(ctx, reviewer.ID, req.ID, false, "not enough tenure")
	require.NoError(t, err)
	require.Equal(t, domain.AdminRequestRejected, got.Status)
	require.Equal(t, "not enough tenure", got.Reason)

	// Rejection never touches the account or the counters.
	target, err := svc.store.Users().GetUserByEmail(ctx, "jordan@acme.test")
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, target.Role)

	snap, err := svc.quota.Snapshot(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 1, snap.CurrentAdmins)
	require.Equal(t, 1, snap.CurrentMembers)
}

func TestAdminRequestApproveFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	b := svc.seedBusiness(t, 1, 5)
	reviewer := svc.seedUser(t, "admin@acme.test", domain.RoleAdmin, b.ID) // only admin seat taken
	member := svc.seedUser(t, "member@acme.test", domain.RoleMember, b.ID)

	t.Run("unknown account keeps the request pending", func(t *testing.T) {
		req, err := svc.requests.Submit(ctx, "Ghost", "ghost@acme.test")
		require.NoError(t, err)

		_, err = svc.requests.Process(ctx, reviewer.ID, req.ID, true, "")
		require.ErrorIs(t, err, ErrNoSuchAccount)

		got, err := svc.store.AdminRequests().GetAdminRequestByID(ctx, req.ID)
		require.NoError(t, err)
		require.Equal(t, domain.AdminRequestPending, got.Status)
	})

	t.Run("full admin quota keeps the request pending", func(t *testing.T) {
		req, err := svc.requests.Submit(ctx, "Member", member.Email)
		require.NoError(t, err)

		_, err = svc.requests.Process(ctx, reviewer.ID, req.ID, true, "")
		require.ErrorIs(t, err, ErrQuotaExceeded)

		got, err := svc.store.AdminRequests().GetAdminRequestByID(ctx, req.ID)
		require.NoError(t, err)
		require.Equal(t, domain.AdminRequestPending, got.Status)

		// Member role and counters unchanged after rollback.
		target, err := svc.store.Users().GetUserByEmail(ctx, member.Email)
		require.NoError(t, err)
		require.Equal(t, domain.RoleMember, target.Role)
	})

	t.Run("reviewer without admins:manage is denied", func(t *testing.T) {
		req, err := svc.requests.Submit(ctx, "Someone", "someone@acme.test")
		require.NoError(t, err)

		_, err = svc.requests.Process(ctx, member.ID, req.ID, true, "")
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := svc.requests.Process(ctx, reviewer.ID, "no-such-request", true, "")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAdminRequestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)
	b := svc.seedBusiness(t, 3, 5)
	reviewer := svc.seedUser(t, "admin@acme.test", domain.RoleAdmin, b.ID)
	member := svc.seedUser(t, "member@acme.test", domain.RoleMember, b.ID)

	_, err := svc.requests.Submit(ctx, "One", "one@acme.test")
	require.NoError(t, err)
	_, err = svc.requests.Submit(ctx, "Two", "two@acme.test")
	require.NoError(t, err)

	reqs, err := svc.requests.List(ctx, reviewer)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	_, err = svc.requests.List(ctx, member)
	require.ErrorIs(t, err, ErrPermissionDenied)
}
