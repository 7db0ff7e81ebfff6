package provisioning_test

import (
	"testing"

	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
	"github.com/stretchr/testify/require"
)

// TestUserDeactivation verifies a deactivated account loses access and its
// seat returns to the business.
func TestUserDeactivation(t *testing.T) {
	baseURL, cleanup := setupProvisioningContainer(t)
	defer cleanup()

	client := provsdk.NewClient(baseURL)
	root := bootstrapSuperAdmin(t, client)
	business := createBusiness(t, client, root.AccessToken, "Acme Plumbing", 3, 10)

	member := inviteAndAccept(t, client, root.AccessToken, "member@acme.test", "member", business.ID)

	require.NoError(t, client.DeactivateUser(t.Context(), root.AccessToken, member.UserID))

	_, err := client.Login(t.Context(), "member@acme.test", memberPassword)
	assertAPICode(t, err, "account_disabled", "Login after deactivation")

	quotas, err := client.MemberQuotas(t.Context(), root.AccessToken, business.ID)
	require.NoError(t, err)
	require.Equal(t, 0, quotas.CurrentMembers, "Seat must return on deactivation")

	// The stale session is dead too: every privileged call re-reads the user.
	_, err = client.MemberQuotas(t.Context(), member.AccessToken, business.ID)
	assertAPICode(t, err, "account_disabled", "Privileged call with a deactivated account")
}
