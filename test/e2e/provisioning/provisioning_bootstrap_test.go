package provisioning_test

import (
	"testing"

	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
	"github.com/stretchr/testify/require"
)

// TestBootstrapFirstAccount verifies the first signup on an empty system
// claims the SuperAdmin seat and later signups need a route in.
func TestBootstrapFirstAccount(t *testing.T) {
	baseURL, cleanup := setupProvisioningContainer(t)
	defer cleanup()

	client := provsdk.NewClient(baseURL)

	session := bootstrapSuperAdmin(t, client)
	require.NotEmpty(t, session.AccessToken)
	require.Equal(t, "Bearer", session.TokenType)
	require.Positive(t, session.ExpiresIn)

	// A second bare signup has no invitation and no business: nothing routes
	// it, the bootstrap path is gone.
	_, err := client.Signup(t.Context(), provsdk.SignupRequest{
		Email:       "second@crewdesk.test",
		DisplayName: "Second",
		Password:    "SecondPassword123!",
	})
	assertAPICode(t, err, "invalid_request", "Signup without a route")

	// The root operator can log back in with the bootstrap credentials.
	relogin, err := client.Login(t.Context(), rootEmail, rootPassword)
	require.NoError(t, err)
	require.Equal(t, session.UserID, relogin.UserID)
	require.Equal(t, "super_admin", relogin.Role)
}

// TestLoginFailures verifies credential errors are indistinguishable for
// unknown accounts and wrong passwords.
func TestLoginFailures(t *testing.T) {
	baseURL, cleanup := setupProvisioningContainer(t)
	defer cleanup()

	client := provsdk.NewClient(baseURL)
	bootstrapSuperAdmin(t, client)

	_, err := client.Login(t.Context(), rootEmail, "WrongPassword123!")
	assertAPICode(t, err, "invalid_credentials", "Wrong password")

	_, err = client.Login(t.Context(), "ghost@crewdesk.test", "WrongPassword123!")
	assertAPICode(t, err, "invalid_credentials", "Unknown account")
}
