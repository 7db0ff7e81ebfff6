package provisioning_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/crewdeskhq/crewdesk/pkg/provsdk"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies livez and readyz report a healthy service.
func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupProvisioningContainer(t)
	defer cleanup()

	client := provsdk.NewClient(baseURL)
	require.NoError(t, client.Readyz(t.Context()))

	resp, err := http.Get(baseURL + "/livez")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health provsdk.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)
	require.NotEmpty(t, health.Uptime)
}
