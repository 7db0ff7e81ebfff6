package service

import (
	"context"
	"sync"
	"testing"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/stretchr/testify/require"
)

func TestBootstrapFirstUserBecomesSuperAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)

	initialized, err := svc.bootstrap.Initialized(ctx)
	require.NoError(t, err)
	require.False(t, initialized)

	user, err := svc.bootstrap.Bootstrap(ctx, "founder@crewdesk.test", "Founder", "a strong password")
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperAdmin, user.Role)
	require.Nil(t, user.BusinessID)

	initialized, err = svc.bootstrap.Initialized(ctx)
	require.NoError(t, err)
	require.True(t, initialized)

	t.Run("second bootstrap fails", func(t *testing.T) {
		_, err := svc.bootstrap.Bootstrap(ctx, "late@crewdesk.test", "Late", "another password")
		require.ErrorIs(t, err, ErrAlreadyInitialized)
	})
}

// Concurrent empty-system bootstraps must elect exactly one SuperAdmin.
func TestBootstrapConcurrentClaimSingleWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newServices(t)

	const racers = 6
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.bootstrap.Bootstrap(ctx, "founder@crewdesk.test", "Founder", "a strong password")
		}()
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, ErrAlreadyInitialized)
		}
	}
	require.Equal(t, 1, winners)
}
