package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/testutil"
)

func Test_integrationRequestRepository_Finalize(t *testing.T) {
	ctx := testutil.MockContext()
	requestRepo := repository.NewIntegrationRequestRepository()

	require.NoError(t, requestRepo.Create(ctx, &entity.IntegrationRequest{
		Base:    entity.Base{ID: "req1"},
		ShortID: "contract1",
		Type:    entity.IntegrationRequestTypeCall,
		Method:  "balanceOf",
		Inputs:  entity.Array[any]{"0xabc"},
	}))

	require.NoError(t, requestRepo.Finalize(ctx, "req1", true, entity.Map{"0": int64(10)}))

	stored, err := requestRepo.GetByID(ctx, "req1")
	require.NoError(t, err)
	require.True(t, stored.Status)
	require.NotNil(t, stored.Outputs["0"])

	// Finalizing without outputs keeps the previous ones.
	require.NoError(t, requestRepo.Finalize(ctx, "req1", false, nil))
	stored, err = requestRepo.GetByID(ctx, "req1")
	require.NoError(t, err)
	require.False(t, stored.Status)
	require.NotNil(t, stored.Outputs["0"])
}

func Test_integrationRequestRepository_Count(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	requestRepo := repository.NewIntegrationRequestRepository()

	now := time.Now()
	requests := []entity.IntegrationRequest{
		{
			Base:    entity.Base{ID: "req1", CreatedAt: now},
			ShortID: testutil.Contract1.ShortID,
			Type:    entity.IntegrationRequestTypeCall,
		},
		{
			Base:    entity.Base{ID: "req2", CreatedAt: now},
			ShortID: testutil.Contract1.ShortID,
			Type:    entity.IntegrationRequestTypeSend,
		},
		{
			Base:    entity.Base{ID: "req3", CreatedAt: now.Add(-48 * time.Hour)},
			ShortID: testutil.Contract1.ShortID,
			Type:    entity.IntegrationRequestTypeSend,
		},
		{
			Base:    entity.Base{ID: "req4", CreatedAt: now},
			ShortID: "unrelated",
			Type:    entity.IntegrationRequestTypeCall,
		},
	}
	for i := range requests {
		require.NoError(t, requestRepo.Create(ctx, &requests[i]))
	}

	count, err := requestRepo.Count(ctx, repository.CountIntegrationRequestFilter{
		ShortID: testutil.Contract1.ShortID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	count, err = requestRepo.Count(ctx, repository.CountIntegrationRequestFilter{
		ShortID:      testutil.Contract1.ShortID,
		CreatedAfter: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	// Scoping by application or network goes through the owning contract.
	count, err = requestRepo.Count(ctx, repository.CountIntegrationRequestFilter{
		ApplicationID: testutil.Contract1.ApplicationID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	count, err = requestRepo.Count(ctx, repository.CountIntegrationRequestFilter{
		NetworkID: testutil.Contract1.NetworkID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	count, err = requestRepo.Count(ctx, repository.CountIntegrationRequestFilter{
		ApplicationID: "missing",
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}
