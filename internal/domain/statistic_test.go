package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/testutil"
)

func Test_statisticDomain_GetStats(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	requestRepo := repository.NewIntegrationRequestRepository()
	statisticDomain := NewStatisticDomain(requestRepo)

	now := time.Now()
	seed := []struct {
		id        string
		createdAt time.Time
	}{
		{"today", now},
		{"lastMonth", now.AddDate(0, -1, 0)},
		{"lastYear", now.AddDate(-1, 0, 0)},
	}
	for _, s := range seed {
		require.NoError(t, requestRepo.Create(ctx, &entity.IntegrationRequest{
			Base:    entity.Base{ID: s.id, CreatedAt: s.createdAt},
			ShortID: testutil.Contract1.ShortID,
			Type:    entity.IntegrationRequestTypeCall,
		}))
	}

	stats, err := statisticDomain.GetStats(ctx, &model.GetStatsRequest{
		ShortID: testutil.Contract1.ShortID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Today)

	// The yearly window sees everything of this year, the monthly window
	// misses the request of last month. Requests of last year never count.
	require.GreaterOrEqual(t, stats.Year, stats.Month)
	require.LessOrEqual(t, stats.Year, int64(2))
	require.LessOrEqual(t, stats.Month, int64(1))

	byApplication, err := statisticDomain.GetStats(ctx, &model.GetStatsRequest{
		ApplicationID: testutil.Contract1.ApplicationID,
	})
	require.NoError(t, err)
	require.Equal(t, stats.Today, byApplication.Today)

	_, err = statisticDomain.GetStats(ctx, &model.GetStatsRequest{})
	require.Error(t, err)
}
