package domain

import (
	"context"
	"time"

	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/dateutil"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetStats(context.Context, *model.GetStatsRequest) (*model.GetStatsResponse, error)
}

type statisticDomain struct {
	requestRepo repository.IntegrationRequestRepository
}

func NewStatisticDomain(requestRepo repository.IntegrationRequestRepository) *statisticDomain {
	return &statisticDomain{requestRepo: requestRepo}
}

func (d *statisticDomain) GetStats(
	ctx context.Context, req *model.GetStatsRequest,
) (*model.GetStatsResponse, error) {
	if req.ShortID == "" && req.ApplicationID == "" && req.NetworkID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty scope")
	}

	now := time.Now()
	ranges := []time.Time{
		dateutil.StartOfDay(now),
		dateutil.StartOfWeek(now),
		dateutil.StartOfMonth(now),
		dateutil.StartOfQuarter(now),
		dateutil.StartOfYear(now),
	}

	counts := make([]int64, len(ranges))
	for i, after := range ranges {
		count, err := d.requestRepo.Count(ctx, repository.CountIntegrationRequestFilter{
			ShortID:       req.ShortID,
			ApplicationID: req.ApplicationID,
			NetworkID:     req.NetworkID,
			CreatedAfter:  after,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count requests: %v", err)
			return nil, errorx.Unknown
		}

		counts[i] = count
	}

	return &model.GetStatsResponse{
		Today:   counts[0],
		Week:    counts[1],
		Month:   counts[2],
		Quarter: counts[3],
		Year:    counts[4],
	}, nil
}
