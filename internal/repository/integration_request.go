package repository

import (
	"context"
	"time"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type CountIntegrationRequestFilter struct {
	ShortID       string
	ApplicationID string
	NetworkID     string
	CreatedAfter  time.Time
}

type IntegrationRequestRepository interface {
	Create(ctx context.Context, request *entity.IntegrationRequest) error
	Finalize(ctx context.Context, id string, status bool, outputs entity.Map) error
	GetByID(ctx context.Context, id string) (*entity.IntegrationRequest, error)
	GetListByShortID(ctx context.Context, shortID string, offset, limit int) ([]entity.IntegrationRequest, error)
	Count(ctx context.Context, filter CountIntegrationRequestFilter) (int64, error)
}

type integrationRequestRepository struct{}

func NewIntegrationRequestRepository() *integrationRequestRepository {
	return &integrationRequestRepository{}
}

func (r *integrationRequestRepository) Create(
	ctx context.Context, request *entity.IntegrationRequest,
) error {
	return xcontext.DB(ctx).Create(request).Error
}

func (r *integrationRequestRepository) Finalize(
	ctx context.Context, id string, status bool, outputs entity.Map,
) error {
	updates := map[string]any{"status": status}
	if outputs != nil {
		updates["outputs"] = outputs
	}

	return xcontext.DB(ctx).Model(&entity.IntegrationRequest{}).
		Where("id=?", id).
		Updates(updates).Error
}

func (r *integrationRequestRepository) GetByID(
	ctx context.Context, id string,
) (*entity.IntegrationRequest, error) {
	var result entity.IntegrationRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *integrationRequestRepository) GetListByShortID(
	ctx context.Context, shortID string, offset, limit int,
) ([]entity.IntegrationRequest, error) {
	var result []entity.IntegrationRequest
	err := xcontext.DB(ctx).
		Where("short_id=?", shortID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *integrationRequestRepository) Count(
	ctx context.Context, filter CountIntegrationRequestFilter,
) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.IntegrationRequest{})

	if filter.ShortID != "" {
		tx = tx.Where("integration_requests.short_id=?", filter.ShortID)
	}

	if filter.ApplicationID != "" || filter.NetworkID != "" {
		tx = tx.Joins("JOIN contracts ON contracts.short_id=integration_requests.short_id")
	}

	if filter.ApplicationID != "" {
		tx = tx.Where("contracts.application_id=?", filter.ApplicationID)
	}

	if filter.NetworkID != "" {
		tx = tx.Where("contracts.network_id=?", filter.NetworkID)
	}

	if !filter.CreatedAfter.IsZero() {
		tx = tx.Where("integration_requests.created_at >= ?", filter.CreatedAfter)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
