package repository

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type NetworkRepository interface {
	Create(ctx context.Context, network *entity.Network) error
	GetByID(ctx context.Context, id string) (*entity.Network, error)
	GetList(ctx context.Context, ownerID string) ([]entity.Network, error)
	DeleteByID(ctx context.Context, id string) error
}

type networkRepository struct{}

func NewNetworkRepository() *networkRepository {
	return &networkRepository{}
}

func (r *networkRepository) Create(ctx context.Context, network *entity.Network) error {
	return xcontext.DB(ctx).Create(network).Error
}

func (r *networkRepository) GetByID(ctx context.Context, id string) (*entity.Network, error) {
	var result entity.Network
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *networkRepository) GetList(ctx context.Context, ownerID string) ([]entity.Network, error) {
	var result []entity.Network
	err := xcontext.DB(ctx).
		Find(&result, "owner_id=? OR is_public=true", ownerID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *networkRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Network{}, "id=?", id).Error
}
