package repository

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type ContractVersionRepository interface {
	Create(ctx context.Context, version *entity.ContractVersion) error
	GetByShortIDAndTag(ctx context.Context, shortID, tag string) (*entity.ContractVersion, error)
	GetLatestByShortID(ctx context.Context, shortID string) (*entity.ContractVersion, error)
	GetListByShortID(ctx context.Context, shortID string) ([]entity.ContractVersion, error)
	GetByHash(ctx context.Context, hash string) (*entity.ContractVersion, error)
	UpdateInfoByID(ctx context.Context, id, name, description string) error
	DeleteByShortID(ctx context.Context, shortID string) error
}

type contractVersionRepository struct{}

func NewContractVersionRepository() *contractVersionRepository {
	return &contractVersionRepository{}
}

func (r *contractVersionRepository) Create(ctx context.Context, version *entity.ContractVersion) error {
	return xcontext.DB(ctx).Create(version).Error
}

func (r *contractVersionRepository) GetByShortIDAndTag(
	ctx context.Context, shortID, tag string,
) (*entity.ContractVersion, error) {
	var result entity.ContractVersion
	err := xcontext.DB(ctx).Take(&result, "short_id=? AND tag=?", shortID, tag).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contractVersionRepository) GetLatestByShortID(
	ctx context.Context, shortID string,
) (*entity.ContractVersion, error) {
	var result entity.ContractVersion
	err := xcontext.DB(ctx).
		Where("short_id=?", shortID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contractVersionRepository) GetListByShortID(
	ctx context.Context, shortID string,
) ([]entity.ContractVersion, error) {
	var result []entity.ContractVersion
	err := xcontext.DB(ctx).
		Where("short_id=?", shortID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *contractVersionRepository) GetByHash(
	ctx context.Context, hash string,
) (*entity.ContractVersion, error) {
	var result entity.ContractVersion
	if err := xcontext.DB(ctx).Take(&result, "hash=?", hash).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contractVersionRepository) UpdateInfoByID(
	ctx context.Context, id, name, description string,
) error {
	return xcontext.DB(ctx).Model(&entity.ContractVersion{}).
		Where("id=?", id).
		Updates(map[string]any{"name": name, "description": description}).Error
}

func (r *contractVersionRepository) DeleteByShortID(ctx context.Context, shortID string) error {
	return xcontext.DB(ctx).Delete(&entity.ContractVersion{}, "short_id=?", shortID).Error
}
