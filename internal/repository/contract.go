package repository

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *entity.Contract) error
	GetByShortID(ctx context.Context, shortID string) (*entity.Contract, error)
	GetListByApplicationID(ctx context.Context, applicationID string) ([]entity.Contract, error)
	UpdateInfoByShortID(ctx context.Context, shortID, name, description string) error
	DeleteByShortID(ctx context.Context, shortID string) error
	DeleteByApplicationID(ctx context.Context, applicationID string) error
}

type contractRepository struct{}

func NewContractRepository() *contractRepository {
	return &contractRepository{}
}

func (r *contractRepository) Create(ctx context.Context, contract *entity.Contract) error {
	return xcontext.DB(ctx).Create(contract).Error
}

func (r *contractRepository) GetByShortID(ctx context.Context, shortID string) (*entity.Contract, error) {
	var result entity.Contract
	if err := xcontext.DB(ctx).Take(&result, "short_id=?", shortID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contractRepository) GetListByApplicationID(
	ctx context.Context, applicationID string,
) ([]entity.Contract, error) {
	var result []entity.Contract
	err := xcontext.DB(ctx).Find(&result, "application_id=?", applicationID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *contractRepository) UpdateInfoByShortID(
	ctx context.Context, shortID, name, description string,
) error {
	return xcontext.DB(ctx).Model(&entity.Contract{}).
		Where("short_id=?", shortID).
		Updates(map[string]any{"name": name, "description": description}).Error
}

func (r *contractRepository) DeleteByShortID(ctx context.Context, shortID string) error {
	return xcontext.DB(ctx).Delete(&entity.Contract{}, "short_id=?", shortID).Error
}

func (r *contractRepository) DeleteByApplicationID(ctx context.Context, applicationID string) error {
	return xcontext.DB(ctx).Delete(&entity.Contract{}, "application_id=?", applicationID).Error
}
