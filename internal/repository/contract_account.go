package repository

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type ContractAccountRepository interface {
	Create(ctx context.Context, account *entity.ContractAccount) error
	GetByShortIDAndAddress(ctx context.Context, shortID, address string) (*entity.ContractAccount, error)
	GetListByShortID(ctx context.Context, shortID string) ([]entity.ContractAccount, error)
	UpdateByID(ctx context.Context, id, name string, isActive bool) error
	DeleteByShortID(ctx context.Context, shortID string) error
}

type contractAccountRepository struct{}

func NewContractAccountRepository() *contractAccountRepository {
	return &contractAccountRepository{}
}

func (r *contractAccountRepository) Create(ctx context.Context, account *entity.ContractAccount) error {
	return xcontext.DB(ctx).Create(account).Error
}

func (r *contractAccountRepository) GetByShortIDAndAddress(
	ctx context.Context, shortID, address string,
) (*entity.ContractAccount, error) {
	var result entity.ContractAccount
	err := xcontext.DB(ctx).
		Take(&result, "short_id=? AND address=? AND is_active=true", shortID, address).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contractAccountRepository) GetListByShortID(
	ctx context.Context, shortID string,
) ([]entity.ContractAccount, error) {
	var result []entity.ContractAccount
	err := xcontext.DB(ctx).Find(&result, "short_id=?", shortID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *contractAccountRepository) UpdateByID(
	ctx context.Context, id, name string, isActive bool,
) error {
	return xcontext.DB(ctx).Model(&entity.ContractAccount{}).
		Where("id=?", id).
		Updates(map[string]any{"name": name, "is_active": isActive}).Error
}

func (r *contractAccountRepository) DeleteByShortID(ctx context.Context, shortID string) error {
	return xcontext.DB(ctx).Delete(&entity.ContractAccount{}, "short_id=?", shortID).Error
}
