package repository

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type APIKeyRepository interface {
	Create(ctx context.Context, key *entity.APIKey) error
	GetByToken(ctx context.Context, token string) (*entity.APIKey, error)
	GetByTokenAndApplicationID(ctx context.Context, token, applicationID string) (*entity.APIKey, error)
	GetListByApplicationID(ctx context.Context, applicationID string) ([]entity.APIKey, error)
	DeleteByID(ctx context.Context, id string) error
}

type apiKeyRepository struct{}

func NewAPIKeyRepository() *apiKeyRepository {
	return &apiKeyRepository{}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *entity.APIKey) error {
	return xcontext.DB(ctx).Create(key).Error
}

func (r *apiKeyRepository) GetByToken(ctx context.Context, token string) (*entity.APIKey, error) {
	var result entity.APIKey
	if err := xcontext.DB(ctx).Take(&result, "token=?", token).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *apiKeyRepository) GetByTokenAndApplicationID(
	ctx context.Context, token, applicationID string,
) (*entity.APIKey, error) {
	var result entity.APIKey
	err := xcontext.DB(ctx).
		Take(&result, "token=? AND application_id=?", token, applicationID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *apiKeyRepository) GetListByApplicationID(
	ctx context.Context, applicationID string,
) ([]entity.APIKey, error) {
	var result []entity.APIKey
	err := xcontext.DB(ctx).Find(&result, "application_id=?", applicationID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *apiKeyRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.APIKey{}, "id=?", id).Error
}
