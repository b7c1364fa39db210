package repository

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type WebhookRepository interface {
	Create(ctx context.Context, webhook *entity.Webhook) error
	GetByID(ctx context.Context, id string) (*entity.Webhook, error)
	GetListByShortID(ctx context.Context, shortID string) ([]entity.Webhook, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByShortID(ctx context.Context, shortID string) error

	CreateLog(ctx context.Context, log *entity.WebhookLog) error
	GetLogsByWebhookID(ctx context.Context, webhookID string, offset, limit int) ([]entity.WebhookLog, error)
}

type webhookRepository struct{}

func NewWebhookRepository() *webhookRepository {
	return &webhookRepository{}
}

func (r *webhookRepository) Create(ctx context.Context, webhook *entity.Webhook) error {
	return xcontext.DB(ctx).Create(webhook).Error
}

func (r *webhookRepository) GetByID(ctx context.Context, id string) (*entity.Webhook, error) {
	var result entity.Webhook
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *webhookRepository) GetListByShortID(
	ctx context.Context, shortID string,
) ([]entity.Webhook, error) {
	var result []entity.Webhook
	err := xcontext.DB(ctx).Find(&result, "short_id=?", shortID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *webhookRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Webhook{}, "id=?", id).Error
}

func (r *webhookRepository) DeleteByShortID(ctx context.Context, shortID string) error {
	return xcontext.DB(ctx).Delete(&entity.Webhook{}, "short_id=?", shortID).Error
}

func (r *webhookRepository) CreateLog(ctx context.Context, log *entity.WebhookLog) error {
	return xcontext.DB(ctx).Create(log).Error
}

func (r *webhookRepository) GetLogsByWebhookID(
	ctx context.Context, webhookID string, offset, limit int,
) ([]entity.WebhookLog, error) {
	var result []entity.WebhookLog
	err := xcontext.DB(ctx).
		Where("webhook_id=?", webhookID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
