package repository

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByHash(ctx context.Context, hash string) (*entity.Transaction, error)
	GetListByShortID(ctx context.Context, shortID string, offset, limit int) ([]entity.Transaction, error)
	UpdateStatusByHash(
		ctx context.Context,
		hash string,
		newStatus entity.TransactionStatusType,
		blockNumber uint64,
		blockHash string,
		extraData entity.Map,
	) error
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return xcontext.DB(ctx).Create(tx).Error
}

func (r *transactionRepository) GetByHash(ctx context.Context, hash string) (*entity.Transaction, error) {
	var result entity.Transaction
	if err := xcontext.DB(ctx).Take(&result, "hash=?", hash).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *transactionRepository) GetListByShortID(
	ctx context.Context, shortID string, offset, limit int,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
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

func (r *transactionRepository) UpdateStatusByHash(
	ctx context.Context,
	hash string,
	newStatus entity.TransactionStatusType,
	blockNumber uint64,
	blockHash string,
	extraData entity.Map,
) error {
	updates := map[string]any{
		"status":       newStatus,
		"block_number": blockNumber,
		"block_hash":   blockHash,
	}
	if extraData != nil {
		updates["extra_data"] = extraData
	}

	return xcontext.DB(ctx).Model(&entity.Transaction{}).
		Where("hash=?", hash).
		Updates(updates).Error
}
