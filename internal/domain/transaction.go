package domain

import (
	"context"

	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
)

type TransactionDomain interface {
	GetList(context.Context, *model.GetTransactionsRequest) (*model.GetTransactionsResponse, error)
}

type transactionDomain struct {
	transactionRepo repository.TransactionRepository
}

func NewTransactionDomain(transactionRepo repository.TransactionRepository) *transactionDomain {
	return &transactionDomain{transactionRepo: transactionRepo}
}

func (d *transactionDomain) GetList(
	ctx context.Context, req *model.GetTransactionsRequest,
) (*model.GetTransactionsResponse, error) {
	if req.ShortID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty short id")
	}

	if req.Limit == 0 {
		req.Limit = 50
	}

	transactions, err := d.transactionRepo.GetListByShortID(ctx, req.ShortID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetTransactionsResponse{}
	for _, t := range transactions {
		resp.Transactions = append(resp.Transactions, model.Transaction{
			Hash:        t.Hash,
			Status:      string(t.Status),
			FromAddress: t.FromAddress,
			ToAddress:   t.ToAddress,
			BlockNumber: t.BlockNumber,
			BlockHash:   t.BlockHash,
			ExtraData:   t.ExtraData,
			CreatedAt:   t.CreatedAt,
		})
	}

	return resp, nil
}
