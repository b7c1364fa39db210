package chain

import (
	"context"

	"github.com/google/uuid"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/xcontext"
)

const defaultRevertMessage = "Transaction Reverted"

// TxTracker records the lifecycle of one submitted transaction. It is built
// per send, persists the pending row as soon as the node returns a hash, and
// finalizes the row when the receipt settles either way.
type TxTracker struct {
	transactionRepo repository.TransactionRepository

	shortID     string
	fromAddress string
	toAddress   string
	input       entity.Map

	// afterHash runs once the pending row is committed. A failing or
	// panicking callback never undoes the row.
	afterHash func(ctx context.Context, hash string) error

	hash string
}

func NewTxTracker(
	transactionRepo repository.TransactionRepository,
	shortID, fromAddress, toAddress string,
	input entity.Map,
) *TxTracker {
	return &TxTracker{
		transactionRepo: transactionRepo,
		shortID:         shortID,
		fromAddress:     fromAddress,
		toAddress:       toAddress,
		input:           input,
	}
}

func (t *TxTracker) AfterHash(fn func(ctx context.Context, hash string) error) *TxTracker {
	t.afterHash = fn
	return t
}

func (t *TxTracker) Hash() string {
	return t.hash
}

// TransactionHash persists the pending row for hash and runs the afterHash
// callback.
func (t *TxTracker) TransactionHash(ctx context.Context, hash string) error {
	err := t.transactionRepo.Create(ctx, &entity.Transaction{
		Base:        entity.Base{ID: uuid.NewString()},
		ShortID:     t.shortID,
		Hash:        hash,
		Status:      entity.TransactionStatusTypePending,
		FromAddress: t.fromAddress,
		ToAddress:   t.toAddress,
		Input:       t.input,
	})
	if err != nil {
		return err
	}

	t.hash = hash

	if t.afterHash != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					xcontext.Logger(ctx).Errorf("Recovered after hash callback of %s: %v", hash, r)
				}
			}()

			if err := t.afterHash(ctx, hash); err != nil {
				xcontext.Logger(ctx).Errorf("After hash callback of %s: %v", hash, err)
			}
		}()
	}

	return nil
}

// Confirm finalizes the row as successful with the settled block and gas
// details plus the decoded events.
func (t *TxTracker) Confirm(ctx context.Context, receipt *ethtypes.Receipt, events entity.Map) error {
	if t.hash == "" {
		return nil
	}

	extra := entity.Map{
		"gasUsed":           receipt.GasUsed,
		"cumulativeGasUsed": receipt.CumulativeGasUsed,
	}
	if len(events) > 0 {
		extra["events"] = events
	}

	return t.transactionRepo.UpdateStatusByHash(
		ctx,
		t.hash,
		entity.TransactionStatusTypeSuccess,
		receipt.BlockNumber.Uint64(),
		receipt.BlockHash.Hex(),
		extra,
	)
}

// Fail finalizes the row as failed. Block and gas details come from receipt,
// falling back to fallbackReceipt field by field. A row is only written when
// a hash was recorded before, an error without a submitted transaction leaves
// nothing to track.
func (t *TxTracker) Fail(
	ctx context.Context, receipt, fallbackReceipt *ethtypes.Receipt, message string,
) error {
	if t.hash == "" {
		return nil
	}

	if message == "" {
		message = defaultRevertMessage
	}

	var blockNumber uint64
	var blockHash string
	extra := entity.Map{"errorMessage": message}

	fill := func(r *ethtypes.Receipt) {
		if r == nil {
			return
		}

		if blockNumber == 0 && r.BlockNumber != nil {
			blockNumber = r.BlockNumber.Uint64()
		}

		if blockHash == "" && r.BlockHash != (common.Hash{}) {
			blockHash = r.BlockHash.Hex()
		}

		if _, ok := extra["gasUsed"]; !ok {
			extra["gasUsed"] = r.GasUsed
			extra["cumulativeGasUsed"] = r.CumulativeGasUsed
		}
	}

	fill(receipt)
	fill(fallbackReceipt)

	return t.transactionRepo.UpdateStatusByHash(
		ctx,
		t.hash,
		entity.TransactionStatusTypeFailed,
		blockNumber,
		blockHash,
		extra,
	)
}
