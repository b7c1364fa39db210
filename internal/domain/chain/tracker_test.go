package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/testutil"
)

func Test_txTracker_PendingThenConfirm(t *testing.T) {
	ctx := testutil.MockContext()
	transactionRepo := repository.NewTransactionRepository()

	var callbackHash string
	tracker := NewTxTracker(
		transactionRepo, "contract1", "0xfrom", "0xto", entity.Map{"method": "transfer"},
	).AfterHash(func(ctx context.Context, hash string) error {
		callbackHash = hash
		return nil
	})

	require.NoError(t, tracker.TransactionHash(ctx, "0xhash1"))
	require.Equal(t, "0xhash1", tracker.Hash())
	require.Equal(t, "0xhash1", callbackHash)

	stored, err := transactionRepo.GetByHash(ctx, "0xhash1")
	require.NoError(t, err)
	require.Equal(t, entity.TransactionStatusTypePending, stored.Status)
	require.Equal(t, "contract1", stored.ShortID)
	require.Equal(t, "transfer", stored.Input["method"])

	receipt := &ethtypes.Receipt{
		BlockNumber:       big.NewInt(7),
		BlockHash:         common.HexToHash("0x07"),
		GasUsed:           21000,
		CumulativeGasUsed: 42000,
	}

	require.NoError(t, tracker.Confirm(ctx, receipt, entity.Map{"Transfer": entity.Map{"value": int64(1)}}))

	stored, err = transactionRepo.GetByHash(ctx, "0xhash1")
	require.NoError(t, err)
	require.Equal(t, entity.TransactionStatusTypeSuccess, stored.Status)
	require.Equal(t, uint64(7), stored.BlockNumber)
	require.NotNil(t, stored.ExtraData["events"])
}

func Test_txTracker_PanickingCallbackKeepsRow(t *testing.T) {
	ctx := testutil.MockContext()
	transactionRepo := repository.NewTransactionRepository()

	tracker := NewTxTracker(transactionRepo, "contract1", "0xfrom", "0xto", nil).
		AfterHash(func(ctx context.Context, hash string) error {
			panic("boom")
		})

	require.NoError(t, tracker.TransactionHash(ctx, "0xhash2"))

	_, err := transactionRepo.GetByHash(ctx, "0xhash2")
	require.NoError(t, err)
}

func Test_txTracker_FailWithoutHashIsNoop(t *testing.T) {
	ctx := testutil.MockContext()
	transactionRepo := repository.NewTransactionRepository()

	tracker := NewTxTracker(transactionRepo, "contract1", "0xfrom", "0xto", nil)
	require.NoError(t, tracker.Fail(ctx, nil, nil, "node rejected"))
	require.NoError(t, tracker.Confirm(ctx, &ethtypes.Receipt{BlockNumber: big.NewInt(1)}, nil))
}

func Test_txTracker_FailDefaultsMessage(t *testing.T) {
	ctx := testutil.MockContext()
	transactionRepo := repository.NewTransactionRepository()

	tracker := NewTxTracker(transactionRepo, "contract1", "0xfrom", "0xto", nil)
	require.NoError(t, tracker.TransactionHash(ctx, "0xhash3"))
	require.NoError(t, tracker.Fail(ctx, nil, nil, ""))

	stored, err := transactionRepo.GetByHash(ctx, "0xhash3")
	require.NoError(t, err)
	require.Equal(t, entity.TransactionStatusTypeFailed, stored.Status)
	require.Equal(t, "Transaction Reverted", stored.ExtraData["errorMessage"])
}

func Test_txTracker_FailUsesFallbackReceipt(t *testing.T) {
	ctx := testutil.MockContext()
	transactionRepo := repository.NewTransactionRepository()

	tracker := NewTxTracker(transactionRepo, "contract1", "0xfrom", "0xto", nil)
	require.NoError(t, tracker.TransactionHash(ctx, "0xhash4"))

	fallback := &ethtypes.Receipt{
		BlockNumber: big.NewInt(9),
		BlockHash:   common.HexToHash("0x09"),
		GasUsed:     30000,
	}
	require.NoError(t, tracker.Fail(ctx, nil, fallback, "execution reverted"))

	stored, err := transactionRepo.GetByHash(ctx, "0xhash4")
	require.NoError(t, err)
	require.Equal(t, uint64(9), stored.BlockNumber)
	require.Equal(t, "execution reverted", stored.ExtraData["errorMessage"])
}

func Test_txTracker_FailMergesReceiptsFieldByField(t *testing.T) {
	ctx := testutil.MockContext()
	transactionRepo := repository.NewTransactionRepository()

	tracker := NewTxTracker(transactionRepo, "contract1", "0xfrom", "0xto", nil)
	require.NoError(t, tracker.TransactionHash(ctx, "0xhash5"))

	// The primary receipt knows the gas but not where the transaction
	// landed, the fallback fills in the block details.
	primary := &ethtypes.Receipt{
		GasUsed:           21000,
		CumulativeGasUsed: 42000,
	}
	fallback := &ethtypes.Receipt{
		BlockNumber:       big.NewInt(11),
		BlockHash:         common.HexToHash("0x0b"),
		GasUsed:           99999,
		CumulativeGasUsed: 99999,
	}
	require.NoError(t, tracker.Fail(ctx, primary, fallback, "out of gas"))

	stored, err := transactionRepo.GetByHash(ctx, "0xhash5")
	require.NoError(t, err)
	require.Equal(t, entity.TransactionStatusTypeFailed, stored.Status)
	require.Equal(t, uint64(11), stored.BlockNumber)
	require.Equal(t, common.HexToHash("0x0b").Hex(), stored.BlockHash)
	require.EqualValues(t, 21000, stored.ExtraData["gasUsed"])
	require.EqualValues(t, 42000, stored.ExtraData["cumulativeGasUsed"])
}
