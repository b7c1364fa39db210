package chain

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

const (
	defaultRpcTimeout     = 5 * time.Second
	defaultReceiptTimeout = 30 * time.Second
	receiptPollInterval   = 500 * time.Millisecond

	// Fallback when the node cannot estimate gas for a transaction.
	fallbackGasLimit = 4_700_000
)

func rpcTimeout(ctx context.Context) time.Duration {
	if t := xcontext.Configs(ctx).Blockchain.RPCTimeout; t > 0 {
		return t
	}

	return defaultRpcTimeout
}

// Client is one live websocket connection to a chain node.
type Client struct {
	networkID string
	chainID   *big.Int

	rpc *rpc.Client
	eth *ethclient.Client
}

func (c *Client) NetworkID() string {
	return c.networkID
}

func (c *Client) Close() {
	c.rpc.Close()
}

// Alive probes the node without tearing down the connection.
func (c *Client) Alive(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	var listening bool
	if err := c.rpc.CallContext(ctx, &listening, "net_listening"); err != nil {
		return false
	}

	return listening
}

func (c *Client) TransactionCount(ctx context.Context, address string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	return c.eth.PendingNonceAt(ctx, common.HexToAddress(address))
}

// Call executes a read only method and returns its decoded outputs keyed the
// way the abi names them.
func (c *Client) Call(
	ctx context.Context, parsedABI abi.ABI, address, method string, args []any,
) (entity.Map, error) {
	packed, err := PackArgs(parsedABI, method, args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	to := common.HexToAddress(address)
	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: packed}, nil)
	if err != nil {
		return nil, err
	}

	values, err := parsedABI.Unpack(method, raw)
	if err != nil {
		return nil, err
	}

	return outputMap(parsedABI.Methods[method], values), nil
}

// Send signs and submits a state changing transaction with an explicit nonce.
func (c *Client) Send(
	ctx context.Context,
	key *ecdsa.PrivateKey,
	nonce uint64,
	address string,
	data []byte,
) (*ethtypes.Transaction, error) {
	to := common.HexToAddress(address)
	tx, err := c.buildTx(ctx, key, nonce, &to, data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Deploy submits a contract creation transaction and returns it together
// with the address the contract will live at.
func (c *Client) Deploy(
	ctx context.Context, key *ecdsa.PrivateKey, nonce uint64, data []byte,
) (*ethtypes.Transaction, common.Address, error) {
	tx, err := c.buildTx(ctx, key, nonce, nil, data)
	if err != nil {
		return nil, common.Address{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return nil, common.Address{}, err
	}

	from := ethcrypto.PubkeyToAddress(key.PublicKey)
	return tx, ethcrypto.CreateAddress(from, nonce), nil
}

func (c *Client) buildTx(
	ctx context.Context,
	key *ecdsa.PrivateKey,
	nonce uint64,
	to *common.Address,
	data []byte,
) (*ethtypes.Transaction, error) {
	callCtx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	gasPrice, err := c.eth.SuggestGasPrice(callCtx)
	if err != nil {
		return nil, err
	}

	from := ethcrypto.PubkeyToAddress(key.PublicKey)
	gasLimit, err := c.eth.EstimateGas(callCtx, ethereum.CallMsg{
		From:     from,
		To:       to,
		GasPrice: gasPrice,
		Data:     data,
	})
	if err != nil {
		gasLimit = fallbackGasLimit
	}

	var tx *ethtypes.Transaction
	if to == nil {
		tx = ethtypes.NewContractCreation(nonce, common.Big0, gasLimit, gasPrice, data)
	} else {
		tx = ethtypes.NewTransaction(nonce, *to, common.Big0, gasLimit, gasPrice, data)
	}

	return ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(c.chainID), key)
}

// WaitReceipt polls for the receipt of hash until it is mined or the
// configured timeout passes.
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	timeout := xcontext.Configs(ctx).Blockchain.ReceiptTimeout
	if timeout <= 0 {
		timeout = defaultReceiptTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// PastEvents returns the decoded logs of one event over a block range.
func (c *Client) PastEvents(
	ctx context.Context,
	parsedABI abi.ABI,
	address string,
	eventName string,
	fromBlock, toBlock *big.Int,
) ([]entity.Map, error) {
	event, ok := parsedABI.Events[eventName]
	if !ok {
		return nil, ethereum.NotFound
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	logs, err := c.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Addresses: []common.Address{common.HexToAddress(address)},
		Topics:    [][]common.Hash{{event.ID}},
	})
	if err != nil {
		return nil, err
	}

	results := make([]entity.Map, 0, len(logs))
	for _, l := range logs {
		decoded, err := DecodeEvent(parsedABI, event, l)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode event %s at tx %s: %v",
				eventName, l.TxHash.Hex(), err)
			continue
		}

		results = append(results, decoded)
	}

	return results, nil
}

// DecodeReceiptEvents turns every log of a receipt this abi knows about into
// the webhook payload shape.
func (c *Client) DecodeReceiptEvents(
	ctx context.Context, parsedABI abi.ABI, receipt *ethtypes.Receipt,
) entity.Map {
	events := entity.Map{}
	for _, l := range receipt.Logs {
		if len(l.Topics) == 0 {
			continue
		}

		event, err := parsedABI.EventByID(l.Topics[0])
		if err != nil {
			continue
		}

		decoded, err := DecodeEvent(parsedABI, *event, *l)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode event %s at tx %s: %v",
				event.Name, l.TxHash.Hex(), err)
			continue
		}

		events[event.Name] = decoded
	}

	return events
}

// ParseABI builds a go-ethereum abi from the stored json definition.
func ParseABI(definition entity.Array[map[string]any]) (abi.ABI, error) {
	raw, err := json.Marshal(definition)
	if err != nil {
		return abi.ABI{}, err
	}

	return abi.JSON(bytesReader(raw))
}
