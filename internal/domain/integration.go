package domain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contractdock/backend/internal/domain/chain"
	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/crypto"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/ethutil"
	"github.com/contractdock/backend/pkg/xcontext"
)

type IntegrationDomain interface {
	Call(context.Context, *model.CallContractRequest) (*model.CallContractResponse, error)
	Send(context.Context, *model.SendContractRequest) (*model.SendContractResponse, error)
	GetPastEvents(context.Context, *model.GetPastEventsRequest) (*model.GetPastEventsResponse, error)
	GetRequests(context.Context, *model.GetIntegrationRequestsRequest) (*model.GetIntegrationRequestsResponse, error)
}

type integrationDomain struct {
	contractRepo repository.ContractRepository
	versionRepo  repository.ContractVersionRepository
	accountRepo  repository.ContractAccountRepository
	apiKeyRepo   repository.APIKeyRepository
	requestRepo  repository.IntegrationRequestRepository

	webhookDomain WebhookDomain

	cache     *chain.Cache
	connector *chain.Connector
	sequencer *chain.NonceSequencer
	trackers  TxTrackerFactory
	cipher    *crypto.AESCipher
}

// TxTrackerFactory builds the lifecycle recorder of one send. Factored out so
// tests can observe tracker interactions.
type TxTrackerFactory func(shortID, fromAddress, toAddress string, input entity.Map) *chain.TxTracker

func NewIntegrationDomain(
	contractRepo repository.ContractRepository,
	versionRepo repository.ContractVersionRepository,
	accountRepo repository.ContractAccountRepository,
	apiKeyRepo repository.APIKeyRepository,
	requestRepo repository.IntegrationRequestRepository,
	transactionRepo repository.TransactionRepository,
	webhookDomain WebhookDomain,
	cache *chain.Cache,
	connector *chain.Connector,
	sequencer *chain.NonceSequencer,
	cipher *crypto.AESCipher,
) *integrationDomain {
	return &integrationDomain{
		contractRepo:  contractRepo,
		versionRepo:   versionRepo,
		accountRepo:   accountRepo,
		apiKeyRepo:    apiKeyRepo,
		requestRepo:   requestRepo,
		webhookDomain: webhookDomain,
		cache:         cache,
		connector:     connector,
		sequencer:     sequencer,
		trackers: func(shortID, fromAddress, toAddress string, input entity.Map) *chain.TxTracker {
			return chain.NewTxTracker(transactionRepo, shortID, fromAddress, toAddress, input)
		},
		cipher: cipher,
	}
}

func (d *integrationDomain) Call(
	ctx context.Context, req *model.CallContractRequest,
) (*model.CallContractResponse, error) {
	contract, version, err := d.resolveTarget(ctx, req.ShortID, req.Tag)
	if err != nil {
		return nil, err
	}

	if err := d.authorize(ctx, contract); err != nil {
		return nil, err
	}

	client, err := d.connector.Connect(ctx, contract.NetworkID)
	if err != nil {
		return nil, err
	}

	parsedABI, err := chain.ParseABI(version.ABI)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse abi of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	requestID, err := d.openRequest(ctx, req.ShortID, entity.IntegrationRequestTypeCall, req.Method, req.Inputs)
	if err != nil {
		return nil, err
	}

	outputs, err := client.Call(ctx, parsedABI, version.ContractAddress, req.Method, req.Inputs)
	if err != nil {
		d.closeRequest(ctx, requestID, false, entity.Map{"errorMessage": err.Error()})
		return nil, errorx.New(errorx.BadResponse, "%s", err.Error())
	}

	d.closeRequest(ctx, requestID, true, outputs)

	return &model.CallContractResponse{
		RequestID: requestID,
		Outputs:   outputs,
	}, nil
}

func (d *integrationDomain) Send(
	ctx context.Context, req *model.SendContractRequest,
) (*model.SendContractResponse, error) {
	contract, version, err := d.resolveTarget(ctx, req.ShortID, req.Tag)
	if err != nil {
		return nil, err
	}

	if err := d.authorize(ctx, contract); err != nil {
		return nil, err
	}

	client, err := d.connector.Connect(ctx, contract.NetworkID)
	if err != nil {
		return nil, err
	}

	parsedABI, err := chain.ParseABI(version.ABI)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse abi of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	key, fromAddress, err := d.resolveSender(ctx, contract, req.Account)
	if err != nil {
		return nil, err
	}

	packed, err := chain.PackArgs(parsedABI, req.Method, req.Inputs)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "%s", err.Error())
	}

	requestID, err := d.openRequest(ctx, req.ShortID, entity.IntegrationRequestTypeSend, req.Method, req.Inputs)
	if err != nil {
		return nil, err
	}

	nonce, err := d.sequencer.Next(ctx, client, fromAddress)
	if err != nil {
		d.closeRequest(ctx, requestID, false, entity.Map{"errorMessage": err.Error()})
		return nil, err
	}

	tracker := d.trackers(req.ShortID, fromAddress, version.ContractAddress, entity.Map{
		"method": req.Method,
		"inputs": req.Inputs,
	})

	tx, err := client.Send(ctx, key, nonce, version.ContractAddress, packed)
	if err != nil {
		// The node rejected the transaction, so the reserved nonce was
		// never consumed. Drop the counter and re-sync next time.
		if releaseErr := d.sequencer.Release(ctx, fromAddress); releaseErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot release nonce after send error: %v", releaseErr)
		}

		d.closeRequest(ctx, requestID, false, entity.Map{"errorMessage": err.Error()})
		return nil, errorx.New(errorx.BadResponse, "%s", err.Error())
	}

	hash := tx.Hash()
	if err := tracker.TransactionHash(ctx, hash.Hex()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot persist pending transaction %s: %v", hash.Hex(), err)
	}

	go d.settle(detach(ctx), client, parsedABI, tracker, requestID, req.ShortID, hash.Hex())

	return &model.SendContractResponse{
		RequestID:       requestID,
		TransactionHash: hash.Hex(),
	}, nil
}

// settle waits for the receipt of one submitted transaction and finalizes
// every record that watched it.
func (d *integrationDomain) settle(
	ctx context.Context,
	client *chain.Client,
	parsedABI abi.ABI,
	tracker *chain.TxTracker,
	requestID, shortID, hash string,
) {
	receipt, err := client.WaitReceipt(ctx, common.HexToHash(hash))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get receipt of %s: %v", hash, err)
		if err := tracker.Fail(ctx, nil, nil, err.Error()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark transaction %s failed: %v", hash, err)
		}

		d.closeRequest(ctx, requestID, false, entity.Map{"errorMessage": err.Error()})
		return
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		if err := tracker.Fail(ctx, receipt, nil, ""); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark transaction %s failed: %v", hash, err)
		}

		d.closeRequest(ctx, requestID, false, entity.Map{"transactionHash": hash})
		return
	}

	events := client.DecodeReceiptEvents(ctx, parsedABI, receipt)
	if err := tracker.Confirm(ctx, receipt, events); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot confirm transaction %s: %v", hash, err)
	}

	d.webhookDomain.CheckAndSend(ctx, shortID, events)
	d.closeRequest(ctx, requestID, true, entity.Map{"transactionHash": hash})
}

func (d *integrationDomain) GetPastEvents(
	ctx context.Context, req *model.GetPastEventsRequest,
) (*model.GetPastEventsResponse, error) {
	contract, version, err := d.resolveTarget(ctx, req.ShortID, req.Tag)
	if err != nil {
		return nil, err
	}

	if err := d.authorize(ctx, contract); err != nil {
		return nil, err
	}

	client, err := d.connector.Connect(ctx, contract.NetworkID)
	if err != nil {
		return nil, err
	}

	parsedABI, err := chain.ParseABI(version.ABI)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse abi of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	var fromBlock, toBlock *big.Int
	if req.FromBlock > 0 {
		fromBlock = big.NewInt(req.FromBlock)
	}
	if req.ToBlock > 0 {
		toBlock = big.NewInt(req.ToBlock)
	}

	events, err := client.PastEvents(
		ctx, parsedABI, version.ContractAddress, req.Event, fromBlock, toBlock)
	if err != nil {
		return nil, errorx.New(errorx.BadResponse, "%s", err.Error())
	}

	resp := &model.GetPastEventsResponse{Events: make([]map[string]any, 0, len(events))}
	for _, event := range events {
		resp.Events = append(resp.Events, event)
	}

	return resp, nil
}

func (d *integrationDomain) GetRequests(
	ctx context.Context, req *model.GetIntegrationRequestsRequest,
) (*model.GetIntegrationRequestsResponse, error) {
	contract, _, err := d.resolveTarget(ctx, req.ShortID, "")
	if err != nil {
		return nil, err
	}

	if err := d.authorize(ctx, contract); err != nil {
		return nil, err
	}

	if req.Limit == 0 {
		req.Limit = 50
	}

	requests, err := d.requestRepo.GetListByShortID(ctx, req.ShortID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get requests of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetIntegrationRequestsResponse{}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, model.IntegrationRequest{
			ID:        r.ID,
			Type:      string(r.Type),
			Method:    r.Method,
			Inputs:    r.Inputs,
			Outputs:   r.Outputs,
			Status:    r.Status,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp, nil
}

// resolveTarget loads the contract and the requested version, preferring the
// redis projections over the database. An empty tag means the most recently
// created version and always resolves against the database.
func (d *integrationDomain) resolveTarget(
	ctx context.Context, shortID, tag string,
) (*entity.Contract, *entity.ContractVersion, error) {
	if shortID == "" {
		return nil, nil, errorx.New(errorx.BadRequest, "Not allow empty short id")
	}

	contract, ok := d.cache.GetContract(ctx, shortID)
	if !ok {
		var err error
		contract, err = d.contractRepo.GetByShortID(ctx, shortID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, errorx.New(errorx.NotFound, "Not found contract")
			}

			xcontext.Logger(ctx).Errorf("Cannot get contract %s: %v", shortID, err)
			return nil, nil, errorx.Unknown
		}

		d.cache.StoreContract(ctx, contract)
	}

	var version *entity.ContractVersion
	if tag == "" {
		latest, err := d.versionRepo.GetLatestByShortID(ctx, shortID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, errorx.New(errorx.NotFound, "Not found version")
			}

			xcontext.Logger(ctx).Errorf("Cannot get latest version of %s: %v", shortID, err)
			return nil, nil, errorx.Unknown
		}

		version = latest
	} else {
		version, ok = d.cache.GetVersion(ctx, shortID, tag)
		if !ok {
			var err error
			version, err = d.versionRepo.GetByShortIDAndTag(ctx, shortID, tag)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, nil, errorx.New(errorx.NotFound, "Not found version")
				}

				xcontext.Logger(ctx).Errorf("Cannot get version %s of %s: %v", tag, shortID, err)
				return nil, nil, errorx.Unknown
			}

			d.cache.StoreVersion(ctx, version)
		}
	}

	return contract, version, nil
}

// authorize checks the api key of the current request against the
// application owning the contract.
func (d *integrationDomain) authorize(ctx context.Context, contract *entity.Contract) error {
	token := xcontext.ApiKeyToken(ctx)
	if token == "" {
		return errorx.New(errorx.Unauthenticated, "You need an api key")
	}

	hashed := crypto.SHA256([]byte(token))
	_, err := d.apiKeyRepo.GetByTokenAndApplicationID(ctx, hashed, contract.ApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		xcontext.Logger(ctx).Errorf("Cannot get api key: %v", err)
		return errorx.Unknown
	}

	return nil
}

// resolveSender picks the signing identity of a send. Keys are decrypted per
// use and the clear form never reaches any cache.
func (d *integrationDomain) resolveSender(
	ctx context.Context, contract *entity.Contract, account string,
) (*ecdsa.PrivateKey, string, error) {
	encrypted := contract.OwnerPrivateKey
	address := contract.OwnerAddress

	if account != "" {
		stored, ok := d.cache.GetAccount(ctx, contract.ShortID, account)
		if !ok {
			var err error
			stored, err = d.accountRepo.GetByShortIDAndAddress(ctx, contract.ShortID, account)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, "", errorx.New(errorx.NotFound, "Not found account")
				}

				xcontext.Logger(ctx).Errorf("Cannot get account %s: %v", account, err)
				return nil, "", errorx.Unknown
			}

			d.cache.StoreAccount(ctx, stored)
		}

		encrypted = stored.PrivateKey
		address = stored.Address
	}

	clear, err := d.cipher.Decrypt(encrypted)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrypt key of %s: %v", address, err)
		return nil, "", errorx.Unknown
	}

	key, err := ethutil.ParsePrivateKey(string(clear))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse key of %s: %v", address, err)
		return nil, "", errorx.Unknown
	}

	return key, address, nil
}

func (d *integrationDomain) openRequest(
	ctx context.Context,
	shortID string,
	reqType entity.IntegrationRequestType,
	method string,
	inputs []any,
) (string, error) {
	id := uuid.NewString()
	err := d.requestRepo.Create(ctx, &entity.IntegrationRequest{
		Base:    entity.Base{ID: id},
		ShortID: shortID,
		Type:    reqType,
		Method:  method,
		Inputs:  inputs,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create integration request: %v", err)
		return "", errorx.Unknown
	}

	return id, nil
}

func (d *integrationDomain) closeRequest(
	ctx context.Context, id string, status bool, outputs entity.Map,
) {
	if err := d.requestRepo.Finalize(ctx, id, status, outputs); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot finalize integration request %s: %v", id, err)
	}
}

// detach keeps the service dependencies of ctx but drops its cancelation, so
// receipt settlement survives the http request that triggered it.
func detach(ctx context.Context) context.Context {
	detached := context.Background()
	detached = xcontext.WithConfigs(detached, xcontext.Configs(ctx))
	detached = xcontext.WithLogger(detached, xcontext.Logger(ctx))
	detached = xcontext.WithDB(detached, xcontext.DB(ctx))
	return detached
}
