package domain

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"

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

const (
	defaultVersionTag = "v1.0"
	shortIDLength     = 12
)

type ContractDomain interface {
	Deploy(context.Context, *model.DeployContractRequest) (*model.DeployContractResponse, error)
	Get(context.Context, *model.GetContractRequest) (*model.GetContractResponse, error)
	Update(context.Context, *model.UpdateContractRequest) (*model.UpdateContractResponse, error)
	Delete(context.Context, *model.DeleteContractRequest) (*model.DeleteContractResponse, error)
	DeleteByApplication(context.Context, *model.DeleteApplicationContractsRequest) (*model.DeleteApplicationContractsResponse, error)
	AddVersion(context.Context, *model.AddContractVersionRequest) (*model.AddContractVersionResponse, error)
	AddAccount(context.Context, *model.AddContractAccountRequest) (*model.AddContractAccountResponse, error)
	GetAccounts(context.Context, *model.GetContractAccountsRequest) (*model.GetContractAccountsResponse, error)
	UpdateAccount(context.Context, *model.UpdateContractAccountRequest) (*model.UpdateContractAccountResponse, error)
}

type contractDomain struct {
	contractRepo repository.ContractRepository
	versionRepo  repository.ContractVersionRepository
	accountRepo  repository.ContractAccountRepository
	webhookRepo  repository.WebhookRepository

	cache     *chain.Cache
	connector *chain.Connector
	sequencer *chain.NonceSequencer
	trackers  TxTrackerFactory
	cipher    *crypto.AESCipher
}

func NewContractDomain(
	contractRepo repository.ContractRepository,
	versionRepo repository.ContractVersionRepository,
	accountRepo repository.ContractAccountRepository,
	webhookRepo repository.WebhookRepository,
	transactionRepo repository.TransactionRepository,
	cache *chain.Cache,
	connector *chain.Connector,
	sequencer *chain.NonceSequencer,
	cipher *crypto.AESCipher,
) *contractDomain {
	return &contractDomain{
		contractRepo: contractRepo,
		versionRepo:  versionRepo,
		accountRepo:  accountRepo,
		webhookRepo:  webhookRepo,
		cache:        cache,
		connector:    connector,
		sequencer:    sequencer,
		trackers: func(shortID, fromAddress, toAddress string, input entity.Map) *chain.TxTracker {
			return chain.NewTxTracker(transactionRepo, shortID, fromAddress, toAddress, input)
		},
		cipher: cipher,
	}
}

func (d *contractDomain) Deploy(
	ctx context.Context, req *model.DeployContractRequest,
) (*model.DeployContractResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
	}

	if req.NetworkID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty network id")
	}

	if req.ApplicationID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty application id")
	}

	if len(req.ABI) == 0 || req.Bytecode == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty artifact")
	}

	tag := req.Tag
	if tag == "" {
		tag = defaultVersionTag
	}

	client, err := d.connector.Connect(ctx, req.NetworkID)
	if err != nil {
		return nil, err
	}

	ownerAddress, ownerKeyHex, err := ethutil.GenerateKey()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate owner key: %v", err)
		return nil, errorx.Unknown
	}

	encryptedKey, err := d.cipher.Encrypt([]byte(ownerKeyHex))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encrypt owner key: %v", err)
		return nil, errorx.Unknown
	}

	shortID := crypto.GenerateRandomAlphabet(shortIDLength)
	key, err := ethutil.ParsePrivateKey(ownerKeyHex)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse owner key: %v", err)
		return nil, errorx.Unknown
	}

	version := &entity.ContractVersion{
		Base:     entity.Base{ID: uuid.NewString()},
		ShortID:  shortID,
		Tag:      tag,
		Name:     req.Name,
		ABI:      req.ABI,
		Args:     req.Args,
		Bytecode: req.Bytecode,
		Metadata: req.Metadata,
		Hash:     versionHash(shortID, req.Metadata, req.Args),
	}

	contractAddress, txHash, err := d.deployVersion(ctx, client, shortID, ownerAddress, key, version)
	if err != nil {
		return nil, err
	}

	version.ContractAddress = contractAddress

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	contract := &entity.Contract{
		Base:            entity.Base{ID: uuid.NewString()},
		ShortID:         shortID,
		Name:            req.Name,
		Description:     req.Description,
		ApplicationID:   req.ApplicationID,
		NetworkID:       req.NetworkID,
		OwnerID:         xcontext.RequestUserID(ctx),
		OwnerAddress:    ownerAddress,
		OwnerPrivateKey: encryptedKey,
	}

	if err := d.contractRepo.Create(ctx, contract); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create contract: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.versionRepo.Create(ctx, version); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create version: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.DeployContractResponse{
		ShortID:         shortID,
		Tag:             tag,
		ContractAddress: contractAddress,
		OwnerAddress:    ownerAddress,
		TransactionHash: txHash,
	}, nil
}

func (d *contractDomain) Get(
	ctx context.Context, req *model.GetContractRequest,
) (*model.GetContractResponse, error) {
	contract, err := d.getContract(ctx, req.ShortID)
	if err != nil {
		return nil, err
	}

	versions, err := d.versionRepo.GetListByShortID(ctx, req.ShortID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get versions of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetContractResponse{
		Contract: model.Contract{
			ShortID:       contract.ShortID,
			Name:          contract.Name,
			Description:   contract.Description,
			ApplicationID: contract.ApplicationID,
			NetworkID:     contract.NetworkID,
			OwnerAddress:  contract.OwnerAddress,
			CreatedAt:     contract.CreatedAt,
		},
	}

	for _, v := range versions {
		resp.Versions = append(resp.Versions, model.ContractVersion{
			ID:              v.ID,
			Tag:             v.Tag,
			Name:            v.Name,
			Description:     v.Description,
			Hash:            v.Hash,
			ContractAddress: v.ContractAddress,
			CreatedAt:       v.CreatedAt,
		})
	}

	return resp, nil
}

func (d *contractDomain) Update(
	ctx context.Context, req *model.UpdateContractRequest,
) (*model.UpdateContractResponse, error) {
	if _, err := d.getContract(ctx, req.ShortID); err != nil {
		return nil, err
	}

	if err := d.contractRepo.UpdateInfoByShortID(ctx, req.ShortID, req.Name, req.Description); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update contract %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	d.cache.InvalidateContract(ctx, req.ShortID)

	return &model.UpdateContractResponse{}, nil
}

func (d *contractDomain) Delete(
	ctx context.Context, req *model.DeleteContractRequest,
) (*model.DeleteContractResponse, error) {
	contract, err := d.getContract(ctx, req.ShortID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.contractRepo.DeleteByShortID(ctx, req.ShortID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete contract %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	if err := d.versionRepo.DeleteByShortID(ctx, req.ShortID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete versions of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	if err := d.accountRepo.DeleteByShortID(ctx, req.ShortID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete accounts of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	if err := d.webhookRepo.DeleteByShortID(ctx, req.ShortID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete webhooks of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.cache.InvalidateContract(ctx, req.ShortID)
	d.cache.InvalidateClient(contract.NetworkID)

	return &model.DeleteContractResponse{}, nil
}

// DeleteByApplication removes every contract of an application in one shot,
// cascading over versions, accounts and webhooks the same way a single delete
// does. Used when an application is decommissioned.
func (d *contractDomain) DeleteByApplication(
	ctx context.Context, req *model.DeleteApplicationContractsRequest,
) (*model.DeleteApplicationContractsResponse, error) {
	if req.ApplicationID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty application id")
	}

	contracts, err := d.contractRepo.GetListByApplicationID(ctx, req.ApplicationID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get contracts of application %s: %v", req.ApplicationID, err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.contractRepo.DeleteByApplicationID(ctx, req.ApplicationID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete contracts of application %s: %v", req.ApplicationID, err)
		return nil, errorx.Unknown
	}

	for _, contract := range contracts {
		if err := d.versionRepo.DeleteByShortID(ctx, contract.ShortID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete versions of %s: %v", contract.ShortID, err)
			return nil, errorx.Unknown
		}

		if err := d.accountRepo.DeleteByShortID(ctx, contract.ShortID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete accounts of %s: %v", contract.ShortID, err)
			return nil, errorx.Unknown
		}

		if err := d.webhookRepo.DeleteByShortID(ctx, contract.ShortID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete webhooks of %s: %v", contract.ShortID, err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	for _, contract := range contracts {
		d.cache.InvalidateContract(ctx, contract.ShortID)
		d.cache.InvalidateClient(contract.NetworkID)
	}

	return &model.DeleteApplicationContractsResponse{Deleted: len(contracts)}, nil
}

func (d *contractDomain) AddVersion(
	ctx context.Context, req *model.AddContractVersionRequest,
) (*model.AddContractVersionResponse, error) {
	if req.Tag == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty tag")
	}

	if len(req.ABI) == 0 || req.Bytecode == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty artifact")
	}

	contract, err := d.getContract(ctx, req.ShortID)
	if err != nil {
		return nil, err
	}

	if _, err := d.versionRepo.GetByShortIDAndTag(ctx, req.ShortID, req.Tag); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This tag already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check tag %s of %s: %v", req.Tag, req.ShortID, err)
		return nil, errorx.Unknown
	}

	hash := versionHash(req.ShortID, req.Metadata, req.Args)
	if _, err := d.versionRepo.GetByHash(ctx, hash); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This artifact is already deployed")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check hash of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	client, err := d.connector.Connect(ctx, contract.NetworkID)
	if err != nil {
		return nil, err
	}

	clearKey, err := d.cipher.Decrypt(contract.OwnerPrivateKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrypt owner key of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	key, err := ethutil.ParsePrivateKey(string(clearKey))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse owner key of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	version := &entity.ContractVersion{
		Base:     entity.Base{ID: uuid.NewString()},
		ShortID:  req.ShortID,
		Tag:      req.Tag,
		Name:     contract.Name,
		ABI:      req.ABI,
		Args:     req.Args,
		Bytecode: req.Bytecode,
		Metadata: req.Metadata,
		Hash:     hash,
	}

	contractAddress, txHash, err := d.deployVersion(
		ctx, client, req.ShortID, contract.OwnerAddress, key, version)
	if err != nil {
		return nil, err
	}

	version.ContractAddress = contractAddress
	if err := d.versionRepo.Create(ctx, version); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create version: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddContractVersionResponse{
		Tag:             req.Tag,
		ContractAddress: contractAddress,
		TransactionHash: txHash,
	}, nil
}

func (d *contractDomain) AddAccount(
	ctx context.Context, req *model.AddContractAccountRequest,
) (*model.AddContractAccountResponse, error) {
	if _, err := d.getContract(ctx, req.ShortID); err != nil {
		return nil, err
	}

	address, keyHex, err := ethutil.GenerateKey()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate account key: %v", err)
		return nil, errorx.Unknown
	}

	encryptedKey, err := d.cipher.Encrypt([]byte(keyHex))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encrypt account key: %v", err)
		return nil, errorx.Unknown
	}

	account := &entity.ContractAccount{
		Base:       entity.Base{ID: uuid.NewString()},
		ShortID:    req.ShortID,
		Name:       req.Name,
		Address:    address,
		PrivateKey: encryptedKey,
		IsActive:   true,
	}

	if err := d.accountRepo.Create(ctx, account); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create account: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddContractAccountResponse{Address: address}, nil
}

func (d *contractDomain) GetAccounts(
	ctx context.Context, req *model.GetContractAccountsRequest,
) (*model.GetContractAccountsResponse, error) {
	if _, err := d.getContract(ctx, req.ShortID); err != nil {
		return nil, err
	}

	accounts, err := d.accountRepo.GetListByShortID(ctx, req.ShortID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get accounts of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetContractAccountsResponse{}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, model.ContractAccount{
			ID:       a.ID,
			Name:     a.Name,
			Address:  a.Address,
			IsActive: a.IsActive,
		})
	}

	return resp, nil
}

func (d *contractDomain) UpdateAccount(
	ctx context.Context, req *model.UpdateContractAccountRequest,
) (*model.UpdateContractAccountResponse, error) {
	if err := d.accountRepo.UpdateByID(ctx, req.ID, req.Name, req.IsActive); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update account %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	return &model.UpdateContractAccountResponse{}, nil
}

func (d *contractDomain) getContract(ctx context.Context, shortID string) (*entity.Contract, error) {
	if shortID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty short id")
	}

	contract, err := d.contractRepo.GetByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found contract")
		}

		xcontext.Logger(ctx).Errorf("Cannot get contract %s: %v", shortID, err)
		return nil, errorx.Unknown
	}

	return contract, nil
}

// deployVersion submits the creation transaction of one version and waits for
// it to be mined. Deployment is the only flow that blocks on the receipt, the
// caller needs the contract address to be usable before responding.
func (d *contractDomain) deployVersion(
	ctx context.Context,
	client *chain.Client,
	shortID, ownerAddress string,
	key *ecdsa.PrivateKey,
	version *entity.ContractVersion,
) (string, string, error) {
	parsedABI, err := chain.ParseABI(version.ABI)
	if err != nil {
		return "", "", errorx.New(errorx.BadRequest, "%s", err.Error())
	}

	packed, err := chain.PackConstructor(parsedABI, common.FromHex(version.Bytecode), version.Args)
	if err != nil {
		return "", "", errorx.New(errorx.BadRequest, "%s", err.Error())
	}

	nonce, err := d.sequencer.Next(ctx, client, ownerAddress)
	if err != nil {
		return "", "", err
	}

	tracker := d.trackers(shortID, ownerAddress, "", entity.Map{
		"method": "constructor",
		"inputs": []any(version.Args),
	})

	tx, contractAddress, err := client.Deploy(ctx, key, nonce, packed)
	if err != nil {
		if releaseErr := d.sequencer.Release(ctx, ownerAddress); releaseErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot release nonce after deploy error: %v", releaseErr)
		}

		return "", "", errorx.New(errorx.BadResponse, "%s", err.Error())
	}

	hash := tx.Hash()
	if err := tracker.TransactionHash(ctx, hash.Hex()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot persist pending transaction %s: %v", hash.Hex(), err)
	}

	receipt, err := client.WaitReceipt(ctx, hash)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get receipt of %s: %v", hash.Hex(), err)
		if err := tracker.Fail(ctx, nil, nil, err.Error()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark transaction %s failed: %v", hash.Hex(), err)
		}

		return "", "", errorx.New(errorx.Unavailable, "Cannot confirm deployment")
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		if err := tracker.Fail(ctx, receipt, nil, ""); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark transaction %s failed: %v", hash.Hex(), err)
		}

		return "", "", errorx.New(errorx.BadResponse, "Transaction Reverted")
	}

	events := client.DecodeReceiptEvents(ctx, parsedABI, receipt)
	if err := tracker.Confirm(ctx, receipt, events); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot confirm transaction %s: %v", hash.Hex(), err)
	}

	return contractAddress.Hex(), hash.Hex(), nil
}

func versionHash(shortID, metadata string, args []any) string {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		rawArgs = nil
	}

	return ethutil.Keccak256Hex(shortID, metadata, string(rawArgs))
}
