package testutil

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/crypto"
	"github.com/contractdock/backend/pkg/xcontext"
)

// Well known development keypair, safe to hardcode in fixtures.
const (
	OwnerAddress1    = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	OwnerPrivateKey1 = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

const ApiKey1 = "fixture-api-key"

var Network1 = &entity.Network{
	Base:      entity.Base{ID: "network1"},
	Name:      "local-quorum",
	ChainType: "quorum",
	Consensus: "raft",
	IPAddress: "127.0.0.1",
	WSPort:    "8546",
	IsPublic:  true,
}

var Contract1 = &entity.Contract{
	Base:          entity.Base{ID: "contract1-id"},
	ShortID:       "contract1",
	Name:          "Fixture Token",
	ApplicationID: "app1",
	NetworkID:     "network1",
	OwnerID:       "user1",
	OwnerAddress:  OwnerAddress1,
}

var Version1 = &entity.ContractVersion{
	Base:    entity.Base{ID: "version1-id"},
	ShortID: "contract1",
	Tag:     "v1.0",
	Name:    "Fixture Token",
	ABI: entity.Array[map[string]any]{
		{
			"type":            "function",
			"name":            "balanceOf",
			"stateMutability": "view",
			"inputs":          []any{map[string]any{"name": "owner", "type": "address"}},
			"outputs":         []any{map[string]any{"name": "", "type": "uint256"}},
		},
	},
	Bytecode:        "0x6080",
	Metadata:        "fixture-metadata",
	Hash:            "a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1",
	ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
}

var ApiKeyRecord1 = &entity.APIKey{
	Base:          entity.Base{ID: "apikey1-id"},
	Token:         crypto.SHA256([]byte(ApiKey1)),
	ApplicationID: "app1",
	CreatedBy:     "user1",
}

// CreateFixtureDb populates the database of ctx with one contract, its first
// version, and an api key of the owning application. The owner private key is
// encrypted with the secret of the testing configs.
func CreateFixtureDb(ctx context.Context) {
	cipher := crypto.NewAESCipher(xcontext.Configs(ctx).Blockchain.SecretKey)
	encryptedKey, err := cipher.Encrypt([]byte(OwnerPrivateKey1))
	if err != nil {
		panic(err)
	}

	if err := repository.NewNetworkRepository().Create(ctx, Network1); err != nil {
		panic(err)
	}

	contract := *Contract1
	contract.OwnerPrivateKey = encryptedKey
	if err := repository.NewContractRepository().Create(ctx, &contract); err != nil {
		panic(err)
	}

	if err := repository.NewContractVersionRepository().Create(ctx, Version1); err != nil {
		panic(err)
	}

	if err := repository.NewAPIKeyRepository().Create(ctx, ApiKeyRecord1); err != nil {
		panic(err)
	}
}
