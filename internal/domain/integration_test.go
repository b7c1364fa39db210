package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contractdock/backend/internal/domain/chain"
	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/crypto"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/testutil"
	"github.com/contractdock/backend/pkg/xcontext"
)

func newTestIntegrationDomain() *integrationDomain {
	redis := testutil.NewInMemoryRedis()
	cache := chain.NewCache(redis)
	networkRepo := repository.NewNetworkRepository()

	return NewIntegrationDomain(
		repository.NewContractRepository(),
		repository.NewContractVersionRepository(),
		repository.NewContractAccountRepository(),
		repository.NewAPIKeyRepository(),
		repository.NewIntegrationRequestRepository(),
		repository.NewTransactionRepository(),
		NewWebhookDomain(repository.NewWebhookRepository()),
		cache,
		chain.NewConnector(networkRepo, cache),
		chain.NewNonceSequencer(redis),
		crypto.NewAESCipher("test-secret"),
	)
}

func requireCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, code, errx.Code)
}

func Test_integrationDomain_ResolveFailures(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	integrationDomain := newTestIntegrationDomain()

	// No api key on the request.
	_, err := integrationDomain.Call(ctx, &model.CallContractRequest{
		ShortID: testutil.Contract1.ShortID,
		Method:  "balanceOf",
	})
	requireCode(t, err, errorx.Unauthenticated)

	ctx = xcontext.WithApiKeyToken(ctx, testutil.ApiKey1)

	_, err = integrationDomain.Call(ctx, &model.CallContractRequest{})
	requireCode(t, err, errorx.BadRequest)

	_, err = integrationDomain.Call(ctx, &model.CallContractRequest{
		ShortID: "no-such-contract",
		Method:  "balanceOf",
	})
	requireCode(t, err, errorx.NotFound)

	_, err = integrationDomain.Call(ctx, &model.CallContractRequest{
		ShortID: testutil.Contract1.ShortID,
		Tag:     "v9.9",
		Method:  "balanceOf",
	})
	requireCode(t, err, errorx.NotFound)
}

func Test_integrationDomain_ResolveTargetCacheIsTransparent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	integrationDomain := newTestIntegrationDomain()

	contractFromDb, versionFromDb, err := integrationDomain.resolveTarget(
		ctx, testutil.Contract1.ShortID, testutil.Version1.Tag)
	require.NoError(t, err)

	// The first resolution populated the projections, so the same lookup
	// keeps answering identically even with the rows gone.
	require.NoError(t, repository.NewContractRepository().DeleteByShortID(ctx, testutil.Contract1.ShortID))
	require.NoError(t, repository.NewContractVersionRepository().DeleteByShortID(ctx, testutil.Contract1.ShortID))

	contractFromCache, versionFromCache, err := integrationDomain.resolveTarget(
		ctx, testutil.Contract1.ShortID, testutil.Version1.Tag)
	require.NoError(t, err)

	require.Equal(t, contractFromDb.ShortID, contractFromCache.ShortID)
	require.Equal(t, contractFromDb.ApplicationID, contractFromCache.ApplicationID)
	require.Equal(t, contractFromDb.NetworkID, contractFromCache.NetworkID)
	require.Equal(t, contractFromDb.OwnerAddress, contractFromCache.OwnerAddress)
	require.Equal(t, versionFromDb.ContractAddress, versionFromCache.ContractAddress)
	require.Equal(t, versionFromDb.Hash, versionFromCache.Hash)
	require.Equal(t, versionFromDb.ABI, versionFromCache.ABI)
}

func Test_integrationDomain_AuthorizeAgainstOwningApplication(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	integrationDomain := newTestIntegrationDomain()

	// A valid key of another application cannot touch this contract.
	otherKey := "other-application-key"
	require.NoError(t, repository.NewAPIKeyRepository().Create(ctx, &entity.APIKey{
		Base:          entity.Base{ID: "apikey2-id"},
		Token:         crypto.SHA256([]byte(otherKey)),
		ApplicationID: "app2",
		CreatedBy:     "user2",
	}))

	_, err := integrationDomain.Call(
		xcontext.WithApiKeyToken(ctx, otherKey),
		&model.CallContractRequest{
			ShortID: testutil.Contract1.ShortID,
			Method:  "balanceOf",
		})
	requireCode(t, err, errorx.PermissionDenied)
}

func Test_integrationDomain_GetRequests(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	integrationDomain := newTestIntegrationDomain()

	requestRepo := repository.NewIntegrationRequestRepository()
	require.NoError(t, requestRepo.Create(ctx, &entity.IntegrationRequest{
		Base:    entity.Base{ID: "req1"},
		ShortID: testutil.Contract1.ShortID,
		Type:    entity.IntegrationRequestTypeCall,
		Method:  "balanceOf",
		Inputs:  entity.Array[any]{"0xabc"},
	}))
	require.NoError(t, requestRepo.Finalize(ctx, "req1", true, entity.Map{"0": "10"}))

	ctx = xcontext.WithApiKeyToken(ctx, testutil.ApiKey1)
	resp, err := integrationDomain.GetRequests(ctx, &model.GetIntegrationRequestsRequest{
		ShortID: testutil.Contract1.ShortID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)
	require.Equal(t, "balanceOf", resp.Requests[0].Method)
	require.True(t, resp.Requests[0].Status)
	require.Equal(t, string(entity.IntegrationRequestTypeCall), resp.Requests[0].Type)
}

func Test_integrationDomain_ResolveSender(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	integrationDomain := newTestIntegrationDomain()

	contractRepo := repository.NewContractRepository()
	contract, err := contractRepo.GetByShortID(ctx, testutil.Contract1.ShortID)
	require.NoError(t, err)

	// Owner credentials by default.
	key, address, err := integrationDomain.resolveSender(ctx, contract, "")
	require.NoError(t, err)
	require.Equal(t, testutil.OwnerAddress1, address)
	require.NotNil(t, key)

	// Unknown alternate account.
	_, _, err = integrationDomain.resolveSender(ctx, contract, "0x0000000000000000000000000000000000000001")
	requireCode(t, err, errorx.NotFound)

	// Registered alternate account decrypts to a usable key.
	cipher := crypto.NewAESCipher("test-secret")
	encrypted, err := cipher.Encrypt([]byte(testutil.OwnerPrivateKey1))
	require.NoError(t, err)

	require.NoError(t, repository.NewContractAccountRepository().Create(ctx, &entity.ContractAccount{
		Base:       entity.Base{ID: "account1-id"},
		ShortID:    testutil.Contract1.ShortID,
		Name:       "alternate",
		Address:    testutil.OwnerAddress1,
		PrivateKey: encrypted,
		IsActive:   true,
	}))

	key, address, err = integrationDomain.resolveSender(ctx, contract, testutil.OwnerAddress1)
	require.NoError(t, err)
	require.Equal(t, testutil.OwnerAddress1, address)
	require.NotNil(t, key)
}
