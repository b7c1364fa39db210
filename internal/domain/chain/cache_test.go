package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/testutil"
)

func Test_cache_ContractProjection(t *testing.T) {
	ctx := testutil.MockContext()
	cache := NewCache(testutil.NewInMemoryRedis())

	_, ok := cache.GetContract(ctx, "short1")
	require.False(t, ok)

	cache.StoreContract(ctx, &entity.Contract{
		Base:          entity.Base{ID: "contract1-id"},
		ShortID:       "short1",
		Name:          "Token",
		ApplicationID: "app1",
	})

	contract, ok := cache.GetContract(ctx, "short1")
	require.True(t, ok)
	require.Equal(t, "Token", contract.Name)
	require.Equal(t, "app1", contract.ApplicationID)

	cache.InvalidateContract(ctx, "short1")
	_, ok = cache.GetContract(ctx, "short1")
	require.False(t, ok)
}

func Test_cache_VersionProjection(t *testing.T) {
	ctx := testutil.MockContext()
	cache := NewCache(testutil.NewInMemoryRedis())

	cache.StoreVersion(ctx, &entity.ContractVersion{
		Base:            entity.Base{ID: "version1-id"},
		ShortID:         "short1",
		Tag:             "v1.0",
		ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
	})

	version, ok := cache.GetVersion(ctx, "short1", "v1.0")
	require.True(t, ok)
	require.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", version.ContractAddress)

	_, ok = cache.GetVersion(ctx, "short1", "v2.0")
	require.False(t, ok)
}

func Test_cache_AccountProjectionIsCaseInsensitive(t *testing.T) {
	ctx := testutil.MockContext()
	cache := NewCache(testutil.NewInMemoryRedis())

	cache.StoreAccount(ctx, &entity.ContractAccount{
		Base:    entity.Base{ID: "account1-id"},
		ShortID: "short1",
		Address: "0xABCDEF0123456789abcdef0123456789ABCDEF01",
	})

	account, ok := cache.GetAccount(ctx, "short1", "0xabcdef0123456789ABCDEF0123456789abcdef01")
	require.True(t, ok)
	require.Equal(t, "0xABCDEF0123456789abcdef0123456789ABCDEF01", account.Address)
}
