package chain

import (
	"context"
	"strings"
	"time"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
	"github.com/contractdock/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
)

const (
	defaultConnectionTTL = 5 * time.Minute
	defaultMetadataTTL   = time.Minute
)

func contractKey(shortID string) string {
	return "contract-" + shortID
}

func versionKey(shortID, tag string) string {
	return "version-" + shortID + "-" + tag
}

func accountKey(shortID, address string) string {
	return "account-" + shortID + "-" + strings.ToLower(address)
}

func nonceKey(address string) string {
	return "nonce-" + strings.ToLower(address)
}

type clientEntry struct {
	client    *Client
	expiredAt time.Time
}

// Cache keeps live node connections in process and database projections in
// redis. Projections are disposable, a redis failure only costs a database
// round trip.
type Cache struct {
	redis   xredis.Client
	clients *xsync.MapOf[string, clientEntry]
}

func NewCache(redis xredis.Client) *Cache {
	return &Cache{
		redis:   redis,
		clients: xsync.NewMapOf[clientEntry](),
	}
}

func (c *Cache) connectionTTL(ctx context.Context) time.Duration {
	if ttl := xcontext.Configs(ctx).Blockchain.ConnectionTTL; ttl > 0 {
		return ttl
	}

	return defaultConnectionTTL
}

func (c *Cache) metadataTTL(ctx context.Context) time.Duration {
	if ttl := xcontext.Configs(ctx).Blockchain.MetadataTTL; ttl > 0 {
		return ttl
	}

	return defaultMetadataTTL
}

// Client returns the cached live connection of a network if it has not
// expired yet.
func (c *Cache) Client(networkID string) (*Client, bool) {
	entry, ok := c.clients.Load(networkID)
	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiredAt) {
		c.clients.Delete(networkID)
		entry.client.Close()
		return nil, false
	}

	return entry.client, true
}

func (c *Cache) StoreClient(ctx context.Context, networkID string, client *Client) {
	c.clients.Store(networkID, clientEntry{
		client:    client,
		expiredAt: time.Now().Add(c.connectionTTL(ctx)),
	})
}

func (c *Cache) InvalidateClient(networkID string) {
	if entry, ok := c.clients.Load(networkID); ok {
		c.clients.Delete(networkID)
		entry.client.Close()
	}
}

func (c *Cache) GetContract(ctx context.Context, shortID string) (*entity.Contract, bool) {
	var contract entity.Contract
	if err := c.redis.GetObj(ctx, contractKey(shortID), &contract); err != nil {
		return nil, false
	}

	return &contract, true
}

func (c *Cache) StoreContract(ctx context.Context, contract *entity.Contract) {
	err := c.redis.SetObj(ctx, contractKey(contract.ShortID), contract, c.metadataTTL(ctx))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache contract %s: %v", contract.ShortID, err)
	}
}

func (c *Cache) GetVersion(ctx context.Context, shortID, tag string) (*entity.ContractVersion, bool) {
	var version entity.ContractVersion
	if err := c.redis.GetObj(ctx, versionKey(shortID, tag), &version); err != nil {
		return nil, false
	}

	return &version, true
}

func (c *Cache) StoreVersion(ctx context.Context, version *entity.ContractVersion) {
	err := c.redis.SetObj(
		ctx, versionKey(version.ShortID, version.Tag), version, c.metadataTTL(ctx))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache version %s of contract %s: %v",
			version.Tag, version.ShortID, err)
	}
}

// GetAccount returns the projection of an alternate sender account. The
// private key field inside is encrypted, so caching it leaks nothing.
func (c *Cache) GetAccount(ctx context.Context, shortID, address string) (*entity.ContractAccount, bool) {
	var account entity.ContractAccount
	if err := c.redis.GetObj(ctx, accountKey(shortID, address), &account); err != nil {
		return nil, false
	}

	return &account, true
}

func (c *Cache) StoreAccount(ctx context.Context, account *entity.ContractAccount) {
	err := c.redis.SetObj(
		ctx, accountKey(account.ShortID, account.Address), account, c.metadataTTL(ctx))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache account %s: %v", account.Address, err)
	}
}

func (c *Cache) InvalidateContract(ctx context.Context, shortID string) {
	if err := c.redis.Del(ctx, contractKey(shortID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate contract %s: %v", shortID, err)
	}
}
