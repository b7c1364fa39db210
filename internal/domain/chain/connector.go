package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
)

// Connector resolves one live client per network, reusing cached connections
// as long as the node still answers the liveness probe.
type Connector struct {
	networkRepo repository.NetworkRepository
	cache       *Cache
}

func NewConnector(networkRepo repository.NetworkRepository, cache *Cache) *Connector {
	return &Connector{
		networkRepo: networkRepo,
		cache:       cache,
	}
}

func (c *Connector) Connect(ctx context.Context, networkID string) (*Client, error) {
	if client, ok := c.cache.Client(networkID); ok {
		if client.Alive(ctx) {
			return client, nil
		}

		c.cache.InvalidateClient(networkID)
	}

	network, err := c.networkRepo.GetByID(ctx, networkID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get network %s: %v", networkID, err)
		return nil, errorx.New(errorx.NotFound, "Not found network")
	}

	dialCtx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	rpcClient, err := rpc.DialContext(dialCtx, network.WSEndpoint())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot dial network %s at %s: %v",
			networkID, network.WSEndpoint(), err)
		return nil, errorx.New(errorx.Unavailable, "Connection failed")
	}

	client := &Client{
		networkID: networkID,
		rpc:       rpcClient,
		eth:       ethclient.NewClient(rpcClient),
	}

	if !client.Alive(ctx) {
		client.Close()
		return nil, errorx.New(errorx.Unavailable, "Connection failed")
	}

	chainIDCtx, cancel := context.WithTimeout(ctx, rpcTimeout(ctx))
	defer cancel()

	chainID, err := client.eth.ChainID(chainIDCtx)
	if err != nil {
		client.Close()
		xcontext.Logger(ctx).Errorf("Cannot get chain id of network %s: %v", networkID, err)
		return nil, errorx.New(errorx.Unavailable, "Connection failed")
	}

	client.chainID = chainID
	c.cache.StoreClient(ctx, networkID, client)

	return client, nil
}
