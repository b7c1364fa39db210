package chain

import (
	"context"
	"time"

	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
	"github.com/contractdock/backend/pkg/xredis"
)

const (
	defaultNonceSeedTTL    = 10 * time.Second
	defaultNonceRefreshTTL = 3 * time.Second
)

// TransactionCounter reports the pending transaction count of an address.
// Satisfied by Client.
type TransactionCounter interface {
	TransactionCount(ctx context.Context, address string) (uint64, error)
}

// NonceSequencer hands out strictly increasing nonces per sender across every
// process sharing the redis instance. The counter is seeded from the chain on
// the first request and expires quickly so that an idle sender re-syncs with
// chain truth.
type NonceSequencer struct {
	redis xredis.Client
}

func NewNonceSequencer(redis xredis.Client) *NonceSequencer {
	return &NonceSequencer{redis: redis}
}

func (s *NonceSequencer) Next(
	ctx context.Context, counter TransactionCounter, address string,
) (uint64, error) {
	cfg := xcontext.Configs(ctx).Blockchain
	seedTTL := cfg.NonceSeedTTL
	if seedTTL <= 0 {
		seedTTL = defaultNonceSeedTTL
	}

	refreshTTL := cfg.NonceRefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultNonceRefreshTTL
	}

	key := nonceKey(address)
	exists, err := s.redis.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check nonce of %s: %v", address, err)
		return 0, errorx.New(errorx.Unavailable, "Connection error")
	}

	if exists {
		nonce, err := s.redis.Incr(ctx, key, refreshTTL)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase nonce of %s: %v", address, err)
			return 0, errorx.New(errorx.Unavailable, "Connection error")
		}

		// Landing on exactly 1 means the key expired between the existence
		// check and the increment, so the increment restarted the counter
		// with no chain truth behind it. Drop it and reseed below.
		if nonce != 1 {
			return uint64(nonce), nil
		}

		if err := s.redis.Del(ctx, key); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot drop restarted nonce of %s: %v", address, err)
			return 0, errorx.New(errorx.Unavailable, "Connection error")
		}
	}

	count, err := counter.TransactionCount(ctx, address)
	if err != nil {
		return 0, err
	}

	// Seed one below the pending count so the increment in the same round
	// trip yields exactly the pending count. Losers of a concurrent seeding
	// race still get distinct values from the same counter.
	nonce, err := s.redis.SetNXIncr(ctx, key, int64(count)-1, seedTTL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot seed nonce of %s: %v", address, err)
		return 0, errorx.New(errorx.Unavailable, "Connection error")
	}

	return uint64(nonce), nil
}

// Release drops the counter after a failed send. The next caller re-reads the
// pending count from the chain instead of trusting a sequence the node may
// have rejected.
func (s *NonceSequencer) Release(ctx context.Context, address string) error {
	if err := s.redis.Del(ctx, nonceKey(address)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release nonce of %s: %v", address, err)
		return errorx.New(errorx.Unavailable, "Connection error")
	}

	return nil
}
