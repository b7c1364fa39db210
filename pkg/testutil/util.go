package testutil

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contractdock/backend/config"
	"github.com/contractdock/backend/migration"
	"github.com/contractdock/backend/pkg/logger"
	"github.com/contractdock/backend/pkg/xcontext"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		Blockchain: config.BlockchainConfigs{
			SecretKey:      "test-secret",
			ReceiptTimeout: time.Second,
			ConnectionTTL:  time.Minute,
			MetadataTTL:    time.Minute,
		},
		ApiKey: config.ApiKeyConfigs{
			Header: "X-Api-Key",
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

func MockContextWithApiKey(key string) context.Context {
	return xcontext.WithApiKeyToken(MockContext(), key)
}
