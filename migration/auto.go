package migration

import (
	"context"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.Network{},
		&entity.Contract{},
		&entity.ContractVersion{},
		&entity.ContractAccount{},
		&entity.APIKey{},
		&entity.IntegrationRequest{},
		&entity.Transaction{},
		&entity.Webhook{},
		&entity.WebhookLog{},
	)
}
