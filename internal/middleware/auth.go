package middleware

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/crypto"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/router"
	"github.com/contractdock/backend/pkg/xcontext"
)

const defaultApiKeyHeader = "X-Api-Key"

// ApiKeyVerifier authenticates integration requests. The key is checked for
// existence here, the owning application is checked by the domain against the
// target contract.
type ApiKeyVerifier struct {
	apiKeyRepo repository.APIKeyRepository
}

func NewApiKeyVerifier(apiKeyRepo repository.APIKeyRepository) *ApiKeyVerifier {
	return &ApiKeyVerifier{apiKeyRepo: apiKeyRepo}
}

func (v *ApiKeyVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		header := xcontext.Configs(ctx).ApiKey.Header
		if header == "" {
			header = defaultApiKeyHeader
		}

		key := xcontext.HTTPRequest(ctx).Header.Get(header)
		if key == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need an api key")
		}

		record, err := v.apiKeyRepo.GetByToken(ctx, crypto.SHA256([]byte(key)))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.Unauthenticated, "Invalid api key")
			}

			xcontext.Logger(ctx).Errorf("Cannot get api key: %v", err)
			return nil, errorx.Unknown
		}

		ctx = xcontext.WithApiKeyToken(ctx, key)
		return xcontext.WithRequestUserID(ctx, record.CreatedBy), nil
	}
}
