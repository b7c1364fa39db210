package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/crypto"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
)

type APIKeyDomain interface {
	Generate(context.Context, *model.GenerateAPIKeyRequest) (*model.GenerateAPIKeyResponse, error)
	Revoke(context.Context, *model.RevokeAPIKeyRequest) (*model.RevokeAPIKeyResponse, error)
}

type apiKeyDomain struct {
	apiKeyRepo repository.APIKeyRepository
}

func NewAPIKeyDomain(apiKeyRepo repository.APIKeyRepository) *apiKeyDomain {
	return &apiKeyDomain{apiKeyRepo: apiKeyRepo}
}

func (d *apiKeyDomain) Generate(
	ctx context.Context, req *model.GenerateAPIKeyRequest,
) (*model.GenerateAPIKeyResponse, error) {
	if req.ApplicationID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty application id")
	}

	key, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate api key: %v", err)
		return nil, errorx.Unknown
	}

	// Only the hash is stored. The clear key appears once in this response
	// and cannot be recovered afterwards.
	err = d.apiKeyRepo.Create(ctx, &entity.APIKey{
		Base:          entity.Base{ID: uuid.NewString()},
		Token:         crypto.SHA256([]byte(key)),
		ApplicationID: req.ApplicationID,
		CreatedBy:     xcontext.RequestUserID(ctx),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create api key: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GenerateAPIKeyResponse{Key: key}, nil
}

func (d *apiKeyDomain) Revoke(
	ctx context.Context, req *model.RevokeAPIKeyRequest,
) (*model.RevokeAPIKeyResponse, error) {
	if err := d.apiKeyRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revoke api key %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	return &model.RevokeAPIKeyResponse{}, nil
}
