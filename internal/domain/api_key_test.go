package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/crypto"
	"github.com/contractdock/backend/pkg/testutil"
	"github.com/contractdock/backend/pkg/xcontext"
)

func Test_apiKeyDomain_FullScenario(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	apiKeyRepo := repository.NewAPIKeyRepository()
	apiKeyDomain := NewAPIKeyDomain(apiKeyRepo)

	generated, err := apiKeyDomain.Generate(ctx, &model.GenerateAPIKeyRequest{
		ApplicationID: "app1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, generated.Key)

	// The clear key is never stored, only its hash.
	stored, err := apiKeyRepo.GetByToken(ctx, crypto.SHA256([]byte(generated.Key)))
	require.NoError(t, err)
	require.Equal(t, "app1", stored.ApplicationID)
	require.Equal(t, "user1", stored.CreatedBy)
	require.NotEqual(t, generated.Key, stored.Token)

	_, err = apiKeyDomain.Generate(xcontext.WithRequestUserID(ctx, "user2"),
		&model.GenerateAPIKeyRequest{ApplicationID: "app1"})
	require.NoError(t, err)

	keys, err := apiKeyRepo.GetListByApplicationID(ctx, "app1")
	require.NoError(t, err)
	require.Len(t, keys, 2)

	_, err = apiKeyDomain.Revoke(ctx, &model.RevokeAPIKeyRequest{ID: stored.ID})
	require.NoError(t, err)

	_, err = apiKeyRepo.GetByToken(ctx, crypto.SHA256([]byte(generated.Key)))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_apiKeyDomain_EmptyApplication(t *testing.T) {
	ctx := testutil.MockContext()
	apiKeyDomain := NewAPIKeyDomain(repository.NewAPIKeyRepository())

	_, err := apiKeyDomain.Generate(ctx, &model.GenerateAPIKeyRequest{})
	require.Error(t, err)
}
