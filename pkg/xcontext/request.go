package xcontext

import "context"

type (
	userIDKey      struct{}
	apiKeyTokenKey struct{}
)

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

// WithApiKeyToken keeps the raw api key of the current request. Domains check
// it against the application owning the target contract.
func WithApiKeyToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, apiKeyTokenKey{}, token)
}

func ApiKeyToken(ctx context.Context) string {
	token, ok := ctx.Value(apiKeyTokenKey{}).(string)
	if !ok {
		return ""
	}

	return token
}
