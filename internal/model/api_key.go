package model

type GenerateAPIKeyRequest struct {
	ApplicationID string `json:"application_id"`
}

type GenerateAPIKeyResponse struct {
	Key string `json:"key"`
}

type RevokeAPIKeyRequest struct {
	ID string `json:"id"`
}

type RevokeAPIKeyResponse struct{}
