package model

import "time"

type Webhook struct {
	ID          string `json:"id"`
	ShortID     string `json:"short_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type WebhookLog struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	Status     int        `json:"status"`
	Response   string     `json:"response"`
	RequestAt  time.Time  `json:"request_at"`
	ResponseAt *time.Time `json:"response_at"`
}

type CreateWebhookRequest struct {
	ShortID       string         `json:"short_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	URL           string         `json:"url"`
	Authorization map[string]any `json:"authorization"`
}

type CreateWebhookResponse struct {
	ID string `json:"id"`
}

type GetWebhooksRequest struct {
	ShortID string `json:"short_id" form:"short_id"`
}

type GetWebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

type DeleteWebhookRequest struct {
	ID string `json:"id"`
}

type DeleteWebhookResponse struct{}

type GetWebhookLogsRequest struct {
	WebhookID string `json:"webhook_id" form:"webhook_id"`
	Offset    int    `json:"offset" form:"offset"`
	Limit     int    `json:"limit" form:"limit"`
}

type GetWebhookLogsResponse struct {
	Logs []WebhookLog `json:"logs"`
}
