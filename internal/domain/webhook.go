package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
)

const (
	webhookTimeout = 10 * time.Second

	// Responses are stored for debugging, not replayed, so only keep the
	// leading part of large bodies.
	maxStoredResponse = 4 << 10
)

type WebhookDomain interface {
	Create(context.Context, *model.CreateWebhookRequest) (*model.CreateWebhookResponse, error)
	GetList(context.Context, *model.GetWebhooksRequest) (*model.GetWebhooksResponse, error)
	Delete(context.Context, *model.DeleteWebhookRequest) (*model.DeleteWebhookResponse, error)
	GetLogs(context.Context, *model.GetWebhookLogsRequest) (*model.GetWebhookLogsResponse, error)

	// CheckAndSend delivers the payload to every webhook registered for the
	// contract. Delivery failures are logged per webhook and never surface
	// to the caller.
	CheckAndSend(ctx context.Context, shortID string, payload entity.Map)
}

type webhookDomain struct {
	webhookRepo repository.WebhookRepository
	httpClient  *http.Client
}

func NewWebhookDomain(webhookRepo repository.WebhookRepository) *webhookDomain {
	return &webhookDomain{
		webhookRepo: webhookRepo,
		httpClient:  &http.Client{Timeout: webhookTimeout},
	}
}

func (d *webhookDomain) Create(
	ctx context.Context, req *model.CreateWebhookRequest,
) (*model.CreateWebhookResponse, error) {
	if req.ShortID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty short id")
	}

	if req.URL == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty url")
	}

	webhook := &entity.Webhook{
		Base:          entity.Base{ID: uuid.NewString()},
		ShortID:       req.ShortID,
		Name:          req.Name,
		Description:   req.Description,
		URL:           req.URL,
		Authorization: req.Authorization,
	}

	if err := d.webhookRepo.Create(ctx, webhook); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create webhook: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateWebhookResponse{ID: webhook.ID}, nil
}

func (d *webhookDomain) GetList(
	ctx context.Context, req *model.GetWebhooksRequest,
) (*model.GetWebhooksResponse, error) {
	webhooks, err := d.webhookRepo.GetListByShortID(ctx, req.ShortID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get webhooks of %s: %v", req.ShortID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetWebhooksResponse{}
	for _, w := range webhooks {
		resp.Webhooks = append(resp.Webhooks, model.Webhook{
			ID:          w.ID,
			ShortID:     w.ShortID,
			Name:        w.Name,
			Description: w.Description,
			URL:         w.URL,
		})
	}

	return resp, nil
}

func (d *webhookDomain) Delete(
	ctx context.Context, req *model.DeleteWebhookRequest,
) (*model.DeleteWebhookResponse, error) {
	if _, err := d.webhookRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found webhook")
		}

		xcontext.Logger(ctx).Errorf("Cannot get webhook %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.webhookRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete webhook %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	return &model.DeleteWebhookResponse{}, nil
}

func (d *webhookDomain) GetLogs(
	ctx context.Context, req *model.GetWebhookLogsRequest,
) (*model.GetWebhookLogsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}

	logs, err := d.webhookRepo.GetLogsByWebhookID(ctx, req.WebhookID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get logs of webhook %s: %v", req.WebhookID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetWebhookLogsResponse{}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, model.WebhookLog{
			ID:         l.ID,
			URL:        l.URL,
			Status:     l.Status,
			Response:   l.Response,
			RequestAt:  l.RequestAt,
			ResponseAt: l.ResponseAt,
		})
	}

	return resp, nil
}

func (d *webhookDomain) CheckAndSend(ctx context.Context, shortID string, payload entity.Map) {
	if len(payload) == 0 {
		return
	}

	webhooks, err := d.webhookRepo.GetListByShortID(ctx, shortID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get webhooks of %s: %v", shortID, err)
		return
	}

	if len(webhooks) == 0 {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal webhook payload of %s: %v", shortID, err)
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, webhook := range webhooks {
		webhook := webhook
		eg.Go(func() error {
			d.deliver(egCtx, &webhook, body)
			return nil
		})
	}

	// Every delivery records its own outcome, so the group never errors.
	_ = eg.Wait()
}

func (d *webhookDomain) deliver(ctx context.Context, webhook *entity.Webhook, body []byte) {
	log := &entity.WebhookLog{
		Base:          entity.Base{ID: uuid.NewString()},
		WebhookID:     webhook.ID,
		ShortID:       webhook.ShortID,
		URL:           webhook.URL,
		Authorization: webhook.Authorization,
		Request:       entity.Map{"body": string(body)},
		RequestAt:     time.Now(),
	}

	resp, err := d.post(ctx, webhook, body)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot deliver webhook %s: %v", webhook.ID, err)
		log.Response = err.Error()
	} else {
		now := time.Now()
		log.Status = resp.status
		log.Response = resp.body
		log.ResponseAt = &now
	}

	if err := d.webhookRepo.CreateLog(ctx, log); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create log of webhook %s: %v", webhook.ID, err)
	}
}

type deliveryResult struct {
	status int
	body   string
}

func (d *webhookDomain) post(
	ctx context.Context, webhook *entity.Webhook, body []byte,
) (*deliveryResult, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range webhook.Authorization {
		req.Header.Set(key, fmt.Sprintf("%v", value))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, maxStoredResponse))
	if err != nil {
		return nil, err
	}

	return &deliveryResult{status: resp.StatusCode, body: string(responseBody)}, nil
}
