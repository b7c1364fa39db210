package domain

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/testutil"
)

func Test_webhookDomain_Lifecycle(t *testing.T) {
	ctx := testutil.MockContext()
	webhookDomain := NewWebhookDomain(repository.NewWebhookRepository())

	created, err := webhookDomain.Create(ctx, &model.CreateWebhookRequest{
		ShortID: "contract1",
		Name:    "events",
		URL:     "https://example.com/hook",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = webhookDomain.Create(ctx, &model.CreateWebhookRequest{ShortID: "contract1"})
	require.Error(t, err)

	list, err := webhookDomain.GetList(ctx, &model.GetWebhooksRequest{ShortID: "contract1"})
	require.NoError(t, err)
	require.Len(t, list.Webhooks, 1)

	_, err = webhookDomain.Delete(ctx, &model.DeleteWebhookRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = webhookDomain.Delete(ctx, &model.DeleteWebhookRequest{ID: created.ID})
	require.Error(t, err)
}

func Test_webhookDomain_CheckAndSend(t *testing.T) {
	ctx := testutil.MockContext()
	webhookRepo := repository.NewWebhookRepository()
	webhookDomain := NewWebhookDomain(webhookRepo)

	var mutex sync.Mutex
	received := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mutex.Lock()
		received[r.URL.Path] = string(body)
		mutex.Unlock()

		if r.URL.Path == "/secured" && r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Write([]byte("ok"))
	}))
	defer server.Close()

	first, err := webhookDomain.Create(ctx, &model.CreateWebhookRequest{
		ShortID: "contract1",
		URL:     server.URL + "/plain",
	})
	require.NoError(t, err)

	second, err := webhookDomain.Create(ctx, &model.CreateWebhookRequest{
		ShortID:       "contract1",
		URL:           server.URL + "/secured",
		Authorization: map[string]any{"Authorization": "Bearer token"},
	})
	require.NoError(t, err)

	// A webhook of another contract must not be called.
	_, err = webhookDomain.Create(ctx, &model.CreateWebhookRequest{
		ShortID: "contract2",
		URL:     server.URL + "/other",
	})
	require.NoError(t, err)

	payload := entity.Map{"Transfer": map[string]any{"value": "1000"}}
	webhookDomain.CheckAndSend(ctx, "contract1", payload)

	mutex.Lock()
	defer mutex.Unlock()
	require.Len(t, received, 2)
	require.NotContains(t, received, "/other")

	var delivered entity.Map
	require.NoError(t, json.Unmarshal([]byte(received["/plain"]), &delivered))
	require.Contains(t, delivered, "Transfer")

	logs, err := webhookDomain.GetLogs(ctx, &model.GetWebhookLogsRequest{WebhookID: first.ID})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	require.Equal(t, http.StatusOK, logs.Logs[0].Status)
	require.Equal(t, "ok", logs.Logs[0].Response)
	require.NotNil(t, logs.Logs[0].ResponseAt)

	logs, err = webhookDomain.GetLogs(ctx, &model.GetWebhookLogsRequest{WebhookID: second.ID})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	require.Equal(t, http.StatusOK, logs.Logs[0].Status)
}

func Test_webhookDomain_CheckAndSendFailuresAreRecorded(t *testing.T) {
	ctx := testutil.MockContext()
	webhookDomain := NewWebhookDomain(repository.NewWebhookRepository())

	created, err := webhookDomain.Create(ctx, &model.CreateWebhookRequest{
		ShortID: "contract1",
		URL:     "http://127.0.0.1:1/unreachable",
	})
	require.NoError(t, err)

	// Delivery failures never surface, they only leave a log entry.
	webhookDomain.CheckAndSend(ctx, "contract1", entity.Map{"Transfer": "x"})

	logs, err := webhookDomain.GetLogs(ctx, &model.GetWebhookLogsRequest{WebhookID: created.ID})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	require.Zero(t, logs.Logs[0].Status)
	require.NotEmpty(t, logs.Logs[0].Response)
	require.Nil(t, logs.Logs[0].ResponseAt)
}

func Test_webhookDomain_CheckAndSendIsolatesFailures(t *testing.T) {
	ctx := testutil.MockContext()
	webhookDomain := NewWebhookDomain(repository.NewWebhookRepository())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	healthy, err := webhookDomain.Create(ctx, &model.CreateWebhookRequest{
		ShortID: "contract1",
		URL:     server.URL + "/healthy",
	})
	require.NoError(t, err)

	broken, err := webhookDomain.Create(ctx, &model.CreateWebhookRequest{
		ShortID: "contract1",
		URL:     "http://127.0.0.1:1/broken",
	})
	require.NoError(t, err)

	// One failing delivery in the round must not affect the other one.
	webhookDomain.CheckAndSend(ctx, "contract1", entity.Map{"Transfer": "x"})

	logs, err := webhookDomain.GetLogs(ctx, &model.GetWebhookLogsRequest{WebhookID: healthy.ID})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	require.Equal(t, http.StatusOK, logs.Logs[0].Status)
	require.Equal(t, "ok", logs.Logs[0].Response)
	require.NotNil(t, logs.Logs[0].ResponseAt)

	logs, err = webhookDomain.GetLogs(ctx, &model.GetWebhookLogsRequest{WebhookID: broken.ID})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	require.Zero(t, logs.Logs[0].Status)
	require.NotEmpty(t, logs.Logs[0].Response)
	require.Nil(t, logs.Logs[0].ResponseAt)
}

func Test_webhookDomain_CheckAndSendNoopCases(t *testing.T) {
	ctx := testutil.MockContext()
	webhookDomain := NewWebhookDomain(repository.NewWebhookRepository())

	// No payload and no registered webhooks both return silently.
	webhookDomain.CheckAndSend(ctx, "contract1", nil)
	webhookDomain.CheckAndSend(ctx, "contract1", entity.Map{"Transfer": "x"})
}
