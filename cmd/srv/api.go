package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/contractdock/backend/internal/middleware"
	"github.com/contractdock/backend/pkg/router"
)

func (s *srv) startApi(ct *cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()
	server.loadRedis()
	server.loadRepos()
	server.loadDomains()
	server.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port: %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Platform API. Issues the api keys everything else authenticates with.
	router.POST(s.router, "/generateAPIKey", s.apiKeyDomain.Generate)
	router.POST(s.router, "/revokeAPIKey", s.apiKeyDomain.Revoke)
	router.POST(s.router, "/deleteApplicationContracts", s.contractDomain.DeleteByApplication)
	router.POST(s.router, "/createNetwork", s.networkDomain.Create)
	router.GET(s.router, "/getNetworks", s.networkDomain.GetList)

	// These following APIs need authentication with an API Key.
	apiKeyRouter := s.router.Branch()
	verifier := middleware.NewApiKeyVerifier(s.apiKeyRepo)
	apiKeyRouter.Before(verifier.Middleware())
	{
		// Contract API
		router.POST(apiKeyRouter, "/deployContract", s.contractDomain.Deploy)
		router.GET(apiKeyRouter, "/getContract", s.contractDomain.Get)
		router.POST(apiKeyRouter, "/updateContract", s.contractDomain.Update)
		router.POST(apiKeyRouter, "/deleteContract", s.contractDomain.Delete)
		router.POST(apiKeyRouter, "/addContractVersion", s.contractDomain.AddVersion)
		router.POST(apiKeyRouter, "/addContractAccount", s.contractDomain.AddAccount)
		router.GET(apiKeyRouter, "/getContractAccounts", s.contractDomain.GetAccounts)
		router.POST(apiKeyRouter, "/updateContractAccount", s.contractDomain.UpdateAccount)

		// Integration API
		router.POST(apiKeyRouter, "/call", s.integrationDomain.Call)
		router.POST(apiKeyRouter, "/send", s.integrationDomain.Send)
		router.GET(apiKeyRouter, "/getPastEvents", s.integrationDomain.GetPastEvents)
		router.GET(apiKeyRouter, "/getListRequest", s.integrationDomain.GetRequests)

		// Transaction API
		router.GET(apiKeyRouter, "/getListTransaction", s.transactionDomain.GetList)

		// Webhook API
		router.POST(apiKeyRouter, "/createWebhook", s.webhookDomain.Create)
		router.GET(apiKeyRouter, "/getWebhooks", s.webhookDomain.GetList)
		router.POST(apiKeyRouter, "/deleteWebhook", s.webhookDomain.Delete)
		router.GET(apiKeyRouter, "/getWebhookLogs", s.webhookDomain.GetLogs)

		// Statistic API
		router.GET(apiKeyRouter, "/getStats", s.statisticDomain.GetStats)
	}
}
