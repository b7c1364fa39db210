package main

import (
	"context"
	"net/http"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/contractdock/backend/config"
	"github.com/contractdock/backend/internal/domain"
	"github.com/contractdock/backend/internal/domain/chain"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/crypto"
	"github.com/contractdock/backend/pkg/logger"
	"github.com/contractdock/backend/pkg/router"
	"github.com/contractdock/backend/pkg/xcontext"
	"github.com/contractdock/backend/pkg/xredis"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger

	db          *gorm.DB
	redisClient xredis.Client

	networkRepo     repository.NetworkRepository
	contractRepo    repository.ContractRepository
	versionRepo     repository.ContractVersionRepository
	accountRepo     repository.ContractAccountRepository
	apiKeyRepo      repository.APIKeyRepository
	requestRepo     repository.IntegrationRequestRepository
	transactionRepo repository.TransactionRepository
	webhookRepo     repository.WebhookRepository

	cache     *chain.Cache
	connector *chain.Connector
	sequencer *chain.NonceSequencer
	cipher    *crypto.AESCipher

	networkDomain     domain.NetworkDomain
	contractDomain    domain.ContractDomain
	integrationDomain domain.IntegrationDomain
	transactionDomain domain.TransactionDomain
	webhookDomain     domain.WebhookDomain
	statisticDomain   domain.StatisticDomain
	apiKeyDomain      domain.APIKeyDomain

	router *router.Router
	server *http.Server
}

// newContext builds the context of flows running outside the http stack, like
// migrations.
func (s *srv) newContext() context.Context {
	ctx := xcontext.WithConfigs(context.Background(), *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	if s.db != nil {
		ctx = xcontext.WithDB(ctx, s.db)
	}

	return ctx
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.newContext())
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepos() {
	s.networkRepo = repository.NewNetworkRepository()
	s.contractRepo = repository.NewContractRepository()
	s.versionRepo = repository.NewContractVersionRepository()
	s.accountRepo = repository.NewContractAccountRepository()
	s.apiKeyRepo = repository.NewAPIKeyRepository()
	s.requestRepo = repository.NewIntegrationRequestRepository()
	s.transactionRepo = repository.NewTransactionRepository()
	s.webhookRepo = repository.NewWebhookRepository()
}

func (s *srv) loadDomains() {
	s.cache = chain.NewCache(s.redisClient)
	s.connector = chain.NewConnector(s.networkRepo, s.cache)
	s.sequencer = chain.NewNonceSequencer(s.redisClient)
	s.cipher = crypto.NewAESCipher(s.configs.Blockchain.SecretKey)

	s.networkDomain = domain.NewNetworkDomain(s.networkRepo)
	s.apiKeyDomain = domain.NewAPIKeyDomain(s.apiKeyRepo)
	s.webhookDomain = domain.NewWebhookDomain(s.webhookRepo)
	s.statisticDomain = domain.NewStatisticDomain(s.requestRepo)
	s.transactionDomain = domain.NewTransactionDomain(s.transactionRepo)
	s.contractDomain = domain.NewContractDomain(
		s.contractRepo, s.versionRepo, s.accountRepo, s.webhookRepo, s.transactionRepo,
		s.cache, s.connector, s.sequencer, s.cipher,
	)
	s.integrationDomain = domain.NewIntegrationDomain(
		s.contractRepo, s.versionRepo, s.accountRepo, s.apiKeyRepo, s.requestRepo,
		s.transactionRepo, s.webhookDomain,
		s.cache, s.connector, s.sequencer, s.cipher,
	)
}
