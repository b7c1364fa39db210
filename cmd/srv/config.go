package main

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/contractdock/backend/config"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}

	return d
}

// loadConfig reads the optional toml file pointed at by CONFIG_FILE first,
// then lets the environment override every connection setting.
func (s *srv) loadConfig() {
	configs := config.Configs{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &configs); err != nil {
			panic(err)
		}
	}

	configs.Env = getEnv("ENV", "local")

	configs.Database = config.DatabaseConfigs{
		Host:     getEnv("MYSQL_HOST", "localhost"),
		Port:     getEnv("MYSQL_PORT", "3306"),
		User:     getEnv("MYSQL_USER", "contractdock"),
		Password: getEnv("MYSQL_PASSWORD", "contractdock"),
		Database: getEnv("MYSQL_DATABASE", "contractdock"),
	}

	configs.ApiServer.Host = getEnv("API_HOST", configs.ApiServer.Host)
	configs.ApiServer.Port = getEnv("API_PORT", "8080")
	if origins := os.Getenv("API_ALLOW_CORS"); origins != "" {
		configs.ApiServer.AllowCORS = strings.Split(origins, ",")
	}

	configs.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")

	configs.Blockchain.SecretKey = getEnv("CHAIN_SECRET_KEY", configs.Blockchain.SecretKey)
	configs.Blockchain.RPCTimeout = getDurationEnv("CHAIN_RPC_TIMEOUT", configs.Blockchain.RPCTimeout)
	configs.Blockchain.ReceiptTimeout = getDurationEnv("CHAIN_RECEIPT_TIMEOUT", configs.Blockchain.ReceiptTimeout)
	configs.Blockchain.ConnectionTTL = getDurationEnv("CHAIN_CONNECTION_TTL", configs.Blockchain.ConnectionTTL)
	configs.Blockchain.MetadataTTL = getDurationEnv("CHAIN_METADATA_TTL", configs.Blockchain.MetadataTTL)
	configs.Blockchain.NonceSeedTTL = getDurationEnv("CHAIN_NONCE_SEED_TTL", configs.Blockchain.NonceSeedTTL)
	configs.Blockchain.NonceRefreshTTL = getDurationEnv("CHAIN_NONCE_REFRESH_TTL", configs.Blockchain.NonceRefreshTTL)

	configs.ApiKey.Header = getEnv("API_KEY_HEADER", "X-Api-Key")

	s.configs = &configs
}
