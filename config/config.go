package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  ServerConfigs
	Redis      RedisConfigs
	Blockchain BlockchainConfigs
	ApiKey     ApiKeyConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	AllowCORS []string `toml:"allow_cors"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type RedisConfigs struct {
	Addr string
}

type BlockchainConfigs struct {
	// SecretKey encrypts private keys at rest.
	SecretKey string `toml:"secret_key"`

	RPCTimeout     time.Duration `toml:"rpc_timeout"`
	ReceiptTimeout time.Duration `toml:"receipt_timeout"`

	// TTL of a live node connection kept in the in-process cache.
	ConnectionTTL time.Duration `toml:"connection_ttl"`

	// TTL of contract and version projections kept in redis.
	MetadataTTL time.Duration `toml:"metadata_ttl"`

	NonceSeedTTL    time.Duration `toml:"nonce_seed_ttl"`
	NonceRefreshTTL time.Duration `toml:"nonce_refresh_ttl"`
}

type ApiKeyConfigs struct {
	Header string `toml:"header"`
}
