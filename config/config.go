package config

import (
	"flag"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddress = ":8080"
	defaultDatabaseDSN   = ""
	defaultRedisAddr     = "localhost:6379"
	defaultLogLevel      = "debug"
	defaultBaseCurrency  = "EUR"
)

type Config struct {
	ServerAddr    string
	DatabaseDSN   string
	RedisAddr     string
	LogLevel      string
	BaseCurrency  string
	GatewayAddr   string
	GatewayAPIKey string
	CarrierAddr   string
	CarrierAPIKey string
	WebhookURL    string
	StaffTokenKey string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// .env is optional, real deployments use the environment
		godotenv.Load()

		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "back office server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "back office database DSN")
		flag.StringVar(&cfg.RedisAddr, "r", defaultRedisAddr, "redis address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.BaseCurrency, "c", defaultBaseCurrency, "platform base currency")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if redisAddrEnv := os.Getenv("REDIS_ADDR"); redisAddrEnv != "" {
			cfg.RedisAddr = redisAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if baseCurrencyEnv := os.Getenv("BASE_CURRENCY"); baseCurrencyEnv != "" {
			cfg.BaseCurrency = baseCurrencyEnv
		}

		cfg.GatewayAddr = os.Getenv("GATEWAY_ADDRESS")
		cfg.GatewayAPIKey = os.Getenv("GATEWAY_API_KEY")
		cfg.CarrierAddr = os.Getenv("CARRIER_ADDRESS")
		cfg.CarrierAPIKey = os.Getenv("CARRIER_API_KEY")
		cfg.WebhookURL = os.Getenv("WEBHOOK_URL")
		cfg.StaffTokenKey = os.Getenv("STAFF_TOKEN_KEY")

		singleton = &cfg
	})

	return singleton, nil
}
