package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// EnvPrefix prefixes environment overrides for secrets, e.g. BRIEFBANK_AUTH_JWT_SECRET.
	EnvPrefix = "BRIEFBANK_"

	defaultPort = 5000
	defaultEnv  = "development"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultDriver     = DriverMySQL
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultPGPort     = 5432
	defaultDBUser     = "root"
	defaultDBPassword = ""
	defaultDBName     = "briefbank"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSQLitePath = "briefbank.db"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultAIProvider        = "openai"
	defaultAIModel           = "gpt-4o-mini"
	defaultAIMaxOutputTokens = 1024
	defaultAITimeout         = 60 * time.Second

	defaultExtractionTimeout = 45 * time.Second

	defaultS3Region   = "us-east-1"
	defaultPresignTTL = 15 * time.Minute

	defaultPaymentEndpoint = "https://api.razorpay.com"
	DefaultPaymentAmount   = 49900
	DefaultPaymentCurrency = "INR"
)
