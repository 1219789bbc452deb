package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at configPath, applies BRIEFBANK_* environment
// overrides (an optional .env next to the working directory is loaded first)
// and validates the result.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(content, path)
}

// Parse decodes config content. source is only used in error messages.
func Parse(content []byte, source string) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", source, err)
		}
	}

	if err := applyRawAppConfig(&cfg, raw); err != nil {
		return nil, fmt.Errorf("config %q: %w", source, err)
	}
	applyEnvOverrides(&cfg, os.LookupEnv)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config %q: %w", source, err)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDriver,
			Host:      defaultDBHost,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Enable: true,
			Host:   defaultRedisHost,
			Port:   defaultRedisPort,
			DB:     defaultRedisDB,
		},
		AI: AIConfig{
			Provider:        defaultAIProvider,
			Model:           defaultAIModel,
			MaxOutputTokens: defaultAIMaxOutputTokens,
			Timeout:         defaultAITimeout,
		},
		Extraction: ExtractionConfig{
			Timeout: defaultExtractionTimeout,
		},
		S3: S3Config{
			Region:     defaultS3Region,
			PresignTTL: defaultPresignTTL,
		},
		Payment: PaymentConfig{
			Endpoint: defaultPaymentEndpoint,
			Amount:   DefaultPaymentAmount,
			Currency: DefaultPaymentCurrency,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.GoEnv); v != "" {
		cfg.Env = v
	}
	cfg.Env = normalizeEnv(cfg.Env)

	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}

	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Auth.Secret); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Auth.JWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Auth.PublicKeyFile); v != "" {
		cfg.Auth.JWTPublicKeyFile = v
	}
	if v := strings.TrimSpace(raw.Auth.JWTPublicKeyFile); v != "" {
		cfg.Auth.JWTPublicKeyFile = v
	}
	if v := strings.TrimSpace(raw.Auth.Issuer); v != "" {
		cfg.Auth.Issuer = v
	}

	ai, err := applyRawAIConfig(cfg.AI, raw.AI)
	if err != nil {
		return err
	}
	cfg.AI = ai

	extraction, err := applyRawExtractionConfig(cfg.Extraction, raw.Extraction)
	if err != nil {
		return err
	}
	cfg.Extraction = extraction

	s3, err := applyRawS3Config(cfg.S3, raw.S3)
	if err != nil {
		return err
	}
	cfg.S3 = s3

	cfg.Payment = applyRawPaymentConfig(cfg.Payment, raw.Razorpay)
	cfg.Payment = applyRawPaymentConfig(cfg.Payment, raw.Payment)

	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogsDir); v != "" {
		cfg.Paths.Logs = v
	}
	if raw.Seed != nil {
		cfg.Seed = *raw.Seed
	}
	return nil
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	db := raw.Database

	if v := strings.TrimSpace(db.Driver); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.URL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		cfg.Host = v
	}
	if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := strings.TrimSpace(db.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(db.User); v != "" {
		cfg.User = v
	}
	if db.Password != "" {
		cfg.Password = db.Password
	}
	if v := strings.TrimSpace(db.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if db.ParseTime != nil {
		cfg.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if v := strings.TrimSpace(db.SSLMode); v != "" {
		cfg.SSLMode = v
	}
	if v := strings.TrimSpace(db.Path); v != "" {
		cfg.Path = v
	}
	if db.Params != nil {
		cfg.Params = copyStringMap(db.Params)
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	r := raw.Redis

	if r.Enable != nil {
		cfg.Enable = *r.Enable
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(r.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(r.Host); v != "" {
		cfg.Host = v
	}
	if r.Port != 0 {
		cfg.Port = r.Port
	}
	if v := strings.TrimSpace(r.Username); v != "" {
		cfg.Username = v
	}
	if r.Password != "" {
		cfg.Password = r.Password
	}
	if r.DB != nil {
		cfg.DB = *r.DB
	}
	if r.TLS != nil {
		cfg.TLS = *r.TLS
	}
	return normalizeRedisConfig(cfg)
}

func applyRawAIConfig(cfg AIConfig, raw rawAIConfig) (AIConfig, error) {
	if v := strings.TrimSpace(raw.Provider); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.APIKey); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Model); v != "" {
		cfg.Model = v
	}
	if raw.MaxTokens > 0 {
		cfg.MaxOutputTokens = raw.MaxTokens
	}
	if raw.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = raw.MaxOutputTokens
	}
	timeout, err := parseDuration("ai.timeout", raw.Timeout, cfg.Timeout)
	if err != nil {
		return cfg, err
	}
	cfg.Timeout = timeout
	return cfg, nil
}

func applyRawExtractionConfig(cfg ExtractionConfig, raw rawExtractConfig) (ExtractionConfig, error) {
	if v := strings.TrimSpace(raw.URL); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if v := strings.TrimSpace(raw.APIKey); v != "" {
		cfg.APIKey = v
	}
	timeout, err := parseDuration("extraction.timeout", raw.Timeout, cfg.Timeout)
	if err != nil {
		return cfg, err
	}
	cfg.Timeout = timeout
	return cfg, nil
}

func applyRawS3Config(cfg S3Config, raw rawS3Config) (S3Config, error) {
	if v := strings.TrimSpace(raw.Region); v != "" {
		cfg.Region = v
	}
	if v := strings.TrimSpace(raw.Bucket); v != "" {
		cfg.Bucket = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.AccessKeyID); v != "" {
		cfg.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.SecretAccessKey); v != "" {
		cfg.SecretAccessKey = v
	}
	if raw.PathStyle != nil {
		cfg.PathStyle = *raw.PathStyle
	}
	ttl, err := parseDuration("s3.presign_ttl", raw.PresignTTL, cfg.PresignTTL)
	if err != nil {
		return cfg, err
	}
	cfg.PresignTTL = ttl
	return cfg, nil
}

func applyRawPaymentConfig(cfg PaymentConfig, raw rawPaymentConfig) PaymentConfig {
	if v := strings.TrimSpace(raw.KeyID); v != "" {
		cfg.KeyID = v
	}
	if v := strings.TrimSpace(raw.KeySecret); v != "" {
		cfg.KeySecret = v
	}
	if v := strings.TrimSpace(raw.WebhookSecret); v != "" {
		cfg.WebhookSecret = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if raw.Amount != 0 {
		cfg.Amount = raw.Amount
	}
	if v := strings.TrimSpace(raw.Currency); v != "" {
		cfg.Currency = strings.ToUpper(v)
	}
	return cfg
}

// applyEnvOverrides lets deployments keep secrets out of the YAML file.
func applyEnvOverrides(cfg *AppConfig, lookup func(string) (string, bool)) {
	set := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("DATABASE_DSN", &cfg.Database.DSN)
	set("REDIS_URL", &cfg.Redis.URL)
	set("AUTH_JWT_SECRET", &cfg.Auth.JWTSecret)
	set("AUTH_JWT_PUBLIC_KEY_FILE", &cfg.Auth.JWTPublicKeyFile)
	set("AI_API_KEY", &cfg.AI.APIKey)
	set("EXTRACTION_API_KEY", &cfg.Extraction.APIKey)
	set("S3_ACCESS_KEY_ID", &cfg.S3.AccessKeyID)
	set("S3_SECRET_ACCESS_KEY", &cfg.S3.SecretAccessKey)
	set("PAYMENT_KEY_ID", &cfg.Payment.KeyID)
	set("PAYMENT_KEY_SECRET", &cfg.Payment.KeySecret)
	set("PAYMENT_WEBHOOK_SECRET", &cfg.Payment.WebhookSecret)
	cfg.Redis.URL = normalizeRedisRawURL(cfg.Redis.URL)
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	switch cfg.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid database.driver %q, expected mysql, postgres or sqlite", cfg.Database.Driver)
	}
	if cfg.Database.Driver != DriverSQLite && (cfg.Database.Port < 1 || cfg.Database.Port > 65535) {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	switch cfg.AI.Provider {
	case "openai", "anthropic", "openai-compatible":
	default:
		return fmt.Errorf("invalid ai.provider %q, expected openai, anthropic or openai-compatible", cfg.AI.Provider)
	}
	if cfg.AI.Provider == "openai-compatible" && cfg.AI.Endpoint == "" {
		return errors.New("ai.endpoint is required for provider openai-compatible")
	}
	if cfg.Payment.Amount <= 0 {
		return fmt.Errorf("invalid payment.amount %d, expected > 0", cfg.Payment.Amount)
	}
	if !cfg.IsDev() && cfg.Auth.JWTSecret == "" && cfg.Auth.JWTPublicKeyFile == "" {
		return errors.New("auth.jwt_secret or auth.jwt_public_key_file is required outside development")
	}
	return nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, trimmed, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q, expected a positive duration", key, trimmed)
	}
	return d, nil
}

func (c *AppConfig) IsDev() bool {
	return c.Env == defaultEnv || c.Env == "test"
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return ResolveRuntimePath("", "logs")
	}
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}
