package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	StorePostgres = "postgres"
	StoreDynamo   = "dynamodb"
	StoreMemory   = "memory"
)

type Config struct {
	Environment string            `yaml:"environment"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Store       StoreConfig       `yaml:"store"`
	AWS         AWSConfig         `yaml:"aws"`
	Auth        AuthConfig        `yaml:"auth"`
	Payment     PaymentConfig     `yaml:"payment"`
	LogViewer   LogViewerConfig   `yaml:"log_viewer"`
	Events      EventsConfig      `yaml:"events"`
	Attachments AttachmentsConfig `yaml:"attachments"`
}

type ServerConfig struct {
	Address string `yaml:"address" validate:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

type StoreConfig struct {
	Backend           string `yaml:"backend" validate:"oneof=postgres dynamodb memory"`
	PostgresConn      string `yaml:"postgres_conn" validate:"required_if=Backend postgres"`
	PostgresDatabase  string `yaml:"postgres_database"`
	MigrationsPath    string `yaml:"migrations_path"`
	DynamoEndpoint    string `yaml:"dynamodb_endpoint"`
	DynamoTablePrefix string `yaml:"dynamodb_table_prefix"`
}

type AWSConfig struct {
	Region          string `yaml:"region" validate:"required"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type AuthConfig struct {
	JWTSecret   string   `yaml:"jwt_secret" validate:"required,min=16"`
	AdminGroups []string `yaml:"admin_groups"`
}

type PaymentConfig struct {
	FeePercentage  float64       `yaml:"fee_percentage" validate:"gte=0,lte=100"`
	Currency       string        `yaml:"currency" validate:"required"`
	PayjpSecretKey string        `yaml:"payjp_secret_key"`
	PayjpAPIBase   string        `yaml:"payjp_api_base" validate:"required,url"`
	AllowDemo      bool          `yaml:"allow_demo"`
	Timeout        time.Duration `yaml:"timeout"`
}

type LogViewerConfig struct {
	PaymentGroups  []string      `yaml:"payment_groups"`
	PaymentPattern string        `yaml:"payment_pattern"`
	LoginGroups    []string      `yaml:"login_groups"`
	LoginPattern   string        `yaml:"login_pattern"`
	APIGroups      []string      `yaml:"api_groups"`
	APIPattern     string        `yaml:"api_pattern"`
	QueryTimeout   time.Duration `yaml:"query_timeout"`
}

type EventsConfig struct {
	ContractQueueURL string `yaml:"contract_queue_url"`
}

type AttachmentsConfig struct {
	Bucket    string        `yaml:"bucket"`
	URLExpiry time.Duration `yaml:"url_expiry" validate:"gte=0"`
}

func defaults() *Config {
	return &Config{
		Environment: "development",
		Server:      ServerConfig{Address: "0.0.0.0:8080"},
		Log:         LogConfig{Level: "info", Format: "json"},
		Store: StoreConfig{
			Backend:           StoreMemory,
			PostgresDatabase:  "cloudport",
			MigrationsPath:    "file://migrations",
			DynamoTablePrefix: "cloudport-",
		},
		AWS:  AWSConfig{Region: "ap-northeast-1"},
		Auth: AuthConfig{AdminGroups: []string{"admin"}},
		Payment: PaymentConfig{
			FeePercentage: 10,
			Currency:      "jpy",
			PayjpAPIBase:  "https://api.pay.jp",
			Timeout:       15 * time.Second,
		},
		LogViewer: LogViewerConfig{
			PaymentGroups:  []string{"/aws/lambda/cloudport-contract-payment"},
			PaymentPattern: "?ERROR ?\"payment failed\"",
			LoginGroups:    []string{"/aws/cognito/cloudport-user-pool"},
			LoginPattern:   "?\"login failed\" ?NotAuthorizedException",
			APIGroups:      []string{"/aws/lambda/cloudport-api"},
			APIPattern:     "?ERROR ?\"statusCode\\\":5\"",
			QueryTimeout:   10 * time.Second,
		},
		Attachments: AttachmentsConfig{URLExpiry: 15 * time.Minute},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and finally the environment.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.Server.Address = getEnv("SERVER_ADDRESS", cfg.Server.Address)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Store.Backend = getEnv("STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.PostgresConn = getEnv("POSTGRES_CONN", cfg.Store.PostgresConn)
	cfg.Store.PostgresDatabase = getEnv("POSTGRES_DATABASE", cfg.Store.PostgresDatabase)
	cfg.Store.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.Store.MigrationsPath)
	cfg.Store.DynamoEndpoint = getEnv("DYNAMODB_ENDPOINT", cfg.Store.DynamoEndpoint)
	cfg.Store.DynamoTablePrefix = getEnv("DYNAMODB_TABLE_PREFIX", cfg.Store.DynamoTablePrefix)

	cfg.AWS.Region = getEnv("AWS_REGION", cfg.AWS.Region)
	cfg.AWS.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", cfg.AWS.AccessKeyID)
	cfg.AWS.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.AWS.SecretAccessKey)

	cfg.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.AdminGroups = getEnvList("AUTH_ADMIN_GROUPS", cfg.Auth.AdminGroups)

	cfg.Payment.FeePercentage = getEnvFloat64("PAYMENT_FEE_PERCENTAGE", cfg.Payment.FeePercentage)
	cfg.Payment.Currency = getEnv("PAYMENT_CURRENCY", cfg.Payment.Currency)
	cfg.Payment.PayjpSecretKey = getEnv("PAYJP_SECRET_KEY", cfg.Payment.PayjpSecretKey)
	cfg.Payment.PayjpAPIBase = getEnv("PAYJP_API_BASE", cfg.Payment.PayjpAPIBase)
	cfg.Payment.AllowDemo = getEnvBool("PAYMENT_ALLOW_DEMO", cfg.Payment.AllowDemo)
	cfg.Payment.Timeout = getEnvDuration("PAYMENT_TIMEOUT", cfg.Payment.Timeout)

	cfg.LogViewer.PaymentGroups = getEnvList("LOG_GROUPS_PAYMENT", cfg.LogViewer.PaymentGroups)
	cfg.LogViewer.PaymentPattern = getEnv("LOG_PATTERN_PAYMENT", cfg.LogViewer.PaymentPattern)
	cfg.LogViewer.LoginGroups = getEnvList("LOG_GROUPS_LOGIN", cfg.LogViewer.LoginGroups)
	cfg.LogViewer.LoginPattern = getEnv("LOG_PATTERN_LOGIN", cfg.LogViewer.LoginPattern)
	cfg.LogViewer.APIGroups = getEnvList("LOG_GROUPS_API", cfg.LogViewer.APIGroups)
	cfg.LogViewer.APIPattern = getEnv("LOG_PATTERN_API", cfg.LogViewer.APIPattern)
	cfg.LogViewer.QueryTimeout = getEnvDuration("LOG_QUERY_TIMEOUT", cfg.LogViewer.QueryTimeout)

	cfg.Events.ContractQueueURL = getEnv("CONTRACT_EVENTS_QUEUE_URL", cfg.Events.ContractQueueURL)

	cfg.Attachments.Bucket = getEnv("ATTACHMENTS_BUCKET", cfg.Attachments.Bucket)
	cfg.Attachments.URLExpiry = getEnvDuration("ATTACHMENTS_URL_EXPIRY", cfg.Attachments.URLExpiry)
	// ATTACHMENTS_URL_EXPIRY also accepts plain seconds
	if secs := getEnvInt("ATTACHMENTS_URL_EXPIRY", 0); secs > 0 {
		cfg.Attachments.URLExpiry = time.Duration(secs) * time.Second
	}
}
