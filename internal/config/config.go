package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"paperplane/internal/domain"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Logger      LoggerConfig
	LLM         LLMConfig
	MongoDB     MongoDBConfig
	Storage     StorageConfig
	Redis       RedisConfig
	Auth        AuthConfig
	ImageProxy  ImageProxyConfig
	OTel        OTelConfig
	CacheTTLs   CacheTTLConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimitMB  int
	AllowOrigins string
	PublicURL    string
}

type LoggerConfig struct {
	Level string
	Env   string
}

type LLMConfig struct {
	Provider    string // openai | ollama
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	OllamaURL   string
	OllamaModel string
}

type MongoDBConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

type StorageConfig struct {
	Driver            string // s3 | gcs
	Bucket            string
	Region            string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	KeyPrefix         string
	UploadConcurrency int
	DownloadTimeout   time.Duration
	MaxImageBytes     int64
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	Username   string
	Password   string
	JWTSecret  string
	SessionTTL time.Duration
	OIDC       OIDCConfig
}

type OIDCConfig struct {
	Authority     string
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	LogoutURI     string
	CognitoDomain string
	Scopes        []string
}

type ImageProxyConfig struct {
	AllowedHosts []string
	Timeout      time.Duration
}

type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	Endpoint     string
	Insecure     bool
	SamplerRatio float64
}

type CacheTTLConfig struct {
	FilterOptions string `mapstructure:"filter_options"`
}

// IsProduction mirrors the HOST_ENV switch of the web client.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Configured reports whether enough OIDC settings exist to start the redirect flow.
func (o OIDCConfig) Configured() bool {
	return o.Authority != "" && o.ClientID != "" && o.RedirectURI != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "local")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.body_limit_mb", 50)
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("logger.level", "info")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4-turbo")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 4000)
	v.SetDefault("llm.timeout", 120)
	v.SetDefault("llm.ollama_model", "llama3")
	v.SetDefault("mongodb.database", "questions_db")
	v.SetDefault("mongodb.collection", "questions")
	v.SetDefault("mongodb.connect_timeout", 10)
	v.SetDefault("storage.driver", "s3")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.key_prefix", "questions")
	v.SetDefault("storage.upload_concurrency", 4)
	v.SetDefault("storage.download_timeout", 30)
	v.SetDefault("storage.max_image_mb", 10)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "password")
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.oidc.scopes", []string{"openid", "email", "profile"})
	v.SetDefault("image_proxy.timeout", 15)
	v.SetDefault("otel.service_name", "paperplane")
	v.SetDefault("otel.sampler_ratio", 1.0)
	v.SetDefault("cache_ttls.filter_options", "10m")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Environment: v.GetString("environment"),
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: v.GetDuration("server.write_timeout") * time.Second,
			BodyLimitMB:  v.GetInt("server.body_limit_mb"),
			AllowOrigins: v.GetString("server.allow_origins"),
			PublicURL:    v.GetString("server.public_url"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
		},
		LLM: LLMConfig{
			Provider:    v.GetString("llm.provider"),
			APIKey:      v.GetString("llm.api_key"),
			BaseURL:     v.GetString("llm.base_url"),
			Model:       v.GetString("llm.model"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			Timeout:     v.GetDuration("llm.timeout") * time.Second,
			OllamaURL:   v.GetString("llm.ollama_url"),
			OllamaModel: v.GetString("llm.ollama_model"),
		},
		MongoDB: MongoDBConfig{
			URI:            v.GetString("mongodb.uri"),
			Database:       v.GetString("mongodb.database"),
			Collection:     v.GetString("mongodb.collection"),
			ConnectTimeout: v.GetDuration("mongodb.connect_timeout") * time.Second,
		},
		Storage: StorageConfig{
			Driver:            v.GetString("storage.driver"),
			Bucket:            v.GetString("storage.bucket"),
			Region:            v.GetString("storage.region"),
			Endpoint:          v.GetString("storage.endpoint"),
			AccessKeyID:       v.GetString("storage.access_key_id"),
			SecretAccessKey:   v.GetString("storage.secret_access_key"),
			PublicBaseURL:     v.GetString("storage.public_base_url"),
			KeyPrefix:         v.GetString("storage.key_prefix"),
			UploadConcurrency: v.GetInt("storage.upload_concurrency"),
			DownloadTimeout:   v.GetDuration("storage.download_timeout") * time.Second,
			MaxImageBytes:     v.GetInt64("storage.max_image_mb") << 20,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			Username:   v.GetString("auth.username"),
			Password:   v.GetString("auth.password"),
			JWTSecret:  v.GetString("auth.jwt_secret"),
			SessionTTL: v.GetDuration("auth.session_ttl"),
			OIDC: OIDCConfig{
				Authority:     v.GetString("auth.oidc.authority"),
				ClientID:      v.GetString("auth.oidc.client_id"),
				ClientSecret:  v.GetString("auth.oidc.client_secret"),
				RedirectURI:   v.GetString("auth.oidc.redirect_uri"),
				LogoutURI:     v.GetString("auth.oidc.logout_uri"),
				CognitoDomain: v.GetString("auth.oidc.cognito_domain"),
				Scopes:        v.GetStringSlice("auth.oidc.scopes"),
			},
		},
		ImageProxy: ImageProxyConfig{
			AllowedHosts: v.GetStringSlice("image_proxy.allowed_hosts"),
			Timeout:      v.GetDuration("image_proxy.timeout") * time.Second,
		},
		OTel: OTelConfig{
			Enabled:      v.GetBool("otel.enabled"),
			ServiceName:  v.GetString("otel.service_name"),
			Endpoint:     v.GetString("otel.endpoint"),
			Insecure:     v.GetBool("otel.insecure"),
			SamplerRatio: v.GetFloat64("otel.sampler_ratio"),
		},
		CacheTTLs: CacheTTLConfig{
			FilterOptions: v.GetString("cache_ttls.filter_options"),
		},
	}

	applyEnvOverrides(cfg)
	cfg.Logger.Env = cfg.Environment

	return cfg, nil
}

// applyEnvOverrides maps the conventional variable names the web client and
// node server used onto the nested keys.
func applyEnvOverrides(cfg *Config) {
	if env := firstEnv("HOST_ENV", "ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Server.Port)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		cfg.MongoDB.URI = uri
	}
	if user := os.Getenv("AUTH_USERNAME"); user != "" {
		cfg.Auth.Username = user
	}
	if password := os.Getenv("AUTH_PASSWORD"); password != "" {
		cfg.Auth.Password = password
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if ak := os.Getenv("AWS_ACCESS_KEY_ID"); ak != "" {
		cfg.Storage.AccessKeyID = ak
	}
	if sk := os.Getenv("AWS_SECRET_ACCESS_KEY"); sk != "" {
		cfg.Storage.SecretAccessKey = sk
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Storage.Region = region
	}
	if bucket := os.Getenv("S3_BUCKET_NAME"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		cfg.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports the first missing required value as a CONFIGURATION_ERROR.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "", "openai":
		if c.LLM.APIKey == "" {
			return domain.NewConfigurationError("OpenAI API key not configured")
		}
	case "ollama":
		if c.LLM.OllamaURL == "" {
			return domain.NewConfigurationError("llm.ollama_url is required for the ollama provider")
		}
	default:
		return domain.NewConfigurationError(fmt.Sprintf("unknown llm provider %q", c.LLM.Provider))
	}
	if c.MongoDB.URI == "" {
		return domain.NewConfigurationError("MONGODB_URI is required")
	}
	if c.Storage.Bucket == "" {
		return domain.NewConfigurationError("storage.bucket is required")
	}
	if c.Storage.Driver != "" && c.Storage.Driver != "s3" && c.Storage.Driver != "gcs" {
		return domain.NewConfigurationError(fmt.Sprintf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Auth.JWTSecret == "" {
		return domain.NewConfigurationError("JWT_SECRET is required")
	}
	return nil
}

// ParseTTL parses a duration string, falling back when it is empty or malformed.
func ParseTTL(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
