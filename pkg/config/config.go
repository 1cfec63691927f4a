package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Scanner ScannerConfig
	Sandbox SandboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSandbox reads the same environment as Load but only validates what the
// sandbox server needs; it never talks to an upstream backend.
func LoadSandbox() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Sandbox.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig is the single place the backend location is injected from.
type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
}

func (a APIConfig) validate() error {
	u, err := url.Parse(strings.TrimSpace(a.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvAPIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvAPIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", EnvAPIBaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvAPITimeout)
	}
	return nil
}

type StorageConfig struct {
	Driver string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
	Path   string `envconfig:"STOREFRONT_STORAGE_PATH" default:"storefront.db"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverSQLite:
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvStoragePath)
		}
		return nil
	case StorageDriverRedis, StorageDriverMemory:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s", EnvStorageDriver, StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory)
}

// NormalizedDriver returns the lowercased storage driver name.
func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	// Namespace isolates one device profile from another on a shared server.
	Namespace string `envconfig:"STOREFRONT_REDIS_NAMESPACE" default:"sf"`
}

type ScannerConfig struct {
	TopN            int `envconfig:"STOREFRONT_SCANNER_TOP_N" default:"8"`
	MaxAdvice       int `envconfig:"STOREFRONT_SCANNER_MAX_ADVICE" default:"6"`
	AffordablePrice int `envconfig:"STOREFRONT_SCANNER_AFFORDABLE_PRICE" default:"500000"`
	MidRangePrice   int `envconfig:"STOREFRONT_SCANNER_MID_RANGE_PRICE" default:"1000000"`
}

type SandboxConfig struct {
	Port     string `envconfig:"STOREFRONT_SANDBOX_PORT" default:"7191"`
	JWT      JWTConfig
	Password PasswordConfig
	OTP      OTPConfig
	// Seed loads a demo catalog on startup.
	Seed           bool     `envconfig:"STOREFRONT_SANDBOX_SEED" default:"true"`
	PublicURL      string   `envconfig:"STOREFRONT_SANDBOX_PUBLIC_URL"`
	AllowedOrigins []string `envconfig:"STOREFRONT_SANDBOX_ALLOWED_ORIGINS" default:"http://localhost:8081,http://localhost:19006"`
}

func (s SandboxConfig) validate() error {
	if strings.TrimSpace(s.Port) == "" {
		return fmt.Errorf("%s is required", EnvSandboxPort)
	}
	if strings.TrimSpace(s.JWT.Secret) == "" {
		return fmt.Errorf("%s is required", EnvSandboxJWTSecret)
	}
	if s.PublicURL != "" {
		u, err := url.Parse(s.PublicURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url", EnvSandboxPublicURL)
		}
	}
	return nil
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_SANDBOX_JWT_SECRET" default:"sandbox-secret"`
	Issuer            string `envconfig:"STOREFRONT_SANDBOX_JWT_ISSUER" default:"storefront-sandbox"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_SANDBOX_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_SANDBOX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_SANDBOX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_SANDBOX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_SANDBOX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_SANDBOX_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	TTL time.Duration `envconfig:"STOREFRONT_SANDBOX_OTP_TTL" default:"10m"`
	// FixedCode makes every issued OTP predictable for local runs.
	FixedCode string `envconfig:"STOREFRONT_SANDBOX_OTP_FIXED_CODE"`
}
