package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv           = "STOREFRONT_APP_ENV"
	EnvLogLevel         = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL       = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout       = "STOREFRONT_API_TIMEOUT"
	EnvStorageDriver    = "STOREFRONT_STORAGE_DRIVER"
	EnvStoragePath      = "STOREFRONT_STORAGE_PATH"
	EnvRedisURL         = "STOREFRONT_REDIS_URL"
	EnvScannerTopN      = "STOREFRONT_SCANNER_TOP_N"
	EnvSandboxPort      = "STOREFRONT_SANDBOX_PORT"
	EnvSandboxJWTSecret = "STOREFRONT_SANDBOX_JWT_SECRET"
	EnvSandboxPublicURL = "STOREFRONT_SANDBOX_PUBLIC_URL"
	EnvInstanceID       = "STOREFRONT_INSTANCE_ID"

	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)
