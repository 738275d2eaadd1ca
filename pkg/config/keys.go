package config

const (
	EnvPrefix = "SUPPLYNET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "SUPPLYNET_APP_ENV"
	EnvPort        = "SUPPLYNET_APP_PORT"
	EnvLogLevel    = "SUPPLYNET_LOG_LEVEL"
	EnvLogFormat   = "SUPPLYNET_LOG_FORMAT"
	EnvCORSOrigins = "SUPPLYNET_CORS_ORIGINS"

	EnvAPIBaseURL = "SUPPLYNET_API_BASE_URL"
	EnvStreamURL  = "SUPPLYNET_STREAM_URL"
	EnvAPITimeout = "SUPPLYNET_API_TIMEOUT"

	EnvPollInterval = "SUPPLYNET_DIRECTORY_POLL_INTERVAL"
	EnvSnapshotTTL  = "SUPPLYNET_DIRECTORY_SNAPSHOT_TTL"

	EnvMaxIterations     = "SUPPLYNET_ASSISTANT_MAX_ITERATIONS"
	EnvFulfillingStoreID = "SUPPLYNET_FULFILLING_STORE_ID"

	EnvRedisURL  = "SUPPLYNET_REDIS_URL"
	EnvRedisAddr = "SUPPLYNET_REDIS_ADDR"

	EnvFleetFile = "SUPPLYNET_FLEET_FILE"
)
