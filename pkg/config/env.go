package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EventTransportLog      = "log"
	EventTransportPubSub   = "pubsub"
	EventTransportRabbitMQ = "rabbitmq"

	DefaultSQLiteDSN = "file:storefront.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"
	EnvCORS     = "STOREFRONT_CORS_ORIGINS"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvJWTSecret  = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer  = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins = "STOREFRONT_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "STOREFRONT_USE_SQLITE"
	EnvAutoMigrate = "STOREFRONT_AUTO_MIGRATE"

	EnvEventTransports = "STOREFRONT_EVENT_TRANSPORTS"

	EnvGCPProjectID          = "STOREFRONT_GCP_PROJECT_ID"
	EnvPubSubCartEventsTopic = "STOREFRONT_PUBSUB_CART_EVENTS_TOPIC"

	EnvRabbitMQURL = "STOREFRONT_RABBITMQ_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
