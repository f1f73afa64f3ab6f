package constants

type ContextKey string

const (
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	UserKey      ContextKey = "user"
	TenantIDKey  ContextKey = "tenantID"
	APITokenKey  ContextKey = "apiToken"
	LocalizerKey ContextKey = "localizer"
	RequestIDKey ContextKey = "requestID"
)
