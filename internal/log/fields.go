package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldQueue      = "queue"
	FieldExchange   = "exchange"
	FieldCacheHit   = "cache_hit"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentEngine  = "engine"
	ComponentWorker  = "worker"
	ComponentAMQP    = "amqp"
	ComponentStorage = "storage"
	ComponentCache   = "cache"
	ComponentConfig  = "config"
)
