package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldGeneration  = "generation"
	FieldFromDate    = "from_date"
	FieldToDate      = "to_date"
	FieldPeriodicity = "periodicity"
	FieldMetric      = "metric"
	FieldDimension   = "dimension"
	FieldEntity      = "entity"
	FieldPage        = "page"
	FieldRowCount    = "row_count"
	FieldVoucherID   = "voucher_id"
	FieldCacheKey    = "cache_key"
	FieldGUID        = "guid"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentReports   = "reports"
	ComponentStorage   = "storage"
	ComponentSource    = "source"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
	ComponentAuth      = "auth"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names
const (
	OpAggregate = "aggregate"
	OpGroup     = "group"
	OpRank      = "rank"
	OpFetch     = "fetch"
	OpRefresh   = "refresh"
	OpReplace   = "replace"
	OpList      = "list"
	OpPage      = "page"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeAuth          = "auth_error"
	ErrorTypeTimeout       = "timeout_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)
