package log

// Common field names for structured logging
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

	FieldExpenseID    = "expense_id"
	FieldCategory     = "category"
	FieldAmountCents  = "amount_cents"
	FieldBillID       = "bill_id"
	FieldRecurringID  = "recurring_id"
	FieldSuggestionID = "suggestion_id"
	FieldYear         = "year"
	FieldMonth        = "month"
)

// Standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
)
