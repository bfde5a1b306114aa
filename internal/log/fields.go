package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldSuccess      = "success"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldHouseholdID  = "household_id"
	FieldUserID       = "user_id"
	FieldYear         = "year"
	FieldMonth        = "month"
	FieldAmountCents  = "amount_cents"
	FieldCategoryID   = "category_id"
	FieldBillID       = "bill_id"
	FieldDebtID       = "debt_id"
	FieldGoalID       = "goal_id"
	FieldSettlementID = "settlement_id"
	FieldEventID      = "event_id"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentDashboard = "dashboard"
	ComponentReports   = "reports"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpValidate = "validate"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithHousehold adds household scoping fields
func (f LogFields) WithHousehold(householdID int64) LogFields {
	f[FieldHouseholdID] = householdID
	return f
}

// WithPeriod adds month/year fields
func (f LogFields) WithPeriod(month, year int) LogFields {
	f[FieldMonth] = month
	f[FieldYear] = year
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
