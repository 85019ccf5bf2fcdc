// Package log defines the shared slog field and component names so
// log lines stay greppable across packages.
package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldUserAgent = "user_agent"
	FieldError     = "error"
	FieldMonth     = "month"
	FieldPage      = "page"
	FieldPerPage   = "per_page"
	FieldSearch    = "search"
	FieldCount     = "count"
	FieldSkipped   = "skipped"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAnalytics = "analytics"
	ComponentSeeder    = "seeder"
	ComponentFeed      = "feed"
	ComponentAMQP      = "amqp"
	ComponentCache     = "cache"
)
