package types

// contextKey is the private type used for context values set by the
// server and read by telemetry.
type contextKey string

const (
	// ContextKeyTenantID carries the tenant making the request.
	ContextKeyTenantID contextKey = "tenant_id"
	// ContextKeyRequestID carries the request correlation id.
	ContextKeyRequestID contextKey = "request_id"
)
