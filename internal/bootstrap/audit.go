package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records lifecycle events that must outlive regular
// request logging, such as shutdowns.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
