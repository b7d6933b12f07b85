//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs adds nothing outside gcloud builds; trace_id and span_id
// are still attached by traceAttrs.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
