package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module names the component that emitted a log record.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type HandlerConfig struct {
	Service       ServiceInfo
	Environment   Environment
	GCPProjectID  string
	DefaultModule Module
	Level         slog.Leveler
}

type moduleKey struct{}

// WithModule overrides the module attribute for records logged with ctx.
func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey{}, module)
}

func moduleFromContext(ctx context.Context) (Module, bool) {
	m, ok := ctx.Value(moduleKey{}).(Module)
	return m, ok
}

// ParseLevel maps LOG_LEVEL style names to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler returns a JSON handler enriched with service, module, request ID
// and trace attributes.
func NewHandler(w io.Writer, cfg HandlerConfig) slog.Handler {
	level := cfg.Level
	if level == nil {
		level = slog.LevelInfo
		if cfg.Environment == EnvDev {
			level = slog.LevelDebug
		}
	}

	base := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr(cfg.Environment),
	})

	serviceAttrs := []slog.Attr{
		slog.String("name", cfg.Service.Name),
		slog.String("version", cfg.Service.Version),
	}
	if cfg.Service.Revision != "" {
		serviceAttrs = append(serviceAttrs, slog.String("revision", cfg.Service.Revision))
	}

	return &contextHandler{
		Handler: base.WithAttrs([]slog.Attr{
			slog.Any("service", slog.GroupValue(serviceAttrs...)),
			slog.String("env", string(cfg.Environment)),
		}),
		projectID:     cfg.GCPProjectID,
		defaultModule: cfg.DefaultModule,
	}
}

// replaceAttr renames the built-in keys to what Cloud Logging expects in prod.
func replaceAttr(env Environment) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if env != EnvProd || len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.LevelKey:
			a.Key = "severity"
		case slog.MessageKey:
			a.Key = "message"
		case slog.TimeKey:
			a.Key = "timestamp"
		}
		return a
	}
}

type contextHandler struct {
	slog.Handler
	projectID     string
	defaultModule Module
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	module := h.defaultModule
	if m, ok := moduleFromContext(ctx); ok {
		module = m
	}
	if module != "" {
		r.AddAttrs(slog.String("module", string(module)))
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}

	r.AddAttrs(traceAttrs(ctx)...)
	r.AddAttrs(gcpTraceAttrs(ctx, h.projectID)...)

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{
		Handler:       h.Handler.WithAttrs(attrs),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{
		Handler:       h.Handler.WithGroup(name),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}
