package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type ctxKey struct{}

const requestIDField = "x_request_id"

var _logger = NewTmpLogger()

// New builds a zap logger. Pretty selects the development encoder with
// stack traces on errors; otherwise production JSON output is used.
func New(levelName string, pretty bool) (*zap.Logger, error) {
	var c zap.Config
	var opts []zap.Option
	if pretty {
		c = zap.NewDevelopmentConfig()
		opts = append(opts, zap.AddStacktrace(zap.ErrorLevel))
	} else {
		c = zap.NewProductionConfig()
	}

	level := zap.NewAtomicLevel()
	if strings.TrimSpace(levelName) == "" {
		levelName = "INFO"
	}
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("could not parse log level %s", levelName)
	}
	c.Level = level

	return c.Build(opts...)
}

// Init replaces the package logger.
func Init(levelName string, pretty bool) (*zap.Logger, error) {
	l, err := New(levelName, pretty)
	if err != nil {
		return nil, err
	}
	_logger = l
	return l, nil
}

func NewTmpLogger() *zap.Logger {
	c := zap.NewProductionConfig()
	c.DisableStacktrace = true
	l, err := c.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// L returns the package logger without request scoping.
func L() *zap.Logger { return _logger }

// Logger returns the package logger tagged with the request id carried by ctx.
// ctx: nillable
func Logger(ctx context.Context) *zap.Logger {
	return injectXRequestID(_logger, ctx)
}

// WithRequestID stores a request id for Logger to pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func injectXRequestID(logger *zap.Logger, ctx context.Context) *zap.Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		return logger
	}
	return logger.With(zap.String(requestIDField, requestID))
}
