package services

import (
	"context"
	"log/slog"

	"github.com/JobSiteOps/job_tracking_app/internal/middleware"
)

// BaseService carries the logging helpers shared by all services.
type BaseService struct{}

// GetLogger returns the request-scoped logger, falling back to the default.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	if logger := middleware.GetLoggerFromCtx(ctx); logger != nil {
		return logger
	}
	return slog.Default()
}

// LogError logs an error with the error message as a structured attribute.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an informational message with structured attributes.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}
