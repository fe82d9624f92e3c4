package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/senglish/pkg/domain"
)

// AuditHooks logs every command boundary at debug level and every failed
// outcome at warn level.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommandStart: func(ctx context.Context, e *domain.CommandEvent) {
			logger.DebugContext(ctx, "command_start", "command", e.Command.Name, "text", e.Command.Text)
		},
		OnCommandEnd: func(ctx context.Context, e *domain.CommandEvent) {
			if e.Outcome == nil {
				return
			}
			attrs := []any{
				"command", e.Command.Name,
				"status", e.Outcome.Status,
				"duration", e.Outcome.Duration,
			}
			if e.Outcome.Status != domain.StatusOK {
				logger.WarnContext(ctx, "command_end", append(attrs, "error", e.Outcome.Error)...)
				return
			}
			logger.DebugContext(ctx, "command_end", attrs...)
		},
	}
}
