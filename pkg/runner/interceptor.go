package runner

import (
	"context"
	"log/slog"
)

// Interceptor inspects or rewrites an instruction before it runs.
// Returning an error skips the instruction; the runner reports it and carries on.
type Interceptor func(ctx context.Context, line string) (string, error)

// MultiInterceptor chains interceptors in order.
func MultiInterceptor(interceptors ...Interceptor) Interceptor {
	return func(ctx context.Context, line string) (string, error) {
		var err error
		for _, ic := range interceptors {
			if ic == nil {
				continue
			}
			if line, err = ic(ctx, line); err != nil {
				return "", err
			}
		}
		return line, nil
	}
}

// SanitizeInterceptor enforces the input limits of SanitizeInputLimit.
func SanitizeInterceptor(limit int) Interceptor {
	return func(ctx context.Context, line string) (string, error) {
		return SanitizeInputLimit(line, limit)
	}
}

// LoggingInterceptor records every instruction at debug level.
func LoggingInterceptor(logger *slog.Logger) Interceptor {
	return func(ctx context.Context, line string) (string, error) {
		logger.DebugContext(ctx, "instruction received", "size", len(line))
		return line, nil
	}
}
