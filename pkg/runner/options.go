package runner

import "log/slog"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInterceptor appends an instruction interceptor.
func WithInterceptor(ic Interceptor) Option {
	return func(r *Runner) {
		r.interceptors = append(r.interceptors, ic)
	}
}

// WithMetaCommand registers a ":name" command handled by the host instead of the interpreter.
func WithMetaCommand(name string, fn MetaCommand) Option {
	return func(r *Runner) {
		if r.Meta == nil {
			r.Meta = make(map[string]MetaCommand)
		}
		r.Meta[name] = fn
	}
}

// WithHeadless disables greetings and signal trapping.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}
