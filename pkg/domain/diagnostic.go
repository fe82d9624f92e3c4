package domain

import "log/slog"

// DiagnosticKind classifies a diagnostic by the error taxonomy.
type DiagnosticKind string

const (
	DiagnosticRegistration DiagnosticKind = "registration"    // Missing name/handler at registration
	DiagnosticSyntax       DiagnosticKind = "syntax"          // Text does not match the handler pattern
	DiagnosticLookup       DiagnosticKind = "lookup"          // Referenced identifier not found
	DiagnosticUnknown      DiagnosticKind = "unknown_command" // First token not registered
	DiagnosticRuntime      DiagnosticKind = "runtime"         // Handler failed while running
	DiagnosticWarning      DiagnosticKind = "warning"         // Non-failing advisory (e.g. insert html)
	DiagnosticInfo         DiagnosticKind = "info"            // Informational (e.g. data stored)
)

// Diagnostic is a non-fatal report. Diagnostics never alter control flow beyond
// stopping the segment that produced them.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Command string         `json:"command,omitempty"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
}

// Level maps the diagnostic kind to a log level.
func (d Diagnostic) Level() slog.Level {
	switch d.Kind {
	case DiagnosticInfo:
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// IsWarning reports whether the diagnostic belongs to the warnings channel.
func (d Diagnostic) IsWarning() bool {
	return d.Kind != DiagnosticInfo
}
