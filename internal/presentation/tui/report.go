package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/senglish/pkg/domain"
)

// ColorReport renders failed outcomes in color. Successful chains render nothing.
// It satisfies runner.ReportRenderer.
func ColorReport(report domain.Report) string {
	var b strings.Builder
	for _, o := range report.Failed() {
		label := ErrorColor("✗ " + o.Command.Name)
		if o.Status == domain.StatusUnknown {
			label = WarningColor("? " + o.Command.Name)
		}
		fmt.Fprintf(&b, "%s %s %s\n", label, o.Error, DetailColor(o.Duration.String()))
	}
	return b.String()
}

// VerboseReport renders every outcome, successes included.
func VerboseReport(report domain.Report) string {
	var b strings.Builder
	for _, o := range report.Outcomes {
		if o.Status == domain.StatusOK {
			fmt.Fprintf(&b, "%s %s\n", SuccessColor("✓ "+o.Command.Name), DetailColor(o.Duration.String()))
			continue
		}
		b.WriteString(ColorReport(domain.Report{Outcomes: []domain.Outcome{o}}))
	}
	return b.String()
}

// DiagnosticLine formats a diagnostic for the terminal.
func DiagnosticLine(d domain.Diagnostic) string {
	switch d.Kind {
	case domain.DiagnosticInfo:
		return InfoColor("[info] ") + d.Message
	case domain.DiagnosticWarning:
		return WarningColor("[warn] ") + d.Message
	default:
		return ErrorColor("["+string(d.Kind)+"] ") + d.Message
	}
}
