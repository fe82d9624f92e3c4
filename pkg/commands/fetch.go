package commands

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/senglish/pkg/domain"
)

var fetchRe = regexp.MustCompile(`(?i)^fetch\s+json\s+from\s+(\S+)(?:\s+and\s+store\s+as\s+(\w+))?`)

// Fetch retrieves a JSON document and optionally stores it in the state bag.
type Fetch struct{ env *Env }

func (f *Fetch) Usage() domain.Usage {
	return domain.Usage{
		Name:    "fetch",
		Pattern: "fetch json from <url> [and store as <key>]",
		Summary: "Fetch JSON and store it in the shared state.",
	}
}

func (f *Fetch) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(fetchRe, f.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	url, key := parts[1], parts[2]

	if f.env.Fetcher == nil {
		return fmt.Errorf("fetch failed: no fetcher configured")
	}
	data, err := f.env.Fetcher.FetchJSON(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	if key == "" {
		return nil
	}
	if f.env.State == nil {
		return fmt.Errorf("fetch failed: no state bag configured")
	}
	if err := f.env.State.Set(ctx, key, data); err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	f.env.report(ctx, domain.Diagnostic{
		Kind:    domain.DiagnosticInfo,
		Command: cmd.Name,
		Message: fmt.Sprintf("Data from %s stored in state.%s", url, key),
	})
	return nil
}
