package observability_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	in, err := senglish.New(senglish.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	defer in.Close()

	_, err = in.Cmd(context.Background(), `create div named a .. create div named b .. style ghost with color:red .. bogus`)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Commands.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues("style", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues(observability.UnknownCommandLabel, "unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Diagnostics.WithLabelValues("lookup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Diagnostics.WithLabelValues("unknown_command")))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.Duration))
}

func TestMetrics_UnknownCommandsShareOneSeries(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	in, err := senglish.New(senglish.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	defer in.Close()

	junk := make([]string, 200)
	for i := range junk {
		junk[i] = fmt.Sprintf("junk%d", i)
	}
	report, err := in.Cmd(context.Background(), strings.Join(junk, " .. "))
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 200)

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Commands))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Duration))
	assert.Equal(t, 200.0, testutil.ToFloat64(metrics.Commands.WithLabelValues(observability.UnknownCommandLabel, "unknown")))
}

func TestAuditHooks_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	in, err := senglish.New(senglish.WithLifecycleHooks(observability.AuditHooks(logger)))
	require.NoError(t, err)
	defer in.Close()

	_, err = in.Cmd(context.Background(), `create div named a .. style ghost with color:red`)
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "command_end"))
	assert.Contains(t, out, "command=style")
	assert.Contains(t, out, "status=failed")
}
