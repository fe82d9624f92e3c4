package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/senglish/pkg/adapters/dom"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mgr := session.NewManager(session.DefaultFactory())
	t.Cleanup(func() { _ = mgr.Close() })
	return NewServer(mgr, nil)
}

func TestExecute_RunsChain(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleExecute(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text": `create div named box .. bogus`,
	})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, []string{"create div named box", "bogus"}, resp.Segments)
	require.Len(t, resp.Outcomes, 2)
	assert.Equal(t, domain.StatusUnknown, resp.Outcomes[1].Status)

	contents, err := s.readTree(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents).Text

	var snap dom.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text), &snap))
	_, ok := snap.Find("box")
	assert.True(t, ok)
}

func TestExecute_SessionIsolation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleExecute(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text":       `create div named private`,
		"session_id": "other",
	})
	require.NoError(t, err)

	contents, err := s.readTree(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	assert.NotContains(t, contents[0].(mcp.TextResourceContents).Text, "private")
}

func TestSegment(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleSegment(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"text": `when b is click do wait 1s .. remove element b end .. create div named x`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"when b is click do wait 1s .. remove element b end",
		"create div named x",
	}, resp.Segments)

	resp, err = s.handleSegment(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"text": "   "})
	require.NoError(t, err)
	assert.Empty(t, resp.Segments)
}

func TestTrigger(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleExecute(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text": `create button named btn .. when btn is click do addClass hit to btn end`,
	})
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"target": "btn", "event": "click"}
	res, err := s.handleTrigger(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.IsError)

	req.Params.Arguments = map[string]interface{}{"target": "btn", "event": "click", "session_id": "nope"}
	res, err = s.handleTrigger(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestVocabularyResource(t *testing.T) {
	s := newTestServer(t)

	contents, err := s.readVocabulary(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)

	var usages []domain.Usage
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &usages))
	names := make([]string, 0, len(usages))
	for _, u := range usages {
		names = append(names, u.Name)
	}
	assert.Contains(t, names, "create")
	assert.Contains(t, names, "when")
}

func TestValidate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text": `create div named a .. when a is click do wait 1s end`,
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Issues)

	resp, err = s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text": `create div named a .. fly a`,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, 2, resp.Issues[0].Segment)
	assert.Equal(t, "fly", resp.Issues[0].Command)
}

func TestExecute_HonorsMaxInputSize(t *testing.T) {
	mgr := session.NewManager(session.DefaultFactory())
	t.Cleanup(func() { _ = mgr.Close() })
	s := NewServer(mgr, nil, WithMaxInputSize(8))
	ctx := context.Background()

	_, err := s.handleExecute(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text": `create div named far-too-long`,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputTooLarge)

	resp, err := s.handleExecute(ctx, mcp.CallToolRequest{}, map[string]interface{}{"text": `wait 0s`})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	// A larger configured limit lets long chains through.
	big := NewServer(mgr, nil, WithMaxInputSize(1<<16))
	long := strings.Repeat(`create div named x .. `, 300) + `wait 0s`
	resp, err = big.handleExecute(ctx, mcp.CallToolRequest{}, map[string]interface{}{"text": long})
	require.NoError(t, err)
	assert.True(t, resp.OK)
}
