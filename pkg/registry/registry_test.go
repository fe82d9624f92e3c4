package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type describedHandler struct{}

func (describedHandler) Handle(context.Context, domain.Command) error { return nil }
func (describedHandler) Usage() domain.Usage {
	return domain.Usage{Pattern: "say <text>", Summary: "Says something"}
}

func noop(context.Context, domain.Command) error { return nil }

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register("addClass", []string{"Add"}, domain.HandlerFunc(noop)))

	for _, name := range []string{"addclass", "ADDCLASS", "addClass", "add", "ADD"} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, "expected %q to resolve", name)
	}

	_, ok := reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_OverwriteIsSilent(t *testing.T) {
	reg := registry.NewRegistry()
	var calls []string

	first := domain.HandlerFunc(func(context.Context, domain.Command) error {
		calls = append(calls, "first")
		return nil
	})
	second := domain.HandlerFunc(func(context.Context, domain.Command) error {
		calls = append(calls, "second")
		return nil
	})

	require.NoError(t, reg.Register("say", nil, first))
	require.NoError(t, reg.Register("SAY", nil, second))

	h, ok := reg.Lookup("say")
	require.True(t, ok)
	require.NoError(t, h.Handle(context.Background(), domain.Command{Name: "say"}))
	assert.Equal(t, []string{"second"}, calls)
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	reg := registry.NewRegistry()

	err := reg.Register("", nil, domain.HandlerFunc(noop))
	assert.ErrorIs(t, err, domain.ErrInvalidRegistration)

	err = reg.Register("ghost", []string{"boo"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRegistration)

	assert.Empty(t, reg.Names(), "rejected registrations must not insert anything")
}

func TestRegistry_Describe(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register("say", []string{"speak"}, describedHandler{}))
	require.NoError(t, reg.Register("quiet", nil, domain.HandlerFunc(noop)))

	usage := reg.Describe()
	require.Len(t, usage, 1)
	assert.Equal(t, "say", usage[0].Name)
	assert.Equal(t, []string{"speak"}, usage[0].Aliases)
	assert.Equal(t, "say <text>", usage[0].Pattern)

	assert.Equal(t, []string{"quiet", "say", "speak"}, reg.Names())
}
