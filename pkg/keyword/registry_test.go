package keyword

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func passWith(out string) Handler {
	return MustFunc(func() Outcome { return Pass(nil, out) })
}

func TestRegistryOrderAndLookup(t *testing.T) {
	b := NewBuilder(nil)
	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		replaced, err := b.Register(n, passWith(n))
		require.NoError(t, err)
		assert.False(t, replaced)
	}
	r := b.Build()

	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, r.Names())
	assert.Equal(t, r.Names(), r.Names())
	assert.Equal(t, 3, r.Len())

	h, ok := r.Lookup("Alpha")
	require.True(t, ok)
	assert.Equal(t, "Alpha", h.Call(nil).Output)

	_, ok = r.Lookup("alpha")
	assert.False(t, ok, "lookup must be case-exact")
	_, ok = r.Lookup("Alpha ")
	assert.False(t, ok, "lookup must be whitespace-exact")
}

func TestRegistryReplaceIsReported(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := NewBuilder(zap.New(core))

	_, err := b.Register("First", passWith("old"))
	require.NoError(t, err)
	_, err = b.Register("Second", passWith("2"))
	require.NoError(t, err)
	replaced, err := b.Register("First", passWith("new"))
	require.NoError(t, err)
	assert.True(t, replaced)

	r := b.Build()
	assert.Equal(t, []string{"First", "Second"}, r.Names())
	h, _ := r.Lookup("First")
	assert.Equal(t, "new", h.Call(nil).Output)

	require.Equal(t, 1, logs.FilterMessage("keyword replaced").Len())
	assert.Equal(t, "First", logs.All()[0].ContextMap()["keyword"])
}

func TestRegistryRejectsInvalid(t *testing.T) {
	b := NewBuilder(nil)

	_, err := b.Register("", passWith(""))
	assert.True(t, errors.Is(err, ErrInvalidKeyword))
	_, err = b.Register("Name", nil)
	assert.True(t, errors.Is(err, ErrInvalidKeyword))
	_, err = b.RegisterFunc("Bad", func() {})
	assert.Error(t, err)
	assert.Zero(t, b.Build().Len())
}

func TestRegistryIsDetachedFromBuilder(t *testing.T) {
	b := NewBuilder(nil)
	_, _ = b.RegisterFunc("One", func() Outcome { return Pass(1, "") })
	r := b.Build()

	_, _ = b.RegisterFunc("Two", func() Outcome { return Pass(2, "") })
	names := r.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"One"}, r.Names())
	_, ok := r.Lookup("Two")
	assert.False(t, ok)
}

type countingHandler struct {
	sigCalls int
	panicSig bool
}

func (c *countingHandler) Signature() Signature {
	c.sigCalls++
	if c.panicSig {
		panic("no signature")
	}
	return Signature{}
}

func (c *countingHandler) Call([]reflect.Value) Outcome { return Pass(nil, "") }

func TestRegistryRejectsNilAndPanickingHandlers(t *testing.T) {
	b := NewBuilder(nil)

	var typedNil *countingHandler
	_, err := b.Register("TypedNil", typedNil)
	assert.True(t, errors.Is(err, ErrInvalidKeyword))

	_, err = b.Register("Panics", &countingHandler{panicSig: true})
	assert.True(t, errors.Is(err, ErrInvalidKeyword))
	assert.Contains(t, err.Error(), "no signature")

	assert.Zero(t, b.Build().Len())
}

func TestRegistryCachesSignature(t *testing.T) {
	h := &countingHandler{}
	b := NewBuilder(nil)
	_, err := b.Register("Counted", h)
	require.NoError(t, err)

	got, ok := b.Build().Lookup("Counted")
	require.True(t, ok)
	got.Signature()
	got.Signature()
	assert.Equal(t, 1, h.sigCalls)
}

func TestEmptyRegistryNamesIsNotNil(t *testing.T) {
	names := NewBuilder(nil).Build().Names()
	assert.NotNil(t, names)
	assert.Empty(t, names)
}
