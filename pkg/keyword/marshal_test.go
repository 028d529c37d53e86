package keyword

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigOf(t *testing.T, fn any) Signature {
	t.Helper()
	h, err := Func(fn)
	require.NoError(t, err)
	return h.Signature()
}

func TestMarshalScalars(t *testing.T) {
	sig := sigOf(t, func(s string, i int, u uint8, f float64, b bool, a any) Outcome { return Outcome{} })

	args, err := Marshal("k", sig, []any{"x", json.Number("88"), json.Number("255"), json.Number("1.5"), true, "anything"})
	require.NoError(t, err)
	require.Len(t, args, 6)
	assert.Equal(t, "x", args[0].String())
	assert.Equal(t, int64(88), args[1].Int())
	assert.Equal(t, uint64(255), args[2].Uint())
	assert.Equal(t, 1.5, args[3].Float())
	assert.True(t, args[4].Bool())
	assert.Equal(t, "anything", args[5].Interface())
}

func TestMarshalNumericSources(t *testing.T) {
	sig := sigOf(t, func(i int32) Outcome { return Outcome{} })

	for name, p := range map[string]any{
		"number":  json.Number("7"),
		"numberF": json.Number("7.0"),
		"float64": 7.0,
		"int":     7,
		"uint16":  uint16(7),
		"float32": float32(7),
	} {
		t.Run(name, func(t *testing.T) {
			args, err := Marshal("k", sig, []any{p})
			require.NoError(t, err)
			assert.Equal(t, int64(7), args[0].Int())
		})
	}
}

func TestMarshalContainers(t *testing.T) {
	sig := sigOf(t, func(xs []string, m map[string]int, opt []int) Outcome { return Outcome{} })

	args, err := Marshal("k", sig, []any{
		[]any{"a", "b"},
		map[string]any{"one": json.Number("1")},
		nil,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, args[0].Interface())
	assert.Equal(t, map[string]int{"one": 1}, args[1].Interface())
	assert.Nil(t, args[2].Interface())
}

func TestMarshalVariadic(t *testing.T) {
	sig := sigOf(t, func(paths ...string) Outcome { return Outcome{} })

	args, err := Marshal("k", sig, nil)
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = Marshal("k", sig, []any{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, args, 3)

	_, err = Marshal("k", sig, []any{"a", json.Number("1")})
	require.Error(t, err)
}

func TestMarshalErrors(t *testing.T) {
	sig := sigOf(t, func(s string, n int8) Outcome { return Outcome{} })

	cases := map[string]struct {
		params []any
		reason string
	}{
		"tooFew":       {[]any{"a"}, "expected 2 arguments, got 1"},
		"tooMany":      {[]any{"a", json.Number("1"), "c"}, "expected 2 arguments, got 3"},
		"stringForInt": {[]any{"a", "88"}, "argument 2: string is not an integer"},
		"intForString": {[]any{json.Number("1"), json.Number("1")}, "argument 1: number is not a string"},
		"fraction":     {[]any{"a", json.Number("1.5")}, "argument 2: 1.5 is not an integer"},
		"overflow":     {[]any{"a", json.Number("300")}, "argument 2: 300 overflows int8"},
		"null":         {[]any{nil, json.Number("1")}, "argument 1: null is not a string"},
		"garbage":      {[]any{"a", json.Number("nope")}, `argument 2: "nope" is not a number`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			args, err := Marshal("Some Keyword", sig, tc.params)
			require.Error(t, err)
			assert.Nil(t, args)

			var me *MarshalError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, "Some Keyword", me.Keyword)
			assert.Equal(t, "(string, int8)", me.Expected)
			assert.Equal(t, Shape(tc.params), me.Received)
			assert.Equal(t, tc.reason, me.Reason)
			assert.Contains(t, err.Error(), `"Some Keyword"`)
		})
	}
}

func TestMarshalNestedErrors(t *testing.T) {
	sig := sigOf(t, func(xs []uint) Outcome { return Outcome{} })

	_, err := Marshal("k", sig, []any{[]any{json.Number("1"), json.Number("-2")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1: -2 is negative")

	_, err = Marshal("k", sig, []any{map[string]any{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping is not a []uint")
}

func TestMarshalUint64Range(t *testing.T) {
	sig := sigOf(t, func(u uint64, small uint8) Outcome { return Outcome{} })

	args, err := Marshal("k", sig, []any{json.Number("18446744073709551615"), json.Number("2e2")})
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), args[0].Uint())
	assert.Equal(t, uint64(200), args[1].Uint())

	cases := map[string]struct {
		params []any
		reason string
	}{
		"pastUint64": {[]any{json.Number("18446744073709551616"), json.Number("1")}, "argument 1: 18446744073709551616 overflows uint64"},
		"negative":   {[]any{json.Number("-1"), json.Number("1")}, "argument 1: -1 is negative, uint64 expected"},
		"fraction":   {[]any{json.Number("0.5"), json.Number("1")}, "argument 1: 0.5 is not an integer"},
		"pastUint8":  {[]any{json.Number("1"), json.Number("256")}, "argument 2: 256 overflows uint8"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Marshal("k", sig, tc.params)
			var me *MarshalError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tc.reason, me.Reason)
		})
	}
}

func TestShape(t *testing.T) {
	assert.Equal(t, "()", Shape(nil))
	assert.Equal(t, "(string, number, bool, null, list, mapping)",
		Shape([]any{"s", json.Number("1"), false, nil, []any{}, map[string]any{}}))
}
