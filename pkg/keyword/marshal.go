// pkg/keyword/marshal.go
package keyword

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// MarshalError reports params that do not fit a handler's signature.
type MarshalError struct {
	Keyword  string
	Expected string
	Received string
	Reason   string
}

func (e *MarshalError) Error() string {
	return fmt.Sprintf("keyword %q expects %s, got %s: %s", e.Keyword, e.Expected, e.Received, e.Reason)
}

// Marshal converts generic transport values into the typed argument tuple
// described by sig. Every failure is returned as *MarshalError.
func Marshal(name string, sig Signature, params []any) (args []reflect.Value, err error) {
	fail := func(reason string) error {
		return &MarshalError{
			Keyword:  name,
			Expected: sig.String(),
			Received: Shape(params),
			Reason:   reason,
		}
	}
	defer func() {
		if r := recover(); r != nil {
			args, err = nil, fail(fmt.Sprint(r))
		}
	}()

	if !sig.Accepts(len(params)) {
		want := fmt.Sprintf("%d", sig.MinArgs())
		if sig.Variadic != nil {
			want = "at least " + want
		}
		return nil, fail(fmt.Sprintf("expected %s arguments, got %d", want, len(params)))
	}

	args = make([]reflect.Value, 0, len(params))
	for i, p := range params {
		target := sig.Variadic
		if i < len(sig.Params) {
			target = sig.Params[i]
		}
		v, cerr := convert(p, target)
		if cerr != nil {
			return nil, fail(fmt.Sprintf("argument %d: %v", i+1, cerr))
		}
		args = append(args, v)
	}
	return args, nil
}

// Shape renders the kinds of a param list, e.g. "(string, number)".
func Shape(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = kindOf(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "mapping"
	}
	return fmt.Sprintf("%T", v)
}

func convert(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Slice, reflect.Map, reflect.Pointer:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("null is not a %v", t)
	}

	rv := reflect.ValueOf(v)
	if t.Kind() == reflect.Interface {
		if rv.Type().AssignableTo(t) {
			return rv.Convert(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%s does not implement %v", kindOf(v), t)
	}

	switch t.Kind() {
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, mismatch(v, t)
		}
		return reflect.ValueOf(s).Convert(t), nil

	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return reflect.Value{}, mismatch(v, t)
		}
		return reflect.ValueOf(b).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %v", n, t)
		}
		out.SetInt(n)
		return out, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint64(v, t)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %v", n, t)
		}
		out.SetUint(n)
		return out, nil

	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%g overflows %v", f, t)
		}
		out.SetFloat(f)
		return out, nil

	case reflect.Slice:
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return reflect.Value{}, mismatch(v, t)
		}
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := convert(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, mismatch(v, t)
		}
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			ev, err := convert(iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
		}
		return out, nil
	}

	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported parameter type %v", t)
}

func mismatch(v any, t reflect.Type) error {
	return fmt.Errorf("%s is not a %v", kindOf(v), t)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n.String())
		}
		return floatToInt(f)
	case float64:
		return floatToInt(n)
	case float32:
		return floatToInt(float64(n))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), nil
	}
	return 0, fmt.Errorf("%s is not an integer", kindOf(v))
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%g is not an integer", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%g overflows int64", f)
	}
	return int64(f), nil
}

// toUint64 covers the full uint64 range, which toInt64 cannot.
func toUint64(v any, t reflect.Type) (uint64, error) {
	switch n := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		switch {
		case err == nil:
			return u, nil
		case errors.Is(err, strconv.ErrRange):
			return 0, fmt.Errorf("%s overflows %v", n.String(), t)
		}
		f, ferr := n.Float64()
		if ferr != nil {
			return 0, fmt.Errorf("%q is not a number", n.String())
		}
		return floatToUint(f, t)
	case float64:
		return floatToUint(n, t)
	case float32:
		return floatToUint(float64(n), t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	}
	i, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("%d is negative, %v expected", i, t)
	}
	return uint64(i), nil
}

func floatToUint(f float64, t reflect.Type) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%g is not an integer", f)
	}
	if f < 0 {
		return 0, fmt.Errorf("%g is negative, %v expected", f, t)
	}
	if f >= math.MaxUint64 {
		return 0, fmt.Errorf("%g overflows %v", f, t)
	}
	return uint64(f), nil
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n.String())
		}
		return f, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("%s is not a number", kindOf(v))
}
