package flipt

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Entities is the identify result passed to Flipt adapters.
// It must contain a truthy "id"; every other key is a context attribute.
type Entities map[string]any

// Context is a validated evaluation context.
type Context struct {
	// EntityID is the stringified "id" entry.
	EntityID string
	// Attributes holds every other entry, stringified.
	Attributes map[string]string
}

// Validate checks that entities is a string-keyed object with a truthy "id" and
// converts it into a Context. It performs no I/O.
// Errors are *ContextError values matching ErrInvalidContext.
func Validate(entities any) (Context, error) {
	var values map[string]any
	switch v := entities.(type) {
	case nil:
		return Context{}, &ContextError{Reason: ReasonMissing}
	case Entities:
		values = v
	case map[string]any:
		values = v
	case map[string]string:
		values = make(map[string]any, len(v))
		for k, s := range v {
			values[k] = s
		}
	default:
		return Context{}, &ContextError{Reason: ReasonNotObject}
	}
	if values == nil {
		return Context{}, &ContextError{Reason: ReasonMissing}
	}

	id, ok := values["id"]
	if !ok || !truthy(id) {
		return Context{}, &ContextError{Reason: ReasonMissingID}
	}

	return Context{
		EntityID:   stringify(id),
		Attributes: transformAttributes(values),
	}, nil
}

func (c Context) request(flagKey string) EvaluationRequest {
	return EvaluationRequest{
		FlagKey:  flagKey,
		EntityID: c.EntityID,
		Context:  c.Attributes,
	}
}

// transformAttributes drops "id" and stringifies every other value.
func transformAttributes(values map[string]any) map[string]string {
	attrs := make(map[string]string, len(values))
	for k, v := range values {
		if k == "id" {
			continue
		}
		attrs[k] = stringify(v)
	}
	return attrs
}

// stringify renders scalars in their canonical text form and structured values as JSON.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case []byte:
		return string(x)
	}
	if _, ok := v.(fmt.Stringer); !ok {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Float32:
			return formatFloat(rv.Float(), 32)
		case reflect.Float64:
			return formatFloat(rv.Float(), 64)
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// formatFloat writes plain decimals for 1e-6 <= |f| < 1e21 and exponent
// form with an unpadded exponent ("1e+21", "1.5e-7") outside that range.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
