package operation

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Defaulter is implemented by operation types that declare field defaults.
// SetDefaults runs on a fresh instance before any input is applied.
type Defaulter interface {
	SetDefaults()
}

// Normalizer is implemented by operation types that declare per-field
// transformations. Normalize runs after input has been applied.
type Normalizer interface {
	Normalize()
}

// Materializer turns a raw field bag into a typed instance.
//
// Materialize writes into target, which must be a pointer to the operation
// type. It never rejects input: values that cannot be converted to their
// field type are returned as violations and left at their prior value, so that
// rejection stays the validator's concern.
type Materializer interface {
	Materialize(raw map[string]any, target any) []*ValidationError
}

// ConstraintType names the violation reported for unconvertible values.
const ConstraintType = "type"

type decodeMaterializer struct{}

// NewMaterializer returns the default Materializer.
// Keys follow json tags, scalar input is weakly typed ("30" decodes into an
// int), and strings decode into time.Duration, RFC 3339 time.Time, and any
// encoding.TextUnmarshaler.
func NewMaterializer() Materializer { return decodeMaterializer{} }

func (decodeMaterializer) Materialize(raw map[string]any, target any) []*ValidationError {
	if d, ok := target.(Defaulter); ok {
		d.SetDefaults()
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var violations []*ValidationError
	for _, key := range keys {
		value := raw[key]
		if err := decodeField(key, value, target); err != nil {
			violations = append(violations, &ValidationError{
				Property: key,
				Value:    value,
				Constraints: []Constraint{{
					Name:    ConstraintType,
					Message: fmt.Sprintf("%s has an invalid type", key),
				}},
			})
		}
	}

	if n, ok := target.(Normalizer); ok {
		n.Normalize()
	}
	return violations
}

// decodeField applies a single key so that one bad value cannot hide others.
func decodeField(key string, value any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		ZeroFields:       true,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any{key: value})
}
