package forward

import (
	"fmt"
	"math"
	"reflect"
)

// Binding maps variable names to the point of evaluation.
type Binding map[string]float64

// BindingFrom converts loosely typed input (decoded JSON, HCL, flags) into a
// Binding. Any value that is not a finite number fails with
// ErrInvalidBinding.
func BindingFrom(values map[string]any) (Binding, error) {
	b := make(Binding, len(values))
	var bad []string
	for _, name := range sortedKeys(values) {
		v, ok := toFloat(values[name])
		if !ok || !isFinite(v) {
			bad = append(bad, fmt.Sprintf("%s=%v", name, values[name]))
			continue
		}
		b[name] = v
	}
	if len(bad) > 0 {
		return nil, &EvalError{Vars: bad, Err: ErrInvalidBinding}
	}
	return b, nil
}

// toFloat accepts every Go integer and float kind, including named types.
func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
