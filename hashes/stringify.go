package hashes

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Canonical is implemented by values that render a canonical form for hashing.
type Canonical interface {
	Canonical() any
}

// Stringify renders v deterministically: object keys sorted, arrays in order.
func Stringify(v any) string {
	var sb strings.Builder
	stringify(&sb, v)
	return sb.String()
}

func stringify(sb *strings.Builder, v any) {
	switch v := v.(type) {

	case nil:
		sb.WriteString("null")

	case Canonical:
		stringify(sb, v.Canonical())

	case []any:
		sb.WriteString("[")
		for i, elem := range v {
			if i > 0 {
				sb.WriteString(",")
			}
			stringify(sb, elem)
		}
		sb.WriteString("]")

	case map[string]any:
		sb.WriteString("{")
		for i, key := range slices.Sorted(maps.Keys(v)) {
			if i > 0 {
				sb.WriteString(",")
			}
			writeJSON(sb, key)
			sb.WriteString(":")
			stringify(sb, v[key])
		}
		sb.WriteString("}")

	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		writeJSON(sb, v)

	default:
		stringifyReflect(sb, reflect.ValueOf(v))

	}
}

func stringifyReflect(sb *strings.Builder, value reflect.Value) {
	switch value.Kind() {

	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			sb.WriteString("null")
			return
		}
		stringify(sb, value.Elem().Interface())

	case reflect.Slice, reflect.Array:
		elems := make([]any, value.Len())
		for i := range elems {
			elems[i] = value.Index(i).Interface()
		}
		stringify(sb, elems)

	case reflect.Map:
		m := make(map[string]any, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		stringify(sb, m)

	case reflect.Struct:
		m := make(map[string]any, value.NumField())
		typ := value.Type()
		for i := range value.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			m[field.Name] = value.Field(i).Interface()
		}
		stringify(sb, m)

	default:
		writeJSON(sb, fmt.Sprint(value.Interface()))

	}
}

func writeJSON(sb *strings.Builder, v any) {
	bs, err := json.Marshal(v)
	if err != nil {
		// NaN and infinities
		bs, _ = json.Marshal(fmt.Sprint(v))
	}
	sb.Write(bs)
}
