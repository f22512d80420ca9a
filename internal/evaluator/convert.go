package evaluator

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// convert applies a cast. Only primitive targets are supported; anything
// else would need the runtime's conversion machinery.
func convert(v any, typeName string) (any, error) {
	name := strings.ToLower(strings.Trim(strings.TrimSpace(typeName), "[]"))
	if strings.HasSuffix(strings.ToLower(typeName), "[]") {
		name = strings.ToLower(strings.TrimSpace(typeName))
	}
	switch name {
	case "object", "system.object", "psobject", "system.management.automation.psobject":
		return v, nil
	case "void", "system.void":
		return nil, nil
	case "string", "system.string":
		return toString(v), nil
	case "bool", "boolean", "system.boolean":
		return truthy(v), nil
	case "int", "int32", "system.int32":
		return toInteger(v, math.MinInt32, math.MaxInt32, func(i int64) any { return int(i) })
	case "long", "int64", "system.int64":
		return toInteger(v, math.MinInt64, math.MaxInt64, func(i int64) any { return i })
	case "byte", "system.byte":
		return toInteger(v, 0, math.MaxUint8, func(i int64) any { return uint8(i) })
	case "double", "system.double":
		return toFloat(v)
	case "float", "single", "system.single":
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return float32(f.(float64)), nil
	case "char", "system.char":
		return toChar(v)
	case "array", "system.array", "object[]", "system.object[]":
		if items, ok := v.([]any); ok {
			return items, nil
		}
		if v == nil {
			return []any{}, nil
		}
		return []any{v}, nil
	case "hashtable", "system.collections.hashtable":
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return nil, fmt.Errorf("cannot convert %T to hashtable", v)
	}
	return nil, notSafe("cast to [%s]", typeName)
}

func toInteger(v any, lo, hi int64, wrap func(int64) any) (any, error) {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return wrap(0), nil
	}
	n, ok := coerceNumber(v)
	if !ok {
		return nil, fmt.Errorf("cannot convert %v to an integer", v)
	}
	k, i, f := number(n)
	if k == doubleNum {
		f = math.RoundToEven(f)
		if f < float64(lo) || f > float64(hi) {
			return nil, fmt.Errorf("value %v was too large or too small", v)
		}
		i = int64(f)
	}
	if i < lo || i > hi {
		return nil, fmt.Errorf("value %v was too large or too small", v)
	}
	return wrap(i), nil
}

func toFloat(v any) (any, error) {
	n, ok := coerceNumber(v)
	if !ok {
		return nil, fmt.Errorf("cannot convert %v to a floating point number", v)
	}
	_, _, f := number(n)
	return f, nil
}

func toChar(v any) (any, error) {
	if s, ok := v.(string); ok {
		if utf8.RuneCountInString(s) != 1 {
			return nil, fmt.Errorf("cannot convert %q to char: it must be exactly one character", s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	n, err := toInteger(v, 0, math.MaxUint16, func(i int64) any { return rune(i) })
	if err != nil {
		return nil, err
	}
	return n, nil
}
