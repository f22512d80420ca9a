package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errDivideByZero = errors.New("attempted to divide by zero")

type numKind uint8

const (
	notNumber numKind = iota
	intNum
	longNum
	doubleNum
)

// number classifies a numeric value. Bytes and chars take part in arithmetic
// as ints.
func number(v any) (numKind, int64, float64) {
	switch v := v.(type) {
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return longNum, int64(v), float64(v)
		}
		return intNum, int64(v), float64(v)
	case int32:
		return intNum, int64(v), float64(v)
	case uint8:
		return intNum, int64(v), float64(v)
	case int64:
		return longNum, v, float64(v)
	case float32:
		return doubleNum, int64(v), float64(v)
	case float64:
		return doubleNum, int64(v), v
	}
	return notNumber, 0, 0
}

// parseNumber converts script text to a number the way arithmetic coerces a
// string operand. Empty text is zero.
func parseNumber(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return intResult(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

func intResult(i int64) any {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return int(i)
	}
	return i
}

// coerceNumber returns v as a number, parsing strings.
func coerceNumber(v any) (any, bool) {
	if k, _, _ := number(v); k != notNumber {
		return v, true
	}
	switch v := v.(type) {
	case nil:
		return 0, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		return parseNumber(v)
	}
	return nil, false
}

func unary(op string, v any) (any, error) {
	switch strings.ToLower(op) {
	case "!", "-not":
		return !truthy(v), nil
	case "-", "+":
		n, ok := coerceNumber(v)
		if !ok {
			return nil, fmt.Errorf("cannot apply %s to %T", op, v)
		}
		if op == "+" {
			return n, nil
		}
		return arithmetic("-", 0, n)
	case "-bnot":
		n, ok := coerceNumber(v)
		k, i, _ := number(n)
		if !ok || k == doubleNum {
			return nil, fmt.Errorf("cannot apply -bnot to %T", v)
		}
		return intResult(^i), nil
	case ",":
		return []any{v}, nil
	}
	return nil, notSafe("unary operator %s", op)
}

// normalizeOperator lowercases comparison operators and drops their
// case-insensitive i prefix. The c prefix is kept.
func normalizeOperator(op string) string {
	op = strings.ToLower(op)
	if strings.HasPrefix(op, "-i") && len(op) > 3 {
		switch op[2:] {
		case "eq", "ne", "gt", "ge", "lt", "le":
			return "-" + op[2:]
		}
	}
	return op
}

func binary(op string, left, right any) (any, error) {
	op = normalizeOperator(op)
	switch op {
	case "+":
		return add(left, right)
	case "-", "/", "%":
		return arithmeticCoerced(op, left, right)
	case "*":
		return multiply(left, right)
	case "-eq", "-ne", "-gt", "-ge", "-lt", "-le", "-ceq", "-cne", "-cgt", "-cge", "-clt", "-cle":
		return compareOp(op, left, right)
	case "-and":
		return truthy(left) && truthy(right), nil
	case "-or":
		return truthy(left) || truthy(right), nil
	case "-xor":
		return truthy(left) != truthy(right), nil
	case "-band", "-bor", "-bxor", "-shl", "-shr":
		return bitwise(op, left, right)
	case "..":
		return rangeOp(left, right)
	case "-join":
		return join(left, right), nil
	}
	return nil, notSafe("binary operator %s", op)
}

func add(left, right any) (any, error) {
	switch l := left.(type) {
	case string:
		s := l + toString(right)
		if len(s) > MaxItems {
			return nil, notSafe("string longer than %d", MaxItems)
		}
		return s, nil
	case []any:
		out := append([]any(nil), l...)
		if r, ok := right.([]any); ok {
			out = append(out, r...)
		} else {
			out = append(out, right)
		}
		if len(out) > MaxItems {
			return nil, notSafe("more than %d items", MaxItems)
		}
		return out, nil
	case map[string]any:
		r, ok := right.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("a hashtable can only be added to another hashtable")
		}
		out := make(map[string]any, len(l)+len(r))
		for k, v := range l {
			out[k] = v
		}
		for k, v := range r {
			if _, dup := out[k]; dup {
				return nil, fmt.Errorf("item has already been added: key %q", k)
			}
			out[k] = v
		}
		return out, nil
	}
	return arithmeticCoerced("+", left, right)
}

func multiply(left, right any) (any, error) {
	switch l := left.(type) {
	case string:
		n, err := repeatCount(right, len(l))
		if err != nil {
			return nil, err
		}
		return strings.Repeat(l, n), nil
	case []any:
		n, err := repeatCount(right, len(l))
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(l)*n)
		for i := 0; i < n; i++ {
			out = append(out, l...)
		}
		return out, nil
	}
	return arithmeticCoerced("*", left, right)
}

func repeatCount(v any, unit int) (int, error) {
	n, ok := coerceNumber(v)
	k, i, f := number(n)
	if !ok || k == notNumber {
		return 0, fmt.Errorf("cannot repeat by %T", v)
	}
	if k == doubleNum {
		i = int64(math.RoundToEven(f))
	}
	if i < 0 {
		i = 0
	}
	if unit > 0 && i*int64(unit) > MaxItems {
		return 0, notSafe("result longer than %d", MaxItems)
	}
	return int(i), nil
}

func arithmeticCoerced(op string, left, right any) (any, error) {
	l, ok := coerceNumber(left)
	if !ok {
		return nil, fmt.Errorf("operator %s not supported for %T", op, left)
	}
	r, ok := coerceNumber(right)
	if !ok {
		return nil, fmt.Errorf("operator %s not supported for %T", op, right)
	}
	return arithmetic(op, l, r)
}

// arithmetic applies op to two numbers. Int results that leave the int range
// widen to double, as do divisions with a remainder.
func arithmetic(op string, left, right any) (any, error) {
	lk, li, lf := number(left)
	rk, ri, rf := number(right)
	if lk == notNumber || rk == notNumber {
		return nil, fmt.Errorf("operator %s not supported for %T and %T", op, left, right)
	}

	if lk == doubleNum || rk == doubleNum {
		switch op {
		case "+":
			return lf + rf, nil
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		case "/":
			if rf == 0 {
				return nil, errDivideByZero
			}
			return lf / rf, nil
		case "%":
			if rf == 0 {
				return nil, errDivideByZero
			}
			return math.Mod(lf, rf), nil
		}
		return nil, notSafe("arithmetic operator %s", op)
	}

	// Results that do not fit a long widen to double.
	var res int64
	switch op {
	case "+":
		res = li + ri
		if (li >= 0) == (ri >= 0) && (res >= 0) != (li >= 0) {
			return lf + rf, nil
		}
	case "-":
		res = li - ri
		if (li >= 0) != (ri >= 0) && (res >= 0) != (li >= 0) {
			return lf - rf, nil
		}
	case "*":
		res = li * ri
		if li != 0 && (res/li != ri || (li == -1 && ri == math.MinInt64) || (ri == -1 && li == math.MinInt64)) {
			return lf * rf, nil
		}
	case "/":
		if ri == 0 {
			return nil, errDivideByZero
		}
		if li%ri != 0 || (li == math.MinInt64 && ri == -1) {
			return lf / rf, nil
		}
		res = li / ri
	case "%":
		if ri == 0 {
			return nil, errDivideByZero
		}
		res = li % ri
	default:
		return nil, notSafe("arithmetic operator %s", op)
	}
	if lk == longNum || rk == longNum {
		return res, nil
	}
	if res < math.MinInt32 || res > math.MaxInt32 {
		return float64(res), nil
	}
	return int(res), nil
}

func bitwise(op string, left, right any) (any, error) {
	l, lok := coerceNumber(left)
	r, rok := coerceNumber(right)
	lk, li, _ := number(l)
	rk, ri, _ := number(r)
	if !lok || !rok || lk == doubleNum || rk == doubleNum {
		return nil, fmt.Errorf("operator %s needs integer operands", op)
	}
	var res int64
	switch op {
	case "-band":
		res = li & ri
	case "-bor":
		res = li | ri
	case "-bxor":
		res = li ^ ri
	case "-shl":
		res = li << uint(ri&63)
	case "-shr":
		res = li >> uint(ri&63)
	}
	if lk == longNum || rk == longNum {
		return res, nil
	}
	return intResult(res), nil
}

func rangeOp(left, right any) (any, error) {
	l, lok := coerceNumber(left)
	r, rok := coerceNumber(right)
	if !lok || !rok {
		return nil, fmt.Errorf("range bounds must be numbers")
	}
	_, from, ff := number(l)
	_, to, tf := number(r)
	from, to = int64(math.RoundToEven(ff)), int64(math.RoundToEven(tf))
	n := to - from
	if n < 0 {
		n = -n
	}
	if n+1 > MaxItems {
		return nil, notSafe("range of %d items", n+1)
	}
	step := int64(1)
	if to < from {
		step = -1
	}
	out := make([]any, 0, n+1)
	for i := from; ; i += step {
		out = append(out, intResult(i))
		if i == to {
			break
		}
	}
	return out, nil
}

func compareOp(op string, left, right any) (any, error) {
	caseSensitive := strings.HasPrefix(op, "-c")
	base := "-" + op[len(op)-2:]
	if items, ok := left.([]any); ok {
		out := []any{}
		for _, item := range items {
			if match, err := compareScalar(base, item, right, caseSensitive); err == nil && match {
				out = append(out, item)
			}
		}
		return out, nil
	}
	return compareScalar(base, left, right, caseSensitive)
}

func compareScalar(op string, left, right any, caseSensitive bool) (bool, error) {
	c, err := compare(left, right, caseSensitive)
	if err != nil {
		if op == "-eq" {
			return false, nil
		}
		if op == "-ne" {
			return true, nil
		}
		return false, err
	}
	switch op {
	case "-eq":
		return c == 0, nil
	case "-ne":
		return c != 0, nil
	case "-gt":
		return c > 0, nil
	case "-ge":
		return c >= 0, nil
	case "-lt":
		return c < 0, nil
	case "-le":
		return c <= 0, nil
	}
	return false, notSafe("comparison %s", op)
}

// compare orders right after converting it to the left operand's kind.
func compare(left, right any, caseSensitive bool) (int, error) {
	if left == nil || right == nil {
		switch {
		case left == nil && right == nil:
			return 0, nil
		case left == nil:
			return -1, nil
		}
		return 1, nil
	}
	switch l := left.(type) {
	case string:
		r := toString(right)
		if !caseSensitive {
			l, r = strings.ToLower(l), strings.ToLower(r)
		}
		return strings.Compare(l, r), nil
	case bool:
		r := truthy(right)
		switch {
		case l == r:
			return 0, nil
		case !l:
			return -1, nil
		}
		return 1, nil
	}
	if k, _, lf := number(left); k != notNumber {
		r, ok := coerceNumber(right)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T with %T", left, right)
		}
		_, _, rf := number(r)
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot compare %T with %T", left, right)
}

func join(left, right any) string {
	items, ok := left.([]any)
	if !ok {
		return toString(left)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = toString(item)
	}
	return strings.Join(parts, toString(right))
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case []any:
		switch len(v) {
		case 0:
			return false
		case 1:
			return truthy(v[0])
		}
		return true
	}
	if k, i, f := number(v); k != notNumber {
		if k == doubleNum {
			return f != 0
		}
		return i != 0
	}
	return true
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case rune:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = toString(item)
		}
		return strings.Join(parts, " ")
	case map[string]any:
		return "System.Collections.Hashtable"
	}
	return fmt.Sprint(v)
}
