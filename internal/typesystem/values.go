package typesystem

import (
	"time"
)

// Typed is implemented by values that know their native type name, such as
// objects produced by an evaluator.
type Typed interface {
	TypeName() string
}

// ValueType returns the native type of a runtime value. Go values map onto
// their natural counterparts: int is Int32, int64 is Int64, []any is
// object[] and map[string]any is a hashtable. Unknown values are objects;
// nil has no type.
func (u *Universe) ValueType(v any) *Type {
	name := ""
	switch v := v.(type) {
	case nil:
		return nil
	case Typed:
		if t, ok := u.Lookup(v.TypeName()); ok {
			return t
		}
		return u.Object()
	case string:
		name = StringName
	case rune:
		name = "System.Char"
	case bool:
		name = BoolName
	case uint8:
		name = "System.Byte"
	case int:
		if v < -1<<31 || v > 1<<31-1 {
			name = LongName
		} else {
			name = IntName
		}
	case int64:
		name = LongName
	case float32:
		name = "System.Single"
	case float64:
		name = DoubleName
	case time.Time:
		name = "System.DateTime"
	case time.Duration:
		name = "System.TimeSpan"
	case []any:
		return u.ArrayOf(u.Object())
	case []string:
		return u.ArrayOf(u.MustGet(StringName))
	case map[string]any:
		name = HashtableName
	default:
		name = ObjectName
	}
	return u.MustGet(name)
}
