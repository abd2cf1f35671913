package document

import (
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of a decoded document tree. It is an explicit tagged union:
// every field access is a lookup returning an ok flag, never a silent default.
// Values are immutable after decoding and safe for concurrent reads.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []*Value
	fields map[string]*Value
}

// Kind returns the variant held by this value.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// IsNull reports whether the value is null (or a nil Value).
func (v *Value) IsNull() bool {
	return v == nil || v.kind == Null
}

// Str returns the string payload.
func (v *Value) Str() (string, bool) {
	if v == nil || v.kind != String {
		return "", false
	}
	return v.s, true
}

// Num returns the numeric payload.
func (v *Value) Num() (float64, bool) {
	if v == nil || v.kind != Number {
		return 0, false
	}
	return v.n, true
}

// Boolean returns the bool payload.
func (v *Value) Boolean() (bool, bool) {
	if v == nil || v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// Field looks up a member of an object value.
func (v *Value) Field(name string) (*Value, bool) {
	if v == nil || v.kind != Object {
		return nil, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// Lookup walks a chain of object fields. It returns false as soon as any
// intermediate container is missing or not an object.
func (v *Value) Lookup(path ...string) (*Value, bool) {
	current := v
	for _, name := range path {
		next, ok := current.Field(name)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Keys returns the member names of an object value, sorted for deterministic
// enumeration.
func (v *Value) Keys() []string {
	if v == nil || v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns the elements of an array value in document order.
func (v *Value) Items() []*Value {
	if v == nil || v.kind != Array {
		return nil
	}
	return v.items
}

// Len returns the number of elements or members.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.fields)
	default:
		return 0
	}
}

// Interface converts the value back into generic Go data
// (map[string]any, []any, string, float64, bool, nil).
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.b
	case Number:
		return v.n
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.fields))
		for k, f := range v.fields {
			out[k] = f.Interface()
		}
		return out
	default:
		return nil
	}
}

// String returns a compact description of the value, mainly for debugging.
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Number:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case String:
		return strconv.Quote(v.s)
	case Array:
		return "array[" + strconv.Itoa(len(v.items)) + "]"
	case Object:
		return "object{" + strconv.Itoa(len(v.fields)) + "}"
	default:
		return "unknown"
	}
}

// --- Constructors used by the decoder and by tests ---

// NewNull returns the null value.
func NewNull() *Value { return &Value{kind: Null} }

// NewBool returns a bool value.
func NewBool(b bool) *Value { return &Value{kind: Bool, b: b} }

// NewNumber returns a number value.
func NewNumber(n float64) *Value { return &Value{kind: Number, n: n} }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{kind: String, s: s} }

// NewArray returns an array value holding the given elements.
func NewArray(items ...*Value) *Value { return &Value{kind: Array, items: items} }

// NewObject returns an object value holding the given members.
func NewObject(fields map[string]*Value) *Value {
	if fields == nil {
		fields = make(map[string]*Value)
	}
	return &Value{kind: Object, fields: fields}
}
