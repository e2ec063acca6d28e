package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindUndefined is the zero Value: the key was absent from the document.
	KindUndefined Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	// KindComposite covers objects and arrays. Composite values never compare equal.
	KindComposite
)

// String names the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindComposite:
		return "composite"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a loosely typed document value: a product spec entry or a complexity rule value.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	raw  json.RawMessage
}

// Specs describes an order item's configuration, keyed by attribute code.
type Specs map[string]Value

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsDefined reports whether v was present in its source document.
func (v Value) IsDefined() bool { return v.kind != KindUndefined }

// Equal reports strict equality: same kind and same scalar. No coercion is performed,
// so String("1") never equals Number(1).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return false
	}
}

// Interface returns v as a plain Go value (nil, string, float64, bool or the decoded composite).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindComposite:
		var out any
		if err := json.Unmarshal(v.raw, &out); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

// String formats v for messages.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindComposite:
		return string(v.raw)
	default:
		return v.kind.String()
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindComposite:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("decode value: empty input")
	}

	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode string value: %w", err)
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("decode bool value: %w", err)
		}
		*v = Bool(b)
		return nil
	case '{', '[':
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		*v = Value{kind: KindComposite, raw: raw}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode number value: %w", err)
		}
		*v = Number(n)
		return nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler so policies and lines can be authored in YAML.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			*v = Null()
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return fmt.Errorf("decode bool value: %w", err)
			}
			*v = Bool(b)
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return fmt.Errorf("decode number value: %w", err)
			}
			*v = Number(n)
		default:
			*v = String(node.Value)
		}
		return nil
	case yaml.MappingNode, yaml.SequenceNode:
		var decoded any
		if err := node.Decode(&decoded); err != nil {
			return fmt.Errorf("decode composite value: %w", err)
		}
		raw, err := json.Marshal(decoded)
		if err != nil {
			return fmt.Errorf("encode composite value: %w", err)
		}
		*v = Value{kind: KindComposite, raw: raw}
		return nil
	default:
		return fmt.Errorf("decode value: unsupported yaml node kind %d", node.Kind)
	}
}

// UnmarshalYAML decodes a spec map. yaml.v3 never hands null nodes to Value.UnmarshalYAML,
// so null entries are turned into Null here to read the same as JSON.
func (s *Specs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("decode specs: line %d: expected a mapping", node.Line)
	}

	out := make(Specs, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		v, err := decodeYAMLValue(val)
		if err != nil {
			return fmt.Errorf("decode specs %s: %w", key.Value, err)
		}
		out[key.Value] = v
	}
	*s = out
	return nil
}

// UnmarshalYAML decodes a complexity rule, keeping an explicit `value: null` as Null.
// Unknown keys are rejected.
func (r *ComplexityRule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("decode complexity rule: line %d: expected a mapping", node.Line)
	}

	var out ComplexityRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var err error
		switch key.Value {
		case "attribute":
			err = val.Decode(&out.Attribute)
		case "value":
			out.Value, err = decodeYAMLValue(val)
		case "percent":
			err = val.Decode(&out.Percent)
		default:
			err = fmt.Errorf("line %d: field %s not found in complexity rule", key.Line, key.Value)
		}
		if err != nil {
			return fmt.Errorf("decode complexity rule: %w", err)
		}
	}
	*r = out
	return nil
}

func decodeYAMLValue(node *yaml.Node) (Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return Null(), nil
	}
	var v Value
	if err := v.UnmarshalYAML(node); err != nil {
		return Value{}, err
	}
	return v, nil
}
