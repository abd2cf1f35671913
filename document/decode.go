package document

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML decodes a YAML document into a Value tree. JSON input is accepted
// as well, being a YAML subset.
func FromYAML(data []byte) (*Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return FromAny(raw)
}

// FromJSON decodes a JSON document into a Value tree.
func FromJSON(data []byte) (*Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return FromAny(raw)
}

// FromAny converts generic decoded data into a Value tree. Mapping keys must
// be strings; anything else is a decoding error, not a silent coercion.
func FromAny(raw any) (*Value, error) {
	switch t := raw.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewNumber(float64(t)), nil
	case int64:
		return NewNumber(float64(t)), nil
	case uint64:
		return NewNumber(float64(t)), nil
	case float64:
		return NewNumber(t), nil
	case string:
		return NewString(t), nil
	case []any:
		items := make([]*Value, len(t))
		for i, elem := range t {
			v, err := FromAny(elem)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return NewArray(items...), nil
	case map[string]any:
		fields := make(map[string]*Value, len(t))
		for k, elem := range t {
			v, err := FromAny(elem)
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		return NewObject(fields), nil
	case map[any]any:
		fields := make(map[string]*Value, len(t))
		for k, elem := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", k)
			}
			v, err := FromAny(elem)
			if err != nil {
				return nil, err
			}
			fields[key] = v
		}
		return NewObject(fields), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", raw)
	}
}
