package bencode

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Marshaler is the interface implemented by objects that can convert
// themselves into a Value.
type Marshaler interface {
	MarshalBencode() (Value, error)
}

// From converts a native Go value into a Value.
//
// Supported are Value and Marshaler, strings and byte slices, all integer
// types, time.Duration (as whole seconds), integral float64s and json.Numbers,
// []string, []interface{}, map[string]interface{} and
// map[interface{}]interface{} with string keys. Dict keys are sorted.
func From(data interface{}) (Value, error) {
	switch v := data.(type) {
	case Value:
		return v, nil

	case Marshaler:
		return v.MarshalBencode()

	case []byte:
		return String(v), nil

	case string:
		return String(v), nil

	case int:
		return Integer(v), nil

	case int8:
		return Integer(v), nil

	case int16:
		return Integer(v), nil

	case int32:
		return Integer(v), nil

	case int64:
		return Integer(v), nil

	case uint:
		return fromUint(uint64(v))

	case uint8:
		return Integer(v), nil

	case uint16:
		return Integer(v), nil

	case uint32:
		return Integer(v), nil

	case uint64:
		return fromUint(v)

	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("bencode: %s is not representable as an integer", v)
		}
		return Integer(i), nil

	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, fmt.Errorf("bencode: %v is not representable as an integer", v)
		}
		return Integer(v), nil

	case time.Duration: // Assume seconds
		return Integer(v / time.Second), nil

	case []string:
		list := make(List, 0, len(v))
		for _, s := range v {
			list = append(list, String(s))
		}
		return list, nil

	case []interface{}:
		list := make(List, 0, len(v))
		for _, elem := range v {
			bv, err := From(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, bv)
		}
		return list, nil

	case map[string]interface{}:
		dict := make(Dict, 0, len(v))
		for key, elem := range v {
			bv, err := From(elem)
			if err != nil {
				return nil, err
			}
			dict.Set(key, bv)
		}
		return dict, nil

	case map[interface{}]interface{}:
		dict := make(Dict, 0, len(v))
		for key, elem := range v {
			k, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("bencode: non-string map key %v (%T)", key, key)
			}
			bv, err := From(elem)
			if err != nil {
				return nil, err
			}
			dict.Set(k, bv)
		}
		return dict, nil

	case nil:
		return nil, fmt.Errorf("bencode: cannot convert nil")

	default:
		return nil, fmt.Errorf("bencode: attempted to convert unsupported type %T", v)
	}
}

func fromUint(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("bencode: %d overflows a bencode integer", v)
	}
	return Integer(v), nil
}
