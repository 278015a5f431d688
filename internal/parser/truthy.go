package parser

import "encoding/json"

// Truthy applies display truthiness to a decoded JSON value: false, 0, "",
// null and absent values are falsy; everything else, including empty objects
// and lists, is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
