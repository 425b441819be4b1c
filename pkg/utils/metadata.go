package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// SanitizeMetadata normalizes arbitrary chunk metadata into scalar-only form so it
// can live in a backend that rejects nested values:
//   - strings, booleans, integers and floats pass through untouched
//   - nil values are kept as nil
//   - time.Time becomes an RFC3339 string
//   - slices, arrays and maps are serialized to their JSON string (decodable back
//     to the original structure)
//   - anything else is stringified
func SanitizeMetadata(metadata map[string]interface{}) map[string]interface{} {
	if metadata == nil {
		return nil
	}

	out := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if encoded, err := json.Marshal(value); err == nil {
			return string(encoded)
		}
	}

	return fmt.Sprintf("%v", value)
}
