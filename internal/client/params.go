package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildArguments turns an action name and key=value pairs into tool
// arguments. Values that parse as JSON (numbers, booleans, objects) keep
// their type; everything else is passed as a string.
func BuildArguments(action string, pairs []string) (map[string]any, error) {
	args := map[string]any{"action": action}
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", p)
		}
		if key == "action" {
			return nil, fmt.Errorf("parameter %q is reserved", key)
		}
		args[key] = coerce(raw)
	}
	return args, nil
}

// maxNumericLen keeps long numeric IDs as strings instead of losing
// precision in a float64.
const maxNumericLen = 15

func coerce(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	if _, ok := v.(float64); ok && len(raw) > maxNumericLen {
		return raw
	}
	return v
}
