package audit

import "strings"

// RedactedValue replaces sensitive argument values.
const RedactedValue = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"value":       {},
	"password":    {},
	"secret":      {},
	"certificate": {},
}

// IsSensitiveKey reports whether values stored under key are redacted.
func IsSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

// Redact returns a deep copy of args with sensitive values replaced. Nested
// objects and arrays are walked as well.
func Redact(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		if IsSensitiveKey(k) {
			out[k] = RedactedValue
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Redact(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = redactValue(item)
		}
		return out
	default:
		return v
	}
}
