package dispatcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// decodeParams fills dst (a pointer to a params struct) from raw and checks
// the constraints declared in its tags:
//
//   - a field whose json tag lacks omitempty is required and must be non-zero
//   - jsonschema:"enum=a,enum=b" restricts string values
//   - jsonschema:"minimum=N,maximum=M" bounds integers
//
// Unknown keys are ignored.
func decodeParams(raw map[string]any, dst any) []Issue {
	params := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "action" {
			params[k] = v
		}
	}

	data, err := json.Marshal(params)
	if err != nil {
		return []Issue{{Message: "arguments are not valid JSON: " + err.Error()}}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return []Issue{{Path: typeErr.Field, Message: fmt.Sprintf("expected %s, got %s", jsonTypeName(typeErr.Type), typeErr.Value)}}
		}
		return []Issue{{Message: err.Error()}}
	}

	// Keys are matched the way encoding/json matches them: case-insensitively.
	present := make(map[string]struct{}, len(params))
	for k := range params {
		present[strings.ToLower(k)] = struct{}{}
	}

	var issues []Issue
	checkStruct(reflect.ValueOf(dst).Elem(), present, &issues)
	return issues
}

func checkStruct(v reflect.Value, present map[string]struct{}, issues *[]Issue) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			checkStruct(fv, present, issues)
			continue
		}
		if !f.IsExported() {
			continue
		}

		name, omitempty := jsonName(f)
		if name == "-" {
			continue
		}
		_, given := present[strings.ToLower(name)]

		if !omitempty && (!given || fv.IsZero()) {
			*issues = append(*issues, Issue{Path: name, Message: "is required"})
			continue
		}
		if !given {
			continue
		}

		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		checkConstraints(name, fv, f.Tag.Get("jsonschema"), issues)
	}
}

func checkConstraints(name string, v reflect.Value, tag string, issues *[]Issue) {
	if tag == "" {
		return
	}
	var enum []string
	for _, part := range strings.Split(tag, ",") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch key {
		case "enum":
			enum = append(enum, val)
		case "minimum", "maximum":
			if !v.CanInt() {
				continue
			}
			bound, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				continue
			}
			if key == "minimum" && v.Int() < bound {
				*issues = append(*issues, Issue{Path: name, Message: fmt.Sprintf("must be >= %d", bound)})
			}
			if key == "maximum" && v.Int() > bound {
				*issues = append(*issues, Issue{Path: name, Message: fmt.Sprintf("must be <= %d", bound)})
			}
		}
	}
	if len(enum) > 0 && v.Kind() == reflect.String {
		for _, allowed := range enum {
			if v.String() == allowed {
				return
			}
		}
		*issues = append(*issues, Issue{Path: name, Message: fmt.Sprintf("must be one of %s", strings.Join(enum, ", "))})
	}
}

func jsonName(f reflect.StructField) (name string, omitempty bool) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.String()
	}
}
