package ctool

import (
	"fmt"
	"strings"
)

// Validation inspects raw JSON-decoded arguments and reports every
// violation at once. Values must already carry the declared JSON type;
// nothing is coerced, and an explicit null is a violation, not an absence.
// Unknown keys are ignored.

func validateCompileArgs(args map[string]any) (*CompileRequest, *ValidationError) {
	var violations []FieldViolation

	req := &CompileRequest{OutputFile: DefaultOutputFile}
	options := DefaultCompileOptions

	v, ok := args["code"]
	switch {
	case !ok:
		violations = append(violations, FieldViolation{Field: "code", Reason: "required"})
	default:
		s, ok := v.(string)
		if !ok {
			violations = append(violations, typeViolation("code", "string", v))
			break
		}
		req.Code = s
	}

	if v, ok := args["output_file"]; ok {
		s, ok := v.(string)
		if !ok {
			violations = append(violations, typeViolation("output_file", "string", v))
		} else {
			req.OutputFile = s
		}
	}

	if v, ok := args["options"]; ok {
		s, ok := v.(string)
		if !ok {
			violations = append(violations, typeViolation("options", "string", v))
		} else {
			options = s
		}
	}

	if v, ok := args["verbose"]; ok {
		b, ok := v.(bool)
		if !ok {
			violations = append(violations, typeViolation("verbose", "boolean", v))
		} else {
			req.Verbose = b
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	req.Options = strings.Fields(options)
	return req, nil
}

func validateDisassembleArgs(args map[string]any) (*DisassembleRequest, *ValidationError) {
	var violations []FieldViolation

	req := &DisassembleRequest{IsSourceCode: true}
	options := DefaultDisassembleOptions

	v, ok := args["input"]
	switch {
	case !ok:
		violations = append(violations, FieldViolation{Field: "input", Reason: "required"})
	default:
		s, ok := v.(string)
		if !ok {
			violations = append(violations, typeViolation("input", "string", v))
			break
		}
		req.Input = s
	}

	if v, ok := args["is_source_code"]; ok {
		b, ok := v.(bool)
		if !ok {
			violations = append(violations, typeViolation("is_source_code", "boolean", v))
		} else {
			req.IsSourceCode = b
		}
	}

	if v, ok := args["options"]; ok {
		s, ok := v.(string)
		if !ok {
			violations = append(violations, typeViolation("options", "string", v))
		} else {
			options = s
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	req.Options = strings.Fields(options)
	return req, nil
}

func typeViolation(field, want string, got any) FieldViolation {
	return FieldViolation{
		Field:  field,
		Reason: fmt.Sprintf("expected %s, got %s", want, jsonTypeName(got)),
	}
}

// jsonTypeName names a decoded JSON value by its wire type.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
