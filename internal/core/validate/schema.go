package validate

import "fmt"

// Rule checks one raw field value.
type Rule func(value any) Result

// Schema maps field names to the ordered rules applied to each.
type Schema map[string][]Rule

// SchemaResult is the outcome of validating a whole input map.
// Sanitized is populated only when every field passed: partially valid
// input never leaks into the sanitized object.
type SchemaResult struct {
	OK          bool
	FieldErrors map[string][]string
	Sanitized   map[string]any
}

// Validate runs every rule for every schema field against input.
// Rules for a field run in order over the previous rule's sanitized
// value, so e.g. Required can trim before Email lowercases.
func (s Schema) Validate(input map[string]any) SchemaResult {
	res := SchemaResult{
		FieldErrors: make(map[string][]string),
	}
	sanitized := make(map[string]any, len(s))

	for field, rules := range s {
		value := input[field]
		for _, rule := range rules {
			r := rule(value)
			if !r.OK {
				res.FieldErrors[field] = append(res.FieldErrors[field], r.Errors...)
				break
			}
			value = r.Sanitized
		}
		if len(res.FieldErrors[field]) == 0 {
			sanitized[field] = value
		}
	}

	if len(res.FieldErrors) == 0 {
		res.OK = true
		res.Sanitized = sanitized
	}
	return res
}

// Rule constructors wrapping the field primitives.

func RequiredRule() Rule {
	return func(v any) Result { return Required(toString(v)) }
}

func EmailRule() Rule {
	return func(v any) Result { return Email(toString(v)) }
}

func PhoneRule() Rule {
	return func(v any) Result { return Phone(toString(v)) }
}

func LengthRule(min, max int) Rule {
	return func(v any) Result { return Length(toString(v), min, max) }
}

func RangeRule(min, max float64) Rule {
	return func(v any) Result {
		f, okNum := toFloat(v)
		if !okNum {
			return fail("must be a number")
		}
		return Range(f, min, max)
	}
}

func ArrayLengthRule(min, max int) Rule {
	return func(v any) Result {
		switch arr := v.(type) {
		case []any:
			return ArrayLength(len(arr), min, max)
		case []string:
			return ArrayLength(len(arr), min, max)
		case []map[string]any:
			return ArrayLength(len(arr), min, max)
		default:
			return fail("must be a list")
		}
	}
}

func URLRule() Rule {
	return func(v any) Result { return URL(toString(v)) }
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
