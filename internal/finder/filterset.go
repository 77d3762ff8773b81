package finder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
)

// FilterSet is the loosely typed filter map handed over by the transport
// layer. Values are strings, string slices or nested maps; JSON decoding may
// also produce bools, numbers and []interface{}.
type FilterSet map[string]interface{}

// Reserved keys understood by every finder.
const (
	KeySort = "sort"
	KeyPage = "page"
)

// Kind is the shape a filter value must have.
type Kind int

const (
	KindText Kind = iota
	KindList
	KindBool
	KindTime
	KindID
)

// Value is a normalized filter value. Only the field matching the filter's
// Kind is populated.
type Value struct {
	Text string
	List []string
	Bool bool
	Time time.Time
	ID   uint
}

// Values holds the normalized, non-blank filters of a request.
type Values map[string]Value

// Has reports whether key was supplied with a non-blank value.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Bool returns the boolean value of key and whether it was supplied.
func (v Values) Bool(key string) (bool, bool) {
	value, ok := v[key]
	return value.Bool, ok
}

// Text returns the text value of key, or "".
func (v Values) Text(key string) string {
	return v[key].Text
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// normalize converts the raw value of key into a Value. It returns false when
// the key is absent or blank.
func normalize(set FilterSet, key string, kind Kind) (Value, bool, error) {
	raw, ok := set[key]
	if !ok || raw == nil {
		return Value{}, false, nil
	}

	if text, isText := raw.(string); isText && strings.TrimSpace(text) == "" {
		return Value{}, false, nil
	}

	switch kind {
	case KindText:
		text, ok := raw.(string)
		if !ok {
			return Value{}, false, apperror.Invalid(key, "must be a string")
		}
		return Value{Text: strings.TrimSpace(text)}, true, nil

	case KindList:
		list, err := stringList(key, raw)
		if err != nil {
			return Value{}, false, err
		}
		if list == nil {
			return Value{}, false, nil
		}
		return Value{List: list}, true, nil

	case KindBool:
		switch v := raw.(type) {
		case bool:
			return Value{Bool: v}, true, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return Value{}, false, apperror.Invalid(key, "must be true or false")
			}
			return Value{Bool: parsed}, true, nil
		default:
			return Value{}, false, apperror.Invalid(key, "must be true or false")
		}

	case KindTime:
		text, ok := raw.(string)
		if !ok {
			return Value{}, false, apperror.Invalid(key, "must be a timestamp")
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(text)); err == nil {
				return Value{Time: parsed.UTC()}, true, nil
			}
		}
		return Value{}, false, apperror.Invalid(key, "must be an RFC 3339 timestamp or a date")

	case KindID:
		id, err := parseID(key, raw)
		if err != nil {
			return Value{}, false, err
		}
		return Value{ID: id}, true, nil
	}

	return Value{}, false, fmt.Errorf("finder: unsupported kind %d for %q", kind, key)
}

// stringList accepts arrays only. An empty array yields an empty non-nil
// slice; an array holding nothing but blanks is treated as blank.
func stringList(key string, raw interface{}) ([]string, error) {
	var items []string
	switch v := raw.(type) {
	case []string:
		items = v
	case []interface{}:
		items = make([]string, 0, len(v))
		for _, item := range v {
			text, ok := item.(string)
			if !ok {
				return nil, apperror.Invalid(key, "must be an array of strings")
			}
			items = append(items, text)
		}
	default:
		return nil, apperror.Invalid(key, "must be an array")
	}

	if len(items) == 0 {
		return []string{}, nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

func parseID(key string, raw interface{}) (uint, error) {
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || parsed == 0 {
			return 0, apperror.Invalid(key, "must be a positive integer")
		}
		return uint(parsed), nil
	case float64:
		if v <= 0 || v != math.Trunc(v) {
			return 0, apperror.Invalid(key, "must be a positive integer")
		}
		return uint(v), nil
	case int:
		if v <= 0 {
			return 0, apperror.Invalid(key, "must be a positive integer")
		}
		return uint(v), nil
	case uint:
		if v == 0 {
			return 0, apperror.Invalid(key, "must be a positive integer")
		}
		return v, nil
	default:
		return 0, apperror.Invalid(key, "must be a positive integer")
	}
}

func parseInt(key string, raw interface{}) (int, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false, nil
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, false, apperror.Invalid(key, "must be a number")
		}
		return parsed, true, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false, apperror.Invalid(key, "must be a whole number")
		}
		if math.Abs(v) > 1<<53 {
			return 0, false, apperror.Invalid(key, "is too large")
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, false, apperror.Invalid(key, "must be a number")
	}
}

// checkRule runs the filter's validator tag against each supplied string.
func checkRule(validate *validator.Validate, key, rule string, value Value, kind Kind) error {
	if rule == "" {
		return nil
	}

	var candidates []string
	switch kind {
	case KindText:
		candidates = []string{value.Text}
	case KindList:
		candidates = value.List
	default:
		return nil
	}

	for _, candidate := range candidates {
		if err := validate.Var(candidate, rule); err != nil {
			return apperror.Invalid(key, "%q is not allowed", candidate)
		}
	}
	return nil
}
