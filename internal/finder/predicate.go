package finder

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Predicate narrows a collection. Predicates are gorm scopes so they compose
// with db.Scopes and with each other.
//
// Every predicate returns its input unchanged when its value is blank: nil,
// an empty or whitespace string, a zero time or a nil pointer or slice.
type Predicate func(*gorm.DB) *gorm.DB

// Chain folds several predicates into one.
func Chain(predicates ...Predicate) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range predicates {
			if p != nil {
				db = p(db)
			}
		}
		return db
	}
}

// None matches nothing.
func None() Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 0")
	}
}

// Equals matches rows whose field equals value.
func Equals(field string, value interface{}) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if isBlank(value) {
			return db
		}
		return db.Where(fmt.Sprintf("%s = ?", field), value)
	}
}

// In matches rows whose field is one of values. A nil slice is blank and
// leaves the collection unfiltered; an empty non-nil slice matches nothing.
func In[T any](field string, values []T) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if values == nil {
			return db
		}
		if len(values) == 0 {
			return None()(db)
		}
		return db.Where(fmt.Sprintf("%s IN ?", field), values)
	}
}

// CaseInsensitiveEquals compares LOWER(field) with LOWER(value). Both sides go
// through the storage engine's LOWER, so folding is whatever the engine does:
// ASCII only on SQLite, locale aware on PostgreSQL.
func CaseInsensitiveEquals(field, value string) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(value) == "" {
			return db
		}
		return db.Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", field), value)
	}
}

// CaseInsensitiveIn is the case-insensitive form of In.
func CaseInsensitiveIn(field string, values []string) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if values == nil {
			return db
		}
		if len(values) == 0 {
			return None()(db)
		}

		placeholders := strings.TrimSuffix(strings.Repeat("LOWER(?), ", len(values)), ", ")
		args := make([]interface{}, len(values))
		for i, value := range values {
			args[i] = value
		}
		return db.Where(fmt.Sprintf("LOWER(%s) IN (%s)", field, placeholders), args...)
	}
}

// RangeAfterOrEqual matches rows whose field is at or after ts.
func RangeAfterOrEqual(field string, ts time.Time) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if ts.IsZero() {
			return db
		}
		return db.Where(fmt.Sprintf("%s >= ?", field), ts)
	}
}

// RangeBefore matches rows whose field is strictly before ts.
func RangeBefore(field string, ts time.Time) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if ts.IsZero() {
			return db
		}
		return db.Where(fmt.Sprintf("%s < ?", field), ts)
	}
}

// IsNull matches rows whose field is NULL, or NOT NULL when negate is set.
func IsNull(field string, negate bool) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if negate {
			return db.Where(fmt.Sprintf("%s IS NOT NULL", field))
		}
		return db.Where(fmt.Sprintf("%s IS NULL", field))
	}
}

func isBlank(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case time.Time:
		return v.IsZero()
	case *time.Time:
		return v == nil || v.IsZero()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}
