package market

import (
	"database/sql"
	"fmt"
	"strconv"
)

// AbsentToken is how an absent value is written out in flat exports and tables.
const AbsentToken = "None"

// Scalar is the set of types a coin field can hold.
type Scalar interface {
	~string | ~float64 | ~int64
}

// Value holds either a parsed value or the absent marker. The zero Value is absent,
// which is distinct from a present zero (Some(0)).
type Value[T Scalar] struct {
	v     T
	valid bool
}

func Some[T Scalar](v T) Value[T] {
	return Value[T]{v: v, valid: true}
}

func Absent[T Scalar]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.v, v.valid
}

func (v Value[T]) IsAbsent() bool {
	return !v.valid
}

// Or returns the held value, or `fallback` if absent.
func (v Value[T]) Or(fallback T) T {
	if !v.valid {
		return fallback
	}
	return v.v
}

// Null converts the value into its database representation, absent becomes NULL.
func (v Value[T]) Null() sql.Null[T] {
	return sql.Null[T]{V: v.v, Valid: v.valid}
}

// FromNull is the inverse of Null.
func FromNull[T Scalar](n sql.Null[T]) Value[T] {
	if !n.Valid {
		return Absent[T]()
	}
	return Some(n.V)
}

// String renders the value for flat output, absent values render as AbsentToken.
func (v Value[T]) String() string {
	if !v.valid {
		return AbsentToken
	}
	switch x := any(v.v).(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	}
	return fmt.Sprint(v.v)
}

// Equal reports if both values are absent or both hold the same value.
func (v Value[T]) Equal(other Value[T]) bool {
	if v.valid != other.valid {
		return false
	}
	return !v.valid || v.v == other.v
}
