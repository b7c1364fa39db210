package enum

import (
	"fmt"
	"reflect"
)

// registry maps an enum type to its string-to-value table. Values register
// through New in package-level var blocks, so no locking is needed.
var registry = map[reflect.Type]any{}

func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	table, ok := registry[t].(map[string]T)
	if !ok {
		table = map[string]T{}
		registry[t] = table
	}

	table[reflect.ValueOf(value).String()] = value
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var zero T
	table, ok := registry[reflect.TypeOf(zero)].(map[string]T)
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := table[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}
