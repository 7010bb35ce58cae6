// Package reflectcall matches loosely typed argument lists against
// function signatures for reflective calls.
package reflectcall

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors for argument matching.
var (
	// ErrArity indicates the number of arguments does not fit the signature.
	ErrArity = errors.New("argument count mismatch")

	// ErrType indicates an argument is not assignable to its parameter.
	ErrType = errors.New("argument type mismatch")
)

// Args converts values into call arguments for fn, filling parameters
// from index skip onwards. Variadic signatures accept any number of
// trailing values assignable to the variadic element type.
func Args(fn reflect.Type, skip int, values []any) ([]reflect.Value, error) {
	numIn := fn.NumIn()
	fixed := numIn - skip
	if fn.IsVariadic() {
		fixed--
		if len(values) < fixed {
			return nil, fmt.Errorf("%w: want at least %d, got %d", ErrArity, fixed, len(values))
		}
	} else if len(values) != fixed {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, fixed, len(values))
	}

	args := make([]reflect.Value, len(values))
	for i, v := range values {
		var param reflect.Type
		if i < fixed {
			param = fn.In(skip + i)
		} else {
			param = fn.In(numIn - 1).Elem()
		}

		arg, err := convert(v, param)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = arg
	}
	return args, nil
}

func convert(v any, param reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nilable(param) {
			return reflect.Zero(param), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrType, param)
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(param) {
		return reflect.Value{}, fmt.Errorf("%w: %s for %s", ErrType, rv.Type(), param)
	}
	return rv, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// TypeNames lists the dynamic types of values ("<nil>" for nil).
func TypeNames(values []any) []string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = fmt.Sprintf("%T", v)
	}
	return names
}

// Describe formats TypeNames as a comma separated list.
func Describe(values []any) string {
	if len(values) == 0 {
		return "no arguments"
	}
	return strings.Join(TypeNames(values), ", ")
}
