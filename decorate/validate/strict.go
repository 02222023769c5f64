package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/tempokit/function-decorators-go/decorate"
)

// TypeTag is one value category of the closed validation vocabulary.
type TypeTag string

const (
	Number   TypeTag = "number"
	String   TypeTag = "string"
	Boolean  TypeTag = "boolean"
	Object   TypeTag = "object"
	Array    TypeTag = "array"
	Function TypeTag = "function"
	Null     TypeTag = "null"
)

// ErrUnknownTypeTag is returned when a tag outside the closed vocabulary is
// supplied to a validator factory.
var ErrUnknownTypeTag = errors.New("unknown type tag")

// Known reports whether the tag belongs to the closed vocabulary.
func Known(tag TypeTag) bool {
	switch tag {
	case Number, String, Boolean, Object, Array, Function, Null:
		return true
	default:
		return false
	}
}

// TagOf resolves the type tag of a runtime value. Signed and unsigned
// integers and floats all classify as number; maps, structs, pointers, and
// channels classify as object.
func TagOf(value any) TypeTag {
	if value == nil {
		return Null
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool:
		return Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.String:
		return String
	case reflect.Slice, reflect.Array:
		return Array
	case reflect.Func:
		return Function
	default:
		return Object
	}
}

// StrictArguments returns a decorator that fails with a validation error when
// the number of supplied arguments does not exactly match the expected tag
// list, or when any argument's tag differs from the expected tag at that
// position. The base callable does not run on a failed check.
func StrictArguments(expected ...TypeTag) decorate.Decorator {
	return func(ctx context.Context, base decorate.Callable, args decorate.Args) (any, error) {
		if len(args) != len(expected) {
			return nil, errors.Join(decorate.ErrValidation,
				fmt.Errorf("expected %d arguments, got %d", len(expected), len(args)))
		}

		for position, tag := range expected {
			if actual := TagOf(args[position]); actual != tag {
				return nil, errors.Join(decorate.ErrValidation,
					fmt.Errorf("argument %d: expected %s, got %s", position, tag, actual))
			}
		}

		return base(ctx, args...)
	}
}

// StrictReturn returns a decorator that invokes the base callable and fails
// with a validation error when the result's tag does not equal the expected
// tag. On a match the result passes through unchanged; an error from the base
// callable propagates unchanged without a type check.
func StrictReturn(expected TypeTag) decorate.Decorator {
	return func(ctx context.Context, base decorate.Callable, args decorate.Args) (any, error) {
		result, err := base(ctx, args...)
		if err != nil {
			return result, err
		}

		if actual := TagOf(result); actual != expected {
			return nil, errors.Join(decorate.ErrValidation,
				fmt.Errorf("return value: expected %s, got %s", expected, actual))
		}

		return result, nil
	}
}
