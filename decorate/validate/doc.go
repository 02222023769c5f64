// Package validate provides the stateless validation decorators: argument
// arity-and-type checking and return-type checking.
//
// Values are classified into a closed vocabulary of type tags (number,
// string, boolean, object, array, function, null) resolved via reflection.
// Both decorators are plain call-through wrappers with no timing state;
// validation failures wrap decorate.ErrValidation and surface synchronously
// to the caller, before the base callable runs in the argument case.
package validate
