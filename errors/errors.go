/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a row or entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchema is returned when a type cannot be mapped to a table
	ErrSchema = errors.New("invalid mapping schema")

	// ErrTypeMismatch is returned when a wire value cannot be coerced into a field's kind
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrRange is returned when a wire value does not fit the field's integer width
	ErrRange = errors.New("value out of range")

	// ErrUnsupportedType is returned for wire types the mapper does not handle (collections)
	ErrUnsupportedType = errors.New("unsupported column type")

	// ErrArity is returned when a composite key does not match the key descriptor
	ErrArity = errors.New("key arity mismatch")

	// ErrNoConstructor is returned when a type has no usable constructor
	ErrNoConstructor = errors.New("no usable constructor")

	// ErrConstruction is returned when a constructor fails to build an instance
	ErrConstruction = errors.New("construction failed")

	// ErrAccess is returned when a field accessor or mutator cannot be invoked
	ErrAccess = errors.New("field access failed")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// SchemaError reports a type that cannot be mapped: no columns, duplicate
// columns, missing table name or ambiguous constructors.
type SchemaError struct {
	Type   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("cannot map %s: %s", e.Type, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NoPrimaryFieldError is a SchemaError for types without primary fields.
type NoPrimaryFieldError struct {
	Type string
}

func (e *NoPrimaryFieldError) Error() string {
	return fmt.Sprintf("cannot map %s: no primary fields specified", e.Type)
}

func (e *NoPrimaryFieldError) Is(target error) bool {
	return target == ErrSchema
}

// TypeMismatchError represents a wire value that has no conversion to the target kind
type TypeMismatchError struct {
	Column    string
	ValueType string
	Target    string
}

func (e *TypeMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("column %q: cannot convert %s to %s", e.Column, e.ValueType, e.Target)
	}
	return fmt.Sprintf("cannot convert %s to %s", e.ValueType, e.Target)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// RangeError represents a numeric narrowing that would lose information
type RangeError struct {
	Column string
	Wire   string
	Target string
	Value  string
}

func (e *RangeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("column %q: %s value %s out of %s range", e.Column, e.Wire, e.Value, e.Target)
	}
	return fmt.Sprintf("%s value %s out of %s range", e.Wire, e.Value, e.Target)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}

// UnsupportedTypeError represents a wire type the mapper does not support
type UnsupportedTypeError struct {
	Column string
	Wire   string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("column %q: %s columns are not supported", e.Column, e.Wire)
	}
	return fmt.Sprintf("%s columns are not supported", e.Wire)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// ArityError represents a lookup key whose shape does not match the key descriptor
type ArityError struct {
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("key arity (%d) does not match model (%d)", e.Got, e.Expected)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrArity
}

// NoConstructorError represents a type with no constructor matching its fields
type NoConstructorError struct {
	Type   string
	Fields int
}

func (e *NoConstructorError) Error() string {
	return fmt.Sprintf("%s has no zero-argument constructor and no constructor taking its %d fields", e.Type, e.Fields)
}

func (e *NoConstructorError) Is(target error) bool {
	return target == ErrNoConstructor
}

// ConstructionError wraps a failure raised while constructing an instance
type ConstructionError struct {
	Type  string
	Arity int
	Cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("could not create %s with %d-argument constructor: %v", e.Type, e.Arity, e.Cause)
}

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// AccessError wraps a failure raised while reading or writing a field
type AccessError struct {
	Type  string
	Field string
	Cause error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot access field %q of %s: %v", e.Field, e.Type, e.Cause)
}

func (e *AccessError) Is(target error) bool {
	return target == ErrAccess
}

func (e *AccessError) Unwrap() error {
	return e.Cause
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(entityType, reason string) error {
	return &SchemaError{Type: entityType, Reason: reason}
}

// NewNoPrimaryFieldError creates a new NoPrimaryFieldError
func NewNoPrimaryFieldError(entityType string) error {
	return &NoPrimaryFieldError{Type: entityType}
}

// NewTypeMismatchError creates a new TypeMismatchError
func NewTypeMismatchError(column, valueType, target string) error {
	return &TypeMismatchError{Column: column, ValueType: valueType, Target: target}
}

// NewRangeError creates a new RangeError
func NewRangeError(column, wire, target, value string) error {
	return &RangeError{Column: column, Wire: wire, Target: target, Value: value}
}

// NewUnsupportedTypeError creates a new UnsupportedTypeError
func NewUnsupportedTypeError(column, wire string) error {
	return &UnsupportedTypeError{Column: column, Wire: wire}
}

// NewArityError creates a new ArityError
func NewArityError(expected, got int) error {
	return &ArityError{Expected: expected, Got: got}
}

// NewNoConstructorError creates a new NoConstructorError
func NewNoConstructorError(entityType string, fields int) error {
	return &NoConstructorError{Type: entityType, Fields: fields}
}

// NewConstructionError creates a new ConstructionError
func NewConstructionError(entityType string, arity int, cause error) error {
	return &ConstructionError{Type: entityType, Arity: arity, Cause: cause}
}

// NewAccessError creates a new AccessError
func NewAccessError(entityType, field string, cause error) error {
	return &AccessError{Type: entityType, Field: field, Cause: cause}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSchemaError checks if an error is a schema error
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsTypeMismatch checks if an error is a type mismatch error
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsRangeError checks if an error is a range error
func IsRangeError(err error) bool {
	return errors.Is(err, ErrRange)
}

// IsUnsupportedType checks if an error is an unsupported type error
func IsUnsupportedType(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}

// IsArityError checks if an error is a key arity error
func IsArityError(err error) bool {
	return errors.Is(err, ErrArity)
}

// IsNoConstructor checks if an error is a no constructor error
func IsNoConstructor(err error) bool {
	return errors.Is(err, ErrNoConstructor)
}

// IsConstructionError checks if an error is a construction error
func IsConstructionError(err error) bool {
	return errors.Is(err, ErrConstruction)
}

// IsAccessError checks if an error is an access error
func IsAccessError(err error) bool {
	return errors.Is(err, ErrAccess)
}
