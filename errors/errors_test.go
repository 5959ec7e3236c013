/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Song", "123")

	expected := `Song with key "123" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "keyspace",
			message:  "required",
			expected: `validation failed for field "keyspace": required`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing store",
			expected: "validation failed: missing store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestSchemaErrors(t *testing.T) {
	err := NewNoPrimaryFieldError("Song")
	if err.Error() != "cannot map Song: no primary fields specified" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !IsSchemaError(err) {
		t.Error("NoPrimaryFieldError should match ErrSchema")
	}

	err = NewSchemaError("Song", "target type has no defined columns")
	if !IsSchemaError(err) {
		t.Error("SchemaError should match ErrSchema")
	}
}

func TestCoercionErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		expected string
	}{
		{
			name:     "type mismatch",
			err:      NewTypeMismatchError("name", "bool", "text"),
			sentinel: ErrTypeMismatch,
			expected: `column "name": cannot convert bool to text`,
		},
		{
			name:     "range",
			err:      NewRangeError("plays", "varint", "int32", "2147483648"),
			sentinel: ErrRange,
			expected: `column "plays": varint value 2147483648 out of int32 range`,
		},
		{
			name:     "unsupported",
			err:      NewUnsupportedTypeError("tags", "set"),
			sentinel: ErrUnsupportedType,
			expected: `column "tags": set columns are not supported`,
		},
		{
			name:     "range without column",
			err:      NewRangeError("", "bigint", "int32", "-2147483649"),
			sentinel: ErrRange,
			expected: "bigint value -2147483649 out of int32 range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, tt.err.Error())
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%T should match %v", tt.err, tt.sentinel)
			}
		})
	}
}

func TestArityError(t *testing.T) {
	err := NewArityError(3, 2)

	expected := "key arity (2) does not match model (3)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsArityError(err) {
		t.Error("IsArityError should return true for ArityError")
	}
}

func TestConstructionAndAccessUnwrap(t *testing.T) {
	cause := errors.New("boom")

	err := NewConstructionError("Song", 2, cause)
	if !IsConstructionError(err) {
		t.Error("ConstructionError should match ErrConstruction")
	}
	if !errors.Is(err, cause) {
		t.Error("ConstructionError should unwrap to its cause")
	}

	err = NewAccessError("Song", "Name", cause)
	if !IsAccessError(err) {
		t.Error("AccessError should match ErrAccess")
	}
	if !errors.Is(err, cause) {
		t.Error("AccessError should unwrap to its cause")
	}

	if !IsNoConstructor(NewNoConstructorError("Song", 2)) {
		t.Error("NoConstructorError should match ErrNoConstructor")
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewRangeError("plays", "varint", "int32", "1")
	wrapped := fmt.Errorf("load Song: %w", original)

	if !IsRangeError(wrapped) {
		t.Error("IsRangeError should work with wrapped errors")
	}

	var re *RangeError
	if !errors.As(wrapped, &re) || re.Column != "plays" {
		t.Errorf("errors.As should expose the column, got %+v", re)
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrSchema,
		ErrTypeMismatch,
		ErrRange,
		ErrUnsupportedType,
		ErrArity,
		ErrNoConstructor,
		ErrConstruction,
		ErrAccess,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
