/*
Package errors provides semantic error types for the rowmapper library.

The package defines the mapping failure taxonomy with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrSchema          = errors.New("invalid mapping schema")
	    ErrTypeMismatch    = errors.New("type mismatch")
	    ErrRange           = errors.New("value out of range")
	    ErrUnsupportedType = errors.New("unsupported column type")
	    ErrArity           = errors.New("key arity mismatch")
	    ErrNoConstructor   = errors.New("no usable constructor")
	    ErrConstruction    = errors.New("construction failed")
	    ErrAccess          = errors.New("field access failed")
	)

Usage:

	song, err := rowmapper.Get[Song](ctx, mapper, id)
	if err != nil {
	    if errors.IsRangeError(err) {
	        // a varint column holds a value wider than the field
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewRangeError("plays", "varint", "int32", "4294967296")
	err := errors.NewArityError(3, 2)
	err := errors.NewConstructionError("Song", 2, cause)

Schema errors are reported when a mapping is built and are not cached, so a
later call retries the build. Coercion errors carry the offending column;
construction and access errors wrap their cause and support errors.Unwrap.
*/
package errors
