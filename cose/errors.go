package cose

import "fmt"

// keyFieldError names a missing required field in a decoded COSE key map.
// Adapted from massifs/cose/ec_key.go's ErrKeyValueError.
type keyFieldError struct{ field string }

func (e *keyFieldError) Error() string {
	return fmt.Sprintf("cose: key missing required field %q", e.field)
}

// keyFieldTypeError names a field present but of the wrong decoded type.
// Adapted from massifs/cose/ec_key.go's ErrKeyFormatError.
type keyFieldTypeError struct {
	field  string
	actual fmt.Stringer
}

func (e *keyFieldTypeError) Error() string {
	return fmt.Sprintf("cose: key field %q has unexpected type", e.field)
}
