package wbxml

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedVersion    = errors.New("wbxml: unsupported version")
	ErrTruncated             = errors.New("wbxml: truncated data")
	ErrInvalidToken          = errors.New("wbxml: invalid token")
	ErrUnknownTag            = errors.New("wbxml: unknown tag")
	ErrAttributesUnsupported = errors.New("wbxml: attributes are not supported")
	ErrMalformedXML          = errors.New("wbxml: malformed xml")
	ErrIntegerOverflow       = errors.New("wbxml: multi-byte integer overflow")
)

// UnknownTagError is returned by the encoder for an element name that no
// consulted codepage defines.
type UnknownTagError struct {
	Name string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("wbxml: unknown tag %q", e.Name)
}

func (e *UnknownTagError) Unwrap() error { return ErrUnknownTag }

// DecodeError locates a decode failure within the input buffer.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }
