// Package wbxml implements the tokenized binary XML format used by the
// ActiveSync family of groupware protocols.
//
// # Overview
//
// A document is a fixed header followed by a token stream. Element names are
// not transmitted; each element is a one-byte code within a numbered codepage
// and the codec keeps track of the active page, switching it with an explicit
// SWITCH_PAGE token. Text travels as NUL-terminated inline strings.
//
// # Wire format
//
//	03          version 1.3
//	01          public id (unknown), mb_u_int32
//	6A          charset UTF-8 (MIBenum 106), mb_u_int32
//	00          string table length, mb_u_int32
//	...         body tokens
//
// # Scope
//
// Encode accepts a restricted XML string (declaration, nested elements, text,
// empty elements) and never emits attributes, string-table references or
// opaque data. Decode additionally understands STR_T and OPAQUE since servers
// may use them. Attributes, entities, processing instructions and literal
// tags are rejected.
//
// # Determinism
//
// Both directions are pure functions of their input. A call keeps its buffers
// and stacks on its own stack frame, so concurrent calls never share state.
//
// Key types and functions
//
//   - type Dictionary: codepage tables plus the encode-direction lookup order
//   - func Encode: XML string to token stream
//   - func Decode: token stream to XML string
package wbxml
