package wbxml

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`

// MaxDepth bounds element nesting in decoded documents.
const MaxDepth = 256

// Decode converts a token stream to an XML string using the default
// dictionary.
func Decode(buf []byte) (string, error) {
	return defaultDictionary.Decode(buf)
}

// Decode converts a token stream to an XML string. The output starts with an
// XML declaration, carries no indentation and writes elements without content
// as <Name/>. Failures are *DecodeError values wrapping ErrUnsupportedVersion,
// ErrTruncated, ErrInvalidToken or ErrAttributesUnsupported.
func (d *Dictionary) Decode(buf []byte) (string, error) {
	dec := &decoder{dict: d, buf: buf}
	if err := dec.header(); err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(buf) * 3)
	out.WriteString(xmlDeclaration)
	dec.out = &out

	for dec.off < len(dec.buf) {
		at := dec.off
		b := dec.buf[dec.off]
		dec.off++
		switch {
		case b == tokenSwitchPage:
			if err := dec.switchPage(); err != nil {
				return "", err
			}
		case isGlobalToken(b):
			return "", dec.fail(at, fmt.Errorf("%w: 0x%02X outside an element", ErrInvalidToken, b))
		default:
			if err := dec.element(at, b); err != nil {
				return "", err
			}
		}
	}
	return out.String(), nil
}

type decoder struct {
	dict  *Dictionary
	buf   []byte
	off   int
	page  Page
	table []byte
	out   *strings.Builder
	depth int
}

func (dec *decoder) fail(at int, err error) error {
	return &DecodeError{Offset: at, Err: err}
}

func (dec *decoder) header() error {
	if len(dec.buf) == 0 {
		return dec.fail(0, ErrTruncated)
	}
	if dec.buf[0] != Version {
		return dec.fail(0, fmt.Errorf("%w: 0x%02X", ErrUnsupportedVersion, dec.buf[0]))
	}
	dec.off = 1

	publicID, err := dec.mbUint()
	if err != nil {
		return err
	}
	if publicID == 0 {
		// The public identifier lives in the string table; skip its index.
		if _, err := dec.mbUint(); err != nil {
			return err
		}
	}
	if _, err := dec.mbUint(); err != nil { // charset
		return err
	}

	at := dec.off
	n, err := dec.mbUint()
	if err != nil {
		return err
	}
	if uint64(n) > uint64(len(dec.buf)-dec.off) {
		return dec.fail(at, ErrTruncated)
	}
	dec.table = dec.buf[dec.off : dec.off+int(n)]
	dec.off += int(n)
	return nil
}

func (dec *decoder) mbUint() (uint32, error) {
	at := dec.off
	v, off, err := readMultiByteUint(dec.buf, dec.off)
	if err != nil {
		return 0, dec.fail(at, err)
	}
	dec.off = off
	return v, nil
}

func (dec *decoder) switchPage() error {
	if dec.off >= len(dec.buf) {
		return dec.fail(dec.off, ErrTruncated)
	}
	dec.page = Page(dec.buf[dec.off])
	dec.off++
	return nil
}

// element writes the element whose tag byte sits at buf[at] and, when the
// content flag is set, everything up to and including its END token.
func (dec *decoder) element(at int, tag byte) error {
	if tag&tagHasAttributes != 0 {
		return dec.fail(at, ErrAttributesUnsupported)
	}
	name, ok := dec.dict.Name(dec.page, tag&tagCodeMask)
	if !ok {
		return dec.fail(at, fmt.Errorf("%w: tag 0x%02X in page %s", ErrInvalidToken, tag&tagCodeMask, dec.page))
	}
	if tag&tagHasContent == 0 {
		dec.out.WriteString("<" + name + "/>")
		return nil
	}
	if dec.depth >= MaxDepth {
		return dec.fail(at, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidToken, MaxDepth))
	}
	dec.depth++
	defer func() { dec.depth-- }()
	dec.out.WriteString("<" + name + ">")

	for {
		if dec.off >= len(dec.buf) {
			return dec.fail(dec.off, fmt.Errorf("%w: <%s> not closed", ErrTruncated, name))
		}
		at := dec.off
		b := dec.buf[dec.off]
		dec.off++

		switch b {
		case tokenEnd:
			dec.out.WriteString("</" + name + ">")
			return nil
		case tokenSwitchPage:
			if err := dec.switchPage(); err != nil {
				return err
			}
		case tokenStrI:
			s, err := dec.inlineString()
			if err != nil {
				return err
			}
			dec.text(s)
		case tokenStrT:
			s, err := dec.tableString()
			if err != nil {
				return err
			}
			dec.text(s)
		case tokenOpaque:
			if err := dec.opaque(); err != nil {
				return err
			}
		default:
			if isGlobalToken(b) {
				return dec.fail(at, fmt.Errorf("%w: 0x%02X", ErrInvalidToken, b))
			}
			if err := dec.element(at, b); err != nil {
				return err
			}
		}
	}
}

func (dec *decoder) inlineString() ([]byte, error) {
	at := dec.off
	i := bytes.IndexByte(dec.buf[dec.off:], 0x00)
	if i < 0 {
		return nil, dec.fail(at, fmt.Errorf("%w: unterminated inline string", ErrTruncated))
	}
	s := dec.buf[dec.off : dec.off+i]
	dec.off += i + 1
	return s, nil
}

func (dec *decoder) tableString() ([]byte, error) {
	at := dec.off
	idx, err := dec.mbUint()
	if err != nil {
		return nil, err
	}
	if uint64(idx) >= uint64(len(dec.table)) {
		return nil, dec.fail(at, fmt.Errorf("%w: string table index %d out of range", ErrInvalidToken, idx))
	}
	rest := dec.table[idx:]
	if i := bytes.IndexByte(rest, 0x00); i >= 0 {
		rest = rest[:i]
	}
	return rest, nil
}

func (dec *decoder) opaque() error {
	at := dec.off
	n, err := dec.mbUint()
	if err != nil {
		return err
	}
	if uint64(n) > uint64(len(dec.buf)-dec.off) {
		return dec.fail(at, fmt.Errorf("%w: opaque data", ErrTruncated))
	}
	data := dec.buf[dec.off : dec.off+int(n)]
	dec.off += int(n)
	if utf8.Valid(data) {
		dec.text(data)
		return nil
	}
	dec.out.WriteString(base64.StdEncoding.EncodeToString(data))
	return nil
}

func (dec *decoder) text(s []byte) {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, s)
	dec.out.Write(buf.Bytes())
}
