package wbxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Encode converts doc to a token stream using the default dictionary.
func Encode(doc string) ([]byte, error) {
	return defaultDictionary.Encode(doc)
}

// Encode converts doc to a token stream.
//
// doc may contain an XML declaration, a doctype, comments, nested elements,
// character data and empty elements. Namespace declarations are accepted and
// ignored; any other attribute fails with ErrAttributesUnsupported. Character
// data made only of whitespace is dropped. Every element name must resolve in
// the dictionary, otherwise an *UnknownTagError naming it is returned.
func (d *Dictionary) Encode(doc string) ([]byte, error) {
	tokens, err := readTokens(doc)
	if err != nil {
		return nil, err
	}

	e := &encoder{dict: d, page: PageAirSync}
	e.buf.Grow(len(doc) / 2)
	e.buf.Write([]byte{Version, PublicIDUnknown, CharsetUTF8, 0x00})

	for i := 0; i < len(tokens); i++ {
		switch tok := tokens[i].(type) {
		case xml.StartElement:
			if err := checkAttrs(tok); err != nil {
				return nil, err
			}
			empty := i+1 < len(tokens) && isEnd(tokens[i+1])
			if err := e.open(tok.Name.Local, empty); err != nil {
				return nil, err
			}
			if empty {
				i++
			}
		case xml.EndElement:
			e.close()
		case xml.CharData:
			if err := e.text(string(tok)); err != nil {
				return nil, err
			}
		case xml.ProcInst:
			if tok.Target != "xml" {
				return nil, fmt.Errorf("%w: processing instruction %q", ErrMalformedXML, tok.Target)
			}
		}
	}
	if len(e.names) != 0 {
		return nil, fmt.Errorf("%w: unclosed element %q", ErrMalformedXML, e.names[len(e.names)-1])
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	dict  *Dictionary
	buf   bytes.Buffer
	page  Page
	pages []Page
	names []string
}

func (e *encoder) open(name string, empty bool) error {
	parent, inherited := PageAirSync, false
	if n := len(e.pages); n > 0 {
		parent, inherited = e.pages[n-1], true
	}
	page, code, err := e.dict.Resolve(name, parent, inherited)
	if err != nil {
		return err
	}
	if page != e.page {
		e.buf.WriteByte(tokenSwitchPage)
		e.buf.WriteByte(byte(page))
		e.page = page
	}
	if empty {
		e.buf.WriteByte(code)
		return nil
	}
	e.buf.WriteByte(code | tagHasContent)
	e.pages = append(e.pages, page)
	e.names = append(e.names, name)
	return nil
}

func (e *encoder) close() {
	e.buf.WriteByte(tokenEnd)
	e.pages = e.pages[:len(e.pages)-1]
	e.names = e.names[:len(e.names)-1]
}

func (e *encoder) text(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if len(e.names) == 0 {
		return fmt.Errorf("%w: text outside the root element", ErrMalformedXML)
	}
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%w: NUL in character data", ErrMalformedXML)
	}
	e.buf.WriteByte(tokenStrI)
	e.buf.WriteString(s)
	e.buf.WriteByte(0x00)
	return nil
}

// readTokens tokenizes doc, merging adjacent character data so that each text
// node becomes a single inline string.
func readTokens(doc string) ([]xml.Token, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = true

	var out []xml.Token
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if n := len(out); n > 0 {
				if prev, ok := out[n-1].(xml.CharData); ok {
					out[n-1] = append(prev, t...)
					continue
				}
			}
			out = append(out, t.Copy())
		case xml.Comment, xml.Directive:
		default:
			out = append(out, xml.CopyToken(tok))
		}
	}
}

func isEnd(tok xml.Token) bool {
	_, ok := tok.(xml.EndElement)
	return ok
}

func checkAttrs(el xml.StartElement) error {
	for _, a := range el.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		return fmt.Errorf("%w: %s on <%s>", ErrAttributesUnsupported, a.Name.Local, el.Name.Local)
	}
	return nil
}
