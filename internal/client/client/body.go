package client

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/wbxml"
)

const previewLimit = 256

// decodeBody sniffs a response body: a leading version byte means WBXML,
// valid UTF-8 is taken as XML text, anything else is rejected.
func decodeBody(b []byte) (string, error) {
	switch {
	case len(b) == 0:
		return "", nil
	case b[0] == wbxml.Version:
		return wbxml.Decode(b)
	case utf8.Valid(b):
		return string(b), nil
	default:
		return "", ErrUndecodableBody
	}
}

// classify turns a non-200 response into a *StatusError.
func classify(resp *Response) error {
	var sentinel error
	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case code == http.StatusForbidden:
		sentinel = ErrAccessDenied
	case code == http.StatusTooManyRequests:
		sentinel = ErrThrottled
	case code == 449:
		sentinel = ErrProvisioningRequired
	case code == http.StatusServiceUnavailable:
		sentinel = ErrUnavailable
	case code >= 500:
		sentinel = ErrServerFault
	default:
		sentinel = ErrUnexpectedStatus
	}

	se := &StatusError{Code: resp.StatusCode, Err: sentinel, BodyPreview: preview(resp.Body)}
	if sentinel == ErrServerFault {
		se.Fault = faultString(resp.Body)
	}
	return se
}

func preview(b []byte) string {
	if !utf8.Valid(b) {
		return ""
	}
	s := string(b)
	if len(s) > previewLimit {
		s = s[:previewLimit]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}

// faultString returns the text of the first faultstring element in b.
func faultString(b []byte) string {
	if len(b) == 0 || !utf8.Valid(b) {
		return ""
	}
	dec := xml.NewDecoder(bytes.NewReader(b))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var in bool
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.StartElement:
			in = strings.EqualFold(t.Name.Local, "faultstring")
		case xml.CharData:
			if in {
				sb.Write(t)
			}
		case xml.EndElement:
			if in {
				return strings.TrimSpace(sb.String())
			}
		}
	}
}
