package wbxml

// Header values written by the encoder.
const (
	Version         byte = 0x03
	PublicIDUnknown byte = 0x01
	CharsetUTF8     byte = 0x6A
)

// Global tokens (WBXML 1.3 §7.1). Only SWITCH_PAGE, END, STR_I, STR_T and
// OPAQUE are handled; the others are rejected by the decoder.
const (
	tokenSwitchPage byte = 0x00
	tokenEnd        byte = 0x01
	tokenEntity     byte = 0x02
	tokenStrI       byte = 0x03
	tokenLiteral    byte = 0x04
	tokenPI         byte = 0x43
	tokenStrT       byte = 0x83
	tokenOpaque     byte = 0xC3
)

// Tag byte layout: the low six bits carry the code, the two high bits flag
// content and attributes.
const (
	tagCodeMask      byte = 0x3F
	tagHasContent    byte = 0x40
	tagHasAttributes byte = 0x80
	minTagCode       byte = 0x05
)

// isGlobalToken reports whether b is one of the reserved global tokens.
// Every byte whose code bits are below 0x05 is reserved, whatever its flags.
func isGlobalToken(b byte) bool {
	return b&tagCodeMask < minTagCode
}
