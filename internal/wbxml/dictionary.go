package wbxml

// Dictionary holds the static tag tables. It is immutable after construction
// and safe for concurrent use.
type Dictionary struct {
	names    map[Page]map[byte]string
	codes    map[Page]map[string]byte
	contexts map[string]Page
	priority []Page
}

var defaultDictionary = NewDictionary(DefaultPriority)

// DefaultDictionary returns the dictionary used by Encode and Decode.
func DefaultDictionary() *Dictionary {
	return defaultDictionary
}

// NewDictionary builds a dictionary over the built-in codepages that falls
// back to the pages in priority, in order, when a name cannot be resolved
// from its parent's page. Pages in priority that have no table are ignored.
func NewDictionary(priority []Page) *Dictionary {
	d := &Dictionary{
		names:    make(map[Page]map[byte]string, len(defaultTables)),
		codes:    make(map[Page]map[string]byte, len(defaultTables)),
		contexts: make(map[string]Page, len(contextPages)),
	}
	for page, table := range defaultTables {
		names := make(map[byte]string, len(table))
		codes := make(map[string]byte, len(table))
		for code, name := range table {
			names[code] = name
			codes[name] = code
		}
		d.names[page] = names
		d.codes[page] = codes
	}
	for name, page := range contextPages {
		d.contexts[name] = page
	}
	for _, page := range priority {
		if _, ok := d.codes[page]; ok {
			d.priority = append(d.priority, page)
		}
	}
	return d
}

// Name returns the element name for code in page.
func (d *Dictionary) Name(page Page, code byte) (string, bool) {
	table, ok := d.names[page]
	if !ok {
		return "", false
	}
	name, ok := table[code]
	return name, ok
}

// Code returns the code of name within page.
func (d *Dictionary) Code(page Page, name string) (byte, bool) {
	table, ok := d.codes[page]
	if !ok {
		return 0, false
	}
	code, ok := table[name]
	return code, ok
}

// ContextPage reports the page introduced by a namespace-switching element.
func (d *Dictionary) ContextPage(name string) (Page, bool) {
	page, ok := d.contexts[name]
	return page, ok
}

// Priority returns a copy of the fallback search order.
func (d *Dictionary) Priority() []Page {
	out := make([]Page, len(d.priority))
	copy(out, d.priority)
	return out
}

// Resolve finds the page and code for an element being opened.
//
// Search order:
//  1. the page bound to name in the context table, if any;
//  2. the page inherited from the enclosing element (when inherited is true);
//  3. the priority list.
//
// A name found nowhere yields an *UnknownTagError.
func (d *Dictionary) Resolve(name string, parent Page, inherited bool) (Page, byte, error) {
	if page, ok := d.contexts[name]; ok {
		if code, ok := d.Code(page, name); ok {
			return page, code, nil
		}
	}
	if inherited {
		if code, ok := d.Code(parent, name); ok {
			return parent, code, nil
		}
	}
	for _, page := range d.priority {
		if code, ok := d.Code(page, name); ok {
			return page, code, nil
		}
	}
	return 0, 0, &UnknownTagError{Name: name}
}
