package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

// Parse reads doc as the response to the command named by kind.
func Parse(kind ResponseKind, doc string) (*Response, error) {
	p, err := newParser(kind)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = true
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t.Name.Local); err != nil {
				return nil, err
			}
		case xml.EndElement:
			p.end(t.Name.Local)
		case xml.CharData:
			if p.skip == 0 {
				p.text.Write(t)
			}
		}
	}
	if !p.rooted {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	return p.resp, nil
}

// parser holds the builders of the records currently open. The container that
// owns a builder is the element that created it.
type parser struct {
	kind   ResponseKind
	resp   *Response
	stack  []string
	text   strings.Builder
	rooted bool
	skip   int

	folder   *models.Folder
	event    *eventBuilder
	attendee *models.AttendeeFields
	recur    *models.RecurrenceFields
	deleting bool
}

type eventBuilder struct {
	fields         models.EventFields
	organizerEmail string
	organizerName  string
}

func newParser(kind ResponseKind) (*parser, error) {
	resp := &Response{Kind: kind}
	switch kind {
	case KindFolderSync:
		resp.FolderSync = &models.FolderChanges{}
	case KindSync:
		resp.Sync = &models.SyncResult{}
	case KindProvision:
		resp.Provision = &ProvisionResult{}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	return &parser{kind: kind, resp: resp}, nil
}

// skipped subtrees carry data the client never uses and reuse field names
// that would otherwise overwrite the enclosing record.
var skipped = map[string]bool{
	"Exceptions": true,
	"Responses":  true,
	"TimeZone":   true,
}

func (p *parser) parent() string {
	if n := len(p.stack); n > 0 {
		return p.stack[n-1]
	}
	return ""
}

func (p *parser) start(name string) error {
	if p.skip > 0 {
		p.skip++
		return nil
	}
	if !p.rooted {
		if name != p.kind.String() {
			return fmt.Errorf("%w: <%s> for %s", ErrUnexpectedRoot, name, p.kind)
		}
		p.rooted = true
	}
	if skipped[name] {
		p.skip = 1
		return nil
	}

	parent := p.parent()
	p.stack = append(p.stack, name)
	p.text.Reset()

	switch p.kind {
	case KindFolderSync:
		if parent == "Changes" {
			switch name {
			case "Add", "Update":
				p.folder = &models.Folder{}
			case "Delete":
				p.deleting = true
			}
		}
	case KindSync:
		switch {
		case parent == "Commands" && (name == "Add" || name == "Change"):
			p.event = &eventBuilder{}
		case parent == "Commands" && (name == "Delete" || name == "SoftDelete"):
			p.deleting = true
		case p.event != nil && name == "Attendee":
			p.attendee = &models.AttendeeFields{}
		case p.event != nil && name == "Recurrence":
			p.recur = &models.RecurrenceFields{}
		}
	}
	return nil
}

func (p *parser) end(name string) {
	if p.skip > 0 {
		p.skip--
		return
	}
	if len(p.stack) == 0 {
		return
	}
	p.stack = p.stack[:len(p.stack)-1]
	parent := p.parent()
	text := strings.TrimSpace(p.text.String())
	p.text.Reset()

	switch p.kind {
	case KindFolderSync:
		p.endFolderSync(name, parent, text)
	case KindSync:
		p.endSync(name, parent, text)
	case KindProvision:
		p.endProvision(name, parent, text)
	}
}

func (p *parser) endFolderSync(name, parent, text string) {
	fs := p.resp.FolderSync
	switch {
	case name == "Status" && parent == "FolderSync":
		fs.Status = atoi(text)
	case name == "SyncKey" && parent == "FolderSync":
		fs.Cursor = text
	case p.folder != nil && (name == "Add" || name == "Update"):
		if p.folder.ServerID != "" {
			if name == "Add" {
				fs.Added = append(fs.Added, *p.folder)
			} else {
				fs.Updated = append(fs.Updated, *p.folder)
			}
		}
		p.folder = nil
	case p.folder != nil:
		switch name {
		case "ServerId":
			p.folder.ServerID = text
		case "ParentId":
			p.folder.ParentID = text
		case "DisplayName":
			p.folder.DisplayName = text
		case "Type":
			p.folder.Type = models.FolderTypeFromCode(atoi(text))
		}
	case p.deleting && name == "ServerId":
		if text != "" {
			fs.DeletedID = append(fs.DeletedID, text)
		}
	case p.deleting && name == "Delete":
		p.deleting = false
	}
}

func (p *parser) endSync(name, parent, text string) {
	res := p.resp.Sync
	switch {
	case name == "Status" && (parent == "Collection" || (parent == "Sync" && res.Status == 0)):
		res.Status = atoi(text)
	case name == "SyncKey" && parent == "Collection":
		res.NewCursor = text
	case name == "CollectionId" && parent == "Collection":
		p.resp.CollectionID = text
	case name == "MoreAvailable" && parent == "Collection":
		res.MoreAvailable = true

	case p.deleting:
		switch name {
		case "ServerId":
			if text != "" {
				res.DeletedIDs = append(res.DeletedIDs, text)
			}
		case "Delete", "SoftDelete":
			p.deleting = false
		}

	case p.attendee != nil:
		p.attendeeField(name, text)
	case p.recur != nil:
		p.recurrenceField(name, text)
	case p.event != nil:
		p.eventField(name, parent, text)
	}
}

func (p *parser) attendeeField(name, text string) {
	a := p.attendee
	switch name {
	case "Email":
		a.Email = text
	case "Name":
		a.Name = text
	case "AttendeeType":
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= 3 {
			a.Type = models.AttendeeType(n)
		}
	case "AttendeeStatus":
		if n, err := strconv.Atoi(text); err == nil {
			st := models.ResponseStatusFromCode(n)
			a.Status = &st
		}
	case "Attendee":
		built, err := a.Build()
		if err != nil {
			p.resp.DroppedAttendees++
		} else {
			p.event.fields.Attendees = append(p.event.fields.Attendees, built)
		}
		p.attendee = nil
	}
}

func (p *parser) recurrenceField(name, text string) {
	r := p.recur
	switch name {
	case "Type":
		if n, err := strconv.Atoi(text); err == nil {
			r.TypeCode = &n
		}
	case "Interval":
		r.Interval = atoi(text)
	case "DayOfWeek":
		if n, err := strconv.Atoi(text); err == nil {
			r.DayOfWeek = &n
		}
	case "DayOfMonth":
		if n, err := strconv.Atoi(text); err == nil {
			r.DayOfMonth = &n
		}
	case "Until":
		if t, ok := parseTime(text); ok {
			r.Until = &t
		}
	case "Recurrence":
		if built, err := r.Build(); err == nil {
			p.event.fields.Recurrence = &built
		}
		p.recur = nil
	}
}

func (p *parser) eventField(name, parent, text string) {
	b := p.event
	f := &b.fields
	switch name {
	case "ServerId":
		if parent == "Add" || parent == "Change" {
			f.ID = text
		}
	case "UID":
		f.UID = text
	case "Subject":
		f.Subject = text
	case "Location":
		f.Location = text
	case "StartTime":
		if t, ok := parseTime(text); ok {
			f.Start = &t
		}
	case "EndTime":
		if t, ok := parseTime(text); ok {
			f.End = &t
		}
	case "AllDayEvent":
		f.AllDay = text == "1"
	case "OrganizerEmail":
		b.organizerEmail = text
	case "OrganizerName":
		b.organizerName = text
	case "Data":
		if parent == "Body" {
			f.Body = text
		}
	case "Body":
		if text != "" {
			f.Body = text
		}
	case "Add", "Change":
		p.finishEvent()
	}
}

func (p *parser) finishEvent() {
	b := p.event
	p.event = nil
	if b.organizerEmail != "" {
		st := models.ResponseOrganizer
		org, err := models.AttendeeFields{Email: b.organizerEmail, Name: b.organizerName, Status: &st}.Build()
		if err == nil {
			b.fields.Organizer = &org
		}
	}
	ev, err := b.fields.Build()
	if err != nil {
		p.resp.DroppedEvents++
		return
	}
	p.resp.Sync.Updated = append(p.resp.Sync.Updated, ev)
}

func (p *parser) endProvision(name, parent, text string) {
	pr := p.resp.Provision
	switch {
	case name == "Status" && parent == "Provision":
		pr.Status = atoi(text)
	case name == "Status" && parent == "Policy":
		pr.PolicyStatus = atoi(text)
	case name == "PolicyType" && parent == "Policy":
		pr.PolicyType = text
	case name == "PolicyKey" && parent == "Policy":
		pr.PolicyKey = text
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

var timeLayouts = []string{
	"20060102T150405Z",
	time.RFC3339Nano,
}

// parseTime accepts the compact and the extended UTC timestamp forms.
func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
