package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/davronov/qrdesk/internal/validation"
)

// Kind discriminates the content union. A QR code carries exactly one
// variant at a time; replacing content swaps the whole payload.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindText    Kind = "text"
	KindLink    Kind = "link"
	KindFile    Kind = "file"
	KindContact Kind = "contact"
)

// Field length limits shared by client forms and server-side validation.
const (
	MaxTextLen        = 5000
	MaxDescriptionLen = 500
	MaxLinkTitleLen   = 200
	MaxContactNameLen = 100
	MaxCompanyLen     = 100
	MaxAddressLen     = 200
	MaxNoteLen        = 300
)

var (
	ErrTextRequired        = errors.New("text is required")
	ErrTextTooLong         = fmt.Errorf("text must be at most %d characters", MaxTextLen)
	ErrDescriptionTooLong  = fmt.Errorf("description must be at most %d characters", MaxDescriptionLen)
	ErrURLRequired         = errors.New("url is required")
	ErrURLInvalid          = errors.New("url format is invalid")
	ErrLinkTitleTooLong    = fmt.Errorf("link title must be at most %d characters", MaxLinkTitleLen)
	ErrFileRequired        = errors.New("a file is required")
	ErrContactNameRequired = errors.New("contact name is required")
	ErrContactNameTooLong  = fmt.Errorf("contact name must be at most %d characters", MaxContactNameLen)
	ErrPhoneInvalid        = errors.New("phone format is invalid")
	ErrEmailInvalid        = errors.New("email format is invalid")
	ErrWebsiteInvalid      = errors.New("website format is invalid")
	ErrCompanyTooLong      = fmt.Errorf("company must be at most %d characters", MaxCompanyLen)
	ErrAddressTooLong      = fmt.Errorf("address must be at most %d characters", MaxAddressLen)
	ErrNoteTooLong         = fmt.Errorf("note must be at most %d characters", MaxNoteLen)
	ErrUnknownKind         = errors.New("unknown content type")
)

// ValidKind reports whether k is one of the four editable variants.
func ValidKind(k Kind) bool {
	switch k {
	case KindText, KindLink, KindFile, KindContact:
		return true
	}
	return false
}

// Payload is one concrete variant of the content union.
type Payload interface {
	Kind() Kind
	Validate() error
}

// fieldErrors folds per-field failures into one error. A lone failure
// stays its sentinel so callers can compare directly; several surface
// together, one message per line.
func fieldErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errors.Join(errs...)
}

type TextPayload struct {
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
}

func (TextPayload) Kind() Kind { return KindText }

func (p TextPayload) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Text) == "" {
		errs = append(errs, ErrTextRequired)
	} else if len(p.Text) > MaxTextLen {
		errs = append(errs, ErrTextTooLong)
	}
	if len(p.Description) > MaxDescriptionLen {
		errs = append(errs, ErrDescriptionTooLong)
	}
	return fieldErrors(errs)
}

type LinkPayload struct {
	URL         string `json:"url"`
	LinkTitle   string `json:"linkTitle,omitempty"`
	Description string `json:"description,omitempty"`
}

func (LinkPayload) Kind() Kind { return KindLink }

// Normalize coerces a loosely formatted URL (bare domain, email,
// phone number) into a proper URI. Must run before Validate.
func (p *LinkPayload) Normalize() {
	p.URL = validation.NormalizeURL(strings.TrimSpace(p.URL))
}

func (p LinkPayload) Validate() error {
	var errs []error
	if strings.TrimSpace(p.URL) == "" {
		errs = append(errs, ErrURLRequired)
	} else if !validation.ValidateURL(p.URL) {
		errs = append(errs, ErrURLInvalid)
	}
	if len(p.LinkTitle) > MaxLinkTitleLen {
		errs = append(errs, ErrLinkTitleTooLong)
	}
	if len(p.Description) > MaxDescriptionLen {
		errs = append(errs, ErrDescriptionTooLong)
	}
	return fieldErrors(errs)
}

type FilePayload struct {
	OriginalName string `json:"originalName"`
	FilePath     string `json:"filePath"`
	FileSize     int64  `json:"fileSize"`
	MimeType     string `json:"mimeType,omitempty"`
	Description  string `json:"description,omitempty"`
}

func (FilePayload) Kind() Kind { return KindFile }

func (p FilePayload) Validate() error {
	// Either a fresh upload or a previously stored file must back the
	// payload; both leave a non-empty path behind.
	var errs []error
	if p.FilePath == "" {
		errs = append(errs, ErrFileRequired)
	}
	if len(p.Description) > MaxDescriptionLen {
		errs = append(errs, ErrDescriptionTooLong)
	}
	return fieldErrors(errs)
}

type ContactPayload struct {
	ContactName string `json:"contactName"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company,omitempty"`
	Website     string `json:"website,omitempty"`
	Address     string `json:"address,omitempty"`
	Note        string `json:"note,omitempty"`
	Description string `json:"description,omitempty"`
}

func (ContactPayload) Kind() Kind { return KindContact }

// Normalize trims fields and coerces the website into a URI.
func (p *ContactPayload) Normalize() {
	p.ContactName = strings.TrimSpace(p.ContactName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.Company = strings.TrimSpace(p.Company)
	p.Address = strings.TrimSpace(p.Address)
	p.Note = strings.TrimSpace(p.Note)
	if website := strings.TrimSpace(p.Website); website != "" {
		p.Website = validation.NormalizeURL(website)
	} else {
		p.Website = ""
	}
}

func (p ContactPayload) Validate() error {
	var errs []error
	if strings.TrimSpace(p.ContactName) == "" {
		errs = append(errs, ErrContactNameRequired)
	} else if len(p.ContactName) > MaxContactNameLen {
		errs = append(errs, ErrContactNameTooLong)
	}
	if p.Phone != "" && !validation.ValidatePhone(p.Phone) {
		errs = append(errs, ErrPhoneInvalid)
	}
	if p.Email != "" && !validation.ValidateEmail(p.Email) {
		errs = append(errs, ErrEmailInvalid)
	}
	if p.Website != "" && !validation.ValidateURL(p.Website) {
		errs = append(errs, ErrWebsiteInvalid)
	}
	if len(p.Company) > MaxCompanyLen {
		errs = append(errs, ErrCompanyTooLong)
	}
	if len(p.Address) > MaxAddressLen {
		errs = append(errs, ErrAddressTooLong)
	}
	if len(p.Note) > MaxNoteLen {
		errs = append(errs, ErrNoteTooLong)
	}
	if len(p.Description) > MaxDescriptionLen {
		errs = append(errs, ErrDescriptionTooLong)
	}
	return fieldErrors(errs)
}

// Content is the tagged union a QR code carries. The zero value is the
// empty variant.
type Content struct {
	payload Payload
}

func Empty() Content { return Content{} }

// New wraps a validated payload. The payload must already be normalized.
func New(p Payload) (Content, error) {
	if p == nil {
		return Content{}, nil
	}
	if err := p.Validate(); err != nil {
		return Content{}, err
	}
	return Content{payload: p}, nil
}

func (c Content) Kind() Kind {
	if c.payload == nil {
		return KindEmpty
	}
	return c.payload.Kind()
}

func (c Content) IsEmpty() bool { return c.payload == nil }

// Payload returns the active variant, nil for empty content.
func (c Content) Payload() Payload { return c.payload }

// Normalized returns the content with its payload normalized. Only the
// variants carrying URLs or free-form contact fields have anything to
// normalize.
func (c Content) Normalized() Content {
	switch p := c.payload.(type) {
	case LinkPayload:
		p.Normalize()
		return Content{payload: p}
	case ContactPayload:
		p.Normalize()
		return Content{payload: p}
	}
	return c
}

func (c Content) Validate() error {
	if c.payload == nil {
		return nil
	}
	return c.payload.Validate()
}

// envelope is the wire shape: variant fields flattened next to the tag.
// Spelled out field by field because the variants share a description
// key that embedded structs would shadow.
type envelope struct {
	Type         Kind   `json:"type"`
	Text         string `json:"text"`
	URL          string `json:"url"`
	LinkTitle    string `json:"linkTitle"`
	OriginalName string `json:"originalName"`
	FilePath     string `json:"filePath"`
	FileSize     int64  `json:"fileSize"`
	MimeType     string `json:"mimeType"`
	ContactName  string `json:"contactName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	Note         string `json:"note"`
	Description  string `json:"description"`
}

func (c Content) MarshalJSON() ([]byte, error) {
	switch p := c.payload.(type) {
	case nil:
		return json.Marshal(struct {
			Type Kind `json:"type"`
		}{KindEmpty})
	case TextPayload:
		return marshalTagged(KindText, p)
	case LinkPayload:
		return marshalTagged(KindLink, p)
	case FilePayload:
		return marshalTagged(KindFile, p)
	case ContactPayload:
		return marshalTagged(KindContact, p)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, c.payload)
	}
}

func marshalTagged(kind Kind, payload any) ([]byte, error) {
	fields, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(fields, &m); err != nil {
		return nil, err
	}
	m["type"] = kind

	return json.Marshal(m)
}

// UnmarshalJSON rebuilds the union from its tag. A missing, empty or
// unknown tag decodes to the empty variant; shape absorption beyond that
// is the normalizer's job.
func (c *Content) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Type {
	case KindText:
		c.payload = TextPayload{
			Text:        env.Text,
			Description: env.Description,
		}
	case KindLink:
		c.payload = LinkPayload{
			URL:         env.URL,
			LinkTitle:   env.LinkTitle,
			Description: env.Description,
		}
	case KindFile:
		c.payload = FilePayload{
			OriginalName: env.OriginalName,
			FilePath:     env.FilePath,
			FileSize:     env.FileSize,
			MimeType:     env.MimeType,
			Description:  env.Description,
		}
	case KindContact:
		c.payload = ContactPayload{
			ContactName: env.ContactName,
			Phone:       env.Phone,
			Email:       env.Email,
			Company:     env.Company,
			Website:     env.Website,
			Address:     env.Address,
			Note:        env.Note,
			Description: env.Description,
		}
	default:
		c.payload = nil
	}
	return nil
}
