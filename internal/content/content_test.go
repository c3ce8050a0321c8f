package content

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestContentRoundTrip(t *testing.T) {
	payloads := []Payload{
		TextPayload{Text: "opening hours: 9-18", Description: "storefront sign"},
		LinkPayload{URL: "https://example.com/menu", LinkTitle: "Menu"},
		FilePayload{OriginalName: "brochure.pdf", FilePath: "uploads/abc123.pdf", FileSize: 48213, MimeType: "application/pdf"},
		ContactPayload{ContactName: "Aziz Karimov", Phone: "+998901234567", Email: "aziz@example.com", Company: "Karimov LLC"},
	}

	for _, p := range payloads {
		c, err := New(p)
		if err != nil {
			t.Fatalf("New(%v): %v", p.Kind(), err)
		}

		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("marshal %v: %v", p.Kind(), err)
		}

		var got Content
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %v: %v", p.Kind(), err)
		}
		if got.Kind() != p.Kind() {
			t.Errorf("kind = %v, want %v", got.Kind(), p.Kind())
		}
		if got.Payload() != p {
			t.Errorf("payload = %#v, want %#v", got.Payload(), p)
		}
	}
}

func TestContentTagDrivesVariant(t *testing.T) {
	// The same field set decodes to different variants depending on the
	// tag, and only the tagged variant's fields survive.
	body := `{"type":"text","text":"hello","url":"https://example.com","contactName":"Aziz"}`

	var c Content
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatal(err)
	}

	p, ok := c.Payload().(TextPayload)
	if !ok {
		t.Fatalf("payload = %T, want TextPayload", c.Payload())
	}
	if p.Text != "hello" {
		t.Errorf("text = %q, want %q", p.Text, "hello")
	}
}

func TestContentEmptyAndUnknownTags(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"type":""}`,
		`{"type":"empty"}`,
		`{"type":"video"}`,
	} {
		var c Content
		if err := json.Unmarshal([]byte(body), &c); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if !c.IsEmpty() {
			t.Errorf("%s: expected empty content, got %v", body, c.Kind())
		}
		if c.Kind() != KindEmpty {
			t.Errorf("%s: kind = %v, want empty", body, c.Kind())
		}
	}
}

func TestNewRejectsInvalidPayload(t *testing.T) {
	if _, err := New(TextPayload{Text: "   "}); err != ErrTextRequired {
		t.Errorf("blank text: err = %v, want ErrTextRequired", err)
	}
	if _, err := New(LinkPayload{URL: "not a url"}); err != ErrURLInvalid {
		t.Errorf("bad url: err = %v, want ErrURLInvalid", err)
	}
	if _, err := New(FilePayload{OriginalName: "a.pdf"}); err != ErrFileRequired {
		t.Errorf("missing path: err = %v, want ErrFileRequired", err)
	}
	if _, err := New(ContactPayload{Phone: "+998901234567"}); err != ErrContactNameRequired {
		t.Errorf("missing name: err = %v, want ErrContactNameRequired", err)
	}
}

func TestContactNameBoundary(t *testing.T) {
	atLimit := ContactPayload{ContactName: strings.Repeat("a", MaxContactNameLen)}
	if err := atLimit.Validate(); err != nil {
		t.Errorf("name at limit: %v", err)
	}

	overLimit := ContactPayload{ContactName: strings.Repeat("a", MaxContactNameLen+1)}
	if err := overLimit.Validate(); err != ErrContactNameTooLong {
		t.Errorf("name over limit: err = %v, want ErrContactNameTooLong", err)
	}
}

func TestContactOptionalFieldValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload ContactPayload
		wantErr error
	}{
		{"only name", ContactPayload{ContactName: "Aziz"}, nil},
		{"bad phone", ContactPayload{ContactName: "Aziz", Phone: "abc"}, ErrPhoneInvalid},
		{"bad email", ContactPayload{ContactName: "Aziz", Email: "no-at-sign"}, ErrEmailInvalid},
		{"bad website", ContactPayload{ContactName: "Aziz", Website: "not a site"}, ErrWebsiteInvalid},
		{"long note", ContactPayload{ContactName: "Aziz", Note: strings.Repeat("x", MaxNoteLen+1)}, ErrNoteTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.payload.Validate(); err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	p := ContactPayload{
		ContactName: strings.Repeat("a", MaxContactNameLen+1),
		Email:       "no-at-sign",
		Note:        strings.Repeat("x", MaxNoteLen+1),
	}

	err := p.Validate()
	if err == nil {
		t.Fatal("want error")
	}
	for _, want := range []error{ErrContactNameTooLong, ErrEmailInvalid, ErrNoteTooLong} {
		if !errors.Is(err, want) {
			t.Errorf("err %v should include %v", err, want)
		}
	}
	if lines := strings.Count(err.Error(), "\n"); lines != 2 {
		t.Errorf("got %d newlines in %q, want one message per field", lines, err.Error())
	}

	// A lone failure stays its sentinel.
	if err := (TextPayload{}).Validate(); err != ErrTextRequired {
		t.Errorf("err = %v, want ErrTextRequired", err)
	}
}

func TestLinkNormalizeThenValidate(t *testing.T) {
	p := LinkPayload{URL: "  example.com/path  "}
	p.Normalize()
	if p.URL != "https://example.com/path" {
		t.Fatalf("normalized url = %q", p.URL)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("validate after normalize: %v", err)
	}
}

func TestContactNormalizeTrimsAndFixesWebsite(t *testing.T) {
	p := ContactPayload{
		ContactName: "  Aziz Karimov ",
		Phone:       " +998901234567 ",
		Website:     "karimov.uz",
	}
	p.Normalize()

	if p.ContactName != "Aziz Karimov" {
		t.Errorf("name = %q", p.ContactName)
	}
	if p.Phone != "+998901234567" {
		t.Errorf("phone = %q", p.Phone)
	}
	if p.Website != "https://karimov.uz" {
		t.Errorf("website = %q", p.Website)
	}
}
