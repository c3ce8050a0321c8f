package content

import (
	"encoding/json"
	"time"
)

// Record is the canonical flat shape every screen and form consumes.
// The backend is not consistent about how it returns a QR code: single
// records arrive wrapped in {success, qr}, list items arrive direct,
// content is sometimes nested under currentContent and sometimes
// flattened, and the stored file name travels as originalName or
// fileName depending on the endpoint. Normalize absorbs all of that
// here so nothing else in the system branches on response shape.
type Record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	ScanCount   int64     `json:"scanCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// ContentType is the editing default: text when the stored content
	// is empty or unknown. Emptiness is answered by IsContentEmpty, not
	// by this field.
	ContentType Kind `json:"contentType"`

	Text               string `json:"text,omitempty"`
	URL                string `json:"url,omitempty"`
	LinkTitle          string `json:"linkTitle,omitempty"`
	OriginalName       string `json:"originalName,omitempty"`
	FilePath           string `json:"filePath,omitempty"`
	FileSize           int64  `json:"fileSize,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
	ContactName        string `json:"contactName,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	Company            string `json:"company,omitempty"`
	Website            string `json:"website,omitempty"`
	Address            string `json:"address,omitempty"`
	Note               string `json:"note,omitempty"`
	ContentDescription string `json:"contentDescription,omitempty"`

	ScanURL    string `json:"scanUrl,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	QRImageURL string `json:"qrImageUrl,omitempty"`
}

// Normalize maps a raw decoded response object to the canonical Record.
// Pure and total: missing or mistyped values become zero values, and
// normalizing an already canonical record is a no-op.
func Normalize(raw map[string]any) Record {
	if raw == nil {
		return Record{ContentType: KindText}
	}

	// Unwrap {success, qr: {...}} envelopes.
	if qr, ok := raw["qr"].(map[string]any); ok {
		raw = qr
	}

	rec := Record{
		Title:       asString(raw["title"]),
		Description: asString(raw["description"]),
		ScanCount:   asInt64(raw["scanCount"]),
		CreatedAt:   asTime(raw["createdAt"], raw["createdDate"]),
		UpdatedAt:   asTime(raw["updatedAt"], raw["lastModified"]),
		ScanURL:     asString(raw["scanUrl"]),
		PreviewURL:  asString(raw["previewUrl"]),
		QRImageURL:  asString(raw["qrImageUrl"]),
	}

	// One canonical id. Legacy responses carried _id; nothing downstream
	// ever falls back to it again.
	rec.ID = asString(raw["id"])
	if rec.ID == "" {
		rec.ID = asString(raw["_id"])
	}

	rec.IsActive = normalizeActive(raw)

	fields := raw
	kind := Kind(asString(raw["contentType"]))
	if cc, ok := raw["currentContent"].(map[string]any); ok {
		fields = cc
		kind = Kind(asString(cc["type"]))
		if kind == "" {
			kind = Kind(asString(cc["contentType"]))
		}
	}

	rec.Text = asString(fields["text"])
	rec.URL = asString(fields["url"])
	rec.LinkTitle = asString(fields["linkTitle"])
	rec.FilePath = asString(fields["filePath"])
	rec.FileSize = asInt64(fields["fileSize"])
	rec.MimeType = asString(fields["mimeType"])
	rec.ContactName = asString(fields["contactName"])
	rec.Phone = asString(fields["phone"])
	rec.Email = asString(fields["email"])
	rec.Company = asString(fields["company"])
	rec.Website = asString(fields["website"])
	rec.Address = asString(fields["address"])
	rec.Note = asString(fields["note"])

	rec.OriginalName = asString(fields["originalName"])
	if rec.OriginalName == "" {
		rec.OriginalName = asString(fields["fileName"])
	}

	if _, nested := raw["currentContent"]; nested {
		rec.ContentDescription = asString(fields["description"])
	} else {
		rec.ContentDescription = asString(raw["contentDescription"])
	}

	if ValidKind(kind) {
		rec.ContentType = kind
	} else {
		// Unknown or empty content still needs a form to edit it in.
		rec.ContentType = KindText
	}

	return rec
}

// NormalizeJSON decodes a response body and normalizes it.
func NormalizeJSON(data []byte) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, err
	}
	return Normalize(raw), nil
}

// IsContentEmpty reports whether the record has no usable content: the
// variant's required field decides, so a defaulted ContentType does not
// make an empty record look populated.
func (r Record) IsContentEmpty() bool {
	switch r.ContentType {
	case KindText:
		return r.Text == ""
	case KindLink:
		return r.URL == ""
	case KindFile:
		return r.FilePath == "" && r.OriginalName == ""
	case KindContact:
		return r.ContactName == ""
	default:
		return true
	}
}

// Payload rebuilds the content union from the flattened fields, nil
// when the record has no content.
func (r Record) Payload() Payload {
	if r.IsContentEmpty() {
		return nil
	}

	switch r.ContentType {
	case KindText:
		return TextPayload{Text: r.Text, Description: r.ContentDescription}
	case KindLink:
		return LinkPayload{URL: r.URL, LinkTitle: r.LinkTitle, Description: r.ContentDescription}
	case KindFile:
		return FilePayload{
			OriginalName: r.OriginalName,
			FilePath:     r.FilePath,
			FileSize:     r.FileSize,
			MimeType:     r.MimeType,
			Description:  r.ContentDescription,
		}
	case KindContact:
		return ContactPayload{
			ContactName: r.ContactName,
			Phone:       r.Phone,
			Email:       r.Email,
			Company:     r.Company,
			Website:     r.Website,
			Address:     r.Address,
			Note:        r.Note,
			Description: r.ContentDescription,
		}
	}
	return nil
}

func normalizeActive(raw map[string]any) bool {
	if v, ok := raw["isActive"].(bool); ok {
		return v
	}
	if status := asString(raw["status"]); status != "" {
		return status == "active"
	}
	// A record that reports neither field was never soft-deleted.
	return true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}

func asTime(values ...any) time.Time {
	for _, v := range values {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
