package content

import (
	"encoding/json"
	"testing"
)

// Every backend shape for the same logical record must normalize to the
// same canonical Record.
func TestNormalizeEquivalentShapes(t *testing.T) {
	bodies := map[string]string{
		"wrapped, nested content": `{
			"success": true,
			"qr": {
				"id": "a1b2",
				"title": "Cafe menu",
				"isActive": true,
				"scanCount": 42,
				"currentContent": {"type": "file", "originalName": "menu.pdf", "filePath": "uploads/menu.pdf", "fileSize": 1024}
			}
		}`,
		"direct, nested content": `{
			"id": "a1b2",
			"title": "Cafe menu",
			"isActive": true,
			"scanCount": 42,
			"currentContent": {"type": "file", "originalName": "menu.pdf", "filePath": "uploads/menu.pdf", "fileSize": 1024}
		}`,
		"direct, flattened, fileName alias": `{
			"_id": "a1b2",
			"title": "Cafe menu",
			"status": "active",
			"scanCount": 42,
			"contentType": "file",
			"fileName": "menu.pdf",
			"filePath": "uploads/menu.pdf",
			"fileSize": 1024
		}`,
	}

	want := Record{
		ID:           "a1b2",
		Title:        "Cafe menu",
		IsActive:     true,
		ScanCount:    42,
		ContentType:  KindFile,
		OriginalName: "menu.pdf",
		FilePath:     "uploads/menu.pdf",
		FileSize:     1024,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizeJSON([]byte(body))
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("got %+v\nwant %+v", got, want)
			}
		})
	}
}

// Normalizing an already canonical record is a no-op, so layered calls
// never change the result.
func TestNormalizeIdempotent(t *testing.T) {
	records := []Record{
		{
			ID: "q1", Title: "Sign", IsActive: true, ScanCount: 7,
			ContentType: KindText, Text: "welcome", ContentDescription: "front door",
		},
		{
			ID: "q2", Title: "Card", IsActive: false,
			ContentType: KindContact, ContactName: "Aziz Karimov", Phone: "+998901234567",
		},
		{
			// Empty content: the editing default stays text and the
			// record stays empty through a round trip.
			ID: "q3", Title: "Fresh", IsActive: true, ContentType: KindText,
		},
	}

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatal(err)
		}
		again, err := NormalizeJSON(data)
		if err != nil {
			t.Fatal(err)
		}
		if again != rec {
			t.Errorf("renormalize changed record:\ngot  %+v\nwant %+v", again, rec)
		}
		if again.IsContentEmpty() != rec.IsContentEmpty() {
			t.Errorf("%s: emptiness flipped across round trip", rec.ID)
		}
	}
}

func TestNormalizeIDPreference(t *testing.T) {
	got := Normalize(map[string]any{"id": "canonical", "_id": "legacy"})
	if got.ID != "canonical" {
		t.Errorf("id = %q, want canonical", got.ID)
	}

	got = Normalize(map[string]any{"_id": "legacy"})
	if got.ID != "legacy" {
		t.Errorf("id = %q, want legacy fallback", got.ID)
	}
}

func TestNormalizeUnknownContentDefaultsToText(t *testing.T) {
	got := Normalize(map[string]any{
		"id":             "q9",
		"currentContent": map[string]any{"type": "hologram"},
	})
	if got.ContentType != KindText {
		t.Errorf("contentType = %v, want text", got.ContentType)
	}
	if !got.IsContentEmpty() {
		t.Error("unknown content should read as empty")
	}
}

func TestNormalizeMistypedFields(t *testing.T) {
	// Garbage never panics and never leaks through; it zeroes out.
	got := Normalize(map[string]any{
		"id":        17,
		"title":     map[string]any{"nested": true},
		"scanCount": "many",
		"isActive":  "yes",
		"createdAt": "not a date",
	})
	if got.ID != "" || got.Title != "" || got.ScanCount != 0 {
		t.Errorf("mistyped fields should zero: %+v", got)
	}
	if !got.IsActive {
		t.Error("unparseable active flag should default to active")
	}
	if !got.CreatedAt.IsZero() {
		t.Errorf("createdAt = %v, want zero", got.CreatedAt)
	}
}

func TestIsContentEmpty(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"text populated", Record{ContentType: KindText, Text: "hi"}, false},
		{"text blank", Record{ContentType: KindText}, true},
		{"link populated", Record{ContentType: KindLink, URL: "https://x.uz"}, false},
		{"file by path", Record{ContentType: KindFile, FilePath: "uploads/a.pdf"}, false},
		{"file blank", Record{ContentType: KindFile}, true},
		{"contact populated", Record{ContentType: KindContact, ContactName: "Aziz"}, false},
		{"no type at all", Record{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.IsContentEmpty(); got != tt.want {
				t.Errorf("IsContentEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordPayloadRebuildsVariant(t *testing.T) {
	rec := Record{
		ContentType: KindLink,
		URL:         "https://example.com",
		LinkTitle:   "Example",
	}
	p, ok := rec.Payload().(LinkPayload)
	if !ok {
		t.Fatalf("payload = %T, want LinkPayload", rec.Payload())
	}
	if p.URL != rec.URL || p.LinkTitle != rec.LinkTitle {
		t.Errorf("payload = %+v", p)
	}

	if (Record{ContentType: KindText}).Payload() != nil {
		t.Error("empty record should have nil payload")
	}
}
