package validation

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@b.com",
		"user.name@example.co.uk",
		"admin+tag@qr.uz",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected '%s' to be valid", email)
		}
	}

	invalid := []string{
		"",
		"a@b",
		"no-at-sign.com",
		"two@@signs.com",
		"spaces in@mail.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected '%s' to be invalid", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"+998 90 123 45 67",
		"998901234567",
		"(90) 123-45-67",
		"1234567",
	}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("expected '%s' to be valid", phone)
		}
	}

	invalid := []string{
		"",
		"123",
		"123456", // one digit short
		"phone123456789",
		"+9989x1234567",
	}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("expected '%s' to be invalid", phone)
		}
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"mailto:user@example.com",
		"tel:998901234567",
		"ftp://files.example.com",
	}
	for _, u := range valid {
		if !ValidateURL(u) {
			t.Errorf("expected '%s' to be valid", u)
		}
	}

	invalid := []string{
		"",
		"javascript:alert(1)",
		"data:text/html,hi",
		"https://", // no host
		"ftp://",   // no host
		"not a url",
	}
	for _, u := range invalid {
		if ValidateURL(u) {
			t.Errorf("expected '%s' to be invalid", u)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"user@x.com", "mailto:user@x.com"},
		{"+998901234567", "tel:998901234567"},
		{"+998 90 123-45-67", "tel:998901234567"},
		{"998901234567", "tel:998901234567"},
		{"https://a.com", "https://a.com"},
		{"http://a.com", "http://a.com"},
		{"mailto:user@x.com", "mailto:user@x.com"},
		{"tel:998901234567", "tel:998901234567"},
		{"ftp://files.a.com", "ftp://files.a.com"},
		{"", ""},
	}

	for _, c := range cases {
		if got := NormalizeURL(c.in); got != c.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeThenValidate(t *testing.T) {
	// Normalization must always run before URL validation for
	// link and website inputs.
	inputs := []string{
		"example.com",
		"user@x.com",
		"+998 90 123 45 67",
		"https://already.ok",
	}
	for _, in := range inputs {
		if !ValidateURL(NormalizeURL(in)) {
			t.Errorf("expected normalized '%s' to validate", in)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	max := int64(10 * 1024 * 1024)

	if !ValidateFileSize(max, max) {
		t.Error("expected size exactly at the limit to be valid")
	}
	if ValidateFileSize(max+1, max) {
		t.Error("expected size above the limit to be invalid")
	}
	if ValidateFileSize(0, max) {
		t.Error("expected zero size to be invalid")
	}
	if ValidateFileSize(-1, max) {
		t.Error("expected negative size to be invalid")
	}
}

func TestValidateFileType(t *testing.T) {
	allowed := []string{"image/png", "application/pdf"}

	if !ValidateFileType("image/png", allowed) {
		t.Error("expected image/png to be allowed")
	}
	if !ValidateFileType("APPLICATION/PDF", allowed) {
		t.Error("expected type match to be case-insensitive")
	}
	if ValidateFileType("application/x-sh", allowed) {
		t.Error("expected application/x-sh to be rejected")
	}
	if ValidateFileType("", allowed) {
		t.Error("expected empty type to be rejected")
	}
}
