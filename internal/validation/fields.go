package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// Field validators are total functions: any input, including empty
// strings, yields a plain true/false and never a panic. Callers decide
// whether an empty optional field skips validation.

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	digitRegex = regexp.MustCompile(`\D`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// allowedSchemes are the only URL schemes a QR code may point at.
// Anything else (javascript:, data:, ...) is rejected.
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
	"ftp":    true,
}

// hostSchemes require a non-empty host to be usable.
var hostSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone accepts digits, spaces, +, - and parentheses, and
// requires at least 7 digits once separators are stripped.
func ValidatePhone(phone string) bool {
	if !phoneRegex.MatchString(phone) {
		return false
	}
	digits := digitRegex.ReplaceAllString(phone, "")
	return len(digits) >= 7
}

func ValidateURL(raw string) bool {
	if raw == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if !allowedSchemes[scheme] {
		return false
	}

	if hostSchemes[scheme] && u.Host == "" {
		return false
	}

	return true
}

func ValidateFileSize(size, maxBytes int64) bool {
	return size > 0 && size <= maxBytes
}

func ValidateFileType(mimeType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(t, mimeType) {
			return true
		}
	}
	return false
}

// NormalizeURL coerces loosely formatted user input into a URI before
// validation. Rules, in order: strings with @ become mailto:, phone-like
// strings become tel: with separators stripped, anything without a known
// scheme gets https://, everything else passes through unchanged.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "@") && !strings.HasPrefix(raw, "mailto:") {
		return "mailto:" + raw
	}

	stripped := phoneSeparators.Replace(raw)
	if strings.HasPrefix(raw, "+") || isDigitsOnly(stripped) {
		return "tel:" + strings.TrimPrefix(stripped, "+") // tel: carries bare digits
	}

	if !hasKnownScheme(raw) {
		return "https://" + raw
	}

	return raw
}

func hasKnownScheme(raw string) bool {
	for scheme := range allowedSchemes {
		if strings.HasPrefix(raw, scheme+":") {
			return true
		}
	}
	return false
}

func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
