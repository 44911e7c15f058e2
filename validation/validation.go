package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var validate = validator.New()

var (
	phoneStrip = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	phoneRe    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	vatStrip   = strings.NewReplacer(" ", "", "-", "", ".", "")
	vatRe      = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{2,13}$`)
)

// Format rules

func IsValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsValidURL accepts absolute http and https URLs only.
func IsValidURL(s string) bool {
	if validate.Var(s, "required,url") != nil {
		return false
	}
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsValidPhone accepts an optional leading "+" and 7 to 15 digits once
// spaces, dashes, dots and parentheses are removed.
func IsValidPhone(s string) bool {
	return phoneRe.MatchString(phoneStrip.Replace(strings.TrimSpace(s)))
}

// IsValidVATID accepts a two-letter country prefix followed by 2 to 13
// alphanumerics, case-insensitively and ignoring separators.
func IsValidVATID(s string) bool {
	return vatRe.MatchString(strings.ToUpper(vatStrip.Replace(strings.TrimSpace(s))))
}

func InRange(v, minVal, maxVal float64) bool {
	return v >= minVal && v <= maxVal
}

// CanonicalLanguage parses a BCP 47 code and returns its canonical form.
func CanonicalLanguage(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return "", false
	}
	return tag.String(), true
}

// Violations collects per-field error codes for a request body.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// The following only check non-empty values; pair with Required when mandatory.

func Email(field, value string, v Violations) {
	if value != "" && !IsValidEmail(value) {
		v[field] = "invalid_email"
	}
}

func URL(field, value string, v Violations) {
	if value != "" && !IsValidURL(value) {
		v[field] = "invalid_url"
	}
}

func Phone(field, value string, v Violations) {
	if value != "" && !IsValidPhone(value) {
		v[field] = "invalid_phone"
	}
}

func VATID(field, value string, v Violations) {
	if value != "" && !IsValidVATID(value) {
		v[field] = "invalid_vat_id"
	}
}

func LanguageCode(field, value string, v Violations) {
	if _, ok := CanonicalLanguage(value); !ok {
		v[field] = "invalid_language_code"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if !InRange(val, minVal, maxVal) {
		v[field] = "out_of_range"
	}
}
