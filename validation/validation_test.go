package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.com"))
	assert.True(t, IsValidEmail("first.last+tag@example.co.uk"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("a@"))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com"))
	assert.True(t, IsValidURL("http://example.com/path?q=1"))
	assert.False(t, IsValidURL("example.com"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL(""))
}

func TestIsValidPhone(t *testing.T) {
	cases := map[string]bool{
		"+33 1 23 45 67 89": true,
		"(555) 123-4567":    true,
		"+1.555.123.4567":   true,
		"12345":             false,
		"phone":             false,
		"":                  false,
		"+12345678901234567": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidPhone(in), in)
	}
}

func TestIsValidVATID(t *testing.T) {
	cases := map[string]bool{
		"FR12345678901":  true,
		"fr 123 456 789": true,
		"DE-123456789":   true,
		"GB999999973":    true,
		"123456789":      false,
		"F1234":          false,
		"":               false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidVATID(in), in)
	}
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(5, 0, 10))
	assert.True(t, InRange(0, 0, 10))
	assert.True(t, InRange(10, 0, 10))
	assert.False(t, InRange(-0.01, 0, 10))
	assert.False(t, InRange(10.5, 0, 10))
}

func TestCanonicalLanguage(t *testing.T) {
	got, ok := CanonicalLanguage("en-us")
	assert.True(t, ok)
	assert.Equal(t, "en-US", got)

	got, ok = CanonicalLanguage(" fr ")
	assert.True(t, ok)
	assert.Equal(t, "fr", got)

	_, ok = CanonicalLanguage("")
	assert.False(t, ok)
	_, ok = CanonicalLanguage("not a tag")
	assert.False(t, ok)
}

func TestViolations(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Email("email", "bad", v)
	Email("contact", "", v)
	URL("website", "nope", v)
	Phone("phone", "12", v)
	VATID("vatId", "12", v)
	LanguageCode("languageCode", "", v)
	RangeFloat("rate", 2, 0, 1, v)

	assert.False(t, v.Empty())
	assert.Equal(t, Violations{
		"name":         "required",
		"email":        "invalid_email",
		"website":      "invalid_url",
		"phone":        "invalid_phone",
		"vatId":        "invalid_vat_id",
		"languageCode": "invalid_language_code",
		"rate":         "out_of_range",
	}, v)
}
