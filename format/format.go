// Package format holds the pure formatting helpers shared by handlers, the API
// client and the seed data: dates, money, numbers, strings and byte sizes.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type dateLayouts struct {
	date     string
	dateTime string
}

var layouts = map[string]dateLayouts{
	"en": {"Jan 2, 2006", "Jan 2, 2006, 3:04 PM"},
	"fr": {"02/01/2006", "02/01/2006 15:04"},
	"es": {"02/01/2006", "02/01/2006 15:04"},
	"it": {"02/01/2006", "02/01/2006 15:04"},
	"pt": {"02/01/2006", "02/01/2006 15:04"},
	"de": {"02.01.2006", "02.01.2006, 15:04"},
	"nl": {"02-01-2006", "02-01-2006 15:04"},
	"ja": {"2006/01/02", "2006/01/02 15:04"},
	"zh": {"2006/01/02", "2006/01/02 15:04"},
}

var isoLayouts = dateLayouts{"2006-01-02", "2006-01-02 15:04"}

func layoutFor(tag language.Tag) dateLayouts {
	base, _ := tag.Base()
	if l, ok := layouts[base.String()]; ok {
		return l
	}
	return isoLayouts
}

// Date formats t as a calendar date for the given locale. The zero time yields "".
func Date(t time.Time, tag language.Tag) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layoutFor(tag).date)
}

// DateTime formats t as date and minute-precision time for the given locale.
func DateTime(t time.Time, tag language.Tag) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layoutFor(tag).dateTime)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Number formats v with a fixed number of decimals and locale digit grouping.
func Number(v float64, decimals int, tag language.Tag) string {
	if decimals < 0 {
		decimals = 0
	}
	p := message.NewPrinter(tag)
	return p.Sprintf(fmt.Sprintf("%%.%df", decimals), finite(v))
}

// Percentage formats v (already expressed in percent) with a trailing "%".
func Percentage(v float64, decimals int, tag language.Tag) string {
	return Number(v, decimals, tag) + "%"
}

// Currency formats amount in the ISO 4217 currency code for the given locale.
// Fraction digits and symbol placement follow the currency; separators follow
// the locale. Unknown codes render as "<number> <CODE>".
func Currency(amount float64, code string, tag language.Tag) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	amount = finite(amount)
	cur := money.GetCurrency(code)
	if cur == nil {
		return Number(amount, 2, tag) + " " + code
	}
	m := money.NewFromFloat(amount, cur.Code)
	num := Number(math.Abs(m.AsMajorUnits()), cur.Fraction, tag)
	out := strings.Replace(cur.Template, "1", num, 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if m.IsNegative() {
		out = "-" + out
	}
	return out
}

// ParseNumber parses s leniently: empty, malformed or non-finite input yields 0.
func ParseNumber(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return finite(d.InexactFloat64())
}

// Truncate shortens s to n runes followed by "..." when it is longer than n.
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize renders a byte count with 1024-based units rounded to two decimals.
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
