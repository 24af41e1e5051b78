// Package money parses and formats the amount strings that appear in
// statement ledgers.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// Parse converts an amount like "1,234.56" into a decimal. Grouping
// separators and surrounding whitespace are ignored. Empty or unparsable
// input yields zero: edited cells may hold arbitrary text and are treated
// as no movement rather than rejected.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ErrUnsupportedLocale is returned for locales whose rendered amounts
// Parse would misread, such as those with a comma decimal separator.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// roundTripSample is rendered and parsed back to vet a locale.
var roundTripSample = decimal.RequireFromString("-1234567.25")

var maxGrouped = decimal.NewFromInt(math.MaxInt64)

// Formatter renders amounts with two fraction digits and the grouping
// separators of its locale.
type Formatter struct {
	locale  language.Tag
	printer *message.Printer
}

// NewFormatter returns a Formatter for a BCP 47 locale such as "en" or "en-IN".
// An empty locale selects DefaultLocale. Recalculation feeds formatted
// balances back through Parse, so only locales with a "." decimal
// separator and a grouping separator Parse strips are accepted.
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	f := &Formatter{locale: tag, printer: message.NewPrinter(tag)}

	if sep := f.printer.Sprint(number.Decimal(1.5, number.Scale(1))); sep != "1.5" {
		return nil, fmt.Errorf("%w %q: decimal separator in %q", ErrUnsupportedLocale, locale, sep)
	}
	if out := f.Format(roundTripSample); !Parse(out).Equal(roundTripSample) {
		return nil, fmt.Errorf("%w %q: %q does not parse back", ErrUnsupportedLocale, locale, out)
	}
	return f, nil
}

// MustFormatter is like NewFormatter but panics on an invalid locale.
func MustFormatter(locale string) *Formatter {
	f, err := NewFormatter(locale)
	if err != nil {
		panic(err)
	}
	return f
}

// Locale returns the formatter's locale tag.
func (f *Formatter) Locale() string {
	return f.locale.String()
}

// Format renders d rounded to two fraction digits, e.g. "16,000.00" or "-250.50".
// The integer part is grouped by the locale and the fraction is taken from
// the decimal itself, so no float conversion loses cents.
func (f *Formatter) Format(d decimal.Decimal) string {
	fixed := d.Round(2).Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	w := decimal.RequireFromString(whole)
	if w.GreaterThan(maxGrouped) {
		b.WriteString(whole)
	} else {
		b.WriteString(f.printer.Sprint(number.Decimal(w.IntPart())))
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
