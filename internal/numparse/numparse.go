// Package numparse converts marketplace-formatted numeric text into machine
// values. Prices on the scanned pages use "." as the thousands separator and
// "," as the decimal separator ("1.234,56"); counters come decorated with
// parentheses, thousands dots or a trailing degree mark ("(1.234)", "87°").
package numparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericToken matches the first contiguous run of digits and separator
// characters inside free-form text such as "Até R$ 1.234,56".
var numericToken = regexp.MustCompile(`[\d.,]+`)

// LocaleDecimal parses locale-formatted numeric text into a float64. The
// thousands separator is dropped and the decimal comma becomes a decimal
// point before parsing. Text that is not numeric after cleanup returns an
// error; callers substitute the field's documented default.
func LocaleDecimal(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("locale decimal %q: %w", text, err)
	}
	return v, nil
}

// FirstNumericToken scans text for the first run of digits, dots and commas
// and parses it with LocaleDecimal. Text without any such run yields 0 with
// no error: an absent number is the documented default, not a failure. A run
// that turns out not to be numeric (for example "...") reports an error.
func FirstNumericToken(text string) (float64, error) {
	token := numericToken.FindString(text)
	if token == "" {
		return 0, nil
	}
	return LocaleDecimal(token)
}

// DecoratedInt removes every substring in strip from text and parses the
// remainder as an integer. An empty or non-numeric remainder yields the
// default 0 together with an error so callers can record the fallback.
func DecoratedInt(text string, strip []string) (int, error) {
	cleaned := strings.TrimSpace(text)
	for _, s := range strip {
		cleaned = strings.ReplaceAll(cleaned, s, "")
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("decorated int %q: %w", text, err)
	}
	return v, nil
}
