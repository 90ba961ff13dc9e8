// Package coerce converts raw cell text scraped from finance pages into
// typed values. Conversion runs an ordered list of rules; the first rule
// that claims the text converts it, and text no rule claims stays a string.
package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat reports text that matched a rule but could not be converted to
// a number.
var ErrFormat = errors.New("unrecognized value format")

// Kind tags the variant a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindPercent
	KindRatio
	KindRange
	KindMissing
)

// Value is one coerced table cell.
type Value struct {
	Kind Kind
	// Str holds the original text for KindString values.
	Str string
	// Num holds KindNumber values, and KindPercent values as a fraction
	// (8.20% is stored as 0.082).
	Num float64
	// Pair holds the two sides of a KindRatio or KindRange value.
	Pair [2]string
}

// String returns a plain-text value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Percent returns a percentage value expressed as a fraction.
func Percent(f float64) Value { return Value{Kind: KindPercent, Num: f} }

// Ratio returns an "a x b" pair, as in a bid/ask size quote.
func Ratio(a, b string) Value { return Value{Kind: KindRatio, Pair: [2]string{a, b}} }

// Range returns an "a - b" pair, as in a day's trading range.
func Range(a, b string) Value { return Value{Kind: KindRange, Pair: [2]string{a, b}} }

// Missing returns the sentinel for a value the page marked unavailable.
// It is distinct from zero and from the empty string.
func Missing() Value { return Value{Kind: KindMissing} }

// Rule identifies one matcher rule.
type Rule int

const (
	RulePercent Rule = iota
	RuleRatio
	RuleRange
	RuleComma
	RuleMissing
)

// DefaultRules is the full rule set in precedence order. The order matters:
// the percent rule must run before the comma rule because percentages can
// carry thousands separators of their own.
var DefaultRules = []Rule{RulePercent, RuleRatio, RuleRange, RuleComma, RuleMissing}

const (
	missingMarker  = "N/A"
	ratioDelimiter = " x "
	rangeDelimiter = " - "
)

// Coerce converts raw using the full rule set.
func Coerce(raw string) (Value, error) {
	return Apply(raw, DefaultRules...)
}

// Apply converts raw using only the given rules, in the given order. Pages
// that never show ranges or grouped numbers pass the subset of rules that
// applies to them, so a stray delimiter cannot mistype a value.
func Apply(raw string, rules ...Rule) (Value, error) {
	text := strings.TrimSpace(raw)

	for _, rule := range rules {
		switch rule {
		case RulePercent:
			if strings.Contains(text, "%") {
				return parsePercent(text)
			}
		case RuleRatio:
			if a, b, ok := strings.Cut(text, ratioDelimiter); ok {
				return Ratio(strings.TrimSpace(a), strings.TrimSpace(b)), nil
			}
		case RuleRange:
			if a, b, ok := strings.Cut(text, rangeDelimiter); ok {
				return Range(strings.TrimSpace(a), strings.TrimSpace(b)), nil
			}
		case RuleComma:
			if strings.Contains(text, ",") {
				return parseGrouped(text)
			}
		case RuleMissing:
			if text == missingMarker {
				return Missing(), nil
			}
		}
	}

	return String(text), nil
}

// parsePercent converts "8.20%" to 0.082. Thousands separators are legal
// inside a percentage.
func parsePercent(text string) (Value, error) {
	cleaned := strings.ReplaceAll(text, "%", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not a percentage", ErrFormat, text)
	}
	return Percent(f / 100), nil
}

// parseGrouped converts a comma-grouped number such as "1,234" to 1234.
func parseGrouped(text string) (Value, error) {
	cleaned := strings.ReplaceAll(text, ",", "")

	f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not a number", ErrFormat, text)
	}
	return Number(f), nil
}

// MarshalJSON renders a Value in its natural JSON form: numbers for
// KindNumber and KindPercent, a two-element array for pairs, null for the
// missing sentinel and a string otherwise.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber, KindPercent:
		return json.Marshal(v.Num)
	case KindRatio, KindRange:
		return json.Marshal([2]string{v.Pair[0], v.Pair[1]})
	case KindMissing:
		return []byte("null"), nil
	default:
		return json.Marshal(v.Str)
	}
}

// String renders a Value roughly the way the page showed it.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindPercent:
		return strconv.FormatFloat(v.Num*100, 'f', 2, 64) + "%"
	case KindRatio:
		return v.Pair[0] + ratioDelimiter + v.Pair[1]
	case KindRange:
		return v.Pair[0] + rangeDelimiter + v.Pair[1]
	case KindMissing:
		return missingMarker
	default:
		return v.Str
	}
}
