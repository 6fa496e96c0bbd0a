package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/medbill/amount-detection/dto"
)

// currencyCodes maps every recognized symbol or code to its ISO code
var currencyCodes = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`₹|(?i)\brs\.?|(?i)\binr\b|(?i)rupees?`), "INR"},
	{regexp.MustCompile(`\$|(?i)\busd\b|(?i)dollars?`), "USD"},
	{regexp.MustCompile(`€|(?i)\beur\b|(?i)euros?`), "EUR"},
	{regexp.MustCompile(`£|(?i)\bgbp\b|(?i)pounds?`), "GBP"},
}

var numericRe = regexp.MustCompile(`^[0-9.,]+$`)

// Normalizer converts corrected tokens into canonical decimal amounts.
//
// Separator policy (a documented heuristic, not an inference):
//   - one mark with at most 2 trailing digits  -> decimal separator
//   - one mark with exactly 3 trailing digits  -> thousands separator
//   - several identical marks whose groups validate as Western (3) or
//     Indian (2,..,3) grouping                  -> thousands separators
//   - otherwise the last mark is the decimal, earlier ones thousands
type Normalizer struct {
	opts Options
}

func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// NormalizeAll runs every token through Normalize and counts the rejects;
// rejected tokens are dropped silently but feed the overall status decision.
func (n *Normalizer) NormalizeAll(tokens []dto.RawToken) (amounts []dto.NormalizedAmount, rejected int) {
	for _, tok := range tokens {
		amount, ok := n.Normalize(tok)
		if !ok {
			rejected++
			continue
		}
		amounts = append(amounts, amount)
	}
	return amounts, rejected
}

// Normalize converts one corrected token, or rejects it. Tokens that fail
// numeric parsing or normalize to zero are rejected.
func (n *Normalizer) Normalize(tok dto.RawToken) (dto.NormalizedAmount, bool) {
	currency := DetectCurrency(tok.Text)

	cleaned := stripNonNumeric(tok.Corrected)
	if cleaned == "" || !numericRe.MatchString(cleaned) {
		return dto.NormalizedAmount{}, false
	}

	canonical, ok := resolveSeparators(cleaned)
	if !ok {
		return dto.NormalizedAmount{}, false
	}

	value, err := strconv.ParseFloat(canonical, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return dto.NormalizedAmount{}, false
	}
	value = math.Round(value*100) / 100
	if value <= 0 {
		return dto.NormalizedAmount{}, false
	}

	return dto.NormalizedAmount{
		Value:    value,
		Currency: currency,
		RawText:  tok.Text,
		Offset:   tok.Start,
	}, true
}

// DetectCurrency returns the ISO code for the first symbol or code found in
// raw, or "" when none is present.
func DetectCurrency(raw string) string {
	for _, c := range currencyCodes {
		if c.re.MatchString(raw) {
			return c.code
		}
	}
	return ""
}

// stripNonNumeric removes currency markers and spacing, keeping only digits
// and separator punctuation. Anything else survives and fails the numeric
// check, which is the rejection path for unrepairable tokens.
func stripNonNumeric(s string) string {
	for _, c := range []string{"₹", "$", "€", "£"} {
		s = strings.ReplaceAll(s, c, "")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "/-")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,")
	return s
}

// resolveSeparators rewrites cleaned digit/punctuation text into a canonical
// decimal string with '.' as the only separator.
func resolveSeparators(s string) (string, bool) {
	marks := []int{}
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == ',' {
			marks = append(marks, i)
		}
	}

	switch len(marks) {
	case 0:
		return s, true
	case 1:
		trailing := len(s) - marks[0] - 1
		if trailing == 0 {
			return "", false
		}
		if trailing <= 2 {
			return s[:marks[0]] + "." + s[marks[0]+1:], true
		}
		if trailing == 3 {
			return s[:marks[0]] + s[marks[0]+1:], true
		}
		// over-long trailing run: the mark cannot be a decimal separator
		return s[:marks[0]] + s[marks[0]+1:], true
	}

	if sameMark(s, marks) && validGrouping(s, marks) {
		return strings.Map(dropSeparators, s), true
	}

	// last mark is the decimal, earlier ones thousands
	last := marks[len(marks)-1]
	intPart := strings.Map(dropSeparators, s[:last])
	frac := s[last+1:]
	if frac == "" {
		return "", false
	}
	return intPart + "." + frac, true
}

func sameMark(s string, marks []int) bool {
	for _, m := range marks {
		if s[m] != s[marks[0]] {
			return false
		}
	}
	return true
}

// validGrouping accepts Western grouping (groups of 3) and Indian grouping
// (2-digit middles, 3-digit last), e.g. 1,234,567 and 1,23,456.
func validGrouping(s string, marks []int) bool {
	groups := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == ',' })
	if len(groups) < 2 {
		return false
	}
	first, last := groups[0], groups[len(groups)-1]
	if len(first) == 0 || len(first) > 3 || len(last) != 3 {
		return false
	}
	middleLen := 0
	for _, g := range groups[1 : len(groups)-1] {
		if middleLen == 0 {
			middleLen = len(g)
		}
		if len(g) != middleLen || (middleLen != 2 && middleLen != 3) {
			return false
		}
	}
	if middleLen == 2 && len(first) > 2 {
		return false
	}
	return true
}

func dropSeparators(r rune) rune {
	if r == '.' || r == ',' {
		return -1
	}
	return r
}
