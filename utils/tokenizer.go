package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/medbill/amount-detection/dto"
)

// ocrConfusables maps characters Tesseract commonly misreads for digits.
// The substitution is applied only inside spans that already look numeric,
// never inside prose words.
var ocrConfusables = map[rune]rune{
	'O': '0', 'o': '0',
	'I': '1', 'l': '1', '|': '1',
	'Z': '2',
	'S': '5', 's': '5',
	'G': '6',
	'B': '8',
	'g': '9',
}

// candidateRe finds digit-bearing runs with an optional attached currency
// marker. The character class admits the confusable letters so that corrupted
// tokens like "l,OOO" are still picked up next to a currency symbol.
var candidateRe = regexp.MustCompile(
	`(?:(?:Rs\.?|RS\.?|rs\.?|INR|inr|USD|usd|EUR|eur|GBP|gbp|₹|\$|€|£)[ \t]*)?[0-9OoIl|SsGBgZ][0-9OoIl|SsGBgZ.,]*`)

var currencyPrefixRe = regexp.MustCompile(
	`^(Rs\.?|RS\.?|rs\.?|INR|inr|USD|usd|EUR|eur|GBP|gbp|₹|\$|€|£)[ \t]*`)

// Tokenizer scans raw document text for numeric candidates and repairs OCR
// digit corruption inside them.
type Tokenizer struct {
	opts Options
}

func NewTokenizer(opts Options) *Tokenizer {
	return &Tokenizer{opts: opts}
}

// Tokenize returns the ordered numeric candidates found in text. Zero tokens
// is a normal outcome, not an error. Token.Text is always the verbatim slice
// of the input so downstream provenance stays verifiable by substring lookup.
func (t *Tokenizer) Tokenize(text string) []dto.RawToken {
	var tokens []dto.RawToken
	lastEnd := 0

	for _, loc := range candidateRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start < lastEnd {
			continue
		}

		match := text[start:end]
		hasCurrency := false
		bodyStart := start
		if m := currencyPrefixRe.FindString(match); m != "" {
			hasCurrency = true
			bodyStart = start + len(m)
		}

		// Trailing dots and commas belong to the sentence, not the number
		for end > bodyStart && (text[end-1] == '.' || text[end-1] == ',') {
			end--
		}
		if end <= bodyStart {
			continue
		}

		body := text[bodyStart:end]
		if !hasCurrency && !containsDigit(body) {
			continue // prose made of confusable letters, e.g. "SO", "Ill"
		}

		// A digit run glued to ordinary letters is part of a word; widen the
		// span so the whole word is judged (and rejected) as one candidate.
		// With a currency prefix attached the left boundary is already fixed.
		if hasCurrency {
			_, end = expandWord(text, bodyStart, end)
		} else {
			bodyStart, end = expandWord(text, bodyStart, end)
			start = bodyStart
		}
		body = text[bodyStart:end]

		corrected := body
		if isNumericLooking(body) && (hasCurrency || containsDigit(body)) {
			corrected = repairConfusables(body)
		}

		if t.excluded(text, start, end, corrected, hasCurrency) {
			lastEnd = end
			continue
		}

		tokens = append(tokens, dto.RawToken{
			Text:      strings.TrimSpace(text[start:end]),
			Corrected: corrected,
			Start:     start,
			End:       end,
		})
		lastEnd = end
	}

	return tokens
}

// excluded drops dates, phone-shaped runs, percentages and bare years
func (t *Tokenizer) excluded(text string, start, end int, corrected string, hasCurrency bool) bool {
	next, nextOK := runeAfter(text, end)
	prev, prevOK := runeBefore(text, start)

	// percentage: "10%" is a rate, not an amount
	if nextOK && (next == '%' || (next == ' ' && followedByPercent(text, end))) {
		return true
	}

	// component of a slash/dash compound such as 15/10/2025 or 98765-43210
	if nextOK && (next == '/' || next == '-') && digitFollows(text, end+1) {
		return true
	}
	if prevOK && (prev == '/' || prev == '-') && digitPrecedes(text, start-1) {
		return true
	}

	if isPlainDigits(corrected) && !hasCurrency {
		if len(corrected) >= t.opts.PhoneDigitFloor {
			return true // phone-number-shaped
		}
		if len(corrected) == 4 {
			year := int(corrected[0]-'0')*1000 + int(corrected[1]-'0')*100 +
				int(corrected[2]-'0')*10 + int(corrected[3]-'0')
			if year >= t.opts.YearRange[0] && year <= t.opts.YearRange[1] {
				return true
			}
		}
	}

	return false
}

func repairConfusables(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if d, ok := ocrConfusables[r]; ok {
			b.WriteRune(d)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isNumericLooking reports whether every rune of s is a digit, a confusable
// character, or separator punctuation — the precondition for repair.
func isNumericLooking(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' || r == ',' {
			continue
		}
		if _, ok := ocrConfusables[r]; ok {
			continue
		}
		return false
	}
	return s != ""
}

func expandWord(text string, start, end int) (int, int) {
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		start -= size
	}
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		end += size
	}
	return start, end
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

func isPlainDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func runeBefore(text string, pos int) (rune, bool) {
	if pos <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return r, true
}

func runeAfter(text string, pos int) (rune, bool) {
	if pos >= len(text) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return r, true
}

func followedByPercent(text string, pos int) bool {
	rest := strings.TrimLeft(text[pos:], " \t")
	return strings.HasPrefix(rest, "%")
}

func digitFollows(text string, pos int) bool {
	if pos >= len(text) {
		return false
	}
	return text[pos] >= '0' && text[pos] <= '9'
}

func digitPrecedes(text string, pos int) bool {
	if pos <= 0 {
		return false
	}
	return text[pos-1] >= '0' && text[pos-1] <= '9'
}
