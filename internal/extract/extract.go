// Package extract pulls structured contact fields out of free-form
// support messages. Extraction is deterministic: ordered label patterns
// first, then a permissive capitalized-token heuristic. False positives
// are tolerated because record creation re-validates every field.
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Info holds candidate fields extracted from a single message.
// Details always carries the full input text verbatim.
type Info struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone_number,omitempty"`
	Email   string `json:"email,omitempty"`
	Details string `json:"complaint_details"`
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// A bare 10-digit run, or a 3-3-4 grouping with hyphen/dot/space separators.
	phonePattern = regexp.MustCompile(`\b\d{10}\b|\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)

	// Fallback: digits following a "phone" label. The run may be any length;
	// validation rejects anything that does not normalize to 10 digits.
	phoneLabelPattern = regexp.MustCompile(`(?i)\bphone(?:\s*(?:number|no\.?|#))?\s*[:\-]?\s*\+?(\d[\d\s.\-]*\d|\d)`)

	nonDigits = regexp.MustCompile(`[^\d]`)

	// Tried in order; the first pattern yielding more than one character wins.
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[Nn]ame:\s*([A-Za-z\s]+?)(?:[,\n]|$)`),
		regexp.MustCompile(`[Ii]'?m\s+([A-Za-z\s]+?)(?:[,\n]|$)`),
		regexp.MustCompile(`[Mm]y name is\s+([A-Za-z\s]+?)(?:[,\n]|$)`),
		regexp.MustCompile(`[Tt]his is\s+([A-Za-z\s]+?)(?:[,\n]|$)`),
	}

	recordIDPattern = regexp.MustCompile(`\b[A-F0-9]{8}\b`)
)

// Tokens that look like names to the fallback heuristic but never are.
var nameStopwords = map[string]struct{}{
	"i":         {},
	"my":        {},
	"the":       {},
	"and":       {},
	"complaint": {},
	"issue":     {},
	"problem":   {},
	"name":      {},
	"phone":     {},
	"email":     {},
}

// All extracts every candidate field from text in a fixed order:
// email, phone, name, then details (always the full input).
func All(text string) Info {
	info := Info{Details: text}

	if m := emailPattern.FindString(text); m != "" {
		info.Email = m
	}

	if m := phonePattern.FindString(text); m != "" {
		info.Phone = nonDigits.ReplaceAllString(m, "")
	} else if m := phoneLabelPattern.FindStringSubmatch(text); m != nil {
		info.Phone = nonDigits.ReplaceAllString(m[1], "")
	}

	info.Name = extractName(text)

	return info
}

func extractName(text string) string {
	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) > 1 {
				return name
			}
		}
	}
	return guessName(text)
}

// guessName scans whitespace-delimited tokens for capitalized alphabetic
// words outside the stopword list and joins the first two as a best guess.
func guessName(text string) string {
	var names []string
	for _, word := range strings.Fields(text) {
		if len(word) <= 1 || !isAlpha(word) {
			continue
		}
		if !unicode.IsUpper(rune(word[0])) {
			continue
		}
		if _, stop := nameStopwords[strings.ToLower(word)]; stop {
			continue
		}
		names = append(names, word)
		if len(names) == 2 {
			break
		}
	}
	return strings.Join(names, " ")
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// RecordID scans a message for a standalone 8-character record identifier
// (uppercase hexadecimal-looking token). Returns "" when none is present.
func RecordID(text string) string {
	return recordIDPattern.FindString(strings.ToUpper(text))
}
