// Package sanitizer normalizes request input before validation. Every
// sanitizer is a pure function; pipelines compose them in order.
package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reWhitespace   = regexp.MustCompile(`\s+`)
	reSlugInvalid  = regexp.MustCompile(`[^a-z0-9-]+`)
	reMultiHyphen  = regexp.MustCompile(`-+`)
	reControlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

	// Regions tried in order when a phone number has no country prefix.
	supportedRegions = []string{"IN", "US"}
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, " ")
}

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

// SanitizeName normalizes customer and company names: control characters
// stripped, whitespace collapsed, original casing kept.
func SanitizeName(input string) string {
	p := Pipeline{stripControl, collapseWhitespace, trim}
	return p.Apply(input)
}

// SanitizeFreeText normalizes multi-word free text such as addresses and
// cancellation reasons.
func SanitizeFreeText(input string) string {
	p := Pipeline{stripControl, collapseWhitespace, trim}
	return p.Apply(input)
}

// SanitizeSlug derives a URL-safe slug: lowercase, hyphen-separated,
// ASCII letters and digits only.
func SanitizeSlug(input string) string {
	p := Pipeline{
		trim,
		strings.ToLower,
		func(s string) string { return reWhitespace.ReplaceAllString(s, "-") },
		func(s string) string { return reSlugInvalid.ReplaceAllString(s, "") },
		func(s string) string { return reMultiHyphen.ReplaceAllString(s, "-") },
		func(s string) string { return strings.Trim(s, "-") },
	}
	return p.Apply(input)
}

// SanitizePhone parses the number against the supported regions and
// returns it in E.164 format, or "" when it cannot be parsed.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}

// SanitizeIDs trims, drops empties, and deduplicates while preserving
// first-seen order.
func SanitizeIDs(values []string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
