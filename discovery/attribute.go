package discovery

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// NameLimit is the maximum length of a record name, in characters.
	NameLimit = 100

	// DescriptionLimit is the maximum length of a record description.
	DescriptionLimit = 200

	// providerWindow is how many characters on each side of a code are
	// searched for a provider name.
	providerWindow = 100
)

var sentenceBreak = regexp.MustCompile(`[.!?\n]`)

// Attribution is what the surrounding text says about a code. Empty fields
// mean nothing was found.
type Attribution struct {
	Name        string
	Description string
	Provider    string
}

// Attribute infers a name, description and provider for code from text.
// It has no defaulting policy of its own; see Assembler.
func Attribute(text, code string, providers []string) Attribution {
	name, description := ExtractInfo(text, code)
	return Attribution{
		Name:        name,
		Description: description,
		Provider:    DetectProvider(text, code, providers),
	}
}

// ExtractInfo finds the first sentence-like unit of text containing code,
// removes the code, collapses whitespace and truncates to NameLimit
// characters. The same string is returned as name and description. Both are
// empty when no unit contains the code.
func ExtractInfo(text, code string) (name, description string) {
	if code == "" {
		return "", ""
	}

	for _, unit := range sentenceBreak.Split(text, -1) {
		if !strings.Contains(unit, code) {
			continue
		}

		name = collapseSpace(strings.ReplaceAll(unit, code, ""))
		name = truncate(name, NameLimit)
		return name, name
	}

	return "", ""
}

// DetectProvider looks for a provider name within providerWindow characters
// either side of the first occurrence of code. Matching is a case-insensitive
// substring test and the earliest provider in the list wins.
func DetectProvider(text, code string, providers []string) string {
	if code == "" || len(providers) == 0 {
		return ""
	}

	idx := strings.Index(text, code)
	if idx < 0 {
		return ""
	}

	runes := []rune(text)
	at := utf8.RuneCountInString(text[:idx])
	start := max(0, at-providerWindow)
	end := min(len(runes), at+providerWindow)
	nearby := strings.ToLower(string(runes[start:end]))

	for _, p := range providers {
		if p != "" && strings.Contains(nearby, strings.ToLower(p)) {
			return p
		}
	}

	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n characters and trims surrounding whitespace.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		s = string([]rune(s)[:n])
	}
	return strings.TrimSpace(s)
}
