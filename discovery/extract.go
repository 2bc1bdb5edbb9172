package discovery

import (
	"fmt"
	"regexp"
	"strings"
)

// Grammar selects which short code syntax the extractor accepts.
type Grammar string

const (
	// GrammarUSSD matches digit-only USSD codes such as *920*35#.
	GrammarUSSD Grammar = "ussd"

	// GrammarMMI also matches device and carrier MMI codes such as *#06#
	// and ##21#.
	GrammarMMI Grammar = "mmi"
)

var (
	ussdPattern = regexp.MustCompile(`\*\d{2,5}(?:\*\d+)*#`)
	mmiPattern  = regexp.MustCompile(`(?:\*|##)[#\d]+[#*\d]*#`)
)

// ParseGrammar returns the grammar named by s.
func ParseGrammar(s string) (Grammar, error) {
	switch g := Grammar(strings.ToLower(strings.TrimSpace(s))); g {
	case GrammarUSSD, GrammarMMI:
		return g, nil
	default:
		return "", fmt.Errorf("unknown grammar: %q", s)
	}
}

// Pattern returns the regular expression for the grammar. Unknown grammars
// fall back to USSD.
func (g Grammar) Pattern() *regexp.Regexp {
	if g == GrammarMMI {
		return mmiPattern
	}
	return ussdPattern
}

// Match reports whether code is exactly one well-formed code in the grammar.
func (g Grammar) Match(code string) bool {
	loc := g.Pattern().FindStringIndex(code)
	return loc != nil && loc[0] == 0 && loc[1] == len(code)
}

// ExtractCodes returns the distinct codes in text in order of first
// occurrence. Matches are purely syntactic, so numeric noise such as version
// strings can produce false positives.
func ExtractCodes(text string, g Grammar) []string {
	matches := g.Pattern().FindAllString(text, -1)

	seen := make(map[string]bool, len(matches))
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		codes = append(codes, m)
	}

	return codes
}
