package profile

import (
	"strings"
	"testing"

	"github.com/pevans/ussdcodes/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse_Valid verifies a minimal profile parses
func TestParse_Valid(t *testing.T) {
	p, err := Parse([]byte(minimalProfile))
	require.NoError(t, err)

	assert.Equal(t, "Testland", p.Country)
	require.Len(t, p.Domains, 1)
	require.Len(t, p.Domains[0].Sources, 1)
	assert.Equal(t, "TestTel", p.Domains[0].Sources[0].Provider)
	assert.False(t, p.Domains[0].Sources[0].IsFeed())
	assert.Equal(t, "*100#", p.Domains[0].Fallback[0].Code)
}

// TestOffGrammar verifies fallback codes outside the grammar are listed in
// profile order
func TestOffGrammar(t *testing.T) {
	data := minimalProfile + `      - name: "IMEI"
        code: "*#06#"
        category: "Device Info"
        description: "Show IMEI"
        provider: "TestTel"
        network: "All Networks"
      - name: "Bundles"
        code: "*175*1#"
        category: "Telecom"
        description: "Buy bundles"
        provider: "TestTel"
        network: "TestTel"
`
	p, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"*#06#"}, p.OffGrammar())

	p.Grammar = discovery.GrammarMMI
	assert.Empty(t, p.OffGrammar(), "MMI codes include the USSD shapes")
}

// TestParse_UnknownField verifies typos in profiles are rejected
func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(minimalProfile + "colour: blue\n"))
	assert.Error(t, err)
}

// TestParse_InvalidGrammar verifies only known grammars are accepted
func TestParse_InvalidGrammar(t *testing.T) {
	data := strings.Replace(minimalProfile, "grammar: ussd", "grammar: sms", 1)

	_, err := Parse([]byte(data))
	assert.Error(t, err)
}

// TestParse_MissingDomains verifies a profile needs at least one domain
func TestParse_MissingDomains(t *testing.T) {
	data := minimalProfile[:strings.Index(minimalProfile, "domains:")]

	_, err := Parse([]byte(data))
	assert.Error(t, err)
}

// TestParse_InvalidFallbackCode verifies fallback codes must be dial strings
func TestParse_InvalidFallbackCode(t *testing.T) {
	data := strings.Replace(minimalProfile, `code: "*100#"`, `code: "call 100"`, 1)

	_, err := Parse([]byte(data))
	assert.Error(t, err)
}

// TestParse_DescriptionTemplate verifies the default description must
// mention the code
func TestParse_DescriptionTemplate(t *testing.T) {
	data := strings.Replace(minimalProfile, "accessible via {code}", "accessible here", 1)

	_, err := Parse([]byte(data))
	assert.Error(t, err)
}

// TestParse_InvalidSourceKind verifies unknown source kinds are rejected
func TestParse_InvalidSourceKind(t *testing.T) {
	data := strings.Replace(minimalProfile, "category: Telecom\n", "category: Telecom\n        kind: pdf\n", 1)

	_, err := Parse([]byte(data))
	assert.Error(t, err)
}

// TestValidate_DuplicateDomain verifies domain names must be unique
func TestValidate_DuplicateDomain(t *testing.T) {
	p, err := Parse([]byte(minimalProfile))
	require.NoError(t, err)

	p.Domains = append(p.Domains, p.Domains[0])

	assert.Error(t, p.Validate())
}

// TestAssembler_FromProfile verifies the assembler carries profile defaults
func TestAssembler_FromProfile(t *testing.T) {
	p, err := Parse([]byte(minimalProfile))
	require.NoError(t, err)

	a := p.Assembler()

	assert.Equal(t, discovery.GrammarUSSD, a.Grammar)
	assert.Equal(t, "Testland Service", a.Defaults.Provider)
	assert.Equal(t, "USSD service accessible via {code}", a.Defaults.Description)
	assert.False(t, a.Defaults.NetworkFromProvider)
}

// TestSource_Page verifies a source maps to a discovery page
func TestSource_Page(t *testing.T) {
	s := Source{URL: "https://bank.example.com", Provider: "Bank", Category: "Banking"}

	assert.Equal(t, discovery.Page{
		URL:      "https://bank.example.com",
		Category: "Banking",
		Provider: "Bank",
	}, s.Page())
}
