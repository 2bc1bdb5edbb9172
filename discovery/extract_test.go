package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractCodes_SentenceExample verifies a multi-segment code is found in
// running text
func TestExtractCodes_SentenceExample(t *testing.T) {
	text := "Pay your ECG bill easily using *920*35#. Visit our office for help."

	codes := ExtractCodes(text, GrammarUSSD)

	assert.Equal(t, []string{"*920*35#"}, codes)
}

// TestExtractCodes_RepeatedCodeOnce verifies repeated codes collapse to one
func TestExtractCodes_RepeatedCodeOnce(t *testing.T) {
	for _, code := range []string{"*170#", "*920*35#", "*126*2*1#"} {
		for n := 1; n <= 5; n++ {
			text := strings.Repeat("Dial "+code+" now. ", n)

			codes := ExtractCodes(text, GrammarUSSD)

			assert.Equal(t, []string{code}, codes, "code %s repeated %d times", code, n)
		}
	}
}

// TestExtractCodes_FirstOccurrenceOrder verifies codes are returned in
// order of first appearance
func TestExtractCodes_FirstOccurrenceOrder(t *testing.T) {
	text := "Dial *124# for balance, *170# for MoMo, then *124# again and *138#."

	codes := ExtractCodes(text, GrammarUSSD)

	assert.Equal(t, []string{"*124#", "*170#", "*138#"}, codes)
}

// TestExtractCodes_USSDRejectsMalformed verifies the digit-only grammar
// rejects short, long and MMI-style codes
func TestExtractCodes_USSDRejectsMalformed(t *testing.T) {
	text := "Try *1# or *123456# or *#06# or ##21# or *170 without a hash"

	codes := ExtractCodes(text, GrammarUSSD)

	assert.Empty(t, codes)
}

// TestExtractCodes_MMIVariants verifies the MMI grammar admits device and
// carrier codes
func TestExtractCodes_MMIVariants(t *testing.T) {
	text := "Dial *#06# to see your IMEI, ##21# to disable forwarding, *67 hides nothing, and *611# reaches support."

	codes := ExtractCodes(text, GrammarMMI)

	assert.Equal(t, []string{"*#06#", "##21#", "*611#"}, codes)
}

// TestExtractCodes_MMIIncludesUSSD verifies the MMI grammar is a superset
// for ordinary codes
func TestExtractCodes_MMIIncludesUSSD(t *testing.T) {
	text := "Pay using *920*35#."

	codes := ExtractCodes(text, GrammarMMI)

	assert.Equal(t, []string{"*920*35#"}, codes)
}

// TestExtractCodes_VersionStringFalsePositive verifies numeric noise that
// looks like a code is still matched
func TestExtractCodes_VersionStringFalsePositive(t *testing.T) {
	codes := ExtractCodes("build *10*2# released", GrammarUSSD)

	assert.Equal(t, []string{"*10*2#"}, codes)
}

// TestExtractCodes_NoCodes verifies plain text yields an empty list
func TestExtractCodes_NoCodes(t *testing.T) {
	codes := ExtractCodes("Welcome to our website.", GrammarUSSD)

	assert.NotNil(t, codes)
	assert.Empty(t, codes)
}

// TestParseGrammar_Valid verifies known grammar names parse case-insensitively
func TestParseGrammar_Valid(t *testing.T) {
	g, err := ParseGrammar("USSD")
	require.NoError(t, err)
	assert.Equal(t, GrammarUSSD, g)

	g, err = ParseGrammar(" mmi ")
	require.NoError(t, err)
	assert.Equal(t, GrammarMMI, g)
}

// TestParseGrammar_Unknown verifies unknown names are rejected
func TestParseGrammar_Unknown(t *testing.T) {
	_, err := ParseGrammar("sms")
	assert.Error(t, err)
}

// TestGrammar_Match verifies whole-string matching per grammar
func TestGrammar_Match(t *testing.T) {
	assert.True(t, GrammarUSSD.Match("*920*35#"))
	assert.False(t, GrammarUSSD.Match("*920*35# "))
	assert.False(t, GrammarUSSD.Match("##21#"))
	assert.True(t, GrammarMMI.Match("##21#"))
	assert.True(t, GrammarMMI.Match("*#06#"))
	assert.False(t, GrammarMMI.Match("*611"))
}
