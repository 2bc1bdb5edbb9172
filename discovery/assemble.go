package discovery

import (
	"strings"

	"github.com/pevans/ussdcodes/dataset"
)

// AllNetworks is the network of a record not tied to a single carrier.
const AllNetworks = "All Networks"

// Defaults fills record fields the attribution left empty.
type Defaults struct {
	// Provider is the placeholder used when no provider is known, such as
	// "Ghana Service".
	Provider string

	// Description is a template in which {code} is replaced by the code.
	Description string

	// NetworkFromProvider sets the network to the provider when one is
	// known, instead of AllNetworks.
	NetworkFromProvider bool
}

// Page describes the source a piece of text came from.
type Page struct {
	URL      string
	Category string

	// Provider, when set, is used for every code on the page instead of
	// provider detection.
	Provider string
}

// Assembler turns page text into service code records.
type Assembler struct {
	Grammar   Grammar
	Providers []string
	Defaults  Defaults
}

// Records extracts every code in text and builds one record per code, in
// order of first occurrence. Provider detection runs separately for each
// code.
func (a *Assembler) Records(text string, page Page) []dataset.Record {
	codes := ExtractCodes(text, a.Grammar)

	records := make([]dataset.Record, 0, len(codes))
	for _, code := range codes {
		attr := Attribute(text, code, a.Providers)
		if page.Provider != "" {
			attr.Provider = page.Provider
		}
		records = append(records, a.Build(code, attr, page))
	}

	return records
}

// Build applies the defaulting policy to an attribution and returns the
// record for code.
func (a *Assembler) Build(code string, attr Attribution, page Page) dataset.Record {
	name := attr.Name
	if name == "" {
		if attr.Provider != "" {
			name = attr.Provider + " - " + code
		} else {
			name = "Service " + code
		}
	}

	description := attr.Description
	if description == "" {
		description = a.describe(code)
	}

	provider := attr.Provider
	network := AllNetworks
	if provider != "" && a.Defaults.NetworkFromProvider {
		network = provider
	}
	if provider == "" {
		provider = a.Defaults.Provider
	}

	return dataset.Record{
		Name:        truncate(name, NameLimit),
		Code:        code,
		Category:    page.Category,
		Description: truncate(description, DescriptionLimit),
		Provider:    provider,
		Network:     network,
		Source:      page.URL,
	}
}

func (a *Assembler) describe(code string) string {
	tmpl := a.Defaults.Description
	if tmpl == "" {
		tmpl = "USSD service accessible via {code}"
	}
	return strings.ReplaceAll(tmpl, "{code}", code)
}
