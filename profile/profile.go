package profile

import (
	"fmt"
	"strings"

	"github.com/pevans/ussdcodes/dataset"
	"github.com/pevans/ussdcodes/discovery"
)

// Source kinds.
const (
	KindHTML = "html"
	KindFeed = "feed"
)

// Source is one page scraped by a domain driver.
type Source struct {
	URL string `yaml:"url" validate:"required,url"`

	// Provider, when set, is attributed to every code found on the page.
	Provider string `yaml:"provider,omitempty"`
	Category string `yaml:"category" validate:"required"`

	// InsecureTLS skips certificate verification for sites with broken
	// chains.
	InsecureTLS bool   `yaml:"insecure_tls,omitempty"`
	Kind        string `yaml:"kind,omitempty" validate:"omitempty,oneof=html feed"`
}

// IsFeed reports whether the source is an RSS or Atom feed.
func (s Source) IsFeed() bool {
	return s.Kind == KindFeed
}

// Page returns the discovery page description for the source.
func (s Source) Page() discovery.Page {
	return discovery.Page{URL: s.URL, Category: s.Category, Provider: s.Provider}
}

// Domain groups live sources with the fallback table used when none of them
// yields a record.
type Domain struct {
	Name     string           `yaml:"name" validate:"required"`
	Sources  []Source         `yaml:"sources,omitempty" validate:"dive"`
	Fallback []dataset.Record `yaml:"fallback,omitempty" validate:"dive"`
}

// Profile parameterizes a scrape for one country.
type Profile struct {
	Country string `yaml:"country" validate:"required"`

	// Prefix starts every record id, as in gh_0001.
	Prefix string `yaml:"prefix" validate:"required,lowercase,alpha"`

	// Output is the default JSON file name.
	Output             string            `yaml:"output" validate:"required,endswith=.json"`
	Grammar            discovery.Grammar `yaml:"grammar" validate:"required,oneof=ussd mmi"`
	DefaultProvider    string            `yaml:"default_provider" validate:"required"`
	DefaultDescription string            `yaml:"default_description" validate:"required,contains={code}"`

	// NetworkFromProvider uses the provider as the network of live records
	// when one is known.
	NetworkFromProvider bool `yaml:"network_from_provider,omitempty"`

	// Providers are matched near each code, earliest first.
	Providers []string `yaml:"providers,omitempty" validate:"dive,required"`
	Domains   []Domain `yaml:"domains" validate:"required,min=1,dive"`
}

// Assembler returns a record assembler configured for the profile.
func (p *Profile) Assembler() *discovery.Assembler {
	return &discovery.Assembler{
		Grammar:   p.Grammar,
		Providers: p.Providers,
		Defaults: discovery.Defaults{
			Provider:            p.DefaultProvider,
			Description:         p.DefaultDescription,
			NetworkFromProvider: p.NetworkFromProvider,
		},
	}
}

// FallbackCount returns the number of fallback records across all domains.
func (p *Profile) FallbackCount() int {
	n := 0
	for _, d := range p.Domains {
		n += len(d.Fallback)
	}
	return n
}

// SourceCount returns the number of live sources across all domains.
func (p *Profile) SourceCount() int {
	n := 0
	for _, d := range p.Domains {
		n += len(d.Sources)
	}
	return n
}

// OffGrammar returns the fallback codes the profile's grammar would not
// extract from a page, in profile order.
func (p *Profile) OffGrammar() []string {
	var codes []string
	for _, d := range p.Domains {
		for _, r := range d.Fallback {
			if !p.Grammar.Match(r.Code) {
				codes = append(codes, r.Code)
			}
		}
	}
	return codes
}

// Validate checks the profile's fields, sources and fallback records.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.Country, err)
	}

	seen := make(map[string]bool, len(p.Domains))
	for _, d := range p.Domains {
		if seen[d.Name] {
			return fmt.Errorf("invalid profile %q: duplicate domain %q", p.Country, d.Name)
		}
		seen[d.Name] = true
	}

	return nil
}

// key normalizes a country name or prefix for lookups, so "South Africa",
// "south_africa" and "south-africa" are equal.
func key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
