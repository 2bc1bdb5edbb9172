package dataset

import "fmt"

// DefaultTimestamp is the last_updated value stamped on every record unless a
// run overrides it.
const DefaultTimestamp = "2025-10-18T00:00:00Z"

// Record is one service code entry in a country dataset. Records come either
// from live scraping (Source is set) or from a profile's fallback table.
type Record struct {
	Name        string `json:"name" yaml:"name" validate:"required,max=100"`
	Code        string `json:"code" yaml:"code" validate:"required,dialstring"`
	Category    string `json:"category" yaml:"category" validate:"required"`
	Description string `json:"description" yaml:"description" validate:"max=200"`
	Provider    string `json:"provider" yaml:"provider" validate:"required"`
	Network     string `json:"network" yaml:"network" validate:"required"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	ID          string `json:"id,omitempty" yaml:"-"`
	Country     string `json:"country,omitempty" yaml:"-"`
	LastUpdated string `json:"last_updated,omitempty" yaml:"-"`
}

// Columns lists record fields in serialization order. Tabular exporters use it
// as their header row.
var Columns = []string{
	"name", "code", "category", "description", "provider",
	"network", "source", "id", "country", "last_updated",
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.Name, r.Code, r.Category, r.Description, r.Provider,
		r.Network, r.Source, r.ID, r.Country, r.LastUpdated,
	}
}

// Annotate returns a copy of records with sequential ids of the form
// <prefix>_0001 in list order, plus the country name and timestamp. The input
// slice is not modified.
func Annotate(records []Record, prefix, country, timestamp string) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.ID = fmt.Sprintf("%s_%04d", prefix, i+1)
		r.Country = country
		r.LastUpdated = timestamp
		out[i] = r
	}
	return out
}
