package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/ussdcodes/dataset"
	"github.com/pevans/ussdcodes/profile"
	"github.com/pevans/ussdcodes/scraper"
)

// Output styles shared by the listing commands.
const (
	styleTable   = "table"
	styleJSON    = "json"
	styleCompact = "compact"
)

func validStyle(style string) error {
	switch style {
	case styleTable, styleJSON, styleCompact:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be table, json, or compact)", style)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// printRunSummary prints what one country's run produced.
func printRunSummary(w io.Writer, p *profile.Profile, result *scraper.Result, exported *dataset.ExportResult) {
	summary := dataset.Summarize(exported.Records)

	fmt.Fprintf(w, "%s: %d codes (run %s)\n", p.Country, summary.Total, result.RunID)

	domains := newTable(w)
	domains.AppendHeader(table.Row{"Domain", "Live", "Fallback"})
	for _, d := range result.Domains {
		domains.AppendRow(table.Row{d.Name, d.Live, d.Fallback})
	}
	domains.Render()

	counts := newTable(w)
	counts.AppendHeader(table.Row{"Category", "Codes"})
	for _, c := range summary.Categories {
		counts.AppendRow(table.Row{c.Name, c.Count})
	}
	counts.Render()

	counts = newTable(w)
	counts.AppendHeader(table.Row{"Provider", "Codes"})
	for _, c := range summary.Providers {
		counts.AppendRow(table.Row{c.Name, c.Count})
	}
	counts.Render()

	formats := make([]string, 0, len(exported.Paths))
	for format := range exported.Paths {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	for _, format := range formats {
		fmt.Fprintf(w, "  wrote %s\n", exported.Paths[format])
	}
	fmt.Fprintln(w)
}

// countryRow is the JSON shape of one profile in `countries --format json`.
type countryRow struct {
	Prefix   string   `json:"prefix"`
	Country  string   `json:"country"`
	Grammar  string   `json:"grammar"`
	Output   string   `json:"output"`
	Domains    []string `json:"domains"`
	Sources    int      `json:"sources"`
	Fallback   int      `json:"fallback"`
	OffGrammar []string `json:"off_grammar,omitempty"`
}

func printCountries(w io.Writer, profiles []*profile.Profile, style string) error {
	switch style {
	case styleJSON:
		rows := make([]countryRow, 0, len(profiles))
		for _, p := range profiles {
			rows = append(rows, countryRow{
				Prefix:   p.Prefix,
				Country:  p.Country,
				Grammar:  string(p.Grammar),
				Output:   p.Output,
				Domains:    domainNames(p),
				Sources:    p.SourceCount(),
				Fallback:   p.FallbackCount(),
				OffGrammar: p.OffGrammar(),
			})
		}
		return writeJSON(w, rows)

	case styleCompact:
		for _, p := range profiles {
			fmt.Fprintf(w, "%s\t%s\n", p.Prefix, p.Country)
		}
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Prefix", "Country", "Grammar", "Domains", "Sources", "Fallback", "Off-grammar"})
	for _, p := range profiles {
		t.AppendRow(table.Row{
			p.Prefix, p.Country, p.Grammar,
			strings.Join(domainNames(p), ", "),
			p.SourceCount(), p.FallbackCount(), len(p.OffGrammar()),
		})
	}
	t.Render()
	return nil
}

func domainNames(p *profile.Profile) []string {
	names := make([]string, 0, len(p.Domains))
	for _, d := range p.Domains {
		names = append(names, d.Name)
	}
	return names
}

// printRecords prints extracted or stored records.
func printRecords(w io.Writer, records []dataset.Record, style string) error {
	switch style {
	case styleJSON:
		return dataset.EncodeJSON(w, records)

	case styleCompact:
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Code, r.Provider, r.Name)
		}
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No codes found.")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Code", "Name", "Provider", "Category"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Code, shorten(r.Name, 60), r.Provider, r.Category})
	}
	t.Render()
	return nil
}

// datasetRow is one dataset file in `datasets` output.
type datasetRow struct {
	Filename    string `json:"filename"`
	Codes       int    `json:"codes"`
	Providers   int    `json:"providers"`
	TopCategory string `json:"top_category"`
}

func newDatasetRow(d dataset.Dataset) datasetRow {
	summary := dataset.Summarize(d.Records)
	row := datasetRow{
		Filename:  d.Filename,
		Codes:     summary.Total,
		Providers: len(summary.Providers),
	}
	if len(summary.Categories) > 0 {
		row.TopCategory = summary.Categories[0].Name
	}
	return row
}

// printDatasets prints one row per dataset file found in dir.
func printDatasets(w io.Writer, dir string, result *dataset.ListResult, style string) error {
	if style == styleJSON {
		rows := make([]datasetRow, 0, len(result.Datasets))
		for _, d := range result.Datasets {
			rows = append(rows, newDatasetRow(d))
		}
		return writeJSON(w, rows)
	}

	if len(result.Datasets) == 0 && len(result.Errors) == 0 {
		fmt.Fprintf(w, "No datasets found in %s.\n", dir)
		return nil
	}

	if style == styleCompact {
		for _, d := range result.Datasets {
			fmt.Fprintf(w, "%s\t%d\n", d.Filename, len(d.Records))
		}
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"File", "Codes", "Providers", "Top category"})
	for _, d := range result.Datasets {
		row := newDatasetRow(d)
		t.AppendRow(table.Row{row.Filename, row.Codes, row.Providers, row.TopCategory})
	}
	t.Render()

	for _, e := range result.Errors {
		fmt.Fprintf(w, "skipped %s: %v\n", e.Filename, e.Err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// shorten truncates s to n runes for display.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
