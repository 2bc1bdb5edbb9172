package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pevans/ussdcodes/internal/logger"
)

// Supported export formats. JSON is always written; the others are optional
// secondary outputs.
const (
	FormatJSON   = "json"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// ExportOptions controls a single country export.
type ExportOptions struct {
	// Filename is the JSON file name, e.g. ussd_codes_ghana.json. Secondary
	// formats reuse its stem.
	Filename  string
	Prefix    string
	Country   string
	Timestamp string
	Formats   []string
	RunID     uuid.UUID
}

// ExportResult reports what an export produced.
type ExportResult struct {
	Records []Record
	Paths   map[string]string
}

// Export annotates records with ids, country and timestamp and writes them to
// the store. A JSON write failure is returned; failures of secondary formats
// are logged and skipped.
func (s *Store) Export(records []Record, opts ExportOptions) (*ExportResult, error) {
	log := logger.New("export").WithField("country", opts.Country)

	timestamp := opts.Timestamp
	if timestamp == "" {
		timestamp = DefaultTimestamp
	}
	annotated := Annotate(records, opts.Prefix, opts.Country, timestamp)

	jsonPath, err := s.WriteJSON(opts.Filename, annotated)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", opts.Country, err)
	}
	log.WithField("path", jsonPath).Infof("wrote %d records", len(annotated))

	result := &ExportResult{
		Records: annotated,
		Paths:   map[string]string{FormatJSON: jsonPath},
	}

	stem := strings.TrimSuffix(opts.Filename, filepath.Ext(opts.Filename))
	for _, format := range opts.Formats {
		var path string
		switch format {
		case FormatJSON:
			continue
		case FormatXLSX:
			path = s.Path(stem + ".xlsx")
			err = WriteXLSX(path, annotated)
		case FormatSQLite:
			path = s.Path(stem + ".db")
			err = writeSQLite(path, opts.RunID, opts.Country, annotated, timestamp)
		default:
			err = fmt.Errorf("unknown export format: %s", format)
		}

		if err != nil {
			log.WithError(err).WithField("format", format).Error("export skipped")
			continue
		}

		log.WithField("path", path).Infof("wrote %s export", format)
		result.Paths[format] = path
	}

	return result, nil
}

func writeSQLite(path string, runID uuid.UUID, country string, records []Record, timestamp string) error {
	store, err := NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(runID, country, records, timestamp)
}
