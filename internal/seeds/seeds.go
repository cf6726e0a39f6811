// Package seeds loads the keyword seed file that drives query planning.
package seeds

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/venturehunt/channelscout/internal/crawl"
)

// Seed file fixed columns; modifier flag columns follow.
const (
	keywordCol = 0
	typeCol    = 1
)

// Load reads the seed CSV at path. The header row is skipped. Each data
// row needs at least the keyword and result-type columns; flag columns are
// kept raw so modifiers can address them by index.
func Load(path string) ([]crawl.SeedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return rows, nil
}

// Parse reads seed rows from r.
func Parse(r io.Reader) ([]crawl.SeedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []crawl.SeedRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) <= typeCol {
			return nil, fmt.Errorf("line %d: need at least %d columns, got %d", line, typeCol+1, len(record))
		}
		rows = append(rows, crawl.SeedRow{
			Keyword: record[keywordCol],
			Type:    record[typeCol],
			Fields:  record,
		})
	}
	return rows, nil
}
