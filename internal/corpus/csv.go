// Package corpus loads the tabular document corpus fed to the indexer.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"flarerag/internal/domain"
)

// required header columns of the corpus file
const (
	colFileName = "file_name"
	colContent  = "content"
	colMetaData = "meta_data"
)

// LoadCSV reads a corpus CSV with file_name, content, and meta_data columns.
// Column order is taken from the header row. Structural problems (missing
// columns, unreadable file) are loader errors; content-level problems are
// left for the indexer's per-row policy.
func LoadCSV(path string) ([]domain.DocumentRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses corpus rows from r. See LoadCSV.
func ReadCSV(r io.Reader) ([]domain.DocumentRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading corpus header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{colFileName, colContent, colMetaData} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("corpus is missing required column %q", required)
		}
	}

	var rows []domain.DocumentRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading corpus row: %w", err)
		}
		rows = append(rows, domain.DocumentRow{
			FileName: field(record, cols[colFileName]),
			Content:  field(record, cols[colContent]),
			MetaData: field(record, cols[colMetaData]),
		})
	}
	return rows, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
