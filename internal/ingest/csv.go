package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/finlens/finlens/internal/model"
)

// ReadCSV reads a three-column statement from CSV. A header row is
// skipped when its value cells are captions rather than numbers. A row
// with the wrong column count is a hard input error, not a skipped line.
func ReadCSV(r io.Reader) ([]model.RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // validated per row for a clearer error

	var rows []model.RawRow
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedInputError{Reason: fmt.Sprintf("unreadable CSV: %v", err)}
		}
		line++

		if len(record) != 3 {
			return nil, &MalformedInputError{
				Reason: fmt.Sprintf("line %d has %d columns, want 3 (label, prior, current)", line, len(record)),
			}
		}

		row := model.RawRow{
			Label:   strings.TrimSpace(record[0]),
			Prior:   strings.TrimSpace(record[1]),
			Current: strings.TrimSpace(record[2]),
		}

		if line == 1 && looksLikeHeader(row) {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &MalformedInputError{Reason: "no data rows found"}
	}
	return rows, nil
}
