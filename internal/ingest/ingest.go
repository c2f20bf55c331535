// Package ingest reads uploaded statement files into raw rows. A
// statement file has exactly three logical columns in fixed order:
// label, prior-period value, current-period value. Cell text is kept
// verbatim; numeric coercion happens in the derivation engine.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/finlens/finlens/internal/model"
)

// MalformedInputError reports a file whose shape cannot be read as a
// three-column statement. It is fatal and surfaced verbatim to the user.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed statement input: " + e.Reason
}

// Format identifies a supported statement file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// DetectFormat picks a format from the file name, defaulting to CSV
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatCSV
	}
}

// ReadFile reads a statement file from disk, choosing the reader by
// file extension.
func ReadFile(path string) ([]model.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, DetectFormat(path))
}

// Read reads a statement from r in the given format.
func Read(r io.Reader, format Format) ([]model.RawRow, error) {
	switch format {
	case FormatHTML:
		return ReadHTML(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, &MalformedInputError{Reason: fmt.Sprintf("unsupported format %q", format)}
	}
}

// looksLikeHeader reports whether a first row is a caption row rather
// than data: both value cells are words, not numbers.
func looksLikeHeader(row model.RawRow) bool {
	return !looksNumeric(row.Prior) && !looksNumeric(row.Current)
}

func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
