package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestReadCSV_WithHeader(t *testing.T) {
	input := `Item,Prior Year,Current Year
TOTAL ASSETS,1000,1200
SHORT-TERM ASSETS,400,600
`
	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 data rows (header skipped), got %d", len(rows))
	}
	if rows[0].Label != "TOTAL ASSETS" || rows[0].Prior != "1000" || rows[0].Current != "1200" {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
}

func TestReadCSV_WithoutHeader(t *testing.T) {
	input := `TOTAL ASSETS,1000,1200
INVENTORY,"1,500",300
`
	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[1].Prior != "1,500" {
		t.Errorf("Expected raw cell text preserved, got %q", rows[1].Prior)
	}
}

func TestReadCSV_WrongColumnCount(t *testing.T) {
	input := `TOTAL ASSETS,1000,1200
INVENTORY,300
`
	_, err := ReadCSV(strings.NewReader(input))
	if err == nil {
		t.Fatal("Expected error for wrong column count")
	}

	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got %T: %v", err, err)
	}
	if !strings.Contains(malformed.Error(), "columns") {
		t.Errorf("Expected column-count message, got %q", malformed.Error())
	}
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError for empty input, got %v", err)
	}
}

func TestReadHTML_Table(t *testing.T) {
	input := `
	<html><body>
	<table>
		<tr><th>Item</th><th>Prior</th><th>Current</th></tr>
		<tr><td>TOTAL ASSETS</td><td>1,000</td><td>1,200</td></tr>
		<tr><td>SHORT-TERM LIABILITIES</td><td>200</td><td>300</td></tr>
	</table>
	</body></html>`

	rows, err := ReadHTML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 data rows, got %d", len(rows))
	}
	if rows[0].Label != "TOTAL ASSETS" || rows[0].Prior != "1,000" {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
}

func TestReadHTML_NoTable(t *testing.T) {
	_, err := ReadHTML(strings.NewReader("<html><body><p>hello</p></body></html>"))
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got %v", err)
	}
}

func TestReadHTML_WrongCellCount(t *testing.T) {
	input := `<table><tr><td>TOTAL ASSETS</td><td>1000</td></tr></table>`
	_, err := ReadHTML(strings.NewReader(input))
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"statement.csv", FormatCSV},
		{"statement.html", FormatHTML},
		{"statement.HTM", FormatHTML},
		{"statement.txt", FormatCSV},
		{"statement", FormatCSV},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.filename); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
