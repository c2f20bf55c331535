package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/finlens/finlens/internal/model"
)

// ReadHTML reads a three-column statement from the first <table> in an
// HTML document, as exported by accounting portals. Cell layout follows
// the same positional contract as CSV.
func ReadHTML(r io.Reader) ([]model.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("unreadable HTML: %v", err)}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &MalformedInputError{Reason: "no <table> found in HTML document"}
	}

	var rows []model.RawRow
	var shapeErr *MalformedInputError

	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td, th")
		if cells.Length() == 0 {
			return true // spacer row
		}
		if cells.Length() != 3 {
			shapeErr = &MalformedInputError{
				Reason: fmt.Sprintf("table row %d has %d cells, want 3 (label, prior, current)", i+1, cells.Length()),
			}
			return false
		}

		row := model.RawRow{
			Label:   strings.TrimSpace(cells.Eq(0).Text()),
			Prior:   strings.TrimSpace(cells.Eq(1).Text()),
			Current: strings.TrimSpace(cells.Eq(2).Text()),
		}

		// Header rows carry captions in the value cells
		if len(rows) == 0 && (tr.Find("th").Length() > 0 || looksLikeHeader(row)) {
			return true
		}
		rows = append(rows, row)
		return true
	})

	if shapeErr != nil {
		return nil, shapeErr
	}
	if len(rows) == 0 {
		return nil, &MalformedInputError{Reason: "no data rows found in table"}
	}
	return rows, nil
}
