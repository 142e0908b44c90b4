package ingest

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/lakeshore-media/newsdesk/internal/model"
)

// XLSXOptions configures worksheet loading.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// columnAliases maps header names, lowercased, to candidate fields.
// Worksheets come from several scrapers with inconsistent headers.
var columnAliases = map[string]string{
	"title":            "title",
	"headline":         "title",
	"content":          "content",
	"body":             "content",
	"text":             "content",
	"source":           "source",
	"outlet":           "source",
	"source_url":       "source_url",
	"url":              "source_url",
	"link":             "source_url",
	"publication_date": "publication_date",
	"date":             "publication_date",
	"published":        "publication_date",
}

// LoadXLSX reads candidates from a worksheet. The first row must be a
// header naming at least a title and a content column; rows with both
// fields empty are skipped.
func LoadXLSX(path string, opts XLSXOptions) ([]model.Candidate, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("ingest: %s has no header row", path)
	}

	columns, err := mapColumns(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var candidates []model.Candidate
	for _, row := range sheet.Rows[1:] {
		c := model.Candidate{ScrapedAt: now}
		for i, cell := range row.Cells {
			field, ok := columns[i]
			if !ok {
				continue
			}
			value := strings.TrimSpace(cell.String())
			switch field {
			case "title":
				c.Title = value
			case "content":
				c.Content = value
			case "source":
				c.Source = value
			case "source_url":
				c.SourceURL = value
			case "publication_date":
				c.PublicationDate = value
			}
		}
		if c.Title == "" && c.Content == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ingest: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

// mapColumns resolves the header row to field positions.
func mapColumns(header *xlsx.Row) (map[int]string, error) {
	columns := make(map[int]string)
	for i, cell := range header.Cells {
		name := strings.ToLower(strings.TrimSpace(cell.String()))
		if field, ok := columnAliases[name]; ok {
			columns[i] = field
		}
	}

	seen := make(map[string]bool, len(columns))
	for _, field := range columns {
		seen[field] = true
	}
	if !seen["title"] || !seen["content"] {
		return nil, eris.New("ingest: header must name title and content columns")
	}
	return columns, nil
}
