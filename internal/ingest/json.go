// Package ingest loads scraped candidate records from the formats the
// scrapers hand off: JSON exports and XLSX worksheets.
package ingest

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lakeshore-media/newsdesk/internal/model"
)

// jsonExport matches the wrapped export shape some scrapers emit.
type jsonExport struct {
	Articles []model.Candidate `json:"articles"`
}

// LoadJSON reads candidates from a JSON file, accepting either a bare
// array or an object with an "articles" key. Records missing a scrape
// timestamp get the load time.
func LoadJSON(path string) ([]model.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}

	var candidates []model.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		var wrapped jsonExport
		if wrapErr := json.Unmarshal(data, &wrapped); wrapErr != nil {
			return nil, eris.Wrapf(err, "ingest: parse %s", path)
		}
		candidates = wrapped.Articles
	}

	now := time.Now().UTC()
	for i := range candidates {
		if candidates[i].ScrapedAt.IsZero() {
			candidates[i].ScrapedAt = now
		}
	}
	return candidates, nil
}
