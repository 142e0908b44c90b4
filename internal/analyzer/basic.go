package analyzer

import (
	"strings"

	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/textnorm"
)

// BasicCheck is the conservative pass/fail heuristic used when the full
// analysis faults on a record. It rejects obvious boilerplate titles,
// heavily repeated content, and garbled titles, and accepts everything
// else. It must never panic.
func (a *Analyzer) BasicCheck(c model.Candidate) bool {
	title := strings.TrimSpace(c.Title)
	content := strings.TrimSpace(c.Content)

	if title == "" || content == "" {
		return false
	}
	if len(title) < a.cfg.MinTitleChars || len(content) < a.cfg.MinContentChars {
		return false
	}

	titleLower := strings.ToLower(title)
	for _, bad := range titleBlocklist {
		if strings.Contains(titleLower, bad) {
			return false
		}
	}

	// Excessive repetition: under 50% unique words in a non-trivial body.
	words := textnorm.Words(strings.ToLower(content))
	if len(words) > 20 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if float64(len(unique)) < float64(len(words))*0.5 {
			return false
		}
	}

	// Garbled title: under 60% alphanumeric characters.
	if alnumShare(title) < 0.6 {
		return false
	}

	return true
}

// alnumShare counts letters and digits against byte length, matching the
// title blocklist scan which also works on raw bytes.
func alnumShare(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	count := 0
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			count++
		}
	}
	return float64(count) / float64(len(s))
}
