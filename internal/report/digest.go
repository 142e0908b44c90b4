// Package report renders a pipeline run into a human-readable digest.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/lakeshore-media/newsdesk/internal/model"
)

// Digest formats a run result as a markdown digest. Categories appear
// in alphabetical order; articles keep the quality ordering the
// pipeline produced.
func Digest(result *model.RunResult, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# News Digest: %s\n\n", generatedAt.Format("January 2, 2006"))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Records in: %d\n", result.Stats.Input)
	fmt.Fprintf(&b, "- Duplicates removed: %d\n", result.Stats.CrossSourceDups)
	if result.Stats.Stale > 0 {
		fmt.Fprintf(&b, "- Stale records skipped: %d\n", result.Stats.Stale)
	}
	fmt.Fprintf(&b, "- Rejected by quality gate: %d\n", result.Stats.QualityRejected)
	if result.Stats.Fallbacks > 0 {
		fmt.Fprintf(&b, "- Degraded to basic check: %d\n", result.Stats.Fallbacks)
	}
	fmt.Fprintf(&b, "- Articles published: %d across %d categories\n\n",
		result.Stats.Final, len(result.Categories))

	for _, cat := range model.AllCategories() {
		articles := result.Categories[cat]
		if len(articles) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %s (%d)\n", cat.DisplayName(), len(articles))
		fmt.Fprintf(&b, "Average quality: %d\n\n", averageQuality(articles))

		for _, a := range articles {
			fmt.Fprintf(&b, "- **%s**", a.Title)
			if a.Source != "" {
				fmt.Fprintf(&b, " (%s)", a.Source)
			}
			b.WriteString("\n")
			fmt.Fprintf(&b, "  Quality %d, confidence %.1f%% via %s\n",
				a.Quality.Score, a.Classification.Confidence, a.Classification.Method)
			for _, sec := range a.Classification.Secondary {
				fmt.Fprintf(&b, "  Also relevant: %s\n", sec.DisplayName())
			}
			if mentions := topMentions(a.Entities); mentions != "" {
				fmt.Fprintf(&b, "  Mentions: %s\n", mentions)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func averageQuality(articles []model.Article) int {
	if len(articles) == 0 {
		return 0
	}
	sum := 0
	for _, a := range articles {
		sum += a.Quality.Score
	}
	return sum / len(articles)
}

// topMentions joins the leading extracted entities into one line, at
// most three names so the digest stays scannable.
func topMentions(e model.EntityBundle) string {
	var mentions []string
	for _, group := range [][]string{e.People, e.Organizations, e.Locations} {
		mentions = append(mentions, group...)
	}
	if len(mentions) > 3 {
		mentions = mentions[:3]
	}
	return strings.Join(mentions, ", ")
}
