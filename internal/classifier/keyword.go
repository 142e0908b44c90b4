package classifier

import (
	"math"
	"sort"
	"strings"

	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/textnorm"
)

// classifyKeyword is the strategy of record: a weighted keyword model
// over the category profiles. Always available, fully deterministic.
func (c *Classifier) classifyKeyword(title, content string) model.Classification {
	titleLower := strings.ToLower(title)
	combined := titleLower + " " + strings.ToLower(content)

	scores := make(map[model.Category]float64, len(c.profiles))
	for _, cat := range c.order {
		p := c.profiles[cat]

		score := 3*float64(countPresent(combined, p.Primary)) +
			1.5*float64(countPresent(combined, p.Context)) +
			2*float64(countPresent(titleLower, p.TitleBoosters))
		score *= p.Weight

		// Clustered keywords are a stronger signal than the same
		// keywords scattered through the text.
		score += proximityBonus(combined, p.Primary, p.Context)

		scores[cat] = math.Round(score*100) / 100
	}

	// Arg-max over alphabetical category order: strict improvement wins,
	// so equal maximal scores resolve to the alphabetically first
	// category. This tie-break is deliberate and tested.
	var primary model.Category
	best := 0.0
	for _, cat := range c.order {
		if scores[cat] > best {
			best = scores[cat]
			primary = cat
		}
	}

	if best == 0 {
		return model.Classification{
			Primary:    model.CategoryGeneral,
			Confidence: 0,
			Method:     model.MethodKeyword,
			Scores:     scores,
		}
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}
	confidence := 100 * best / total
	if confidence > c.cfg.KeywordConfidenceCap {
		confidence = c.cfg.KeywordConfidenceCap
	}

	return model.Classification{
		Primary:    primary,
		Confidence: math.Round(confidence*10) / 10,
		Secondary:  c.secondaries(scores, primary, best),
		Method:     model.MethodKeyword,
		Scores:     scores,
	}
}

// secondaries returns up to two other categories scoring at least the
// configured share of the primary score, strongest first.
func (c *Classifier) secondaries(scores map[model.Category]float64, primary model.Category, best float64) []model.Category {
	type entry struct {
		cat   model.Category
		score float64
	}
	ranked := make([]entry, 0, len(scores))
	for _, cat := range c.order {
		if cat == primary {
			continue
		}
		ranked = append(ranked, entry{cat, scores[cat]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var out []model.Category
	for _, e := range ranked {
		if e.score > best*c.cfg.SecondaryShare {
			out = append(out, e.cat)
			if len(out) == 2 {
				break
			}
		}
	}
	return out
}

// proximityBonus rewards keyword clustering: for every consecutive pair
// of keyword occurrences within 10 words, add max(0, 2 - distance/5).
func proximityBonus(text string, keywordLists ...[]string) float64 {
	words := textnorm.Words(text)

	var positions []int
	for i, word := range words {
		for _, list := range keywordLists {
			if wordMatchesAny(word, list) {
				positions = append(positions, i)
				break
			}
		}
	}
	if len(positions) < 2 {
		return 0
	}

	bonus := 0.0
	for i := 0; i < len(positions)-1; i++ {
		distance := positions[i+1] - positions[i]
		if distance <= 10 {
			if b := 2 - float64(distance)/5; b > 0 {
				bonus += b
			}
		}
	}
	return bonus
}

// wordMatchesAny reports whether any keyword occurs inside word.
// Substring matching keeps punctuation-attached tokens ("council,")
// counting toward proximity.
func wordMatchesAny(word string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(word, kw) {
			return true
		}
	}
	return false
}

// countPresent counts keywords occurring in text at least once.
func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
