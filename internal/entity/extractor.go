// Package entity pulls people, organizations, locations, dates, money
// amounts, and key phrases out of article text with pattern rules. It is
// a heuristic extractor, not a trained NER model: output is best-effort
// signal for quality scoring and downstream display.
package entity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/textnorm"
)

const (
	maxEntities   = 10
	maxDates      = 5
	maxMoney      = 5
	maxKeyPhrases = 10
)

// Extract builds the entity bundle for one candidate. All lists are
// size-capped; ordering within a list is first-match insertion order,
// except key phrases which are frequency-ranked.
func Extract(c model.Candidate) model.EntityBundle {
	text := c.Title + " " + c.Content

	return model.EntityBundle{
		People:        extractPeople(text),
		Organizations: extractOrganizations(text),
		Locations:     extractLocations(text),
		Dates:         extractDates(text),
		MoneyAmounts:  extractMoney(text),
		KeyPhrases:    extractKeyPhrases(c.Title, c.Content),
	}
}

func extractPeople(text string) []string {
	var people []string
	seen := make(map[string]struct{})
	for _, m := range personPattern.FindAllString(text, -1) {
		if _, bad := personStoplist[m]; bad {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		people = append(people, m)
		if len(people) == maxEntities {
			break
		}
	}
	return people
}

func extractOrganizations(text string) []string {
	var orgs []string
	seen := make(map[string]struct{})
	for _, pat := range orgPatterns {
		for _, m := range pat.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			orgs = append(orgs, m)
			if len(orgs) == maxEntities {
				return orgs
			}
		}
	}
	return orgs
}

func extractLocations(text string) []string {
	lower := strings.ToLower(text)

	var locations []string
	seen := make(map[string]struct{})
	add := func(loc string) bool {
		if _, dup := seen[loc]; dup {
			return len(locations) < maxEntities
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
		return len(locations) < maxEntities
	}

	for _, place := range gazetteer {
		if strings.Contains(lower, strings.ToLower(place)) {
			if !add(place) {
				return locations
			}
		}
	}
	for _, m := range cityOfPattern.FindAllStringSubmatch(text, -1) {
		if !add(m[1]) {
			return locations
		}
	}
	return locations
}

func extractDates(text string) []string {
	return matchAll(text, datePatterns, maxDates)
}

func extractMoney(text string) []string {
	return matchAll(text, moneyPatterns, maxMoney)
}

// matchAll runs the pattern table over text, deduplicating matches while
// keeping first-match order, capped at limit.
func matchAll(text string, patterns []*regexp.Regexp, limit int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, pat := range patterns {
		for _, m := range pat.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// extractKeyPhrases frequency-ranks content words (alphabetic, longer
// than 3 chars, not stopwords) with title occurrences weighted 3x.
func extractKeyPhrases(title, content string) []string {
	freq := make(map[string]int)
	order := make(map[string]int)
	next := 0

	count := func(words []string, weight int) {
		for _, w := range words {
			if len(w) <= 3 || !isAlpha(w) {
				continue
			}
			if _, stop := phraseStopwords[w]; stop {
				continue
			}
			if _, ok := freq[w]; !ok {
				order[w] = next
				next++
			}
			freq[w] += weight
		}
	}
	count(textnorm.Words(strings.ToLower(title)), 3)
	count(textnorm.Words(strings.ToLower(content)), 1)

	phrases := make([]string, 0, len(freq))
	for w := range freq {
		phrases = append(phrases, w)
	}
	// Rank by frequency; first-seen order breaks ties so the ranking is
	// deterministic.
	sort.SliceStable(phrases, func(i, j int) bool {
		if freq[phrases[i]] != freq[phrases[j]] {
			return freq[phrases[i]] > freq[phrases[j]]
		}
		return order[phrases[i]] < order[phrases[j]]
	})

	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	return phrases
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
