package dedup

import (
	"regexp"
	"strings"
)

// Story keyword extraction. Two differently-headlined articles about the
// same real-world event still share incident phrasing, place names, and
// topical nouns; the overlap of those sets is a coarse same-event
// signal. The table-driven patterns below can be extended without
// touching the matching logic.

// incidentPatterns capture co-occurring incident elements. Each match
// contributes its captured groups, joined with spaces, as one keyword.
var incidentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s+miners?\s+(trapped|rescued|safe)`),
	regexp.MustCompile(`fire\s+(kills?|deaths?)\s+(\w+)`),
	regexp.MustCompile(`(\w+)\s+(charged|arrested|sentenced)`),
	regexp.MustCompile(`(\w+)\s+(academy|facility|school)`),
	regexp.MustCompile(`(\d+)\s+(dead|injured|killed)`),
	regexp.MustCompile(`(totten|vale|sudbury)\s+mine`),
	regexp.MustCompile(`(opening|ceremonies|games)\s+(\w+)`),
}

// storyPlaces are place names that anchor a story to a location.
var storyPlaces = regexp.MustCompile(`\b(sudbury|sault|north bay|kirkland|timmins|ontario)\b`)

// storyNouns are topical nouns that identify the kind of event.
var storyNouns = regexp.MustCompile(`\b(miners?|mines?|rescue|fire|arrest|death|accident|court|trial|ceremony|games|budget|strike)\b`)

// highConfidencePhrases identify specific events with near-certainty:
// when every word of a phrase appears in both keyword sets, the two
// articles cover the same story regardless of general overlap.
var highConfidencePhrases = []string{
	"miners trapped", "miners rescued", "totten mine", "vale mine",
	"sudbury fire", "north bay fire", "venture academy",
	"opening ceremonies", "summer games",
}

// StoryKeywords extracts the set of keywords identifying the story told
// by title and content.
func StoryKeywords(title, content string) map[string]struct{} {
	text := strings.ToLower(title + " " + content)
	keywords := make(map[string]struct{})

	for _, pat := range incidentPatterns {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			keywords[strings.Join(m[1:], " ")] = struct{}{}
		}
	}
	for _, m := range storyPlaces.FindAllString(text, -1) {
		keywords[m] = struct{}{}
	}
	for _, m := range storyNouns.FindAllString(text, -1) {
		keywords[m] = struct{}{}
	}

	return keywords
}

// SameEvent reports whether two story keyword sets describe the same
// news event. The hand-curated phrases are precision-biased; the general
// overlap threshold (minOverlap shared keywords covering overlapShare of
// the smaller set) is recall-biased.
func SameEvent(a, b map[string]struct{}, minOverlap int, overlapShare float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	for _, phrase := range highConfidencePhrases {
		if containsAllWords(a, phrase) && containsAllWords(b, phrase) {
			return true
		}
	}

	overlap := 0
	for kw := range a {
		if _, ok := b[kw]; ok {
			overlap++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return overlap >= minOverlap && float64(overlap) >= float64(smaller)*overlapShare
}

func containsAllWords(set map[string]struct{}, phrase string) bool {
	for _, word := range strings.Fields(phrase) {
		if _, ok := set[word]; !ok {
			return false
		}
	}
	return true
}
