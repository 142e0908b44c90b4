package entity

import "regexp"

// Pattern tables for the extractor. Extraction is a table scan: adding a
// pattern here extends coverage without touching control flow.

// personPattern matches two consecutive capitalized word spans.
var personPattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)

// personStoplist filters known two-word false positives out of person
// extraction.
var personStoplist = map[string]struct{}{
	"New York":      {},
	"North America": {},
	"United States": {},
	"Great Lakes":   {},
	"City Council":  {},
}

// orgPatterns match corporate suffixes, institutions, and municipal
// "City of X" phrasing.
var orgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][a-z]+ (?:Inc|Corp|Corporation|Company|Ltd|Limited|LLC)\b`),
	regexp.MustCompile(`\b[A-Z][a-z]+ (?:University|College|School|Hospital|Department)\b`),
	regexp.MustCompile(`\b(?:City of|Town of) [A-Z][a-z]+\b`),
}

// gazetteer lists known place names matched case-insensitively as
// substrings. Northern Ontario coverage reflects the feed mix this
// engine was built for.
var gazetteer = []string{
	"Sudbury", "Toronto", "Ottawa", "Montreal", "Vancouver", "Calgary",
	"Edmonton", "Winnipeg", "Halifax", "Ontario", "Quebec", "Alberta",
	"British Columbia", "Manitoba", "Saskatchewan", "Nova Scotia",
	"New Brunswick", "Newfoundland", "Canada",
}

// cityOfPattern extracts the place name from municipal phrasing.
var cityOfPattern = regexp.MustCompile(`(?:City of|Town of) ([A-Z][a-z]+)`)

// datePatterns match weekday names, long dates, slash dates, and
// relative time references.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`),
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December) \d{1,2},? \d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
	regexp.MustCompile(`(?i)\b(?:today|yesterday|tomorrow|this week|last week|next week)\b`),
}

// moneyPatterns match currency symbols and spelled-out amounts.
var moneyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)\b\d+(?:,\d{3})*(?:\.\d{2})? dollars?\b`),
	regexp.MustCompile(`(?i)\b\d+(?:,\d{3})*(?:\.\d{2})? million\b`),
	regexp.MustCompile(`(?i)\b\d+(?:,\d{3})*(?:\.\d{2})? billion\b`),
}

// phraseStopwords are excluded from key phrase ranking.
var phraseStopwords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "they": {}, "them": {},
	"their": {}, "there": {}, "where": {}, "when": {}, "what": {},
	"who": {}, "how": {}, "why": {}, "which": {}, "while": {},
	"during": {}, "after": {}, "before": {}, "above": {}, "below": {},
	"over": {}, "under": {}, "between": {}, "through": {}, "into": {},
}
