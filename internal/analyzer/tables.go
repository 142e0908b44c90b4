package analyzer

// Keyword tables behind the news-indicator and junk sub-analyses. These
// are static configuration: matching is case-insensitive substring
// containment against the combined title+content text.

// journalisticIndicators signal sourced, reported news writing.
var journalisticIndicators = []string{
	"reported", "announced", "according to", "sources", "officials",
	"spokesperson", "statement", "confirmed", "investigation", "interview",
	"witnesses", "experts", "analysis", "background", "context",
}

// temporalIndicators anchor a story in time. Current and previous year
// strings are appended at analyzer construction.
var temporalIndicators = []string{
	"today", "yesterday", "this week", "last month", "recently",
	"monday", "tuesday", "wednesday", "thursday", "friday",
	"saturday", "sunday", "january", "february", "march", "april",
	"may", "june", "july", "august", "september", "october",
	"november", "december",
}

// factualIndicators signal data-backed reporting.
var factualIndicators = []string{
	"data", "statistics", "numbers", "percent", "increased", "decreased",
	"study", "research", "survey", "report", "findings", "results",
	"evidence", "facts", "figures", "analysis", "comparison",
}

// junkIndicators mark navigation, legal boilerplate, and technical
// residue that scrapers pick up instead of article bodies.
var junkIndicators = []string{
	// Navigation and UI elements
	"click here", "read more", "view all", "show more", "load more",
	"subscribe", "newsletter", "follow us", "social media", "share",
	"advertisement", "sponsored", "promoted", "affiliate",

	// Legal/footer content
	"terms of service", "privacy policy", "cookie policy", "disclaimer",
	"copyright", "all rights reserved", "contact us", "about us",

	// Technical junk
	"lorem ipsum", "placeholder", "test content", "javascript",
	"error", "404", "page not found", "loading", "search results",
}

// titleBlocklist disqualifies a record outright in the basic fallback
// check when any entry appears in the title.
var titleBlocklist = []string{
	"advertisement", "sponsored", "subscribe", "newsletter signup",
	"follow us", "social media", "terms of service", "privacy policy",
	"cookie policy", "site map", "contact us", "about us",
	"lorem ipsum", "placeholder", "test content",
	"click here", "read more", "view all", "show more",
}
