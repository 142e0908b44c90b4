package model

import "time"

// Candidate represents one scraped article before quality and category
// analysis. Fields are plain text as delivered by the scraping boundary;
// PublicationDate is free-form and unparsed.
type Candidate struct {
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Source          string    `json:"source"`
	SourceURL       string    `json:"source_url,omitempty"`
	PublicationDate string    `json:"publication_date,omitempty"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// QualityDetail holds the five independent sub-analyses behind a quality
// score. Attached to a QualityAnalysis for downstream display.
type QualityDetail struct {
	Length         LengthAnalysis    `json:"length"`
	Language       LanguageAnalysis  `json:"language_quality"`
	Structure      StructureAnalysis `json:"structure"`
	NewsIndicators IndicatorAnalysis `json:"news_indicators"`
	Junk           JunkAnalysis      `json:"junk_detection"`
}

// LengthAnalysis summarizes word-count characteristics of title and body.
type LengthAnalysis struct {
	TitleWords         int  `json:"title_word_count"`
	ContentWords       int  `json:"content_word_count"`
	ContentChars       int  `json:"content_char_count"`
	TitleAppropriate   bool `json:"title_appropriate"`
	ContentSubstantial bool `json:"content_substantial"`
	ContentDetailed    bool `json:"content_detailed"`
}

// LanguageAnalysis scores readability and flags detected issues.
type LanguageAnalysis struct {
	Score               float64  `json:"score"`
	AvgWordsPerSentence float64  `json:"avg_words_per_sentence"`
	Issues              []string `json:"issues,omitempty"`
}

// StructureAnalysis summarizes paragraph and sentence organization.
type StructureAnalysis struct {
	ParagraphCount int  `json:"paragraph_count"`
	SentenceCount  int  `json:"sentence_count"`
	WellStructured bool `json:"well_structured"`
}

// IndicatorAnalysis counts matches against the journalistic, temporal,
// and factual keyword families.
type IndicatorAnalysis struct {
	Journalistic    int  `json:"journalistic"`
	Temporal        int  `json:"temporal"`
	Factual         int  `json:"factual"`
	Total           int  `json:"total"`
	HasJournalistic bool `json:"has_journalistic_elements"`
	HasTemporal     bool `json:"has_temporal_elements"`
	HasFactual      bool `json:"has_factual_elements"`
}

// JunkAnalysis records matches against the non-news boilerplate list.
type JunkAnalysis struct {
	Found      []string `json:"junk_indicators_found,omitempty"`
	Count      int      `json:"junk_score"`
	LikelyJunk bool     `json:"likely_junk"`
}

// QualityAnalysis is the full accept/reject decision for one candidate.
// Immutable once computed; deterministic for a given input and config.
type QualityAnalysis struct {
	Score     int           `json:"quality_score"`
	IsQuality bool          `json:"is_quality"`
	Reasons   []string      `json:"reasons"`
	Detail    QualityDetail `json:"detailed_analysis"`
}

// ClassificationMethod identifies which strategy produced a result.
type ClassificationMethod string

const (
	MethodSemantic ClassificationMethod = "semantic"
	MethodKeyword  ClassificationMethod = "keyword"
)

// Classification is the category decision for one candidate. Confidence
// is 0-100 and, for the keyword strategy, capped at 95.
type Classification struct {
	Primary     Category             `json:"primary_category"`
	Confidence  float64              `json:"confidence"`
	Secondary   []Category           `json:"secondary_categories,omitempty"`
	Method      ClassificationMethod `json:"method"`
	Scores      map[Category]float64 `json:"category_scores,omitempty"`
}

// EntityBundle holds pattern-extracted entities. Each slice is size-capped
// (10 for entities and key phrases, 5 for dates and money) and preserves
// first-match insertion order, except key phrases which are frequency-ranked.
type EntityBundle struct {
	People        []string `json:"people,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	Dates         []string `json:"dates,omitempty"`
	MoneyAmounts  []string `json:"money_amounts,omitempty"`
	KeyPhrases    []string `json:"key_phrases,omitempty"`
}

// Article is a Candidate enriched with analysis metadata. This is the
// unit the deduplication passes operate on after classification.
type Article struct {
	Candidate
	Quality        QualityAnalysis `json:"quality_analysis"`
	Classification Classification  `json:"classification"`
	Entities       EntityBundle    `json:"entities"`
	AnalyzedAt     time.Time       `json:"analyzed_at"`
	// Fallback reports that the full analyzer faulted on this record and
	// the basic pass/fail heuristic decided its fate instead.
	Fallback bool `json:"fallback,omitempty"`
}
