// Package analyzer scores the quality of scraped news candidates. The
// score combines five independent sub-analyses (length, language,
// structure, news indicators, junk detection) into one integer in
// [0,100]; everything here is a pure function of the input text and the
// analyzer configuration, so identical input always yields an identical
// score.
package analyzer

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/lakeshore-media/newsdesk/internal/config"
	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/textnorm"
)

// DefaultConfig returns an AnalyzerConfig with the calibrated defaults.
func DefaultConfig() config.AnalyzerConfig {
	return config.AnalyzerConfig{
		QualityThreshold: 60,
		MinTitleChars:    10,
		MinContentChars:  100,
		SubstantialWords: 50,
		DetailedWords:    200,
		JunkThreshold:    2,
	}
}

// Analyzer scores candidate quality. Construct with New; the zero value
// has no temporal keyword table.
type Analyzer struct {
	cfg      config.AnalyzerConfig
	temporal []string
}

// New creates an Analyzer. The temporal indicator table is extended with
// the current and previous year so year mentions count as time anchors.
func New(cfg config.AnalyzerConfig) *Analyzer {
	year := time.Now().Year()
	temporal := make([]string, 0, len(temporalIndicators)+2)
	temporal = append(temporal, temporalIndicators...)
	temporal = append(temporal, strconv.Itoa(year-1), strconv.Itoa(year))
	return &Analyzer{cfg: cfg, temporal: temporal}
}

// Analyze scores one candidate. A candidate with an empty title or
// content is rejected immediately with score 0.
func (a *Analyzer) Analyze(c model.Candidate) model.QualityAnalysis {
	title := strings.TrimSpace(c.Title)
	content := strings.TrimSpace(c.Content)

	if title == "" || content == "" {
		return model.QualityAnalysis{
			Score:     0,
			IsQuality: false,
			Reasons:   []string{"Missing title or content"},
		}
	}

	detail := model.QualityDetail{
		Length:         a.analyzeLength(title, content),
		Language:       a.analyzeLanguage(title, content),
		Structure:      a.analyzeStructure(content),
		NewsIndicators: a.analyzeNewsIndicators(title, content),
		Junk:           a.detectJunk(title, content),
	}

	score := a.composeScore(detail)
	isQuality := score >= a.cfg.QualityThreshold

	return model.QualityAnalysis{
		Score:     score,
		IsQuality: isQuality,
		Reasons:   a.reasons(detail, isQuality),
		Detail:    detail,
	}
}

func (a *Analyzer) analyzeLength(title, content string) model.LengthAnalysis {
	titleWords := len(textnorm.Words(title))
	contentWords := len(textnorm.Words(content))

	return model.LengthAnalysis{
		TitleWords:         titleWords,
		ContentWords:       contentWords,
		ContentChars:       len(content),
		TitleAppropriate:   titleWords >= 5 && titleWords <= 20,
		ContentSubstantial: contentWords >= a.cfg.SubstantialWords,
		ContentDetailed:    contentWords >= a.cfg.DetailedWords,
	}
}

func (a *Analyzer) analyzeLanguage(title, content string) model.LanguageAnalysis {
	text := strings.ToLower(title + " " + content)
	words := textnorm.Words(text)

	if len(words) == 0 {
		return model.LanguageAnalysis{Score: 0, Issues: []string{"No content"}}
	}

	sentences := len(textnorm.Sentences(content))
	if sentences == 0 {
		sentences = 1
	}
	avgWords := float64(len(words)) / float64(sentences)

	var issues []string

	// Highly repetitive content: single most frequent word over 10% of all words.
	counts := make(map[string]int, len(words))
	maxCount := 0
	for _, w := range words {
		counts[w]++
		if counts[w] > maxCount {
			maxCount = counts[w]
		}
	}
	if float64(maxCount) > float64(len(words))*0.1 {
		issues = append(issues, "Highly repetitive content")
	}

	if avgWords < 5 {
		issues = append(issues, "Sentences too short (fragmented)")
	} else if avgWords > 30 {
		issues = append(issues, "Sentences too long (hard to read)")
	}

	if specialCharRatio(text) > 0.1 {
		issues = append(issues, "Too many special characters")
	}

	score := 70 - float64(len(issues))*15
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return model.LanguageAnalysis{
		Score:               score,
		AvgWordsPerSentence: avgWords,
		Issues:              issues,
	}
}

// specialCharRatio returns the share of characters that are neither
// alphanumeric nor ordinary punctuation/spacing.
func specialCharRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	special := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case ' ', '\n', '\t', '.', ',', '!', '?', ';', ':', '-':
			continue
		}
		special++
	}
	return float64(special) / float64(total)
}

func (a *Analyzer) analyzeStructure(content string) model.StructureAnalysis {
	paragraphs := len(textnorm.Paragraphs(content))
	sentences := len(textnorm.Sentences(content))

	return model.StructureAnalysis{
		ParagraphCount: paragraphs,
		SentenceCount:  sentences,
		WellStructured: paragraphs >= 2 && sentences >= 3,
	}
}

func (a *Analyzer) analyzeNewsIndicators(title, content string) model.IndicatorAnalysis {
	text := strings.ToLower(title + " " + content)

	journalistic := countPresent(text, journalisticIndicators)
	temporal := countPresent(text, a.temporal)
	factual := countPresent(text, factualIndicators)

	return model.IndicatorAnalysis{
		Journalistic:    journalistic,
		Temporal:        temporal,
		Factual:         factual,
		Total:           journalistic + temporal + factual,
		HasJournalistic: journalistic > 0,
		HasTemporal:     temporal > 0,
		HasFactual:      factual > 0,
	}
}

func (a *Analyzer) detectJunk(title, content string) model.JunkAnalysis {
	text := strings.ToLower(title + " " + content)

	var found []string
	for _, indicator := range junkIndicators {
		if strings.Contains(text, indicator) {
			found = append(found, indicator)
		}
	}

	return model.JunkAnalysis{
		Found:      found,
		Count:      len(found),
		LikelyJunk: len(found) >= a.cfg.JunkThreshold,
	}
}

// composeScore combines the sub-analyses. Base 50; length bonuses 10/15/10;
// language contributes 0.3x its distance from 50; structure 10; news
// indicators 3 apiece capped at 20; junk costs 30 when likely, else 5 per hit.
func (a *Analyzer) composeScore(d model.QualityDetail) int {
	score := 50.0

	if d.Length.TitleAppropriate {
		score += 10
	}
	if d.Length.ContentSubstantial {
		score += 15
	}
	if d.Length.ContentDetailed {
		score += 10
	}

	score += (d.Language.Score - 50) * 0.3

	if d.Structure.WellStructured {
		score += 10
	}

	indicatorBonus := float64(d.NewsIndicators.Total) * 3
	if indicatorBonus > 20 {
		indicatorBonus = 20
	}
	score += indicatorBonus

	if d.Junk.LikelyJunk {
		score -= 30
	} else {
		score -= float64(d.Junk.Count) * 5
	}

	final := int(score)
	if final < 0 {
		final = 0
	} else if final > 100 {
		final = 100
	}
	return final
}

// reasons explains the accept/reject decision from the sub-signals that
// drove it. Never returns an empty slice.
func (a *Analyzer) reasons(d model.QualityDetail, isQuality bool) []string {
	var reasons []string

	if isQuality {
		if d.Length.ContentDetailed {
			reasons = append(reasons, "Substantial, detailed content")
		}
		if d.NewsIndicators.HasJournalistic {
			reasons = append(reasons, "Contains journalistic elements")
		}
		if d.Structure.WellStructured {
			reasons = append(reasons, "Well-structured article format")
		}
		if d.Language.Score > 70 {
			reasons = append(reasons, "Good language quality")
		}
	} else {
		if !d.Length.ContentSubstantial {
			reasons = append(reasons, "Content too short for news article")
		}
		if d.Junk.LikelyJunk {
			reasons = append(reasons, "Contains junk/navigation content")
		}
		if d.Language.Score < 40 {
			reasons = append(reasons, "Poor language quality")
		}
		if d.NewsIndicators.Total == 0 {
			reasons = append(reasons, "Lacks news-like characteristics")
		}
	}

	if len(reasons) == 0 {
		reasons = []string{"General quality assessment"}
	}
	return reasons
}

// countPresent counts how many keywords occur in text at least once.
func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
