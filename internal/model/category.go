package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category represents a topical news bucket.
type Category string

const (
	CategoryLocalGovernment    Category = "local_government"
	CategoryCommunityEvents    Category = "community_events"
	CategoryBusinessEconomy    Category = "business_economy"
	CategoryPublicSafety       Category = "public_safety"
	CategoryEnvironmentWeather Category = "environment_weather"
	CategoryEducation          Category = "education"
	CategoryHealth             Category = "health"
	CategorySports             Category = "sports"

	// CategoryGeneral is the fallback when no category scores above zero.
	CategoryGeneral Category = "general"
)

// AllCategories returns the scored categories in alphabetical order.
// Alphabetical order is the documented tie-break for equal maximal
// classification scores, so this ordering is load-bearing.
func AllCategories() []Category {
	return []Category{
		CategoryBusinessEconomy,
		CategoryCommunityEvents,
		CategoryEducation,
		CategoryEnvironmentWeather,
		CategoryHealth,
		CategoryLocalGovernment,
		CategoryPublicSafety,
		CategorySports,
	}
}

var titleCaser = cases.Title(language.English)

// DisplayName renders a category for human-facing output,
// e.g. "local_government" becomes "Local Government".
func (c Category) DisplayName() string {
	return titleCaser.String(strings.ReplaceAll(string(c), "_", " "))
}
