package classifier

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/lakeshore-media/newsdesk/internal/model"
)

// Profile holds the keyword tiers and scoring weight for one category.
// Primary keywords score 3, context keywords 1.5, and title boosters 2
// (matched against the title only). Weight reflects how sharp the
// category's vocabulary is.
type Profile struct {
	Primary       []string `yaml:"primary"`
	Context       []string `yaml:"context"`
	TitleBoosters []string `yaml:"title_boosters"`
	Weight        float64  `yaml:"weight"`
	// Description is the natural-language label handed to the zero-shot
	// strategy for this category.
	Description string `yaml:"description"`
}

// builtinProfiles is the static category model. Treated as immutable;
// LoadProfiles returns overrides from a YAML file without mutating it.
var builtinProfiles = map[model.Category]Profile{
	model.CategoryLocalGovernment: {
		Primary: []string{
			"council", "mayor", "city", "municipal", "government", "policy",
			"budget", "bylaw", "meeting", "vote", "elected", "official",
		},
		Context: []string{
			"administration", "committee", "planning", "zoning", "permits",
			"tax", "public works", "infrastructure", "spending", "approval",
		},
		TitleBoosters: []string{"council", "mayor", "city", "municipal"},
		Weight:        1.2,
		Description:   "municipal government, city council, mayor, local politics, bylaw, city budget",
	},
	model.CategoryCommunityEvents: {
		Primary: []string{
			"festival", "event", "celebration", "community", "residents",
			"gathering", "volunteer", "fundraiser", "parade", "concert",
		},
		Context: []string{
			"neighborhood", "local", "cultural", "arts", "music", "theater",
			"library", "recreation", "activities", "family",
		},
		TitleBoosters: []string{"festival", "event", "celebration"},
		Weight:        1.0,
		Description:   "community festival, local events, cultural activities, neighborhood gathering",
	},
	model.CategoryBusinessEconomy: {
		Primary: []string{
			"business", "company", "economic", "jobs", "employment",
			"development", "investment", "construction", "retail",
			"strike", "labor", "union", "workers", "negotiations",
		},
		Context: []string{
			"commerce", "industry", "manufacturing", "startup", "entrepreneur",
			"market", "growth", "expansion", "opening", "closing",
			"contract", "wages", "working conditions", "collective bargaining",
		},
		TitleBoosters: []string{"business", "company", "jobs", "strike", "workers"},
		Weight:        1.1,
		Description:   "business, economics, employment, jobs, companies, labor strike, workers, union",
	},
	model.CategoryPublicSafety: {
		Primary: []string{
			"police", "fire", "emergency", "accident", "crime", "safety",
			"rescue", "ambulance", "investigation", "arrest", "intruder",
			"break in", "robbery", "assault", "theft", "burglary",
		},
		Context: []string{
			"hospital", "medical", "health", "court", "legal", "lawsuit",
			"fraud", "traffic", "security", "danger", "victim",
			"criminal", "suspicious", "threatening",
		},
		TitleBoosters: []string{"police", "fire", "emergency", "accident", "crime", "intruder"},
		Weight:        1.3,
		Description:   "police, crime, emergency, accident, fire, arrest, intruder, break-in, safety",
	},
	model.CategoryEnvironmentWeather: {
		Primary: []string{
			"weather", "storm", "rain", "snow", "temperature", "climate",
			"environment", "pollution", "conservation", "wildlife",
		},
		Context: []string{
			"nature", "park", "forest", "lake", "river", "air quality",
			"water", "recycling", "sustainability", "green", "renewable",
		},
		TitleBoosters: []string{"weather", "storm", "environment"},
		Weight:        1.0,
		Description:   "weather, storm, climate, environment, pollution, conservation, temperature",
	},
	model.CategoryEducation: {
		Primary: []string{
			"school", "university", "college", "student", "teacher", "education",
			"learning", "graduation", "academic", "research",
		},
		Context: []string{
			"study", "enrollment", "curriculum", "classroom", "principal",
			"board", "exam", "degree", "scholarship",
		},
		TitleBoosters: []string{"school", "university", "student"},
		Weight:        1.0,
		Description:   "school, university, education, student, teacher, academic, learning",
	},
	model.CategoryHealth: {
		Primary: []string{
			"health", "medical", "hospital", "doctor", "patient", "treatment",
			"disease", "illness", "healthcare", "clinic",
		},
		Context: []string{
			"medicine", "outbreak", "vaccine", "public health", "mental health",
			"therapy", "surgery", "diagnosis", "recovery",
		},
		TitleBoosters: []string{"health", "medical", "hospital"},
		Weight:        1.1,
		Description:   "healthcare, hospital, medical, health, doctor, patient, disease, treatment",
	},
	model.CategorySports: {
		Primary: []string{
			"hockey", "football", "baseball", "basketball", "soccer", "tennis",
			"golf", "swimming", "skating", "team", "player", "coach",
		},
		Context: []string{
			"championship", "tournament", "league", "game", "match", "sport",
			"athlete", "training", "competition", "victory",
		},
		TitleBoosters: []string{"hockey", "football", "team"},
		Weight:        1.0,
		Description:   "sports, hockey, team, player, game, tournament, athletics, coach",
	},
}

// LoadProfiles returns the category model. When path is non-empty, the
// YAML file replaces the profiles for the categories it names; all other
// categories keep their built-in tables.
func LoadProfiles(path string) (map[model.Category]Profile, error) {
	profiles := make(map[model.Category]Profile, len(builtinProfiles))
	for cat, p := range builtinProfiles {
		profiles[cat] = p
	}

	if path == "" {
		return profiles, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "classifier: read categories file")
	}
	var overrides map[model.Category]Profile
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, eris.Wrap(err, "classifier: parse categories file")
	}
	for cat, p := range overrides {
		if p.Weight == 0 {
			p.Weight = 1.0
		}
		profiles[cat] = p
	}
	return profiles, nil
}
