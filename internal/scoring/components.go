// internal/scoring/components.go
package scoring

import (
	"strings"

	"matchscore-engine/internal/models"
)

// Tables holds the static lookup data behind the component calculators.
// Missing or degenerate inputs bias toward the population mean, not zero, so
// an incomplete profile is never catastrophically mis-scored.
type Tables struct {
	// ExperienceYears maps a required-experience level to its year threshold.
	ExperienceYears map[models.ExperienceLevel]float64

	// EducationRanks is ordered highest credential first; the first keyword
	// hit on a degree string wins.
	EducationRanks []EducationRank

	// SkillVocabulary is the fixed term list used to extract skills from
	// free-text job fields when no structured skill list exists.
	SkillVocabulary []string

	AvailabilityScores map[models.Availability]float64

	NeutralSkills       float64 // job has no extractable skills
	RemoteLocation      float64
	LocationMatch       float64
	LocationNoMatch     float64
	UnknownAvailability float64
	NoEducation         float64
	HighSchool          float64
	IndustryMatch       float64
	IndustryNeutral     float64
}

// EducationRank ties degree-text keywords to a credential score.
type EducationRank struct {
	Keywords []string
	Score    float64
}

// DefaultTables returns the production lookup tables.
func DefaultTables() Tables {
	return Tables{
		ExperienceYears: map[models.ExperienceLevel]float64{
			models.LevelEntry:     1,
			models.LevelJunior:    2,
			models.LevelMid:       4,
			models.LevelSenior:    7,
			models.LevelLead:      10,
			models.LevelExecutive: 15,
		},
		EducationRanks: []EducationRank{
			{Keywords: []string{"phd", "ph.d", "doctor"}, Score: 95},
			{Keywords: []string{"master", "mba", "m.sc", "msc"}, Score: 90},
			{Keywords: []string{"bachelor", "b.sc", "bsc", "b.a", "licentiate"}, Score: 80},
			{Keywords: []string{"associate", "diploma"}, Score: 60},
		},
		SkillVocabulary: []string{
			"python", "java", "javascript", "typescript", "golang", "sql",
			"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
			"react", "angular", "node", "rust", "ruby", "php", "scala",
			"excel", "tableau", "salesforce", "sap",
			"accounting", "bookkeeping", "payroll",
			"nursing", "phlebotomy", "caregiving",
			"welding", "carpentry", "plumbing", "electrical", "hvac",
			"forklift", "warehouse", "logistics", "inventory",
			"customer service", "sales", "marketing", "copywriting",
			"project management", "scrum", "communication", "leadership",
		},
		AvailabilityScores: map[models.Availability]float64{
			models.AvailabilityAvailable:   100,
			models.AvailabilitySoon:        80,
			models.AvailabilityUnavailable: 0,
		},
		NeutralSkills:       70,
		RemoteLocation:      100,
		LocationMatch:       90,
		LocationNoMatch:     50,
		UnknownAvailability: 60,
		NoEducation:         50,
		HighSchool:          40,
		IndustryMatch:       90,
		IndustryNeutral:     70,
	}
}

// Calculator computes the six component scores. All methods are pure: no
// I/O, no side effects, output always in [0,100].
type Calculator struct {
	tables Tables
}

func NewCalculator(tables Tables) *Calculator {
	return &Calculator{tables: tables}
}

func DefaultCalculator() *Calculator {
	return NewCalculator(DefaultTables())
}

// Score computes the sub-score for a single component.
func (c *Calculator) Score(comp models.Component, w *models.WorkerProfile, j *models.JobProfile) float64 {
	switch comp {
	case models.ComponentSkills:
		return c.SkillsScore(w, j)
	case models.ComponentExperience:
		return c.ExperienceScore(w, j)
	case models.ComponentLocation:
		return c.LocationScore(w, j)
	case models.ComponentAvailability:
		return c.AvailabilityScore(w, j)
	case models.ComponentEducation:
		return c.EducationScore(w, j)
	case models.ComponentCultural:
		return c.CulturalScore(w, j)
	}
	return 0
}

// All computes every component score at once.
func (c *Calculator) All(w *models.WorkerProfile, j *models.JobProfile) models.ComponentScores {
	var scores models.ComponentScores
	for _, comp := range models.Components() {
		scores.Set(comp, c.Score(comp, w, j))
	}
	return scores
}

// SkillsScore is the fraction of the job's skill set present in the worker's
// skill set. Jobs with no extractable skills score neutral rather than
// penalizing the worker for poor tagging.
func (c *Calculator) SkillsScore(w *models.WorkerProfile, j *models.JobProfile) float64 {
	jobSkills := c.ExtractJobSkills(j)
	if len(jobSkills) == 0 {
		return c.tables.NeutralSkills
	}

	workerSkills := make(map[string]bool, len(w.Skills))
	for _, s := range w.Skills {
		workerSkills[normalizeSkill(s.Name)] = true
	}

	matched := 0
	for skill := range jobSkills {
		if workerSkills[skill] {
			matched++
		}
	}
	return float64(matched) / float64(len(jobSkills)) * 100
}

// ExtractJobSkills returns the job's normalized skill-name set, falling back
// to vocabulary keyword matching against the free-text fields.
func (c *Calculator) ExtractJobSkills(j *models.JobProfile) map[string]bool {
	skills := make(map[string]bool)
	for _, s := range j.RequiredSkills {
		if n := normalizeSkill(s); n != "" {
			skills[n] = true
		}
	}
	if len(skills) > 0 {
		return skills
	}

	text := strings.ToLower(j.Title + " " + j.Description + " " + j.Requirements)
	for _, term := range c.tables.SkillVocabulary {
		if strings.Contains(text, term) {
			skills[term] = true
		}
	}
	return skills
}

// ExperienceScore awards full credit at or above the level's year threshold
// and prorates below it.
func (c *Calculator) ExperienceScore(w *models.WorkerProfile, j *models.JobProfile) float64 {
	threshold, ok := c.tables.ExperienceYears[j.ExperienceLevel]
	if !ok || threshold <= 0 {
		// Unlabeled jobs are treated as mid-level rather than entry, keeping
		// the bias at the population mean.
		threshold = c.tables.ExperienceYears[models.LevelMid]
	}

	years := float64(w.ExperienceYears)
	if years < 0 {
		years = 0
	}
	if years >= threshold {
		return 100
	}
	return years / threshold * 100
}

// LocationScore gives partial credit when nothing matches: location data is
// frequently incomplete and absence of a match is not incompatibility.
func (c *Calculator) LocationScore(w *models.WorkerProfile, j *models.JobProfile) float64 {
	if j.Remote {
		return c.tables.RemoteLocation
	}

	jobLoc := strings.ToLower(strings.TrimSpace(j.Location))
	for _, pref := range w.PreferredLocations {
		p := strings.ToLower(strings.TrimSpace(pref))
		if p == "" || jobLoc == "" {
			continue
		}
		if strings.Contains(jobLoc, p) || strings.Contains(p, jobLoc) {
			return c.tables.LocationMatch
		}
	}
	return c.tables.LocationNoMatch
}

// AvailabilityScore is a discrete lookup with an unknown-state default.
func (c *Calculator) AvailabilityScore(w *models.WorkerProfile, _ *models.JobProfile) float64 {
	if score, ok := c.tables.AvailabilityScores[w.Availability]; ok {
		return score
	}
	return c.tables.UnknownAvailability
}

// EducationScore maps the worker's highest credential through the rank table.
// Ambiguous degree text falls through to the high-school score; no records at
// all scores neutral.
func (c *Calculator) EducationScore(w *models.WorkerProfile, _ *models.JobProfile) float64 {
	if len(w.Education) == 0 {
		return c.tables.NoEducation
	}

	best := c.tables.HighSchool
	for _, edu := range w.Education {
		degree := strings.ToLower(edu.Degree)
		for _, rank := range c.tables.EducationRanks {
			if containsAny(degree, rank.Keywords) {
				if rank.Score > best {
					best = rank.Score
				}
				break
			}
		}
	}
	return best
}

// CulturalScore is a deliberately weak signal: exact industry equality or a
// neutral default.
func (c *Calculator) CulturalScore(w *models.WorkerProfile, j *models.JobProfile) float64 {
	if w.Industry != "" && w.Industry == j.Industry {
		return c.tables.IndustryMatch
	}
	return c.tables.IndustryNeutral
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
