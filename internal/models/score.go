// internal/models/score.go
package models

import "time"

// Component identifies one compatibility dimension. Adding a component is a
// compile-time change: the calculators, ComponentScores and the statistics
// breakdown all key off this enum.
type Component string

const (
	ComponentSkills       Component = "skills"
	ComponentExperience   Component = "experience"
	ComponentLocation     Component = "location"
	ComponentAvailability Component = "availability"
	ComponentEducation    Component = "education"
	ComponentCultural     Component = "cultural"
)

// Components returns all score components in their canonical order.
func Components() []Component {
	return []Component{
		ComponentSkills,
		ComponentExperience,
		ComponentLocation,
		ComponentAvailability,
		ComponentEducation,
		ComponentCultural,
	}
}

// Recommendation is the four-way qualitative bucket shared by the scorer and
// the statistics distribution.
type Recommendation string

const (
	RecommendationExcellent Recommendation = "excellent"
	RecommendationGood      Recommendation = "good"
	RecommendationAverage   Recommendation = "average"
	RecommendationPoor      Recommendation = "poor"
)

// ComponentScores holds the six sub-scores, each in [0,100].
type ComponentScores struct {
	Skills       float64 `json:"skillsScore"`
	Experience   float64 `json:"experienceScore"`
	Location     float64 `json:"locationScore"`
	Availability float64 `json:"availabilityScore"`
	Education    float64 `json:"educationScore"`
	Cultural     float64 `json:"culturalScore"`
}

// Get returns the sub-score for a component. Unknown components read as 0.
func (c ComponentScores) Get(comp Component) float64 {
	switch comp {
	case ComponentSkills:
		return c.Skills
	case ComponentExperience:
		return c.Experience
	case ComponentLocation:
		return c.Location
	case ComponentAvailability:
		return c.Availability
	case ComponentEducation:
		return c.Education
	case ComponentCultural:
		return c.Cultural
	}
	return 0
}

// Set assigns the sub-score for a component.
func (c *ComponentScores) Set(comp Component, v float64) {
	switch comp {
	case ComponentSkills:
		c.Skills = v
	case ComponentExperience:
		c.Experience = v
	case ComponentLocation:
		c.Location = v
	case ComponentAvailability:
		c.Availability = v
	case ComponentEducation:
		c.Education = v
	case ComponentCultural:
		c.Cultural = v
	}
}

// ScoreRecord is the engine's output entity. Records are immutable once
// written; a forced recalculation writes a new record and deactivates the old
// one, so history stays queryable.
type ScoreRecord struct {
	ID             string          `json:"id"`
	WorkerID       string          `json:"workerId"`
	JobID          string          `json:"jobId"`
	Components     ComponentScores `json:"componentScores"`
	OverallScore   float64         `json:"overallScore"`
	Strengths      []string        `json:"strengths"`
	Weaknesses     []string        `json:"weaknesses"`
	Recommendation Recommendation  `json:"recommendation"`
	Version        string          `json:"version"`
	Active         bool            `json:"active"`
	CalculatedAt   time.Time       `json:"calculatedAt"`
}
