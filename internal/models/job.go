// internal/models/job.go
package models

// ExperienceLevel is the job's required seniority. Each level maps to a year
// threshold in the scoring tables.
type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "ENTRY"
	LevelJunior    ExperienceLevel = "JUNIOR"
	LevelMid       ExperienceLevel = "MID"
	LevelSenior    ExperienceLevel = "SENIOR"
	LevelLead      ExperienceLevel = "LEAD"
	LevelExecutive ExperienceLevel = "EXECUTIVE"
)

// SalaryBand is informational only; no score component reads it.
type SalaryBand struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// JobProfile is the read model supplied by the job-management subsystem.
// RequiredSkills may be empty for poorly tagged jobs, in which case skills are
// extracted from the free-text fields against a fixed vocabulary.
type JobProfile struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Requirements    string          `json:"requirements"`
	RequiredSkills  []string        `json:"requiredSkills"`
	PreferredSkills []string        `json:"preferredSkills"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Location        string          `json:"location"`
	Remote          bool            `json:"remote"`
	Industry        string          `json:"industry"`
	Category        string          `json:"category"`
	JobType         string          `json:"jobType"`
	Salary          SalaryBand      `json:"salary"`
}
