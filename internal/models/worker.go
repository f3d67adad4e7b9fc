// internal/models/worker.go
package models

// Availability describes whether a worker can take a job right now.
type Availability string

const (
	AvailabilityAvailable   Availability = "AVAILABLE"
	AvailabilitySoon        Availability = "SOON"
	AvailabilityUnavailable Availability = "UNAVAILABLE"
)

// Skill is one entry in a worker's declared skill set.
type Skill struct {
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
	Years       int    `json:"years"`
}

// Education is a single credential on a worker profile. Degree is free text
// ("B.Sc. Computer Science", "PhD in Statistics"); ranking is done by keyword.
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
}

// WorkerProfile is the read model supplied by the worker-management subsystem.
// The scoring engine never writes to it.
type WorkerProfile struct {
	ID                 string       `json:"id"`
	Skills             []Skill      `json:"skills"`
	ExperienceYears    int          `json:"experienceYears"`
	PreferredLocations []string     `json:"preferredLocations"`
	RemotePreferred    bool         `json:"remotePreferred"`
	Availability       Availability `json:"availability"`
	Education          []Education  `json:"education"`
	Industry           string       `json:"industry"`
}
