// internal/models/outcome.go
package models

// OutcomeStatus is the terminal state of an application, owned by the
// application-management subsystem.
type OutcomeStatus string

const (
	OutcomeHired     OutcomeStatus = "HIRED"
	OutcomeOffered   OutcomeStatus = "OFFERED"
	OutcomeRejected  OutcomeStatus = "REJECTED"
	OutcomeWithdrawn OutcomeStatus = "WITHDRAWN"
)

// ApplicationOutcome is ground truth for the accuracy evaluator. The scoring
// engine only ever reads these.
type ApplicationOutcome struct {
	WorkerID    string        `json:"workerId"`
	JobID       string        `json:"jobId"`
	FinalStatus OutcomeStatus `json:"finalStatus"`
}
