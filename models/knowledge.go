package models

const (
	DocumentTypeConcept = "concept"
	DocumentTypeProblem = "problem"
)

// Document is a single retrieval unit in the knowledge store.
type Document struct {
	Content    string `json:"content"`
	Topic      Topic  `json:"topic"`
	Type       string `json:"type"`
	ProblemID  string `json:"problem_id,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}
