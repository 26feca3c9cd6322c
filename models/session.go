package models

import "time"

type SessionRecord struct {
	SessionID         string     `json:"session_id"`
	StudentID         string     `json:"student_id"`
	Topics            []Topic    `json:"topics"`
	Difficulty        Difficulty `json:"difficulty"`
	StartTime         time.Time  `json:"start_time"`
	ProblemsAttempted []string   `json:"problems_attempted"`
	ConceptsCovered   []string   `json:"concepts_covered"`
}

type LearningPlanItem struct {
	Type          string `json:"type"`
	Topic         Topic  `json:"topic"`
	Title         string `json:"title,omitempty"`
	Content       string `json:"content,omitempty"`
	ProblemID     string `json:"problem_id,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	EstimatedTime string `json:"estimated_time,omitempty"`
}

type SessionInfo struct {
	SessionID      string             `json:"session_id"`
	WelcomeMessage string             `json:"welcome_message"`
	LearningPlan   []LearningPlanItem `json:"learning_plan"`
	FirstConcept   *LearningPlanItem  `json:"first_concept,omitempty"`
}

type ConceptExplanation struct {
	Explanation     string   `json:"explanation"`
	KeyPoints       []string `json:"key_points"`
	RelatedConcepts []string `json:"related_concepts"`
}
