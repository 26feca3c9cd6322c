package models

import "time"

type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type Problem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Topic        Topic      `json:"topic"`
	Difficulty   Difficulty `json:"difficulty"`
	InputFormat  string     `json:"input_format,omitempty"`
	OutputFormat string     `json:"output_format,omitempty"`
	Constraints  string     `json:"constraints,omitempty"`
	Examples     []Example  `json:"examples,omitempty"`
	Hints        []string   `json:"hints,omitempty"`
	GeneratedAt  time.Time  `json:"generated_at"`
}

type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanations  []string `json:"explanations"`
	Concept       string   `json:"concept"`
	Topic         Topic    `json:"topic"`
}

type ProblemVariation struct {
	Problem
	OriginalID    string `json:"original_id"`
	VariationType string `json:"variation_type"`
}
