package models

type SyntaxCheck struct {
	HasIssues  bool     `json:"has_issues"`
	Issues     []string `json:"issues"`
	CodeLength int      `json:"code_length"`
	LineCount  int      `json:"line_count"`
}

type ConceptualAssessment struct {
	ApproachCorrect  bool     `json:"approach_correct"`
	EdgeCasesHandled []string `json:"edge_cases_handled"`
	TimeComplexity   string   `json:"time_complexity"`
	SpaceComplexity  string   `json:"space_complexity"`
	PotentialBugs    []string `json:"potential_bugs"`
}

type Feedback struct {
	Positives           []string `json:"positives"`
	ImprovementsNeeded  []string `json:"improvements_needed"`
	ConceptGaps         []string `json:"concept_gaps"`
	SpecificSuggestions []string `json:"specific_suggestions"`
}

type Suggestion struct {
	Type       string `json:"type"`
	Suggestion string `json:"suggestion,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Change     string `json:"change,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Example    string `json:"example,omitempty"`
}

type EvaluationResult struct {
	Score        int                  `json:"score"`
	Correctness  bool                 `json:"correctness"`
	SyntaxCheck  SyntaxCheck          `json:"syntax_check"`
	Assessment   ConceptualAssessment `json:"assessment"`
	Feedback     Feedback             `json:"feedback"`
	Improvements []Suggestion         `json:"improvements"`
	NextSteps    []string             `json:"next_steps"`
}

type SolutionComparison struct {
	Differences           []string `json:"differences"`
	EfficiencyAnalysis    string   `json:"efficiency_analysis"`
	ReadabilityComparison string   `json:"readability_comparison"`
	KeyLearnings          []string `json:"key_learnings"`
}
