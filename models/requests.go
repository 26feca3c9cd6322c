package models

type StartSessionRequest struct {
	StudentID  string   `json:"student_id"`
	Topics     []string `json:"topics"`
	Difficulty string   `json:"difficulty"`
}

type ExplainConceptRequest struct {
	Concept      string `json:"concept"`
	Topic        string `json:"topic"`
	StudentLevel string `json:"student_level,omitempty"`
}

type GenerateQuestionRequest struct {
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

type GenerateMCQRequest struct {
	Concept string `json:"concept"`
	Topic   string `json:"topic"`
}

type GenerateVariationsRequest struct {
	Problem       Problem `json:"problem"`
	NumVariations int     `json:"num_variations,omitempty"`
}

type HintRequest struct {
	Problem         Problem `json:"problem"`
	StudentCode     string  `json:"student_code,omitempty"`
	StudentApproach string  `json:"student_approach,omitempty"`
	HintLevel       int     `json:"hint_level,omitempty"`
}

type SocraticHintRequest struct {
	Problem  Problem `json:"problem"`
	Question string  `json:"question"`
}

type StuckPointRequest struct {
	Problem Problem  `json:"problem"`
	Actions []string `json:"actions"`
}

type EvaluateSolutionRequest struct {
	StudentID   string  `json:"student_id,omitempty"`
	Problem     Problem `json:"problem"`
	Code        string  `json:"code"`
	Explanation string  `json:"explanation,omitempty"`
}

type CompareSolutionsRequest struct {
	StudentCode     string `json:"student_code"`
	OptimalSolution string `json:"optimal_solution"`
}

type LearningPathRequest struct {
	Topics []string `json:"topics"`
}
