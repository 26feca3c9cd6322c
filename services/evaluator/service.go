package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"dsatutor/models"
	"dsatutor/services/llmjson"

	"github.com/tmc/langchaingo/llms"
)

// DefaultPassThreshold is the score at which a solution counts as
// correct.
const DefaultPassThreshold = 70

const maxSuggestions = 5

const (
	CONCEPTUAL_TESTS_PROMPT = `Problem: %s
Description: %s

Sample test cases from problem:
%s

Student's code:
` + "```" + `
%s
` + "```" + `

Evaluate conceptually:
1. Does the code implement the right approach?
2. What edge cases does it handle/miss?
3. What's the time/space complexity?
4. Any obvious bugs or inefficiencies?

Return as JSON with: approach_correct (bool), edge_cases_handled (list),
time_complexity (str), space_complexity (str), potential_bugs (list).`

	FEEDBACK_PROMPT = `Problem: %s
Student Code:
` + "```" + `
%s
` + "```" + `

Student Explanation: %s

Test Results:
%s

Generate constructive feedback that:
1. Starts with positive reinforcement
2. Points out specific strengths
3. Identifies specific areas for improvement
4. Explains concepts that were misunderstood
5. Suggests concrete next steps

Format as JSON with: positives (list), improvements_needed (list),
concept_gaps (list), specific_suggestions (list).`

	CODE_IMPROVEMENTS_PROMPT = `Code to improve:
` + "```" + `
%s
` + "```" + `

Problem: %s

Suggest 2-3 specific code improvements with:
1. What to change
2. Why to change it
3. Example of better code

Return as JSON list with: change, reason, example.`

	COMPARE_OPTIMAL_PROMPT = `Student Solution:
` + "```" + `
%s
` + "```" + `

Optimal Solution:
` + "```" + `
%s
` + "```" + `

Compare and provide analysis:
1. Key differences in approach
2. Efficiency comparison
3. Readability comparison
4. What student can learn from optimal solution

Return as JSON with: differences (list), efficiency_analysis (str),
readability_comparison (str), key_learnings (list).`
)

type Service struct {
	llm           llms.Model
	passThreshold int
}

func NewService(llm llms.Model, passThreshold int) *Service {
	if passThreshold <= 0 {
		passThreshold = DefaultPassThreshold
	}
	return &Service{llm: llm, passThreshold: passThreshold}
}

// EvaluateSolution runs the full evaluation pipeline: local static
// checks, an LLM conceptual assessment, LLM feedback, improvement
// suggestions, and a deterministic score over the collected facts.
func (s *Service) EvaluateSolution(ctx context.Context, problem models.Problem, studentCode, studentExplanation string) (models.EvaluationResult, error) {
	syntaxCheck := CheckSyntax(studentCode)
	assessment := s.assessConceptually(ctx, problem, studentCode)
	feedback := s.generateFeedback(ctx, problem, studentCode, studentExplanation, assessment)
	score := calculateScore(syntaxCheck, assessment, feedback)
	improvements := s.suggestImprovements(ctx, studentCode, problem, feedback)

	log.Printf("[INFO] Evaluated solution for problem %s: score=%d correct=%v", problem.ID, score, score >= s.passThreshold)

	return models.EvaluationResult{
		Score:        score,
		Correctness:  score >= s.passThreshold,
		SyntaxCheck:  syntaxCheck,
		Assessment:   assessment,
		Feedback:     feedback,
		Improvements: improvements,
		NextSteps:    recommendNextSteps(score),
	}, nil
}

// CheckSyntax runs cheap pattern checks over the raw code. It is a
// heuristic, not a parser: a "break" inside a string literal still
// defuses the infinite-loop check.
func CheckSyntax(code string) models.SyntaxCheck {
	var issues []string

	if len(strings.TrimSpace(code)) < 10 {
		issues = append(issues, "Code appears incomplete")
	}

	if !containsAny(code, "def ", "class ", "func ", "function ") {
		issues = append(issues, "No function or class definition found")
	}

	if containsAny(code, "while True:", "while true", "for {") && !strings.Contains(code, "break") {
		issues = append(issues, "Potential infinite loop detected")
	}

	if strings.Contains(code, "import ") {
		issues = append(issues, "Note: Imports detected - ensure they're allowed")
	}

	return models.SyntaxCheck{
		HasIssues:  len(issues) > 0,
		Issues:     issues,
		CodeLength: len(code),
		LineCount:  len(strings.Split(code, "\n")),
	}
}

// assessConceptually asks the model whether the approach is right. An
// unparseable reply degrades to a negative assessment instead of
// failing the whole evaluation.
func (s *Service) assessConceptually(ctx context.Context, problem models.Problem, code string) models.ConceptualAssessment {
	examples, err := json.MarshalIndent(problem.Examples, "", "  ")
	if err != nil {
		examples = []byte("[]")
	}

	prompt := fmt.Sprintf(CONCEPTUAL_TESTS_PROMPT, problem.Title, problem.Description, string(examples), code)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.1))
	if err != nil {
		log.Printf("[ERROR] Conceptual assessment call failed: %v", err)
		return defaultAssessment()
	}

	var assessment models.ConceptualAssessment
	if err := llmjson.Unmarshal(response, &assessment); err != nil {
		log.Printf("[WARN] Failed to parse conceptual assessment, using default: %v", err)
		return defaultAssessment()
	}
	return assessment
}

func defaultAssessment() models.ConceptualAssessment {
	return models.ConceptualAssessment{
		ApproachCorrect:  false,
		EdgeCasesHandled: []string{},
		TimeComplexity:   "Unknown",
		SpaceComplexity:  "Unknown",
		PotentialBugs:    []string{"Could not parse evaluation"},
	}
}

func (s *Service) generateFeedback(ctx context.Context, problem models.Problem, code, explanation string, assessment models.ConceptualAssessment) models.Feedback {
	if explanation == "" {
		explanation = "No explanation provided"
	}

	assessmentJSON, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		assessmentJSON = []byte("{}")
	}

	prompt := fmt.Sprintf(FEEDBACK_PROMPT, problem.Title, code, explanation, string(assessmentJSON))

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.1))
	if err != nil {
		log.Printf("[ERROR] Feedback call failed: %v", err)
		return defaultFeedback()
	}

	var feedback models.Feedback
	if err := llmjson.Unmarshal(response, &feedback); err != nil {
		log.Printf("[WARN] Failed to parse feedback, using default: %v", err)
		return defaultFeedback()
	}
	return feedback
}

func defaultFeedback() models.Feedback {
	return models.Feedback{
		Positives:           []string{"Attempted to solve the problem"},
		ImprovementsNeeded:  []string{"Code needs more work"},
		ConceptGaps:         []string{},
		SpecificSuggestions: []string{"Review the problem requirements"},
	}
}

// calculateScore is fully deterministic over the three inputs:
// syntax 20, approach 40, edge cases up to 20, positives up to 20.
func calculateScore(syntaxCheck models.SyntaxCheck, assessment models.ConceptualAssessment, feedback models.Feedback) int {
	score := 0

	if !syntaxCheck.HasIssues {
		score += 20
	}

	if assessment.ApproachCorrect {
		score += 40
	}

	switch {
	case len(assessment.EdgeCasesHandled) >= 2:
		score += 20
	case len(assessment.EdgeCasesHandled) == 1:
		score += 10
	}

	switch {
	case len(feedback.Positives) >= 2:
		score += 20
	case len(feedback.Positives) == 1:
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// suggestImprovements merges feedback-derived suggestions with
// code-specific ones from the model, feedback entries first, capped at
// five total.
func (s *Service) suggestImprovements(ctx context.Context, code string, problem models.Problem, feedback models.Feedback) []models.Suggestion {
	var suggestions []models.Suggestion

	for _, improvement := range feedback.ImprovementsNeeded {
		priority := "medium"
		if strings.Contains(strings.ToLower(improvement), "critical") {
			priority = "high"
		}
		suggestions = append(suggestions, models.Suggestion{
			Type:       "general",
			Suggestion: improvement,
			Priority:   priority,
		})
	}

	prompt := fmt.Sprintf(CODE_IMPROVEMENTS_PROMPT, code, problem.Title)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.1))
	if err != nil {
		log.Printf("[WARN] Code improvement call failed: %v", err)
	} else {
		var codeSuggestions []models.Suggestion
		if err := llmjson.Unmarshal(response, &codeSuggestions); err != nil {
			log.Printf("[WARN] Failed to parse code improvements: %v", err)
		} else {
			for _, suggestion := range codeSuggestions {
				suggestion.Type = "code"
				suggestions = append(suggestions, suggestion)
			}
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func recommendNextSteps(score int) []string {
	switch {
	case score >= 90:
		return []string{
			"Try a harder variation of this problem",
			"Explain your solution to reinforce learning",
			"Help another student with similar problem",
		}
	case score >= 70:
		return []string{
			"Review the suggested improvements",
			"Try the problem again with optimizations",
			"Practice similar problems",
		}
	case score >= 50:
		return []string{
			"Review the core concept",
			"Study the solution approach",
			"Try a simpler version first",
		}
	default:
		return []string{
			"Review fundamental concepts",
			"Start with easier problems",
			"Ask for more hints on this problem",
		}
	}
}

// CompareWithOptimal asks the model to contrast the student's code with
// a reference solution.
func (s *Service) CompareWithOptimal(ctx context.Context, studentCode, optimalSolution string) (models.SolutionComparison, error) {
	prompt := fmt.Sprintf(COMPARE_OPTIMAL_PROMPT, studentCode, optimalSolution)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.1))
	if err != nil {
		return models.SolutionComparison{}, fmt.Errorf("failed to compare solutions: %w", err)
	}

	var comparison models.SolutionComparison
	if err := llmjson.Unmarshal(response, &comparison); err != nil {
		log.Printf("[WARN] Failed to parse solution comparison, using default: %v", err)
		return models.SolutionComparison{
			Differences:           []string{"Could not parse comparison"},
			EfficiencyAnalysis:    "Unknown",
			ReadabilityComparison: "Unknown",
			KeyLearnings:          []string{},
		}, nil
	}
	return comparison, nil
}

func containsAny(text string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}
