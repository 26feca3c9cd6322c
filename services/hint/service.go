package hint

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"dsatutor/models"

	"github.com/tmc/langchaingo/llms"
)

// MaxLevel is the terminal hint level. Requests above it are clamped
// rather than rejected.
const MaxLevel = 3

const (
	CONCEPTUAL_HINT_PROMPT = `Problem: %s
Description: %s

Provide a gentle, conceptual hint that:
1. Points to the right approach without giving it away
2. Mentions the key DSA concept needed
3. Suggests what to think about
4. Encourages the student

Make it 2-3 sentences, friendly tone.`

	APPROACH_HINT_PROMPT = `Problem: %s
Description: %s
%s

Provide a more specific hint that:
1. Gently corrects misconceptions if any
2. Points to a specific aspect of the problem
3. Suggests a subproblem to solve first
4. Mentions time/space complexity considerations

Make it 3-4 sentences, instructional but not giving away solution.`

	IMPLEMENTATION_HINT_PROMPT = `Problem: %s
Description: %s
%s

Provide a specific implementation hint that:
1. Points to a specific bug or inefficiency (without directly saying "bug")
2. Suggests a specific data structure or algorithm part
3. Mentions edge cases to consider
4. Gives a small code snippet idea if helpful

Make it specific but still making the student think.`

	NEAR_SOLUTION_HINT_PROMPT = `Problem: %s
Description: %s

Provide a strong hint that almost gives the solution:
1. Describe the algorithm steps in general terms
2. Mention the exact data structures to use
3. Give the time/space complexity
4. Still encourage the student to implement it themselves

Make it clear but still require implementation work.`

	SOCRATIC_HINT_PROMPT = `Problem: %s
Student asks: %s

Respond using Socratic method:
1. Don't give direct answer
2. Ask guiding questions back
3. Help student think through the problem
4. Point to relevant concepts

Ask 2-3 thoughtful questions that guide the student.`

	STUCK_POINT_PROMPT = `Problem: %s
Student actions (in order):
%s

Analyze:
1. Where is the student likely stuck?
2. What misconception might they have?
3. What's the next conceptual step they need?

Provide analysis and one specific suggestion.`
)

const fallbackSuggestion = "Review the problem constraints and consider edge cases."

// LevelStore tracks the next hint level per problem. Implementations
// must be safe for concurrent use.
type LevelStore interface {
	Get(problemID string) int
	Put(problemID string, level int)
	Clear()
}

// MemoryLevelStore keeps hint levels in process memory. State is lost on
// restart, which resets every problem to the conceptual level.
type MemoryLevelStore struct {
	mu     sync.Mutex
	levels map[string]int
}

func NewMemoryLevelStore() *MemoryLevelStore {
	return &MemoryLevelStore{levels: make(map[string]int)}
}

func (m *MemoryLevelStore) Get(problemID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[problemID]
}

func (m *MemoryLevelStore) Put(problemID string, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[problemID] = level
}

func (m *MemoryLevelStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = make(map[string]int)
}

type Service struct {
	llm    llms.Model
	levels LevelStore
}

func NewService(llm llms.Model) *Service {
	return &Service{
		llm:    llm,
		levels: NewMemoryLevelStore(),
	}
}

// NewServiceWithStore attaches an external level store, e.g. a
// database-backed one that survives restarts.
func NewServiceWithStore(llm llms.Model, levels LevelStore) *Service {
	return &Service{llm: llm, levels: levels}
}

// GetHint generates a hint at the effective level for the problem. The
// effective level is the larger of the stored level and the requested
// level, clamped to MaxLevel; repeated calls escalate one level at a
// time until the terminal level, which repeats. Hint content is never
// cached, so two calls at the same level can produce different text.
func (s *Service) GetHint(ctx context.Context, problem models.Problem, studentCode, studentApproach string, requestedLevel int) (models.HintResponse, error) {
	stored := s.levels.Get(problem.ID)

	effectiveLevel := max(stored, requestedLevel)
	if effectiveLevel > MaxLevel {
		effectiveLevel = MaxLevel
	}
	if effectiveLevel < 0 {
		effectiveLevel = 0
	}

	prompt := s.hintPrompt(problem, studentCode, studentApproach, effectiveLevel)

	hint, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.3))
	if err != nil {
		return models.HintResponse{}, fmt.Errorf("failed to generate hint: %w", err)
	}

	nextLevel := effectiveLevel + 1
	if nextLevel > MaxLevel {
		nextLevel = MaxLevel
	}
	s.levels.Put(problem.ID, nextLevel)

	log.Printf("[INFO] Generated level %d hint for problem %s", effectiveLevel, problem.ID)

	return models.HintResponse{
		Hint:               strings.TrimSpace(hint),
		HintLevel:          effectiveLevel,
		MaxLevel:           MaxLevel,
		NextLevelAvailable: effectiveLevel < MaxLevel,
	}, nil
}

func (s *Service) hintPrompt(problem models.Problem, studentCode, studentApproach string, level int) string {
	description := truncate(problem.Description, 500)

	switch level {
	case 0:
		return fmt.Sprintf(CONCEPTUAL_HINT_PROMPT, problem.Title, description)
	case 1:
		approachContext := ""
		if studentApproach != "" {
			approachContext = fmt.Sprintf("Student mentioned they're trying: %s", studentApproach)
		}
		return fmt.Sprintf(APPROACH_HINT_PROMPT, problem.Title, description, approachContext)
	case 2:
		codeContext := ""
		if studentCode != "" {
			codeContext = fmt.Sprintf("Student's current code:\n%s", studentCode)
		}
		return fmt.Sprintf(IMPLEMENTATION_HINT_PROMPT, problem.Title, description, codeContext)
	default:
		return fmt.Sprintf(NEAR_SOLUTION_HINT_PROMPT, problem.Title, description)
	}
}

// ClearHistory resets every problem back to the conceptual level. There
// is deliberately no per-problem reset.
func (s *Service) ClearHistory() {
	s.levels.Clear()
	log.Printf("[INFO] Cleared hint history for all problems")
}

// GetSocraticHint answers a student question with guiding questions
// instead of an answer. It does not touch the level state.
func (s *Service) GetSocraticHint(ctx context.Context, problem models.Problem, studentQuestion string) (string, error) {
	prompt := fmt.Sprintf(SOCRATIC_HINT_PROMPT, problem.Title, studentQuestion)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("failed to generate socratic hint: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// AnalyzeStuckPoint combines an LLM analysis of the student's recent
// actions with a local keyword classification, so the stuck-point label
// stays deterministic even when the analysis text varies.
func (s *Service) AnalyzeStuckPoint(ctx context.Context, problem models.Problem, studentActions []string) (models.StuckPointAnalysis, error) {
	var actionLines strings.Builder
	for _, action := range studentActions {
		actionLines.WriteString("- ")
		actionLines.WriteString(action)
		actionLines.WriteString("\n")
	}

	prompt := fmt.Sprintf(STUCK_POINT_PROMPT, problem.Title, strings.TrimRight(actionLines.String(), "\n"))

	analysis, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.3))
	if err != nil {
		return models.StuckPointAnalysis{}, fmt.Errorf("failed to analyze stuck point: %w", err)
	}

	return models.StuckPointAnalysis{
		Analysis:   strings.TrimSpace(analysis),
		Suggestion: extractSuggestion(analysis),
		StuckPoint: identifyStuckPoint(studentActions),
	}, nil
}

// extractSuggestion pulls the first line that looks like actionable
// advice out of the free-form analysis.
func extractSuggestion(analysis string) string {
	for _, line := range strings.Split(analysis, "\n") {
		lowered := strings.ToLower(line)
		if strings.Contains(lowered, "suggestion") || strings.Contains(lowered, "try") || strings.Contains(lowered, "should") {
			return strings.TrimSpace(line)
		}
	}
	return fallbackSuggestion
}

// identifyStuckPoint classifies the student's actions into one of six
// categories. Categories are checked in priority order, so an action
// log mentioning both input parsing and loops reports the input issue.
func identifyStuckPoint(actions []string) string {
	actionText := strings.ToLower(strings.Join(actions, " "))

	containsAny := func(words ...string) bool {
		for _, word := range words {
			if strings.Contains(actionText, word) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("input", "read", "parse"):
		return "Understanding input format"
	case containsAny("output", "print", "return"):
		return "Understanding output format"
	case containsAny("loop", "iterate", "for", "while"):
		return "Implementing iteration logic"
	case containsAny("condition", "if", "else"):
		return "Handling edge cases"
	case containsAny("data structure", "list", "dict", "set"):
		return "Choosing appropriate data structure"
	default:
		return "Understanding problem requirements"
	}
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
