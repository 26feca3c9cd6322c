package qgen

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"time"

	"dsatutor/models"
	"dsatutor/services/knowledge"
	"dsatutor/services/llmjson"

	"github.com/tmc/langchaingo/llms"
)

const defaultMCQOptions = 4

const (
	GENERATE_PROBLEM_PROMPT = `Generate a %s difficulty DSA problem about %s.

Context from knowledge base:
%s

Requirements:
1. Create a clear, unambiguous problem statement
2. Include input/output format
3. Provide 2-3 sample test cases with explanations
4. Specify constraints
5. Make it appropriate for %s level
%s

Format the response as JSON with keys:
- title: Problem title
- description: Detailed problem statement
- input_format: How input is provided
- output_format: Expected output
- constraints: Time/space limits, input ranges
- examples: List of example inputs/outputs with explanations
- hints: 2-3 hints for solving`

	GENERATE_MCQ_PROMPT = `Generate a multiple choice question about '%s' in %s.

Requirements:
1. Create a clear question stem
2. Generate %d options (A, B, C, D)
3. Exactly one correct answer
4. Include explanations for why each option is correct/incorrect
5. Make it test conceptual understanding, not just memorization

Format as JSON with keys: question, options (list), correct_answer (index), explanations (list).`

	GENERATE_VARIATION_PROMPT = `Create a variation of this problem:

Original: %s

Create a %s.

Requirements:
1. Keep the core concept the same
2. Modify constraints or requirements significantly
3. Provide new sample test cases
4. Update hints if needed

Format as JSON with same structure as original.`
)

// ProblemTemplate describes the patterns and difficulty factors used to
// steer generation for a topic.
type ProblemTemplate struct {
	Patterns          []string
	DifficultyFactors map[models.Difficulty][]string
}

func problemTemplates() map[models.Topic]ProblemTemplate {
	return map[models.Topic]ProblemTemplate{
		models.TopicArrays: {
			Patterns: []string{"two-pointer", "sliding-window", "prefix-sum", "rotation"},
			DifficultyFactors: map[models.Difficulty][]string{
				models.DifficultyEasy:   {"single pattern", "small input", "clear constraints"},
				models.DifficultyMedium: {"combined patterns", "edge cases", "optimization needed"},
				models.DifficultyHard:   {"multiple patterns", "large input", "complex constraints"},
			},
		},
		models.TopicLinkedLists: {
			Patterns: []string{"reversal", "cycle detection", "merge", "two-pointer"},
			DifficultyFactors: map[models.Difficulty][]string{
				models.DifficultyEasy:   {"single operation", "no edge cases"},
				models.DifficultyMedium: {"multiple operations", "special cases"},
				models.DifficultyHard:   {"complex manipulation", "memory constraints"},
			},
		},
		models.TopicTrees: {
			Patterns: []string{"traversal", "bst validation", "lca", "path sum"},
			DifficultyFactors: map[models.Difficulty][]string{
				models.DifficultyEasy:   {"basic traversal", "single property"},
				models.DifficultyMedium: {"combined properties", "modified traversal"},
				models.DifficultyHard:   {"multiple trees", "complex constraints"},
			},
		},
	}
}

type Service struct {
	llm       llms.Model
	store     *knowledge.Store
	templates map[models.Topic]ProblemTemplate
}

func NewService(llm llms.Model, store *knowledge.Store) *Service {
	return &Service{
		llm:       llm,
		store:     store,
		templates: problemTemplates(),
	}
}

// GenerateQuestion produces a fresh practice problem for the topic. The
// knowledge store conditions the prompt when it has anything relevant;
// an unparseable reply degrades to a fallback problem built from the
// raw text instead of failing.
func (s *Service) GenerateQuestion(ctx context.Context, topic models.Topic, difficulty models.Difficulty, studentWeaknesses []string) (models.Problem, error) {
	docs := s.store.Query(ctx, fmt.Sprintf("%s problem about %s", difficulty, topic), topic)

	docContext := "General DSA problem"
	if len(docs) > 0 {
		docContext = truncate(docs[0].Content, 1000)
	}

	weaknessContext := ""
	if len(studentWeaknesses) > 0 {
		weaknessContext = fmt.Sprintf("Focus on these student weaknesses: %s", strings.Join(studentWeaknesses, ", "))
	}

	prompt := fmt.Sprintf(GENERATE_PROBLEM_PROMPT, difficulty, topic, docContext, difficulty, weaknessContext)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.8))
	if err != nil {
		return models.Problem{}, fmt.Errorf("failed to generate question: %w", err)
	}

	var problem models.Problem
	if err := llmjson.Unmarshal(response, &problem); err != nil {
		log.Printf("[WARN] Failed to parse generated problem, using fallback: %v", err)
		return fallbackProblem(topic, difficulty, response), nil
	}

	problem.Topic = topic
	problem.Difficulty = difficulty
	problem.GeneratedAt = time.Now()
	problem.ID = generatedID(problem.Title, problem.Description)

	log.Printf("[INFO] Generated %s %s problem: %s", difficulty, topic, problem.Title)
	return problem, nil
}

// generatedID derives a short stable id from the problem text.
func generatedID(title, description string) string {
	h := fnv.New32a()
	h.Write([]byte(title))
	h.Write([]byte(description))
	return fmt.Sprintf("gen_%04d", h.Sum32()%10000)
}

func fallbackProblem(topic models.Topic, difficulty models.Difficulty, content string) models.Problem {
	return models.Problem{
		ID:           fmt.Sprintf("fallback_%04d", fnv32(content)%10000),
		Title:        fmt.Sprintf("%s Problem", topic),
		Description:  truncate(content, 500),
		Topic:        topic,
		Difficulty:   difficulty,
		InputFormat:  "Standard input format",
		OutputFormat: "Standard output format",
		Constraints:  "1 <= n <= 10^5",
		Examples:     []models.Example{{Input: "Sample input", Output: "Sample output"}},
		Hints:        []string{"Think about the core concept", "Consider edge cases"},
		GeneratedAt:  time.Now(),
	}
}

func fnv32(text string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	return h.Sum32()
}

// GenerateMCQ produces one conceptual multiple-choice question. Parse
// failure degrades to a fixed fallback MCQ.
func (s *Service) GenerateMCQ(ctx context.Context, concept string, topic models.Topic) (models.MCQ, error) {
	prompt := fmt.Sprintf(GENERATE_MCQ_PROMPT, concept, topic, defaultMCQOptions)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.8))
	if err != nil {
		return models.MCQ{}, fmt.Errorf("failed to generate MCQ: %w", err)
	}

	var mcq models.MCQ
	if err := llmjson.Unmarshal(response, &mcq); err != nil {
		log.Printf("[WARN] Failed to parse generated MCQ, using fallback: %v", err)
		return fallbackMCQ(concept, topic), nil
	}

	mcq.Concept = concept
	mcq.Topic = topic
	return mcq, nil
}

func fallbackMCQ(concept string, topic models.Topic) models.MCQ {
	return models.MCQ{
		Question: fmt.Sprintf("What is the key characteristic of %s in %s?", concept, topic),
		Options: []string{
			"Option A - Basic property",
			"Option B - Advanced property",
			"Option C - Common misconception",
			"Option D - Correct characteristic",
		},
		CorrectAnswer: 3,
		Explanations: []string{
			"A is too basic",
			"B is incorrect",
			"C is wrong",
			"D correctly describes the concept",
		},
		Concept: concept,
		Topic:   topic,
	}
}

// GenerateVariations produces up to numVariations variants of a base
// problem, alternating easier and harder. Variants whose replies cannot
// be parsed are skipped, so the result may be shorter than requested.
func (s *Service) GenerateVariations(ctx context.Context, base models.Problem, numVariations int) ([]models.ProblemVariation, error) {
	var variations []models.ProblemVariation

	for i := 0; i < numVariations; i++ {
		variationType := "easier"
		instruction := "Easier variation: Simplify constraints or requirements"
		if i%2 == 1 {
			variationType = "harder"
			instruction = "Harder variation: Add constraints or requirements"
		}

		prompt := fmt.Sprintf(GENERATE_VARIATION_PROMPT, truncate(base.Description, 500), instruction)

		response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.8))
		if err != nil {
			return nil, fmt.Errorf("failed to generate variation %d: %w", i, err)
		}

		var variation models.ProblemVariation
		if err := llmjson.Unmarshal(response, &variation); err != nil {
			log.Printf("[WARN] Skipping unparseable variation %d: %v", i, err)
			continue
		}

		variation.OriginalID = base.ID
		variation.VariationType = variationType
		variation.Topic = base.Topic
		variation.GeneratedAt = time.Now()
		if variation.ID == "" {
			variation.ID = fmt.Sprintf("%s_var_%d", base.ID, i)
		}
		variations = append(variations, variation)
	}

	return variations, nil
}

// Templates exposes the per-topic generation patterns, e.g. for the API
// surface that lists what the generator can steer towards.
func (s *Service) Templates() map[models.Topic]ProblemTemplate {
	return s.templates
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
