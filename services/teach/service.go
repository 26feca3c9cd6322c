package teach

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"dsatutor/models"
	"dsatutor/services/knowledge"
	"dsatutor/services/llmjson"
	"dsatutor/services/progress"

	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
)

const planContentLimit = 500

const (
	WELCOME_PROMPT = `You are an expert DSA tutor. A student wants to learn about: %s.

Generate a warm, encouraging welcome message that:
1. Welcomes them to the learning session
2. Briefly explains what they'll learn
3. Sets expectations for the session
4. Encourages them to ask questions

Keep it friendly but professional, 2-3 paragraphs.`

	EXPLAIN_CONCEPT_PROMPT = `Explain the concept of '%s' in %s to a %s student.

Context from knowledge base:
%s

Requirements:
1. Start with simple analogy or real-world example
2. Explain key principles clearly
3. Include time/space complexity considerations
4. Mention common use cases
5. Warn about common pitfalls
6. End with a summary

Make it engaging and educational. Target: 3-4 paragraphs.`

	KEY_POINTS_PROMPT = `Extract 5-7 key points from this explanation:

%s

Return as a JSON list of strings.`

	RELATED_CONCEPTS_PROMPT = `Based on this context about %s, list 3-5 closely related concepts to '%s':

Context: %s

Return as JSON list of strings.`
)

// Service runs teaching sessions: welcome, learning plans, and concept
// explanations conditioned on the knowledge store.
type Service struct {
	llm     llms.Model
	store   *knowledge.Store
	tracker *progress.Tracker
}

func NewService(llm llms.Model, store *knowledge.Store, tracker *progress.Tracker) *Service {
	return &Service{llm: llm, store: store, tracker: tracker}
}

// StartSession opens a session for the student, registers it with the
// progress tracker, and returns a welcome message plus a learning plan
// built from the knowledge store.
func (s *Service) StartSession(ctx context.Context, studentID string, topics []models.Topic, difficulty models.Difficulty) (models.SessionInfo, error) {
	if studentID == "" {
		return models.SessionInfo{}, fmt.Errorf("student id is required")
	}
	if len(topics) == 0 {
		return models.SessionInfo{}, fmt.Errorf("at least one topic is required")
	}

	sessionID, err := newSessionID()
	if err != nil {
		return models.SessionInfo{}, fmt.Errorf("failed to create session id: %w", err)
	}

	s.tracker.StartTracking(studentID)
	s.tracker.RecordSession(models.SessionRecord{
		SessionID:  sessionID,
		StudentID:  studentID,
		Topics:     topics,
		Difficulty: difficulty,
		StartTime:  time.Now(),
	})

	plan := s.buildLearningPlan(ctx, topics, difficulty)

	welcome, err := s.generateWelcome(ctx, topics)
	if err != nil {
		return models.SessionInfo{}, err
	}

	info := models.SessionInfo{
		SessionID:      sessionID,
		WelcomeMessage: welcome,
		LearningPlan:   plan,
	}
	if len(plan) > 0 {
		info.FirstConcept = &plan[0]
	}

	log.Printf("[INFO] Started session %s for student %s (%d topics, %s)", sessionID, studentID, len(topics), difficulty)
	return info, nil
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// buildLearningPlan pairs each requested topic with a concept document
// and a worked problem from the store. Topics the store knows nothing
// about simply contribute no entries.
func (s *Service) buildLearningPlan(ctx context.Context, topics []models.Topic, difficulty models.Difficulty) []models.LearningPlanItem {
	var plan []models.LearningPlanItem

	for _, topic := range topics {
		docs := s.store.Query(ctx, fmt.Sprintf("Introduction to %s", topic), topic)
		conceptDoc, found := lo.Find(docs, func(doc models.Document) bool {
			return doc.Type == models.DocumentTypeConcept
		})
		if found {
			plan = append(plan, models.LearningPlanItem{
				Type:       "concept",
				Topic:      topic,
				Content:    truncateEllipsis(conceptDoc.Content, planContentLimit),
				Difficulty: string(difficulty),
			})
		}

		docs = s.store.Query(ctx, fmt.Sprintf("%s problem about %s", difficulty, topic), topic)
		problemDoc, found := lo.Find(docs, func(doc models.Document) bool {
			return doc.Type == models.DocumentTypeProblem
		})
		if found {
			plan = append(plan, models.LearningPlanItem{
				Type:       "problem",
				Topic:      topic,
				ProblemID:  problemDoc.ProblemID,
				Difficulty: string(difficulty),
			})
		}
	}

	return plan
}

func (s *Service) generateWelcome(ctx context.Context, topics []models.Topic) (string, error) {
	names := lo.Map(topics, func(topic models.Topic, _ int) string { return string(topic) })
	prompt := fmt.Sprintf(WELCOME_PROMPT, strings.Join(names, ", "))

	welcome, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("failed to generate welcome message: %w", err)
	}
	return strings.TrimSpace(welcome), nil
}

// ExplainConcept produces a retrieval-conditioned explanation with key
// points and related concepts. The two follow-up extractions degrade
// to local heuristics when their replies are unparseable.
func (s *Service) ExplainConcept(ctx context.Context, concept string, topic models.Topic, studentLevel string) (models.ConceptExplanation, error) {
	if studentLevel == "" {
		studentLevel = "beginner"
	}

	docs := s.store.Query(ctx, fmt.Sprintf("Explain %s in %s", concept, topic), topic)
	docContext := "No specific context"
	if len(docs) > 0 {
		docContext = truncate(docs[0].Content, 1000)
	}

	prompt := fmt.Sprintf(EXPLAIN_CONCEPT_PROMPT, concept, topic, studentLevel, docContext)

	explanation, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		return models.ConceptExplanation{}, fmt.Errorf("failed to explain concept: %w", err)
	}

	return models.ConceptExplanation{
		Explanation:     strings.TrimSpace(explanation),
		KeyPoints:       s.extractKeyPoints(ctx, explanation),
		RelatedConcepts: s.relatedConcepts(ctx, concept, topic),
	}, nil
}

func (s *Service) extractKeyPoints(ctx context.Context, explanation string) []string {
	prompt := fmt.Sprintf(KEY_POINTS_PROMPT, explanation)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		log.Printf("[WARN] Key point extraction call failed: %v", err)
		return fallbackKeyPoints(explanation)
	}

	var points []string
	if err := llmjson.Unmarshal(response, &points); err != nil {
		log.Printf("[WARN] Failed to parse key points, using line heuristic: %v", err)
		return fallbackKeyPoints(explanation)
	}
	return points
}

// fallbackKeyPoints takes the first five substantial lines of the
// explanation when the model cannot produce a list.
func fallbackKeyPoints(explanation string) []string {
	var points []string
	for _, line := range strings.Split(explanation, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 {
			points = append(points, line)
		}
		if len(points) == 5 {
			break
		}
	}
	return points
}

func (s *Service) relatedConcepts(ctx context.Context, concept string, topic models.Topic) []string {
	docs := s.store.Query(ctx, fmt.Sprintf("Concepts related to %s in %s", concept, topic), topic)
	docContext := ""
	if len(docs) > 0 {
		docContext = truncate(docs[0].Content, 500)
	}

	prompt := fmt.Sprintf(RELATED_CONCEPTS_PROMPT, topic, concept, docContext)

	response, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		log.Printf("[WARN] Related concept call failed: %v", err)
		return []string{}
	}

	var related []string
	if err := llmjson.Unmarshal(response, &related); err != nil {
		return []string{}
	}
	return related
}

// GenerateLearningPath lays out a fixed per-topic study sequence:
// concept, easy problem, medium problem, review. No model call is
// involved, so the path is the same for every student at a given topic
// list.
func GenerateLearningPath(topics []models.Topic) []models.LearningPlanItem {
	var path []models.LearningPlanItem

	for _, topic := range topics {
		path = append(path,
			models.LearningPlanItem{
				Type:          "concept",
				Topic:         topic,
				Title:         fmt.Sprintf("Introduction to %s", topic),
				EstimatedTime: "15-20 minutes",
			},
			models.LearningPlanItem{
				Type:          "problem",
				Topic:         topic,
				Title:         fmt.Sprintf("Basic %s Practice", topic),
				Difficulty:    string(models.DifficultyEasy),
				EstimatedTime: "20-30 minutes",
			},
			models.LearningPlanItem{
				Type:          "problem",
				Topic:         topic,
				Title:         fmt.Sprintf("Intermediate %s Challenge", topic),
				Difficulty:    string(models.DifficultyMedium),
				EstimatedTime: "30-45 minutes",
			},
			models.LearningPlanItem{
				Type:          "review",
				Topic:         topic,
				Title:         fmt.Sprintf("%s Review & Common Patterns", topic),
				EstimatedTime: "10-15 minutes",
			},
		)
	}

	return path
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

func truncateEllipsis(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
