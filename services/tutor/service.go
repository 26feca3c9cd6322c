package tutor

import (
	"context"
	"fmt"

	"dsatutor/models"
	"dsatutor/services/evaluator"
	"dsatutor/services/hint"
	"dsatutor/services/knowledge"
	"dsatutor/services/progress"
	"dsatutor/services/qgen"
	"dsatutor/services/teach"
)

// Service is the orchestrator: it owns no state of its own and routes
// each operation to the component that implements it.
type Service struct {
	store     *knowledge.Store
	teacher   *teach.Service
	generator *qgen.Service
	hints     *hint.Service
	evaluator *evaluator.Service
	tracker   *progress.Tracker
}

func NewService(store *knowledge.Store, teacher *teach.Service, generator *qgen.Service, hints *hint.Service, eval *evaluator.Service, tracker *progress.Tracker) *Service {
	return &Service{
		store:     store,
		teacher:   teacher,
		generator: generator,
		hints:     hints,
		evaluator: eval,
		tracker:   tracker,
	}
}

func (s *Service) StartLearningSession(ctx context.Context, studentID string, topics []models.Topic, difficulty models.Difficulty) (models.SessionInfo, error) {
	info, err := s.teacher.StartSession(ctx, studentID, topics, difficulty)
	if err != nil {
		return models.SessionInfo{}, fmt.Errorf("failed to start learning session: %w", err)
	}
	return info, nil
}

func (s *Service) ExplainConcept(ctx context.Context, concept string, topic models.Topic, studentLevel string) (models.ConceptExplanation, error) {
	explanation, err := s.teacher.ExplainConcept(ctx, concept, topic, studentLevel)
	if err != nil {
		return models.ConceptExplanation{}, fmt.Errorf("failed to explain concept %q: %w", concept, err)
	}
	return explanation, nil
}

func (s *Service) GenerateQuestion(ctx context.Context, topic models.Topic, difficulty models.Difficulty, weaknesses []string) (models.Problem, error) {
	problem, err := s.generator.GenerateQuestion(ctx, topic, difficulty, weaknesses)
	if err != nil {
		return models.Problem{}, fmt.Errorf("failed to generate question: %w", err)
	}
	return problem, nil
}

func (s *Service) GenerateMCQ(ctx context.Context, concept string, topic models.Topic) (models.MCQ, error) {
	mcq, err := s.generator.GenerateMCQ(ctx, concept, topic)
	if err != nil {
		return models.MCQ{}, fmt.Errorf("failed to generate MCQ: %w", err)
	}
	return mcq, nil
}

func (s *Service) GenerateVariations(ctx context.Context, base models.Problem, numVariations int) ([]models.ProblemVariation, error) {
	variations, err := s.generator.GenerateVariations(ctx, base, numVariations)
	if err != nil {
		return nil, fmt.Errorf("failed to generate variations: %w", err)
	}
	return variations, nil
}

func (s *Service) GetHint(ctx context.Context, problem models.Problem, studentCode, studentApproach string, requestedLevel int) (models.HintResponse, error) {
	response, err := s.hints.GetHint(ctx, problem, studentCode, studentApproach, requestedLevel)
	if err != nil {
		return models.HintResponse{}, fmt.Errorf("failed to get hint: %w", err)
	}
	return response, nil
}

func (s *Service) GetSocraticHint(ctx context.Context, problem models.Problem, question string) (string, error) {
	response, err := s.hints.GetSocraticHint(ctx, problem, question)
	if err != nil {
		return "", fmt.Errorf("failed to get socratic hint: %w", err)
	}
	return response, nil
}

func (s *Service) AnalyzeStuckPoint(ctx context.Context, problem models.Problem, actions []string) (models.StuckPointAnalysis, error) {
	analysis, err := s.hints.AnalyzeStuckPoint(ctx, problem, actions)
	if err != nil {
		return models.StuckPointAnalysis{}, fmt.Errorf("failed to analyze stuck point: %w", err)
	}
	return analysis, nil
}

func (s *Service) ClearHintHistory() {
	s.hints.ClearHistory()
}

// EvaluateSolution evaluates the submission and, when a student id is
// supplied, folds the score into that student's topic mastery.
func (s *Service) EvaluateSolution(ctx context.Context, studentID string, problem models.Problem, code, explanation string) (models.EvaluationResult, error) {
	result, err := s.evaluator.EvaluateSolution(ctx, problem, code, explanation)
	if err != nil {
		return models.EvaluationResult{}, fmt.Errorf("failed to evaluate solution: %w", err)
	}

	if studentID != "" && problem.Topic != "" {
		s.tracker.RecordEvaluation(studentID, problem.Topic, result.Score)
	}
	return result, nil
}

func (s *Service) CompareWithOptimal(ctx context.Context, studentCode, optimalSolution string) (models.SolutionComparison, error) {
	comparison, err := s.evaluator.CompareWithOptimal(ctx, studentCode, optimalSolution)
	if err != nil {
		return models.SolutionComparison{}, fmt.Errorf("failed to compare solutions: %w", err)
	}
	return comparison, nil
}

func (s *Service) GetProgress(studentID string) (models.ProgressReport, error) {
	return s.tracker.GetProgress(studentID)
}

// RecentSessions returns up to limit of the student's retained session
// records, newest first.
func (s *Service) RecentSessions(studentID string, limit int) []models.SessionRecord {
	all := s.tracker.Sessions()
	records := make([]models.SessionRecord, 0, limit)
	for i := len(all) - 1; i >= 0 && len(records) < limit; i-- {
		if all[i].StudentID == studentID {
			records = append(records, all[i])
		}
	}
	return records
}

func (s *Service) GenerateLearningPath(topics []models.Topic) []models.LearningPlanItem {
	return teach.GenerateLearningPath(topics)
}

// SearchKnowledge exposes raw retrieval, mainly for the chat
// assistant's tool surface.
func (s *Service) SearchKnowledge(ctx context.Context, query string, topic models.Topic) []models.Document {
	return s.store.Query(ctx, query, topic)
}
