package progress

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"dsatutor/models"

	"github.com/samber/lo"
)

// ErrStudentNotFound signals a progress query for a student with no
// record. Handlers map it to a 404.
var ErrStudentNotFound = errors.New("student not found")

const (
	strongThreshold = 70.0
	weakThreshold   = 50.0

	// Mastery moves by exponential moving average so one bad run does
	// not erase earlier progress.
	masteryDecay = 0.7

	baselineSessions = 3

	// MaxSessionHistory bounds the retained session records. Oldest
	// entries are dropped first.
	MaxSessionHistory = 100
)

// Repository stores per-student progress records. Implementations must
// be safe for concurrent use.
type Repository interface {
	Get(studentID string) (models.StudentProgress, bool)
	Put(progress models.StudentProgress)
	Clear()
}

// MemoryRepository keeps progress records in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]models.StudentProgress
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]models.StudentProgress)}
}

func (r *MemoryRepository) Get(studentID string) (models.StudentProgress, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[studentID]
	if !ok {
		return models.StudentProgress{}, false
	}
	// Copy the mastery map so callers cannot mutate stored state.
	mastery := make(map[models.Topic]float64, len(record.TopicsMastery))
	for topic, value := range record.TopicsMastery {
		mastery[topic] = value
	}
	record.TopicsMastery = mastery
	return record, true
}

func (r *MemoryRepository) Put(progress models.StudentProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[progress.StudentID] = progress
}

func (r *MemoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]models.StudentProgress)
}

// SessionLog is an optional durable sink for session records, e.g. a
// database table. The in-memory ring stays authoritative for reports.
type SessionLog interface {
	Append(record models.SessionRecord) error
}

// Tracker owns per-student mastery and the bounded session history.
type Tracker struct {
	repository Repository
	sessionLog SessionLog

	mu       sync.Mutex
	sessions []models.SessionRecord
}

func NewTracker(repository Repository) *Tracker {
	if repository == nil {
		repository = NewMemoryRepository()
	}
	return &Tracker{repository: repository}
}

// NewTrackerWithLog additionally mirrors session records into a
// durable log. Log failures are reported but never block a session.
func NewTrackerWithLog(repository Repository, sessionLog SessionLog) *Tracker {
	tracker := NewTracker(repository)
	tracker.sessionLog = sessionLog
	return tracker
}

// StartTracking ensures a record exists for the student, seeding every
// known topic at mastery 0, and increments the session count.
func (t *Tracker) StartTracking(studentID string) models.StudentProgress {
	record, ok := t.repository.Get(studentID)
	if !ok {
		record = models.StudentProgress{
			StudentID:     studentID,
			TopicsMastery: make(map[models.Topic]float64, len(models.AllTopics)),
		}
		for _, topic := range models.AllTopics {
			record.TopicsMastery[topic] = 0
		}
		log.Printf("[INFO] Started tracking progress for student %s", studentID)
	}

	record.TotalSessions++
	t.repository.Put(record)
	return record
}

// RecordSession appends to the session history, evicting the oldest
// record once the history is full.
func (t *Tracker) RecordSession(record models.SessionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sessions = append(t.sessions, record)
	if len(t.sessions) > MaxSessionHistory {
		t.sessions = t.sessions[len(t.sessions)-MaxSessionHistory:]
	}

	if t.sessionLog != nil {
		if err := t.sessionLog.Append(record); err != nil {
			log.Printf("[ERROR] Failed to persist session record %s: %v", record.SessionID, err)
		}
	}
}

// Sessions returns a copy of the retained session history, oldest
// first.
func (t *Tracker) Sessions() []models.SessionRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	sessions := make([]models.SessionRecord, len(t.sessions))
	copy(sessions, t.sessions)
	return sessions
}

// RecordEvaluation folds an evaluation score into the student's topic
// mastery: new = 0.7*old + 0.3*score. Unseen students get a record
// first so an evaluation never vanishes.
func (t *Tracker) RecordEvaluation(studentID string, topic models.Topic, score int) {
	record, ok := t.repository.Get(studentID)
	if !ok {
		record = models.StudentProgress{
			StudentID:     studentID,
			TopicsMastery: make(map[models.Topic]float64, len(models.AllTopics)),
		}
		for _, known := range models.AllTopics {
			record.TopicsMastery[known] = 0
		}
	}

	old := record.TopicsMastery[topic]
	record.TopicsMastery[topic] = masteryDecay*old + (1-masteryDecay)*float64(score)
	t.repository.Put(record)

	log.Printf("[INFO] Updated mastery for student %s topic %s: %.1f -> %.1f", studentID, topic, old, record.TopicsMastery[topic])
}

// GetProgress derives a report from the stored record. Unknown
// students return ErrStudentNotFound.
func (t *Tracker) GetProgress(studentID string) (models.ProgressReport, error) {
	record, ok := t.repository.Get(studentID)
	if !ok {
		return models.ProgressReport{}, fmt.Errorf("progress for %s: %w", studentID, ErrStudentNotFound)
	}

	var total float64
	var strong, weak []models.Topic
	for topic, mastery := range record.TopicsMastery {
		total += mastery
		if mastery >= strongThreshold {
			strong = append(strong, topic)
		}
		if mastery < weakThreshold {
			weak = append(weak, topic)
		}
	}

	average := 0.0
	if len(record.TopicsMastery) > 0 {
		average = total / float64(len(record.TopicsMastery))
	}

	// Map iteration order is random; reports must be stable.
	sort.Slice(strong, func(i, j int) bool { return strong[i] < strong[j] })
	sort.Slice(weak, func(i, j int) bool { return weak[i] < weak[j] })

	return models.ProgressReport{
		StudentID:       record.StudentID,
		TotalSessions:   record.TotalSessions,
		AverageMastery:  roundToTenth(average),
		StrongAreas:     strong,
		WeakAreas:       weak,
		Recommendations: recommendations(record.TotalSessions, strong, weak),
	}, nil
}

func recommendations(totalSessions int, strong, weak []models.Topic) []string {
	var recs []string

	if totalSessions < baselineSessions {
		recs = append(recs, "Complete more practice sessions to establish baseline")
	}

	if len(weak) > 0 {
		named := lo.Map(weak, func(topic models.Topic, _ int) string { return string(topic) })
		if len(named) > 3 {
			named = named[:3]
		}
		recs = append(recs, fmt.Sprintf("Focus on improving: %s", strings.Join(named, ", ")))
	}

	if len(strong) > 0 {
		recs = append(recs, fmt.Sprintf("Leverage your strength in %s to tackle harder problems", strong[0]))
	}

	return recs
}

func roundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
