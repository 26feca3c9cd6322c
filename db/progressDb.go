package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"dsatutor/models"

	_ "github.com/lib/pq"
)

// PostgresProgressRepository persists per-student mastery records. It
// implements progress.Repository, which reports lookup misses with a
// bool rather than an error, so database failures are logged and
// treated as misses to keep the tutoring flow alive.
type PostgresProgressRepository struct {
	db *sql.DB
}

func NewPostgresProgressRepository(databaseURL string) (*PostgresProgressRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresProgressRepository{db: db}, nil
}

func (r *PostgresProgressRepository) Get(studentID string) (models.StudentProgress, bool) {
	query := `
		SELECT student_id, total_sessions, topics_mastery
		FROM dsatutor.student_progress
		WHERE student_id = $1`

	var progress models.StudentProgress
	var masteryJSON []byte
	row := r.db.QueryRow(query, studentID)

	err := row.Scan(&progress.StudentID, &progress.TotalSessions, &masteryJSON)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[ERROR] Failed to get progress for student %s: %v", studentID, err)
		}
		return models.StudentProgress{}, false
	}

	if err := json.Unmarshal(masteryJSON, &progress.TopicsMastery); err != nil {
		log.Printf("[ERROR] Failed to unmarshal topics mastery for student %s: %v", studentID, err)
		return models.StudentProgress{}, false
	}

	return progress, true
}

func (r *PostgresProgressRepository) Put(progress models.StudentProgress) {
	masteryJSON, err := json.Marshal(progress.TopicsMastery)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal topics mastery for student %s: %v", progress.StudentID, err)
		return
	}

	query := `
		INSERT INTO dsatutor.student_progress (student_id, total_sessions, topics_mastery)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id)
		DO UPDATE SET total_sessions = $2, topics_mastery = $3, updatedAt = NOW()`

	if _, err := r.db.Exec(query, progress.StudentID, progress.TotalSessions, masteryJSON); err != nil {
		log.Printf("[ERROR] Failed to store progress for student %s: %v", progress.StudentID, err)
	}
}

func (r *PostgresProgressRepository) Clear() {
	if _, err := r.db.Exec("DELETE FROM dsatutor.student_progress"); err != nil {
		log.Printf("[ERROR] Failed to clear student progress: %v", err)
	}
}

func (r *PostgresProgressRepository) Close() error {
	return r.db.Close()
}
