package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// PostgresHintLevelStore persists per-problem hint levels so a student
// restarting the server does not fall back to conceptual hints. It
// implements hint.LevelStore; database failures are logged and read as
// level zero.
type PostgresHintLevelStore struct {
	db *sql.DB
}

func NewPostgresHintLevelStore(databaseURL string) (*PostgresHintLevelStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresHintLevelStore{db: db}, nil
}

func (s *PostgresHintLevelStore) Get(problemID string) int {
	query := "SELECT level FROM dsatutor.hint_levels WHERE problem_id = $1"

	var level int
	err := s.db.QueryRow(query, problemID).Scan(&level)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[ERROR] Failed to get hint level for problem %s: %v", problemID, err)
		}
		return 0
	}

	return level
}

func (s *PostgresHintLevelStore) Put(problemID string, level int) {
	query := `
		INSERT INTO dsatutor.hint_levels (problem_id, level)
		VALUES ($1, $2)
		ON CONFLICT (problem_id) DO UPDATE SET level = $2`

	if _, err := s.db.Exec(query, problemID, level); err != nil {
		log.Printf("[ERROR] Failed to store hint level for problem %s: %v", problemID, err)
	}
}

func (s *PostgresHintLevelStore) Clear() {
	if _, err := s.db.Exec("DELETE FROM dsatutor.hint_levels"); err != nil {
		log.Printf("[ERROR] Failed to clear hint levels: %v", err)
	}
}

func (s *PostgresHintLevelStore) Close() error {
	return s.db.Close()
}
