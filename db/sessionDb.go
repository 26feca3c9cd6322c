package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"dsatutor/models"

	_ "github.com/lib/pq"
)

// PostgresSessionLog appends session records to a durable table. The
// tracker keeps its own bounded in-memory history for reports; this log
// exists so sessions survive restarts and can be inspected offline.
type PostgresSessionLog struct {
	db *sql.DB
}

func NewPostgresSessionLog(databaseURL string) (*PostgresSessionLog, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSessionLog{db: db}, nil
}

func (l *PostgresSessionLog) Append(record models.SessionRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	query := `
		INSERT INTO dsatutor.sessions (session_id, student_id, record)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET record = $3`

	if _, err := l.db.Exec(query, record.SessionID, record.StudentID, recordJSON); err != nil {
		return fmt.Errorf("failed to store session record: %w", err)
	}

	return nil
}

// RecentForStudent returns up to limit of the student's most recent
// sessions, newest first.
func (l *PostgresSessionLog) RecentForStudent(studentID string, limit int) ([]models.SessionRecord, error) {
	query := `
		SELECT record
		FROM dsatutor.sessions
		WHERE student_id = $1
		ORDER BY createdAt DESC
		LIMIT $2`

	rows, err := l.db.Query(query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	records := make([]models.SessionRecord, 0)
	for rows.Next() {
		var recordJSON []byte
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}

		var record models.SessionRecord
		if err := json.Unmarshal(recordJSON, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session record: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over sessions: %w", err)
	}

	return records, nil
}

func (l *PostgresSessionLog) Close() error {
	return l.db.Close()
}
