package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentora-backend/internal/models"
)

const sessionColumns = "id, user_id, topic, process_type, steps, current_index, history, created_at, updated_at"

type EducationSessionRepo struct {
	pool *pgxpool.Pool
}

func NewEducationSessionRepo(pool *pgxpool.Pool) *EducationSessionRepo {
	return &EducationSessionRepo{pool: pool}
}

// Create inserts a session. id, created_at and updated_at come back from
// the database; steps/history/current_index fall back to the column
// defaults when left empty.
func (r *EducationSessionRepo) Create(ctx context.Context, s *models.EducationSession) error {
	stepsJSON, err := marshalOrEmptyArray(s.Steps)
	if err != nil {
		return fmt.Errorf("failed to encode steps: %w", err)
	}
	historyJSON, err := marshalOrEmptyArray(s.History)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if s.ID == uuid.Nil {
		query := `INSERT INTO education_sessions (user_id, topic, process_type, steps, current_index, history)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
		return r.pool.QueryRow(ctx, query,
			s.UserID, s.Topic, s.ProcessType, stepsJSON, s.CurrentIndex, historyJSON,
		).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	}

	query := `INSERT INTO education_sessions (id, user_id, topic, process_type, steps, current_index, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.Topic, s.ProcessType, stepsJSON, s.CurrentIndex, historyJSON,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *EducationSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EducationSession, error) {
	query := "SELECT " + sessionColumns + " FROM education_sessions WHERE id = $1"
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

// Save persists the mutable columns. updated_at is stamped by the
// database trigger, never by the caller; the fresh value is scanned back.
func (r *EducationSessionRepo) Save(ctx context.Context, s *models.EducationSession) error {
	stepsJSON, err := marshalOrEmptyArray(s.Steps)
	if err != nil {
		return fmt.Errorf("failed to encode steps: %w", err)
	}
	historyJSON, err := marshalOrEmptyArray(s.History)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	query := `UPDATE education_sessions
		SET topic = $1, process_type = $2, steps = $3, current_index = $4, history = $5
		WHERE id = $6 RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		s.Topic, s.ProcessType, stepsJSON, s.CurrentIndex, historyJSON, s.ID,
	).Scan(&s.UpdatedAt)
}

// ListByUser returns sessions most recently touched first. An empty
// userID lists across all users.
func (r *EducationSessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.EducationSession, error) {
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT " + sessionColumns + " FROM education_sessions ORDER BY updated_at DESC LIMIT $1"
	args := []interface{}{limit}
	if userID != "" {
		query = "SELECT " + sessionColumns + " FROM education_sessions WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2"
		args = []interface{}{userID, limit}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.EducationSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *EducationSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM education_sessions WHERE id = $1", id)
	return err
}

func scanSession(row pgx.Row) (*models.EducationSession, error) {
	s := &models.EducationSession{}
	var stepsJSON, historyJSON json.RawMessage

	err := row.Scan(
		&s.ID, &s.UserID, &s.Topic, &s.ProcessType, &stepsJSON,
		&s.CurrentIndex, &historyJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(stepsJSON, &s.Steps); err != nil {
		return nil, fmt.Errorf("failed to decode steps: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &s.History); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return s, nil
}

func marshalOrEmptyArray(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return json.RawMessage("[]"), nil
	}
	return data, nil
}
