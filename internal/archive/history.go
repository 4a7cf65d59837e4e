package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// History reads archived attempts back out of Postgres.
type History struct {
	pool *pgxpool.Pool
}

func NewHistory(pool *pgxpool.Pool) *History {
	return &History{pool: pool}
}

// Recent returns the latest archived attempts for a quiz, newest first.
func (h *History) Recent(ctx context.Context, quizID string, limit int) ([]AttemptRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := h.pool.Query(ctx, `
		SELECT attempt_id, score, max_score, correct_answers, total_questions, total_time_ms, reason, finished_at
		FROM attempt_results
		WHERE quiz_id = $1
		ORDER BY finished_at DESC
		LIMIT $2`, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		record := AttemptRecord{QuizID: quizID}
		var finishedAt time.Time
		if err := rows.Scan(
			&record.AttemptID,
			&record.Score,
			&record.MaxScore,
			&record.CorrectAnswers,
			&record.TotalQuestions,
			&record.TotalTimeMs,
			&record.Reason,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		record.FinishedAt = finishedAt
		records = append(records, record)
	}
	return records, rows.Err()
}
