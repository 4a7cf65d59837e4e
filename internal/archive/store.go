package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"kusafe-quiz-client/internal/archive/migrations"
	"kusafe-quiz-client/internal/session"
)

// AttemptRecord is one archived terminal result.
type AttemptRecord struct {
	bun.BaseModel `bun:"table:attempt_results"`

	ID             int64     `bun:"id,pk,autoincrement"`
	QuizID         string    `bun:"quiz_id,notnull"`
	AttemptID      string    `bun:"attempt_id,notnull"`
	Score          int       `bun:"score,notnull"`
	MaxScore       int       `bun:"max_score,notnull"`
	CorrectAnswers int       `bun:"correct_answers,notnull"`
	TotalQuestions int       `bun:"total_questions,notnull"`
	TotalTimeMs    int64     `bun:"total_time_ms,notnull"`
	Reason         string    `bun:"reason,notnull"`
	Answers        []byte    `bun:"answers,type:jsonb"`
	FinishedAt     time.Time `bun:"finished_at,notnull,default:now()"`
}

// Store archives completed attempts in Postgres so results outlive the
// session-scoped state store.
type Store struct {
	db *bun.DB
}

// Connect opens a bun handle over the Postgres URL.
func Connect(url string) *Store {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	return &Store{db: bun.NewDB(sqldb, pgdialect.New())}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies the archive schema.
func (s *Store) Migrate(ctx context.Context) error {
	migrator := migrate.NewMigrator(s.db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}
	return nil
}

// Save archives one result bundle. Re-archiving the same attempt is a no-op,
// which keeps the terminal handoff idempotent end to end.
func (s *Store) Save(ctx context.Context, quizID, attemptID string, bundle session.ResultBundle) error {
	answers, err := json.Marshal(bundle.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	record := AttemptRecord{
		QuizID:         quizID,
		AttemptID:      attemptID,
		Score:          bundle.Finished.Score,
		MaxScore:       bundle.Finished.MaxScore,
		CorrectAnswers: bundle.Finished.CorrectAnswers,
		TotalQuestions: bundle.Finished.TotalQuestions,
		TotalTimeMs:    bundle.Finished.TotalTimeMs,
		Reason:         bundle.Finished.Reason,
		Answers:        answers,
		FinishedAt:     time.Now().UTC(),
	}
	_, err = s.db.NewInsert().
		Model(&record).
		On("CONFLICT (attempt_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("archive attempt: %w", err)
	}
	return nil
}
