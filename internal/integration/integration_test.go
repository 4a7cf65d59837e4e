package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"kusafe-quiz-client/internal/archive"
	"kusafe-quiz-client/internal/domain"
	"kusafe-quiz-client/internal/session"
)

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, cleanup := startPostgres(t, ctx)
	defer cleanup()

	store := archive.Connect(pgURL)
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	yes, no := true, false
	bundle := session.ResultBundle{
		Finished: domain.AttemptResult{
			Score:          2,
			MaxScore:       3,
			CorrectAnswers: 2,
			TotalQuestions: 3,
			TotalTimeMs:    23000,
			Reason:         "Completed",
		},
		Answers: []*bool{&yes, &no, &yes},
	}
	if err := store.Save(ctx, "quiz-1", "attempt-1", bundle); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Re-archiving the same attempt must be a no-op.
	if err := store.Save(ctx, "quiz-1", "attempt-1", bundle); err != nil {
		t.Fatalf("second save: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	records, err := archive.NewHistory(pool).Recent(ctx, "quiz-1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one archived attempt, got %d", len(records))
	}
	record := records[0]
	if record.AttemptID != "attempt-1" || record.Score != 2 || record.CorrectAnswers != 2 {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.TotalQuestions != 3 || record.Reason != "Completed" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
