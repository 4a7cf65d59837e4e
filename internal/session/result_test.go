package session

import (
	"errors"
	"testing"

	"kusafe-quiz-client/internal/domain"
	"kusafe-quiz-client/internal/infra/memory"
)

func TestLoadResultMissing(t *testing.T) {
	store := memory.NewStateStore()
	if _, err := LoadResult(store, "quiz-1"); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestLoadResultDiscardsCorruptPayload(t *testing.T) {
	store := memory.NewStateStore()
	store.Set(ResultPayloadKey("quiz-1"), "][ not json")

	if _, err := LoadResult(store, "quiz-1"); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("expected ErrNoResult for corrupt payload, got %v", err)
	}
	if _, ok := store.Get(ResultPayloadKey("quiz-1")); ok {
		t.Fatalf("corrupt payload must be removed")
	}
}

func TestResultBundleOutcomesPadsUnanswered(t *testing.T) {
	yes := true
	bundle := ResultBundle{
		Finished: domain.AttemptResult{TotalQuestions: 3},
		Answers:  []*bool{&yes, nil},
	}
	outcomes := bundle.Outcomes()
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0] != domain.OutcomeCorrect {
		t.Fatalf("expected first correct")
	}
	if outcomes[1] != domain.OutcomeIncorrect || outcomes[2] != domain.OutcomeIncorrect {
		t.Fatalf("unanswered questions must render incorrect")
	}
}
