package session

import (
	"encoding/json"

	"kusafe-quiz-client/internal/domain"
)

// ResultBundle is the immutable terminal snapshot persisted under
// ResultPayloadKey: the final result plus the per-question outcomes indexed
// by question ordinal. A nil entry means the question was never resolved.
type ResultBundle struct {
	Finished domain.AttemptResult `json:"finished"`
	Answers  []*bool              `json:"answers"`
}

// Outcomes expands the bundle into one Outcome per question, padding with
// incorrect for questions that were never answered, the way the result view
// renders them.
func (b ResultBundle) Outcomes() []domain.Outcome {
	total := b.Finished.TotalQuestions
	if len(b.Answers) > total {
		total = len(b.Answers)
	}
	outcomes := make([]domain.Outcome, total)
	for i := range outcomes {
		outcomes[i] = domain.OutcomeIncorrect
		if i < len(b.Answers) && b.Answers[i] != nil && *b.Answers[i] {
			outcomes[i] = domain.OutcomeCorrect
		}
	}
	return outcomes
}

// LoadResult reads the persisted result bundle for a quiz. A missing entry
// returns domain.ErrNoResult; a corrupt entry is discarded and reported the
// same way, so the caller falls back to the quiz landing flow instead of
// rendering a broken result.
func LoadResult(store StateStore, quizID string) (ResultBundle, error) {
	key := ResultPayloadKey(quizID)
	raw, ok := store.Get(key)
	if !ok {
		return ResultBundle{}, domain.ErrNoResult
	}
	var bundle ResultBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		store.Delete(key)
		return ResultBundle{}, domain.ErrNoResult
	}
	return bundle, nil
}
