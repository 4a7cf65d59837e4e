package domain

// Option represents a possible answer for a question as the server exposes it.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is the public view of the active question in an attempt. Order is
// the zero-based ordinal within the quiz. CorrectOptionID is only populated
// when the server chooses to expose it; it drives local feedback only — the
// authoritative outcome always comes from the answer response.
type Question struct {
	ID              string   `json:"id"`
	Order           int      `json:"order"`
	Text            string   `json:"text"`
	Points          int      `json:"points"`
	TimeLimitMs     int64    `json:"timeLimitMs"`
	CorrectOptionID string   `json:"correctOptionId,omitempty"`
	Options         []Option `json:"options"`
}

// Outcome is the recorded per-question result within an attempt.
type Outcome int

const (
	// OutcomeUnset means the question has not been resolved yet.
	OutcomeUnset Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
)

// AttemptResult is the immutable terminal snapshot of one attempt.
type AttemptResult struct {
	Score          int    `json:"score"`
	MaxScore       int    `json:"maxScore"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	TotalTimeMs    int64  `json:"totalTimeMs"`
	Reason         string `json:"reason"`
}

// QuizMeta is the lightweight quiz descriptor used to size progress display.
type QuizMeta struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	QuestionsCount int    `json:"questionsCount"`
}

// QuizSummary is one entry of the public quiz catalogue.
type QuizSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	QuestionsCount int    `json:"questionsCount"`
}

// LeaderboardEntry is one row of a quiz leaderboard.
type LeaderboardEntry struct {
	Place       int    `json:"place"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	TotalTimeMs int64  `json:"totalTimeMs"`
}
