package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"kusafe-quiz-client/internal/api"
	"kusafe-quiz-client/internal/domain"
)

// StateStore is the durable, session-scoped key-value capability the driver
// persists through. Keys are deterministic functions of the quiz id; the
// driver owns the full lifecycle of every key it writes.
type StateStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// AttemptAPI is the slice of the platform API the driver consumes.
type AttemptAPI interface {
	StartAttempt(ctx context.Context, quizID string) (api.StartPayload, error)
	SubmitAnswer(ctx context.Context, quizID string, req api.AnswerRequest) (api.AnswerPayload, error)
}

// TokenSource reports whether a bearer credential is available. The driver
// never reads the token itself; it only gates bootstrap on its presence.
type TokenSource interface {
	Token() (string, bool)
}

// Phase is the submission gate of the attempt state machine.
type Phase int

const (
	// PhaseActive means the current question awaits a choice.
	PhaseActive Phase = iota
	// PhaseLocked means a submission is in flight (or the feedback window is
	// open); further submissions are dropped, not queued.
	PhaseLocked
	// PhaseTerminal means the attempt is over; the transition into it is
	// one-way and happens exactly once.
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseLocked:
		return "locked"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Tick is one countdown observation delivered to OnTick.
type Tick struct {
	QuestionOrder int
	Remaining     time.Duration
	Progress      float64
	TimedOut      bool
}

// Config wires a Driver. API, Store, Tokens and QuizID are required.
type Config struct {
	API    AttemptAPI
	Store  StateStore
	Tokens TokenSource
	QuizID string

	// Now is injectable for deterministic tests; defaults to time.Now.
	Now func() time.Time
	// TickInterval is the countdown recomputation period; defaults to 100ms.
	TickInterval time.Duration
	// FeedbackDelay is the pause between an answer response and surfacing
	// the next question; defaults to 520ms, negative disables it. Purely
	// cosmetic.
	FeedbackDelay time.Duration

	// OnTick receives countdown observations while a question is active.
	OnTick func(Tick)
	// OnFinished fires exactly once when the attempt reaches its terminal
	// state, after the result bundle has been persisted.
	OnFinished func(ResultBundle)
}

// Driver owns the lifecycle of one quiz attempt: bootstrap (resume-or-start),
// the per-question countdown, answer submission, and the terminal handoff.
type Driver struct {
	apiClient     AttemptAPI
	store         StateStore
	tokens        TokenSource
	quizID        string
	now           func() time.Time
	tickInterval  time.Duration
	feedbackDelay time.Duration
	onTick        func(Tick)
	onFinished    func(ResultBundle)

	mu          sync.Mutex
	attemptID   string
	token       string
	question    domain.Question
	hasQuestion bool
	deadline    time.Time
	offset      time.Duration
	phase       Phase
	epoch       uint64
	stopTick    chan struct{}
	answers     map[int]domain.Outcome
	total       int
	result      *domain.AttemptResult
	closed      bool
}

func NewDriver(cfg Config) *Driver {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	delay := cfg.FeedbackDelay
	if delay < 0 {
		delay = 0
	} else if delay == 0 {
		delay = 520 * time.Millisecond
	}
	return &Driver{
		apiClient:     cfg.API,
		store:         cfg.Store,
		tokens:        cfg.Tokens,
		quizID:        cfg.QuizID,
		now:           now,
		tickInterval:  tick,
		feedbackDelay: delay,
		onTick:        cfg.OnTick,
		onFinished:    cfg.OnFinished,
		answers:       make(map[int]domain.Outcome),
	}
}

// Bootstrap resolves a live session: a persisted start payload is adopted
// verbatim with no network call, otherwise a fresh start request is issued
// and persisted before adoption so a crash in between is still recoverable.
// A missing credential returns domain.ErrAuthRequired without touching the
// network or the store.
func (d *Driver) Bootstrap(ctx context.Context) error {
	if token, ok := d.tokens.Token(); !ok || token == "" {
		return domain.ErrAuthRequired
	}

	key := StartPayloadKey(d.quizID)
	if raw, ok := d.store.Get(key); ok {
		var payload api.StartPayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil &&
			payload.AttemptID != "" && payload.QuestionToken != "" {
			d.adoptStart(payload)
			return nil
		}
		// Stale or corrupt entry: discard and fall through to a fresh start.
		d.store.Delete(key)
	}

	payload, err := d.apiClient.StartAttempt(ctx, d.quizID)
	if err != nil {
		return err
	}

	raw := payload.Raw
	if len(raw) == 0 {
		raw, _ = json.Marshal(payload)
	}
	d.store.Set(key, string(raw))
	d.applyServerDate(payload.ServerDate)
	d.adoptStart(payload)
	return nil
}

// Submit sends the selected option for the current question. While a
// submission is in flight the driver is locked and re-entrant calls return
// domain.ErrLocked without issuing a request. On failure the driver unlocks
// on the same question and token so the user can retry; nothing persisted is
// mutated.
func (d *Driver) Submit(ctx context.Context, selectedOptionID string) error {
	d.mu.Lock()
	switch {
	case d.phase == PhaseTerminal:
		d.mu.Unlock()
		return domain.ErrTerminal
	case d.phase == PhaseLocked:
		d.mu.Unlock()
		return domain.ErrLocked
	case !d.hasQuestion:
		d.mu.Unlock()
		return domain.ErrNoActiveQuestion
	}

	d.phase = PhaseLocked
	order := d.question.Order
	timedOut := d.remainingLocked() <= 0
	// Optimistic local marking, cosmetic only. A timed-out question is
	// incorrect no matter which option was chosen.
	correct := !timedOut && d.question.CorrectOptionID != "" &&
		selectedOptionID == d.question.CorrectOptionID
	recorded := false
	if _, exists := d.answers[order]; !exists {
		d.answers[order] = outcomeOf(correct)
		recorded = true
	}
	req := api.AnswerRequest{
		AttemptID:        d.attemptID,
		QuestionToken:    d.token,
		SelectedOptionID: selectedOptionID,
	}
	d.mu.Unlock()

	payload, err := d.apiClient.SubmitAnswer(ctx, d.quizID, req)
	if err != nil {
		d.mu.Lock()
		if recorded {
			delete(d.answers, order)
		}
		if d.phase == PhaseLocked {
			d.phase = PhaseActive
		}
		d.mu.Unlock()
		return err
	}

	d.applyServerDate(payload.ServerDate)
	d.waitFeedback(ctx)

	switch outcome := resolveSubmit(payload).(type) {
	case finishedOutcome:
		d.finish(outcome.result)
	case nextQuestionOutcome:
		d.mu.Lock()
		if d.phase != PhaseTerminal {
			d.adoptQuestionLocked(outcome.token, outcome.question, outcome.expiresAtUTC)
		}
		d.mu.Unlock()
	}
	return nil
}

// SetTotalQuestions records the quiz size learned from metadata. The value
// reported by the terminal response wins only if nothing was known before.
func (d *Driver) SetTotalQuestions(n int) {
	if n <= 0 {
		return
	}
	d.mu.Lock()
	if d.total == 0 {
		d.total = n
	}
	d.mu.Unlock()
}

// Close stops the countdown loop. Safe to call more than once. At most one
// tick computed before Close took the lock may still be delivered; no new
// tick is computed afterwards.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopCountdownLocked()
}

// Snapshot is a point-in-time view of the session for rendering.
type Snapshot struct {
	AttemptID      string
	Phase          Phase
	Question       domain.Question
	HasQuestion    bool
	Remaining      time.Duration
	Progress       float64
	TimedOut       bool
	TotalQuestions int
	Answers        map[int]domain.Outcome
	Offset         time.Duration
	Result         *domain.AttemptResult
}

func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	answers := make(map[int]domain.Outcome, len(d.answers))
	for order, outcome := range d.answers {
		answers[order] = outcome
	}
	remaining := d.remainingLocked()
	return Snapshot{
		AttemptID:      d.attemptID,
		Phase:          d.phase,
		Question:       d.question,
		HasQuestion:    d.hasQuestion,
		Remaining:      remaining,
		Progress:       d.progressLocked(remaining),
		TimedOut:       d.hasQuestion && d.phase != PhaseTerminal && remaining <= 0,
		TotalQuestions: d.total,
		Answers:        answers,
		Offset:         d.offset,
		Result:         d.result,
	}
}

func (d *Driver) adoptStart(payload api.StartPayload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attemptID = payload.AttemptID
	d.answers = make(map[int]domain.Outcome)
	d.adoptQuestionLocked(payload.QuestionToken, payload.Question, payload.QuestionExpiresAtUTC)
}

// adoptQuestionLocked installs a question, token and deadline as the live
// state and restarts the countdown bound to a fresh epoch. Ticks from the
// previous question can never observe the new one.
func (d *Driver) adoptQuestionLocked(token string, q domain.Question, expiresAtUTC string) {
	d.token = token
	d.question = q
	d.hasQuestion = true
	if deadline, ok := ParseDeadline(expiresAtUTC); ok {
		d.deadline = deadline
	} else {
		// No usable deadline: grant the question's own time budget from now.
		d.deadline = d.now().Add(d.offset).Add(time.Duration(q.TimeLimitMs) * time.Millisecond)
	}
	d.phase = PhaseActive
	d.epoch++
	d.restartCountdownLocked()
}

func (d *Driver) restartCountdownLocked() {
	d.stopCountdownLocked()
	if d.onTick == nil || d.closed {
		return
	}
	stop := make(chan struct{})
	d.stopTick = stop
	go d.runCountdown(d.epoch, stop)
}

func (d *Driver) stopCountdownLocked() {
	if d.stopTick != nil {
		close(d.stopTick)
		d.stopTick = nil
	}
}

// runCountdown recomputes the remaining time on a fixed tick until the bound
// question is replaced, the attempt finishes, or the driver is closed.
func (d *Driver) runCountdown(epoch uint64, stop chan struct{}) {
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			tick, ok := d.tick(epoch)
			if !ok {
				return
			}
			d.onTick(tick)
		}
	}
}

// tick produces one countdown observation, or reports false when the bound
// question is no longer current.
func (d *Driver) tick(epoch uint64) (Tick, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if epoch != d.epoch || d.phase == PhaseTerminal || d.closed || !d.hasQuestion {
		return Tick{}, false
	}
	remaining := d.remainingLocked()
	return Tick{
		QuestionOrder: d.question.Order,
		Remaining:     remaining,
		Progress:      d.progressLocked(remaining),
		TimedOut:      remaining <= 0,
	}, true
}

// remainingLocked projects current server time as localNow + offset; raw
// local time is never compared against the deadline.
func (d *Driver) remainingLocked() time.Duration {
	if !d.hasQuestion {
		return 0
	}
	remaining := d.deadline.Sub(d.now().Add(d.offset))
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (d *Driver) progressLocked(remaining time.Duration) float64 {
	if !d.hasQuestion || d.question.TimeLimitMs <= 0 {
		return 0
	}
	progress := float64(remaining) / float64(time.Duration(d.question.TimeLimitMs)*time.Millisecond)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (d *Driver) applyServerDate(dateHeader string) {
	offset, ok := EstimateOffset(dateHeader, d.now())
	if !ok {
		return
	}
	d.mu.Lock()
	d.offset = offset
	d.mu.Unlock()
}

func (d *Driver) waitFeedback(ctx context.Context) {
	if d.feedbackDelay <= 0 {
		return
	}
	timer := time.NewTimer(d.feedbackDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// finish performs the terminal transition. The phase guard makes it
// idempotent: a duplicate finished response persists nothing and fires no
// second callback.
func (d *Driver) finish(result domain.AttemptResult) {
	d.mu.Lock()
	if d.phase == PhaseTerminal {
		d.mu.Unlock()
		return
	}
	d.phase = PhaseTerminal
	d.stopCountdownLocked()
	d.result = &result
	if d.total == 0 {
		d.total = result.TotalQuestions
	}
	bundle := ResultBundle{
		Finished: result,
		Answers:  d.answerListLocked(result.TotalQuestions),
	}
	d.mu.Unlock()

	raw, _ := json.Marshal(bundle)
	d.store.Set(ResultPayloadKey(d.quizID), string(raw))
	d.store.Delete(StartPayloadKey(d.quizID))

	if d.onFinished != nil {
		d.onFinished(bundle)
	}
}

func (d *Driver) answerListLocked(total int) []*bool {
	size := total
	for order := range d.answers {
		if order+1 > size {
			size = order + 1
		}
	}
	list := make([]*bool, size)
	for order, outcome := range d.answers {
		if outcome == domain.OutcomeUnset {
			continue
		}
		value := outcome == domain.OutcomeCorrect
		list[order] = &value
	}
	return list
}

func outcomeOf(correct bool) domain.Outcome {
	if correct {
		return domain.OutcomeCorrect
	}
	return domain.OutcomeIncorrect
}

// submitOutcome is the answer response resolved once at the boundary: either
// the attempt continues with a new question, or it is over. A response that
// claims to continue but lacks a next question, token or deadline counts as
// finished with a default reason.
type submitOutcome interface {
	isSubmitOutcome()
}

type finishedOutcome struct {
	result domain.AttemptResult
}

type nextQuestionOutcome struct {
	token        string
	expiresAtUTC string
	question     domain.Question
}

func (finishedOutcome) isSubmitOutcome()     {}
func (nextQuestionOutcome) isSubmitOutcome() {}

func resolveSubmit(payload api.AnswerPayload) submitOutcome {
	if payload.Finished || payload.NextQuestion == nil ||
		payload.NextQuestionToken == "" || payload.NextQuestionExpiresAtUTC == "" {
		reason := payload.Reason
		if reason == "" {
			reason = "Completed"
		}
		return finishedOutcome{result: domain.AttemptResult{
			Score:          payload.Score,
			MaxScore:       payload.MaxScore,
			CorrectAnswers: payload.CorrectAnswers,
			TotalQuestions: payload.TotalQuestions,
			TotalTimeMs:    payload.TotalTimeMs,
			Reason:         reason,
		}}
	}
	return nextQuestionOutcome{
		token:        payload.NextQuestionToken,
		expiresAtUTC: payload.NextQuestionExpiresAtUTC,
		question:     *payload.NextQuestion,
	}
}
