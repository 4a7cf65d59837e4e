package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kusafe-quiz-client/internal/domain"
)

// Client talks to the quiz platform's REST API. Every request carries the
// stored bearer token; a single 401 triggers one transparent token refresh
// and retry. A second 401 (or a failed refresh) clears the stored token and
// surfaces the original failure.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenStore
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, tokens *TokenStore) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// HTTPError carries a non-2xx response so callers can show the server's own
// message, matching how the web client surfaces submission failures.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// StartPayload is the response of POST /v1/quizzes/{id}/start. Raw holds the
// verbatim body so bootstrap can persist exactly what the server sent, and
// ServerDate is the raw Date header used for clock reconciliation.
type StartPayload struct {
	AttemptID            string          `json:"attemptId"`
	QuestionToken        string          `json:"questionToken"`
	QuestionExpiresAtUTC string          `json:"questionExpiresAtUtc"`
	Question             domain.Question `json:"question"`

	Raw        []byte `json:"-"`
	ServerDate string `json:"-"`
}

// AnswerRequest identifies the attempt, the single-use question token and the
// chosen option.
type AnswerRequest struct {
	AttemptID        string `json:"attemptId"`
	QuestionToken    string `json:"questionToken"`
	SelectedOptionID string `json:"selectedOptionId"`
}

// AnswerPayload is the response of POST /v1/quizzes/{id}/answer. When
// Finished is false the Next* fields describe the question that replaces the
// answered one; when any of them is missing the attempt is over regardless of
// the flag.
type AnswerPayload struct {
	Finished                 bool             `json:"finished"`
	Reason                   string           `json:"reason"`
	Score                    int              `json:"score"`
	MaxScore                 int              `json:"maxScore"`
	CorrectAnswers           int              `json:"correctAnswers"`
	TotalQuestions           int              `json:"totalQuestions"`
	TotalTimeMs              int64            `json:"totalTimeMs"`
	NextQuestionToken        string           `json:"nextQuestionToken"`
	NextQuestionExpiresAtUTC string           `json:"nextQuestionExpiresAtUtc"`
	NextQuestion             *domain.Question `json:"nextQuestion"`

	ServerDate string `json:"-"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// StartAttempt begins (or re-begins, server permitting) an attempt.
func (c *Client) StartAttempt(ctx context.Context, quizID string) (StartPayload, error) {
	var payload StartPayload
	meta, err := c.do(ctx, http.MethodPost, "/v1/quizzes/"+quizID+"/start", struct{}{}, &payload)
	if err != nil {
		return StartPayload{}, err
	}
	payload.Raw = meta.body
	payload.ServerDate = meta.serverDate
	return payload, nil
}

// SubmitAnswer consumes the current question token.
func (c *Client) SubmitAnswer(ctx context.Context, quizID string, req AnswerRequest) (AnswerPayload, error) {
	var payload AnswerPayload
	meta, err := c.do(ctx, http.MethodPost, "/v1/quizzes/"+quizID+"/answer", req, &payload)
	if err != nil {
		return AnswerPayload{}, err
	}
	payload.ServerDate = meta.serverDate
	return payload, nil
}

// QuizMeta fetches the quiz descriptor; callers treat failure as non-fatal.
func (c *Client) QuizMeta(ctx context.Context, quizID string) (domain.QuizMeta, error) {
	var meta domain.QuizMeta
	if _, err := c.do(ctx, http.MethodGet, "/v1/quizzes/"+quizID, nil, &meta); err != nil {
		return domain.QuizMeta{}, err
	}
	return meta, nil
}

// Quizzes lists the public quiz catalogue.
func (c *Client) Quizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	var quizzes []domain.QuizSummary
	if _, err := c.do(ctx, http.MethodGet, "/v1/quizzes", nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// Leaderboard fetches the quiz leaderboard for the result screen.
func (c *Client) Leaderboard(ctx context.Context, quizID string) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	if _, err := c.do(ctx, http.MethodGet, "/v1/quizzes/"+quizID+"/leaderboard", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var tok tokenResponse
	if _, err := c.do(ctx, http.MethodPost, "/v1/auth/login", loginRequest{Email: email, Password: password}, &tok); err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("login: empty access token in response")
	}
	c.tokens.Save(tok.AccessToken)
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/refresh", bytes.NewReader([]byte("{}")))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("refresh: %s", res.Status)
	}
	var tok tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("refresh: empty access token")
	}
	c.tokens.Save(tok.AccessToken)
	return nil
}

type responseMeta struct {
	body       []byte
	serverDate string
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) (responseMeta, error) {
	meta, err := c.doOnce(ctx, method, path, in, out)
	if err == nil {
		return meta, nil
	}

	httpErr, ok := err.(*HTTPError)
	if !ok || httpErr.StatusCode != http.StatusUnauthorized {
		return responseMeta{}, err
	}

	if refreshErr := c.refresh(ctx); refreshErr != nil {
		c.tokens.Clear()
		return responseMeta{}, err
	}
	return c.doOnce(ctx, method, path, in, out)
}

func (c *Client) doOnce(ctx context.Context, method, path string, in, out interface{}) (responseMeta, error) {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return responseMeta{}, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return responseMeta{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.tokens.Token(); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return responseMeta{}, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return responseMeta{}, err
	}
	if res.StatusCode/100 != 2 {
		return responseMeta{}, &HTTPError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return responseMeta{}, fmt.Errorf("decode response: %w", err)
		}
	}
	return responseMeta{body: raw, serverDate: res.Header.Get("Date")}, nil
}
