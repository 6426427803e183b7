package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/7283111011/FLK2/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the quiz service's set and session endpoints.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type setItem struct {
	SetID         string    `json:"set_id"`
	Title         string    `json:"title"`
	Source        string    `json:"source"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type setsResponse struct {
	Sets []setItem `json:"sets"`
}

type triviaRequest struct {
	Title  string `json:"title,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

type createSessionRequest struct {
	SetID           string `json:"set_id"`
	ExplicitConfirm *bool  `json:"explicit_confirm,omitempty"`
}

type indexRequest struct {
	Index int `json:"index"`
}

type selectRequest struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
}

type sessionState struct {
	SessionID string               `json:"session_id"`
	SetID     string               `json:"set_id,omitempty"`
	Current   *quiz.PublicQuestion `json:"current,omitempty"`
	Snapshot  quiz.Snapshot        `json:"snapshot"`
}

type submitResult struct {
	Outcome  quiz.Outcome `json:"outcome"`
	Feedback string       `json:"feedback"`
	Score    quiz.Score   `json:"score"`
}

type advanceResult struct {
	Signal  quiz.Signal `json:"signal"`
	Message string      `json:"message,omitempty"`
}

type finishResult struct {
	Summary quiz.Summary `json:"summary"`
	Elapsed string       `json:"elapsed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) ListSets(ctx context.Context, limit int) ([]setItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var payload setsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/sets?"+query.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Sets, nil
}

// ImportTrivia asks the service to pull amount OpenTriviaDB questions into a
// new stored set.
func (c *HTTPClient) ImportTrivia(ctx context.Context, title string, amount int) (setItem, error) {
	var payload setItem
	request := triviaRequest{Title: strings.TrimSpace(title), Amount: amount}
	if err := c.doJSON(ctx, http.MethodPost, "/sets/opentdb", request, &payload); err != nil {
		return setItem{}, err
	}
	return payload, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, setID string, explicitConfirm bool) (sessionState, error) {
	if strings.TrimSpace(setID) == "" {
		return sessionState{}, errors.New("set_id is required")
	}

	request := createSessionRequest{SetID: setID, ExplicitConfirm: &explicitConfirm}
	var payload sessionState
	if err := c.doJSON(ctx, http.MethodPost, "/sessions", request, &payload); err != nil {
		return sessionState{}, err
	}
	return payload, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, sessionID string) (sessionState, error) {
	var payload sessionState
	if err := c.doJSON(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &payload); err != nil {
		return sessionState{}, err
	}
	return payload, nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodDelete, sessionPath(sessionID, ""), nil, nil)
}

func (c *HTTPClient) Select(ctx context.Context, sessionID string, index int, letter string) (sessionState, error) {
	var payload sessionState
	request := selectRequest{Index: index, Letter: letter}
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "select"), request, &payload); err != nil {
		return sessionState{}, err
	}
	return payload, nil
}

func (c *HTTPClient) Submit(ctx context.Context, sessionID string, index int) (submitResult, error) {
	var payload submitResult
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "submit"), indexRequest{Index: index}, &payload); err != nil {
		return submitResult{}, err
	}
	return payload, nil
}

func (c *HTTPClient) Advance(ctx context.Context, sessionID string) (advanceResult, error) {
	var payload advanceResult
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "advance"), nil, &payload); err != nil {
		return advanceResult{}, err
	}
	return payload, nil
}

func (c *HTTPClient) GoTo(ctx context.Context, sessionID string, index int) (sessionState, error) {
	return c.postIndex(ctx, sessionID, "goto", index)
}

func (c *HTTPClient) ToggleFlag(ctx context.Context, sessionID string, index int) (sessionState, error) {
	return c.postIndex(ctx, sessionID, "flag", index)
}

func (c *HTTPClient) Finish(ctx context.Context, sessionID string) (finishResult, error) {
	var payload finishResult
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "finish"), nil, &payload); err != nil {
		return finishResult{}, err
	}
	return payload, nil
}

func (c *HTTPClient) Restart(ctx context.Context, sessionID string) (sessionState, error) {
	var payload sessionState
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "restart"), nil, &payload); err != nil {
		return sessionState{}, err
	}
	return payload, nil
}

func (c *HTTPClient) postIndex(ctx context.Context, sessionID, action string, index int) (sessionState, error) {
	var payload sessionState
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, action), indexRequest{Index: index}, &payload); err != nil {
		return sessionState{}, err
	}
	return payload, nil
}

func sessionPath(sessionID, action string) string {
	path := "/sessions/" + url.PathEscape(sessionID)
	if action != "" {
		path += "/" + action
	}
	return path
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
