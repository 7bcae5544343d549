package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"askyourdata/models"
)

const DefaultAPIURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

type Service struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

type Options struct {
	APIKey  string
	Model   string
	APIURL  string
	Timeout time.Duration
	// RequestsPerSecond bounds outgoing calls; zero disables limiting.
	RequestsPerSecond float64
}

type DashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []DashScopeMessage `json:"messages"`
	} `json:"input"`
}

type DashScopeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type DashScopeResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func New(opts Options) *Service {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Service{
		apiKey:     opts.APIKey,
		modelName:  opts.Model,
		apiURL:     opts.APIURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
}

// Configured reports whether an API key is set.
func (a *Service) Configured() bool {
	return a.apiKey != ""
}

func (a *Service) Close() error {
	return nil
}

// Generate sends a single user prompt and returns the model's reply text.
func (a *Service) Generate(ctx context.Context, prompt string) (string, error) {
	return a.callDashScopeAPI(ctx, []DashScopeMessage{{Role: "user", Content: prompt}})
}

func (a *Service) callDashScopeAPI(ctx context.Context, messages []DashScopeMessage) (string, error) {
	if !a.Configured() {
		return "", fmt.Errorf("%w: missing API key", models.ErrExternalModelUnavailable)
	}

	reqBody := DashScopeRequest{Model: a.modelName}
	reqBody.Input.Messages = messages

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			// 2s, 4s, 8s
			delay := a.baseDelay * time.Duration(1<<uint(attempt-1))
			log.Printf("[AI] Retrying after %v (attempt %d/%d): %v", delay, attempt, a.maxRetries, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", models.ErrExternalModelUnavailable, ctx.Err())
			}
		}
		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrExternalModelUnavailable, err)
		}

		content, retry, err := a.do(ctx, jsonData)
		if err == nil {
			return content, nil
		}
		if !retry {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: max retries exceeded: %v", models.ErrExternalModelUnavailable, lastErr)
}

// do performs one request. retry is true for failures worth another attempt.
func (a *Service) do(ctx context.Context, body []byte) (content string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, fmt.Errorf("%w: %v", models.ErrExternalModelUnavailable, ctx.Err())
		}
		return "", true, fmt.Errorf("%w: failed to send request: %v", models.ErrExternalModelUnavailable, err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", true, fmt.Errorf("%w: failed to read response: %v", models.ErrExternalModelUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		var errorResp apiError
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Code != "" {
			return "", retry, fmt.Errorf("%w: API error (status %d): %s - %s (request_id: %s)",
				models.ErrExternalModelUnavailable, resp.StatusCode, errorResp.Code, errorResp.Message, errorResp.RequestID)
		}
		return "", retry, fmt.Errorf("%w: API returned status %d: %s",
			models.ErrExternalModelUnavailable, resp.StatusCode, string(respBody))
	}

	var dashScopeResp DashScopeResponse
	if err := json.Unmarshal(respBody, &dashScopeResp); err != nil {
		return "", false, fmt.Errorf("%w: failed to unmarshal response: %v", models.ErrModelResponseUnparseable, err)
	}
	if dashScopeResp.Code != "" && dashScopeResp.Code != "Success" {
		return "", false, fmt.Errorf("%w: API error: %s - %s",
			models.ErrExternalModelUnavailable, dashScopeResp.Code, dashScopeResp.Message)
	}
	if len(dashScopeResp.Output.Choices) == 0 {
		return "", false, fmt.Errorf("%w: no response from AI model", models.ErrModelResponseUnparseable)
	}
	return dashScopeResp.Output.Choices[0].Message.Content, false, nil
}
