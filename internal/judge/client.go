package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/models"
)

// statusAccepted is the Judge0 status id for a run whose output matched.
const statusAccepted = 3

type Options struct {
	BaseURL string
	APIKey  string
	APIHost string
	Timeout time.Duration
}

// Client talks to a Judge0-compatible submissions API.
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		apiHost:    opts.APIHost,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type submission struct {
	LanguageID     int    `json:"language_id"`
	SourceCode     string `json:"source_code"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type submissionResult struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Run executes the source against each test case in order and stops at the
// first case that is not accepted.
func (c *Client) Run(ctx context.Context, sourceCode, language string, cases []models.TestCase) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("judge").WithField("language", language)

	languageID, ok := LanguageID(language)
	if !ok {
		log.Warn("unsupported language requested")
		return &Result{
			FailedCase: 0,
			Feedback:   fmt.Sprintf("Unsupported language: %s. Supported languages: %s", language, strings.Join(SupportedLanguages(), ", ")),
		}, nil
	}

	for i, tc := range cases {
		res, err := c.submit(ctx, submission{
			LanguageID:     languageID,
			SourceCode:     sourceCode,
			Stdin:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
		if err != nil {
			return nil, fmt.Errorf("test case %d: %w", i, err)
		}
		if res.Status.ID != statusAccepted {
			log.Debug("test case %d failed: status=%d", i, res.Status.ID)
			return &Result{FailedCase: i, Feedback: failureFeedback(res)}, nil
		}
	}

	log.Debug("all %d test cases passed", len(cases))
	return &Result{PassedAll: true, FailedCase: -1, Feedback: "All test cases passed!"}, nil
}

func failureFeedback(res *submissionResult) string {
	var b strings.Builder
	b.WriteString(res.Status.Description)
	if res.Stderr != "" {
		b.WriteString("\nError: ")
		b.WriteString(res.Stderr)
	}
	if res.CompileOutput != "" {
		b.WriteString("\nCompile Output: ")
		b.WriteString(res.CompileOutput)
	}
	return b.String()
}

func (c *Client) submit(ctx context.Context, sub submission) (*submissionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("judge")
	url := c.baseURL + "/submissions?base64_encoded=false&wait=true"

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.apiHost)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("submission failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("submission response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn("submission rejected: status=%d, body=%s", resp.StatusCode, string(raw))
		return nil, fmt.Errorf("judge status %d: %s", resp.StatusCode, string(raw))
	}

	var out submissionResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode submission response: %v", err)
		return nil, err
	}
	return &out, nil
}
