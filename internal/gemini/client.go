package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pairaudit/internal/ingest"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	defaultModel       = "gemini-3-flash-preview"
	defaultHTTPTimeout = 120 * time.Second

	// Low temperature keeps the verdict line deterministic.
	verdictTemperature = 0.1
)

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client issues supplier match requests against the generateContent API.
// Every call is a single attempt; the batch controller owns failure policy.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Gemini client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// StatusError reports a non-success HTTP response from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type generateRequest struct {
	Contents         []content       `json:"contents"`
	Tools            []tool          `json:"tools,omitempty"`
	GenerationConfig *generationConf `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generationConf struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Resolve asks the model whether two supplier names refer to the same
// company, grounding the answer with web search. Metadata columns ride along
// as context lines. One attempt, no retry.
func (c *Client) Resolve(ctx context.Context, supplierA, supplierB string, metadata ingest.Row) (Verdict, error) {
	var empty Verdict
	supplierA = strings.TrimSpace(supplierA)
	supplierB = strings.TrimSpace(supplierB)
	if supplierA == "" || supplierB == "" {
		return empty, errors.New("gemini resolve: both supplier names required")
	}
	if c.cfg.APIKey == "" {
		return empty, errors.New("gemini resolve: api key required")
	}

	payload := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: buildPrompt(supplierA, supplierB, ContextLines(metadata))}}},
		},
		Tools:            []tool{{GoogleSearch: &struct{}{}}},
		GenerationConfig: &generationConf{Temperature: verdictTemperature},
	}

	reply, err := c.send(ctx, payload)
	if err != nil {
		return empty, err
	}

	if len(reply.Candidates) == 0 {
		return empty, errors.New("gemini resolve: empty candidates")
	}

	candidate := reply.Candidates[0]
	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}

	verdict := ParseVerdict(text.String())
	for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		if strings.TrimSpace(chunk.Web.URI) == "" && strings.TrimSpace(chunk.Web.Title) == "" {
			continue
		}
		verdict.Citations = append(verdict.Citations, Citation{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return verdict, nil
}

func (c *Client) send(ctx context.Context, payload generateRequest) (generateResponse, error) {
	var reply generateResponse

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "v1beta", "models", c.cfg.Model+":generateContent")
	if err != nil {
		return reply, fmt.Errorf("gemini request: build url: %w", err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return reply, fmt.Errorf("gemini request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return reply, fmt.Errorf("gemini request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reply, fmt.Errorf("gemini request: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply, fmt.Errorf("gemini request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return reply, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return reply, fmt.Errorf("gemini request: decode response: %w", err)
	}
	if reply.Error != nil {
		return reply, fmt.Errorf("gemini request: api error: %s", strings.TrimSpace(reply.Error.Message))
	}
	return reply, nil
}
