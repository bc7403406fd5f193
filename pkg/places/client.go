package places

import (
	"net/http"
	"time"
)

const (
	DefaultBaseURL   = "https://maps.googleapis.com/maps/api/place"
	DefaultScriptURL = "https://maps.googleapis.com/maps/api/js"
	DefaultLanguage  = "en"
)

// ClientConfig configures a Places web service client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Language   string
	Timeout    time.Duration
	MaxRetries int
	// Backoff is multiplied by the attempt number between retries.
	Backoff    time.Duration
	HTTPClient *http.Client
}

// Client talks to the Google Places Autocomplete and Place Details endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
}

// NewClient creates a new Places client
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		language:   cfg.Language,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		httpClient: httpClient,
	}
}

// Language returns the language code sent with every request.
func (c *Client) Language() string {
	return c.language
}
