package places

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"places-autocomplete/pkg/logger"
	"places-autocomplete/pkg/metrics"
)

// Options describe the widget a control asks for.
type Options struct {
	APIKey   string
	Language string
	Types    []string
}

// Loader produces a ready widget. Load blocks until the maps library is
// available or ctx is done; ctx is the lifetime of the requesting control.
type Loader interface {
	Load(ctx context.Context, opts Options) (Widget, error)
}

// ScriptURL builds the maps JavaScript URL that loads the places library.
func ScriptURL(base, apiKey, language string) string {
	if base == "" {
		base = DefaultScriptURL
	}
	if language == "" {
		language = DefaultLanguage
	}
	return base + "?libraries=places&language=" + url.QueryEscape(language) + "&key=" + url.QueryEscape(apiKey)
}

// ScriptLoader treats a successful fetch of the maps script as the load
// signal and then hands out a widget backed by the Places web service.
type ScriptLoader struct {
	scriptBase string
	client     ClientConfig
	httpClient *http.Client
}

// NewScriptLoader creates a loader. client is the template for the
// per-widget Places client; its APIKey and Language are overridden by the
// options passed to Load.
func NewScriptLoader(scriptBase string, client ClientConfig) *ScriptLoader {
	httpClient := client.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ScriptLoader{
		scriptBase: scriptBase,
		client:     client,
		httpClient: httpClient,
	}
}

func (l *ScriptLoader) Load(ctx context.Context, opts Options) (Widget, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("google api key is not set")
	}
	if opts.Language == "" {
		opts.Language = l.client.Language
	}

	scriptURL := ScriptURL(l.scriptBase, opts.APIKey, opts.Language)
	if err := l.probe(ctx, scriptURL); err != nil {
		return nil, err
	}

	cfg := l.client
	cfg.APIKey = opts.APIKey
	cfg.Language = opts.Language
	client := NewClient(cfg)
	logger.GlobalLogger.Debugf("Places client ready: language=%s, types=%v", client.Language(), opts.Types)
	return NewAutocomplete(client, opts.Types), nil
}

func (l *ScriptLoader) probe(ctx context.Context, scriptURL string) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scriptURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create script request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		metrics.ObservePlaces("script", start, err)
		return fmt.Errorf("failed to load maps script: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("maps script returned %s", resp.Status)
		metrics.ObservePlaces("script", start, err)
		return err
	}

	metrics.ObservePlaces("script", start, nil)
	logger.GlobalLogger.Debugf("Maps script loaded: elapsed=%v", time.Since(start))
	return nil
}
