// Package control binds one text input to an autocomplete widget and keeps
// the five structured address values its host reads back.
package control

import (
	"context"
	"fmt"
	"sync"

	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/models"
	"places-autocomplete/internal/transformers"
	"places-autocomplete/pkg/logger"
	"places-autocomplete/pkg/metrics"
	"places-autocomplete/pkg/places"
)

// Options configure the widget a control requests from its loader.
type Options struct {
	Language string
	Types    []string
}

// Control is the host binding adapter. All state changes happen under mu,
// so events on one control never interleave. The host notification runs
// after the lock is released. Host-driven changes (Blur, Select,
// SubmitPlace) are additionally serialized by events and return the outputs
// they produced.
type Control struct {
	id          string
	loader      places.Loader
	transformer transformers.AddressTransformer
	opts        Options

	events sync.Mutex

	mu         sync.Mutex
	values     models.StructuredAddress
	inputValue string
	apiKey     string
	notify     func()
	widget     places.Widget
	listener   places.ListenerHandle
	destroyed  bool
	started    bool
	loadErr    error

	cancel context.CancelFunc
	ready  chan struct{}
}

func New(id string, loader places.Loader, transformer transformers.AddressTransformer, opts Options) *Control {
	if len(opts.Types) == 0 {
		opts.Types = []string{"geocode"}
	}
	return &Control{
		id:          id,
		loader:      loader,
		transformer: transformer,
		opts:        opts,
		notify:      func() {},
		ready:       make(chan struct{}),
	}
}

func (c *Control) ID() string {
	return c.id
}

// Init copies the bound values, fills the input with the street and starts
// loading the widget. parent scopes the load; Destroy cancels it as well.
func (c *Control) Init(parent context.Context, params models.ControlParameters, notify func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.destroyed {
		return
	}
	c.started = true

	c.values = params.Raw()
	c.inputValue = c.values.Street
	c.apiKey = params.GoogleAPIKey
	if notify != nil {
		c.notify = notify
	}

	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	go c.load(ctx, places.Options{
		APIKey:   c.apiKey,
		Language: c.opts.Language,
		Types:    c.opts.Types,
	})
}

func (c *Control) load(ctx context.Context, opts places.Options) {
	defer close(c.ready)

	widget, err := c.loader.Load(ctx, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// the input stays a plain text field
		c.loadErr = err
		logger.GlobalLogger.Errorf("Autocomplete unavailable: control_id=%s, error=%v", c.id, err)
		return
	}
	if c.destroyed || ctx.Err() != nil {
		c.loadErr = fmt.Errorf("load finished after teardown: %w", apperrors.ErrControlDestroyed)
		return
	}

	c.widget = widget
	c.listener = widget.AddListener(places.EventPlaceChanged, c.handlePlaceChanged)
	logger.GlobalLogger.Debugf("Autocomplete attached: control_id=%s", c.id)
}

// Ready is closed once loading has finished, whether or not it succeeded.
func (c *Control) Ready() <-chan struct{} {
	return c.ready
}

// LoadErr reports why the widget is unavailable, or nil.
func (c *Control) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

func (c *Control) handlePlaceChanged() {
	c.mu.Lock()
	if c.destroyed || c.widget == nil {
		c.mu.Unlock()
		return
	}

	place := c.widget.GetPlace()
	if place == nil || place.AddressComponents == nil {
		c.mu.Unlock()
		metrics.PlaceChangedTotal.WithLabelValues("ignored").Inc()
		logger.GlobalLogger.Debugf("Place without address components ignored: control_id=%s", c.id)
		return
	}

	c.values = c.transformer.ExtractFields(place.AddressComponents, c.values)
	c.inputValue = c.values.Street
	notify := c.notify
	c.mu.Unlock()

	metrics.PlaceChangedTotal.WithLabelValues("applied").Inc()
	c.notifyOutputChanged(notify)
}

func (c *Control) notifyOutputChanged(notify func()) {
	metrics.OutputNotificationsTotal.Inc()
	notify()
}

// UpdateView receives a fresh property bag from the host. Bound address
// values are not re-read once the control is running; only the API key is
// remembered for diagnostics.
func (c *Control) UpdateView(params models.ControlParameters) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return apperrors.ErrControlDestroyed
	}
	if params.GoogleAPIKey != "" {
		c.apiKey = params.GoogleAPIKey
	}
	return nil
}

// Blur handles the input losing focus with value typed in it. A value that
// differs from the current street replaces it and notifies the host.
func (c *Control) Blur(value string) (models.StructuredAddress, error) {
	c.events.Lock()
	defer c.events.Unlock()

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return models.StructuredAddress{}, apperrors.ErrControlDestroyed
	}
	c.inputValue = value
	if c.values.Street == value {
		values := c.values
		c.mu.Unlock()
		return values, nil
	}
	c.values.Street = value
	notify := c.notify
	c.mu.Unlock()

	c.notifyOutputChanged(notify)
	return c.Outputs(), nil
}

// Predict records the typed input and asks the widget for suggestions.
func (c *Control) Predict(ctx context.Context, input string) ([]models.Prediction, error) {
	widget, err := c.attachedWidget()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.inputValue = input
	c.mu.Unlock()

	return widget.Predict(ctx, input)
}

// Select resolves one of the widget's predictions; the widget then fires
// place_changed which updates the values.
func (c *Control) Select(ctx context.Context, placeID string) (models.StructuredAddress, error) {
	c.events.Lock()
	defer c.events.Unlock()

	widget, err := c.attachedWidget()
	if err != nil {
		return models.StructuredAddress{}, err
	}
	if err := widget.Select(ctx, placeID); err != nil {
		return models.StructuredAddress{}, err
	}
	return c.Outputs(), nil
}

// SubmitPlace delivers a place result the host already holds, as if the
// user had picked it in the widget.
func (c *Control) SubmitPlace(place *models.PlaceResult) (models.StructuredAddress, error) {
	c.events.Lock()
	defer c.events.Unlock()

	widget, err := c.attachedWidget()
	if err != nil {
		return models.StructuredAddress{}, err
	}
	widget.SetPlace(place)
	return c.Outputs(), nil
}

// the widget must be called without holding mu, its listener takes it
func (c *Control) attachedWidget() (places.Widget, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil, apperrors.ErrControlDestroyed
	}
	if c.widget == nil {
		return nil, apperrors.ErrWidgetNotReady
	}
	return c.widget, nil
}

// Outputs returns the current five-field record.
func (c *Control) Outputs() models.StructuredAddress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// InputValue returns the text currently shown in the input.
func (c *Control) InputValue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputValue
}

// Destroy cancels a pending load and detaches the widget. Later events are
// ignored. Safe to call more than once.
func (c *Control) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.listener.Remove()
	c.widget = nil
	c.notify = func() {}
}
