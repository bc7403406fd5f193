package places

import (
	"context"
	"fmt"
	"sort"
	"sync"

	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/models"
	"places-autocomplete/internal/utils"
)

// EventPlaceChanged fires once per place selection.
const EventPlaceChanged = "place_changed"

// Widget is an autocomplete bound to a single control input.
type Widget interface {
	AddListener(event string, fn func()) ListenerHandle
	GetPlace() *models.PlaceResult
	SetPlace(place *models.PlaceResult)
	Predict(ctx context.Context, input string) ([]models.Prediction, error)
	Select(ctx context.Context, placeID string) error
}

// ListenerHandle detaches a listener registered with AddListener.
type ListenerHandle struct {
	remove func()
}

// Remove detaches the listener. Calling it more than once is harmless.
func (h ListenerHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// PlaceSource resolves predictions and place details.
type PlaceSource interface {
	Autocomplete(ctx context.Context, input string, types []string) ([]models.Prediction, error)
	Details(ctx context.Context, placeID string) (*models.PlaceResult, error)
}

// Autocomplete is the Widget implementation backed by a PlaceSource. Each
// control owns its own instance; nothing is shared between widgets.
type Autocomplete struct {
	source PlaceSource
	types  []string

	// events serializes SetPlace so each place_changed dispatch observes
	// the place it was fired for.
	events sync.Mutex

	mu        sync.Mutex
	place     *models.PlaceResult
	nextID    int
	listeners map[string]map[int]func()
}

// NewAutocomplete creates a widget restricted to the given prediction types.
func NewAutocomplete(source PlaceSource, types []string) *Autocomplete {
	return &Autocomplete{
		source:    source,
		types:     types,
		listeners: make(map[string]map[int]func()),
	}
}

func (a *Autocomplete) AddListener(event string, fn func()) ListenerHandle {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	if a.listeners[event] == nil {
		a.listeners[event] = make(map[int]func())
	}
	a.listeners[event][id] = fn

	return ListenerHandle{remove: func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners[event], id)
	}}
}

// GetPlace returns the most recently selected place, or nil.
func (a *Autocomplete) GetPlace() *models.PlaceResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.place
}

// SetPlace records place as the current selection and fires place_changed.
// Listeners may read the widget but must not call SetPlace themselves.
func (a *Autocomplete) SetPlace(place *models.PlaceResult) {
	a.events.Lock()
	defer a.events.Unlock()

	a.mu.Lock()
	a.place = place
	a.mu.Unlock()

	a.trigger(EventPlaceChanged)
}

func (a *Autocomplete) Predict(ctx context.Context, input string) ([]models.Prediction, error) {
	return a.source.Autocomplete(ctx, input, a.types)
}

// Select resolves placeID and makes it the current place. A failed lookup
// leaves the current place untouched and fires nothing.
func (a *Autocomplete) Select(ctx context.Context, placeID string) error {
	if placeID == "" {
		return fmt.Errorf("place id is required: %w", apperrors.ErrInvalidParameters)
	}
	place, err := a.source.Details(ctx, placeID)
	if err != nil {
		return utils.WrapError(err, "select place %s", placeID)
	}
	a.SetPlace(place)
	return nil
}

// listeners run outside the lock so they may call back into the widget
func (a *Autocomplete) trigger(event string) {
	a.mu.Lock()
	ids := make([]int, 0, len(a.listeners[event]))
	for id := range a.listeners[event] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, a.listeners[event][id])
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
