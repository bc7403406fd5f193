package repositories

import (
	"context"
	"fmt"
	"sync"

	"places-autocomplete/internal/control"
	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/pkg/metrics"
)

type controlRepository struct {
	mu       sync.RWMutex
	controls map[string]*control.Control
}

// NewControlRepository returns an in-memory registry. Controls own a
// goroutine and a widget, so they are never persisted.
func NewControlRepository() ControlRepository {
	return &controlRepository{
		controls: make(map[string]*control.Control),
	}
}

func (r *controlRepository) FindByID(ctx context.Context, id string) (*control.Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.controls[id]
	if !ok {
		return nil, fmt.Errorf("control %s: %w", id, apperrors.ErrControlNotFound)
	}
	return c, nil
}

func (r *controlRepository) Create(ctx context.Context, c *control.Control) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controls[c.ID()]; exists {
		return fmt.Errorf("control %s already registered: %w", c.ID(), apperrors.ErrInvalidParameters)
	}
	r.controls[c.ID()] = c
	metrics.ActiveControls.Set(float64(len(r.controls)))
	return nil
}

// Delete unregisters the control and returns it so the caller can destroy it.
func (r *controlRepository) Delete(ctx context.Context, id string) (*control.Control, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controls[id]
	if !ok {
		return nil, fmt.Errorf("control %s: %w", id, apperrors.ErrControlNotFound)
	}
	delete(r.controls, id)
	metrics.ActiveControls.Set(float64(len(r.controls)))
	return c, nil
}

func (r *controlRepository) FindAll(ctx context.Context) ([]*control.Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*control.Control, 0, len(r.controls))
	for _, c := range r.controls {
		result = append(result, c)
	}
	return result, nil
}

func (r *controlRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controls)
}
