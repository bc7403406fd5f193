package repositories

import (
	"context"

	"places-autocomplete/internal/control"
)

// ControlRepository keeps the live controls of this process.
type ControlRepository interface {
	FindByID(ctx context.Context, id string) (*control.Control, error)
	Create(ctx context.Context, c *control.Control) error
	Delete(ctx context.Context, id string) (*control.Control, error)
	FindAll(ctx context.Context) ([]*control.Control, error)
	Count() int
}
