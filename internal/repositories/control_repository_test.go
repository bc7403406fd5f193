package repositories

import (
	"context"
	"errors"
	"testing"

	"places-autocomplete/internal/control"
	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/transformers"
)

func newControl(id string) *control.Control {
	return control.New(id, nil, transformers.NewAddressTransformer(), control.Options{})
}

func TestControlRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewControlRepository()

	if err := repo.Create(ctx, newControl("a")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newControl("b")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newControl("a")); !errors.Is(err, apperrors.ErrInvalidParameters) {
		t.Errorf("duplicate Create err = %v", err)
	}

	c, err := repo.FindByID(ctx, "a")
	if err != nil || c.ID() != "a" {
		t.Fatalf("FindByID = %v, %v", c, err)
	}
	if repo.Count() != 2 {
		t.Errorf("Count = %d, want 2", repo.Count())
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 2 {
		t.Errorf("FindAll len = %d", len(all))
	}

	removed, err := repo.Delete(ctx, "a")
	if err != nil || removed.ID() != "a" {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	if _, err := repo.FindByID(ctx, "a"); !errors.Is(err, apperrors.ErrControlNotFound) {
		t.Errorf("FindByID after delete err = %v", err)
	}
	if _, err := repo.Delete(ctx, "a"); !errors.Is(err, apperrors.ErrControlNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}
