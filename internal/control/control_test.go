package control

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/models"
	"places-autocomplete/internal/transformers"
	"places-autocomplete/pkg/places"
)

type fakeSource struct {
	place *models.PlaceResult
	err   error
}

func (f *fakeSource) Autocomplete(context.Context, string, []string) ([]models.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Prediction{{PlaceID: "p1", Description: "42 Main St"}}, nil
}

func (f *fakeSource) Details(context.Context, string) (*models.PlaceResult, error) {
	return f.place, f.err
}

type fakeLoader struct {
	widget places.Widget
	err    error
	gate   chan struct{}
	opts   places.Options
	calls  int32
}

func (f *fakeLoader) Load(ctx context.Context, opts places.Options) (places.Widget, error) {
	atomic.AddInt32(&f.calls, 1)
	f.opts = opts
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.widget, nil
}

func str(s string) *string { return &s }

func waitReady(t *testing.T, c *Control) {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("control never became ready")
	}
}

func newReadyControl(t *testing.T, source places.PlaceSource, params models.ControlParameters) (*Control, *places.Autocomplete, *int32) {
	t.Helper()
	widget := places.NewAutocomplete(source, []string{"geocode"})
	c := New("c1", &fakeLoader{widget: widget}, transformers.NewAddressTransformer(), Options{Language: "en"})

	var notified int32
	c.Init(context.Background(), params, func() { atomic.AddInt32(&notified, 1) })
	waitReady(t, c)
	if err := c.LoadErr(); err != nil {
		t.Fatalf("LoadErr: %v", err)
	}
	return c, widget, &notified
}

func TestInitCopiesBoundValues(t *testing.T) {
	c, _, notified := newReadyControl(t, &fakeSource{}, models.ControlParameters{
		Street:       str("1 Old Rd"),
		City:         str("Springfield"),
		GoogleAPIKey: "key",
	})

	want := models.StructuredAddress{Street: "1 Old Rd", City: "Springfield"}
	if got := c.Outputs(); got != want {
		t.Errorf("Outputs = %+v, want %+v", got, want)
	}
	if c.InputValue() != "1 Old Rd" {
		t.Errorf("InputValue = %q", c.InputValue())
	}
	if atomic.LoadInt32(notified) != 0 {
		t.Error("init must not notify")
	}
}

func TestInitPassesOptionsToLoader(t *testing.T) {
	loader := &fakeLoader{widget: places.NewAutocomplete(&fakeSource{}, nil)}
	c := New("c1", loader, transformers.NewAddressTransformer(), Options{Language: "fr"})
	c.Init(context.Background(), models.ControlParameters{GoogleAPIKey: "k"}, nil)
	c.Init(context.Background(), models.ControlParameters{GoogleAPIKey: "other"}, nil)
	waitReady(t, c)

	if loader.opts.APIKey != "k" || loader.opts.Language != "fr" {
		t.Errorf("opts = %+v", loader.opts)
	}
	if len(loader.opts.Types) != 1 || loader.opts.Types[0] != "geocode" {
		t.Errorf("types = %v, want [geocode]", loader.opts.Types)
	}
	if n := atomic.LoadInt32(&loader.calls); n != 1 {
		t.Errorf("Load called %d times, want 1", n)
	}
}

func TestSelectUpdatesOutputsAndNotifies(t *testing.T) {
	place := &models.PlaceResult{
		PlaceID: "p1",
		AddressComponents: []models.AddressComponent{
			{LongName: "42", Types: []string{"street_number"}},
			{LongName: "Main St", Types: []string{"route"}},
			{LongName: "Springfield", Types: []string{"locality"}},
			{LongName: "IL", Types: []string{"administrative_area_level_1"}},
			{LongName: "USA", Types: []string{"country"}},
			{LongName: "62704", Types: []string{"postal_code"}},
		},
	}
	c, _, notified := newReadyControl(t, &fakeSource{place: place}, models.ControlParameters{GoogleAPIKey: "k"})

	got, err := c.Select(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	want := models.StructuredAddress{Street: "42 Main St", City: "Springfield", State: "IL", Country: "USA", Zipcode: "62704"}
	if got != want {
		t.Errorf("Select outputs = %+v, want %+v", got, want)
	}
	if got := c.Outputs(); got != want {
		t.Errorf("Outputs = %+v, want %+v", got, want)
	}
	if c.InputValue() != "42 Main St" {
		t.Errorf("InputValue = %q", c.InputValue())
	}
	if n := atomic.LoadInt32(notified); n != 1 {
		t.Errorf("notified %d times, want 1", n)
	}
}

func TestPartialPlaceKeepsOtherFields(t *testing.T) {
	c, widget, notified := newReadyControl(t, &fakeSource{}, models.ControlParameters{
		Street:  str("Old St"),
		City:    str("Oldtown"),
		Country: str("USA"),
	})

	widget.SetPlace(&models.PlaceResult{AddressComponents: []models.AddressComponent{
		{LongName: "Newtown", Types: []string{"postal_town"}},
	}})

	want := models.StructuredAddress{Street: "Old St", City: "Newtown", Country: "USA"}
	if got := c.Outputs(); got != want {
		t.Errorf("Outputs = %+v, want %+v", got, want)
	}
	if atomic.LoadInt32(notified) != 1 {
		t.Error("expected one notification")
	}
}

func TestPlaceWithoutComponentsIsIgnored(t *testing.T) {
	c, widget, notified := newReadyControl(t, &fakeSource{}, models.ControlParameters{Street: str("Keep")})

	widget.SetPlace(&models.PlaceResult{PlaceID: "x"})
	widget.SetPlace(nil)

	if c.Outputs().Street != "Keep" {
		t.Errorf("Outputs = %+v", c.Outputs())
	}
	if atomic.LoadInt32(notified) != 0 {
		t.Error("ignored place must not notify")
	}
}

func TestEmptyComponentsNotifiesWithoutChange(t *testing.T) {
	c, widget, notified := newReadyControl(t, &fakeSource{}, models.ControlParameters{Street: str("Keep")})

	widget.SetPlace(&models.PlaceResult{AddressComponents: []models.AddressComponent{}})

	if c.Outputs().Street != "Keep" {
		t.Errorf("Outputs = %+v", c.Outputs())
	}
	if atomic.LoadInt32(notified) != 1 {
		t.Error("empty component list still counts as a place change")
	}
}

func TestBlur(t *testing.T) {
	c, _, notified := newReadyControl(t, &fakeSource{}, models.ControlParameters{Street: str("Main St")})

	if _, err := c.Blur("Main St"); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if atomic.LoadInt32(notified) != 0 {
		t.Error("unchanged blur must not notify")
	}

	if _, err := c.Blur("Typed Rd"); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if c.Outputs().Street != "Typed Rd" || atomic.LoadInt32(notified) != 1 {
		t.Errorf("Outputs = %+v, notified = %d", c.Outputs(), atomic.LoadInt32(notified))
	}
}

func TestLoadFailureLeavesPlainInput(t *testing.T) {
	loader := &fakeLoader{err: errors.New("script blocked")}
	c := New("c1", loader, transformers.NewAddressTransformer(), Options{})
	c.Init(context.Background(), models.ControlParameters{Street: str("Main St")}, nil)
	waitReady(t, c)

	if c.LoadErr() == nil {
		t.Fatal("expected load error")
	}
	if _, err := c.Predict(context.Background(), "42"); !errors.Is(err, apperrors.ErrWidgetNotReady) {
		t.Errorf("Predict err = %v", err)
	}
	if _, err := c.Blur("Elm St"); err != nil {
		t.Errorf("Blur should work without a widget: %v", err)
	}
	if c.Outputs().Street != "Elm St" {
		t.Errorf("street = %q", c.Outputs().Street)
	}
}

func TestDestroyBeforeLoadCompletes(t *testing.T) {
	gate := make(chan struct{})
	loader := &fakeLoader{widget: places.NewAutocomplete(&fakeSource{}, nil), gate: gate}
	c := New("c1", loader, transformers.NewAddressTransformer(), Options{})
	c.Init(context.Background(), models.ControlParameters{}, nil)

	c.Destroy()
	waitReady(t, c)
	close(gate)

	if !errors.Is(c.LoadErr(), context.Canceled) {
		t.Errorf("LoadErr = %v, want context.Canceled", c.LoadErr())
	}
	if _, err := c.SubmitPlace(&models.PlaceResult{}); !errors.Is(err, apperrors.ErrControlDestroyed) {
		t.Errorf("SubmitPlace err = %v", err)
	}
}

func TestDestroyDetachesListener(t *testing.T) {
	c, widget, notified := newReadyControl(t, &fakeSource{}, models.ControlParameters{})

	c.Destroy()
	c.Destroy()

	widget.SetPlace(&models.PlaceResult{AddressComponents: []models.AddressComponent{
		{LongName: "Main St", Types: []string{"route"}},
	}})
	if c.Outputs().Street != "" || atomic.LoadInt32(notified) != 0 {
		t.Error("destroyed control reacted to place_changed")
	}
	if _, err := c.Blur("x"); !errors.Is(err, apperrors.ErrControlDestroyed) {
		t.Errorf("Blur err = %v", err)
	}
	if err := c.UpdateView(models.ControlParameters{}); !errors.Is(err, apperrors.ErrControlDestroyed) {
		t.Errorf("UpdateView err = %v", err)
	}
}

func TestPredictRecordsInput(t *testing.T) {
	c, _, _ := newReadyControl(t, &fakeSource{}, models.ControlParameters{})

	predictions, err := c.Predict(context.Background(), "42 Ma")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(predictions) != 1 || predictions[0].PlaceID != "p1" {
		t.Errorf("predictions = %+v", predictions)
	}
	if c.InputValue() != "42 Ma" {
		t.Errorf("InputValue = %q", c.InputValue())
	}
}

func TestListenerMayReadOutputs(t *testing.T) {
	widget := places.NewAutocomplete(&fakeSource{}, nil)
	c := New("c1", &fakeLoader{widget: widget}, transformers.NewAddressTransformer(), Options{})

	var seen models.StructuredAddress
	c.Init(context.Background(), models.ControlParameters{}, func() { seen = c.Outputs() })
	waitReady(t, c)

	if _, err := c.SubmitPlace(&models.PlaceResult{AddressComponents: []models.AddressComponent{
		{LongName: "Main St", Types: []string{"route"}},
	}}); err != nil {
		t.Fatalf("SubmitPlace: %v", err)
	}
	if seen.Street != "Main St " {
		t.Errorf("notified outputs = %+v", seen)
	}
}

func TestConcurrentPlacesNotifyTheirOwnOutputs(t *testing.T) {
	widget := places.NewAutocomplete(&fakeSource{}, nil)
	c := New("c1", &fakeLoader{widget: widget}, transformers.NewAddressTransformer(), Options{})

	var (
		mu   sync.Mutex
		seen []string
	)
	c.Init(context.Background(), models.ControlParameters{}, func() {
		city := c.Outputs().City
		mu.Lock()
		seen = append(seen, city)
		mu.Unlock()
	})
	waitReady(t, c)

	locality := func(name string) *models.PlaceResult {
		return &models.PlaceResult{AddressComponents: []models.AddressComponent{
			{LongName: name, Types: []string{"locality"}},
		}}
	}

	for i := 0; i < 500; i++ {
		mu.Lock()
		seen = seen[:0]
		mu.Unlock()

		var wg sync.WaitGroup
		for _, name := range []string{"A", "B"} {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				outputs, err := c.SubmitPlace(locality(name))
				if err != nil {
					t.Errorf("SubmitPlace: %v", err)
					return
				}
				if outputs.City != name {
					t.Errorf("SubmitPlace(%s) returned city %q", name, outputs.City)
				}
			}(name)
		}
		wg.Wait()

		mu.Lock()
		got := append([]string(nil), seen...)
		mu.Unlock()
		if len(got) != 2 || got[0] == got[1] {
			t.Fatalf("iteration %d: notified cities = %v, want A and B once each", i, got)
		}
	}
}
