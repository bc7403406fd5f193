package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"places-autocomplete/internal/control"
	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/models"
	"places-autocomplete/internal/repositories"
	"places-autocomplete/internal/transformers"
	"places-autocomplete/internal/validators"
	"places-autocomplete/pkg/cache"
	"places-autocomplete/pkg/logger"
	"places-autocomplete/pkg/places"
)

const (
	defaultReadyTimeout   = 10 * time.Second
	defaultPublishTimeout = 2 * time.Second
)

// OutputNotifier fans output changes out to subscribers.
type OutputNotifier interface {
	Publish(ctx context.Context, notification models.OutputNotification) error
	Subscribe(ctx context.Context, controlID string) (*cache.Subscription, error)
}

// ControlOptions are the process-wide defaults applied to new controls.
type ControlOptions struct {
	DefaultAPIKey string
	ScriptBaseURL string
	Language      string
	ReadyTimeout  time.Duration
}

type ControlService struct {
	repo      repositories.ControlRepository
	loader    places.Loader
	addrTrans transformers.AddressTransformer
	validator validators.ControlValidator
	notifier  OutputNotifier
	opts      ControlOptions

	// lifetime of every control created by this service
	baseCtx    context.Context
	cancelBase context.CancelFunc

	// open subscriptions per control, closed when the control is destroyed
	subsMu sync.Mutex
	subs   map[string][]*cache.Subscription
}

func NewControlService(
	repo repositories.ControlRepository,
	loader places.Loader,
	addrTrans transformers.AddressTransformer,
	validator validators.ControlValidator,
	notifier OutputNotifier,
	opts ControlOptions,
) *ControlService {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = defaultReadyTimeout
	}
	if opts.Language == "" {
		opts.Language = places.DefaultLanguage
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &ControlService{
		repo:       repo,
		loader:     loader,
		addrTrans:  addrTrans,
		validator:  validator,
		notifier:   notifier,
		opts:       opts,
		baseCtx:    baseCtx,
		cancelBase: cancel,
		subs:       make(map[string][]*cache.Subscription),
	}
}

// CreateControl registers a control bound to params and starts loading its
// widget. The response carries the initial outputs right away; the widget
// becomes usable once loading completes.
func (s *ControlService) CreateControl(ctx context.Context, params *models.ControlParameters) (*models.ControlResponse, error) {
	if err := s.validator.ValidateParameters(params); err != nil {
		return nil, err
	}

	bound := *params
	if bound.GoogleAPIKey == "" {
		bound.GoogleAPIKey = s.opts.DefaultAPIKey
	}

	id := uuid.New().String()
	c := control.New(id, s.loader, s.addrTrans, control.Options{
		Language: s.opts.Language,
		Types:    []string{"geocode"},
	})
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	c.Init(s.baseCtx, bound, s.outputChanged(c))

	logger.GlobalLogger.Printf("Control created: control_id=%s, active=%d", id, s.repo.Count())
	return &models.ControlResponse{
		ID:        id,
		ScriptURL: places.ScriptURL(s.opts.ScriptBaseURL, bound.GoogleAPIKey, s.opts.Language),
		Outputs:   c.Outputs(),
	}, nil
}

// outputChanged is the notify callback handed to a control.
func (s *ControlService) outputChanged(c *control.Control) func() {
	return func() {
		if s.notifier == nil {
			return
		}
		ctx, cancel := context.WithTimeout(s.baseCtx, defaultPublishTimeout)
		defer cancel()

		notification := models.OutputNotification{ControlID: c.ID(), Outputs: c.Outputs()}
		err := s.notifier.Publish(ctx, notification)
		if err != nil && cache.IsRetryable(err) && ctx.Err() == nil {
			err = s.notifier.Publish(ctx, notification)
		}
		if err != nil {
			logger.GlobalLogger.Errorf("Output notification dropped: control_id=%s, error=%v", c.ID(), err)
		}
	}
}

func (s *ControlService) UpdateView(ctx context.Context, id string, params *models.ControlParameters) error {
	if err := s.validator.ValidateParameters(params); err != nil {
		return err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return c.UpdateView(*params)
}

func (s *ControlService) Blur(ctx context.Context, id string, req *models.BlurRequest) (models.StructuredAddress, error) {
	if err := s.validator.ValidateBlur(req); err != nil {
		return models.StructuredAddress{}, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.StructuredAddress{}, err
	}
	return c.Blur(req.Value)
}

func (s *ControlService) Predict(ctx context.Context, id, input string) ([]models.Prediction, error) {
	if err := s.validator.ValidateInput(input); err != nil {
		return nil, err
	}
	c, err := s.readyControl(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Predict(ctx, input)
}

// SelectPlace resolves placeID through the widget. On failure the
// control's outputs are left as they were.
func (s *ControlService) SelectPlace(ctx context.Context, id string, req *models.SelectRequest) (models.StructuredAddress, error) {
	if err := s.validator.ValidateSelect(req); err != nil {
		return models.StructuredAddress{}, err
	}
	c, err := s.readyControl(ctx, id)
	if err != nil {
		return models.StructuredAddress{}, err
	}
	return c.Select(ctx, req.PlaceID)
}

// SubmitPlace feeds a place result selected outside the service, such as
// by a browser-side widget, through the place-changed path.
func (s *ControlService) SubmitPlace(ctx context.Context, id string, place *models.PlaceResult) (models.StructuredAddress, error) {
	if err := s.validator.ValidatePlace(place); err != nil {
		return models.StructuredAddress{}, err
	}
	c, err := s.readyControl(ctx, id)
	if err != nil {
		return models.StructuredAddress{}, err
	}
	return c.SubmitPlace(place)
}

func (s *ControlService) Outputs(ctx context.Context, id string) (models.StructuredAddress, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.StructuredAddress{}, err
	}
	return c.Outputs(), nil
}

// Subscribe streams output notifications for an existing control. The
// subscription is closed when the control is destroyed; callers release it
// earlier with Unsubscribe.
func (s *ControlService) Subscribe(ctx context.Context, id string) (*cache.Subscription, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if s.notifier == nil {
		return nil, fmt.Errorf("output notifications disabled: %w", apperrors.ErrUpstream)
	}
	sub, err := s.notifier.Subscribe(ctx, id)
	if err != nil {
		return nil, err
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	// Destroy removes the control before it takes subsMu
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		sub.Close()
		return nil, err
	}
	s.subs[id] = append(s.subs[id], sub)
	return sub, nil
}

// Unsubscribe closes sub and stops tracking it.
func (s *ControlService) Unsubscribe(id string, sub *cache.Subscription) {
	s.subsMu.Lock()
	subs := s.subs[id]
	for i, open := range subs {
		if open == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(s.subs, id)
	} else {
		s.subs[id] = subs
	}
	s.subsMu.Unlock()

	sub.Close()
}

func (s *ControlService) closeSubscriptions(id string) {
	s.subsMu.Lock()
	subs := s.subs[id]
	delete(s.subs, id)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// WaitReady blocks until the control's widget finished loading or ctx is
// done. A failed load is reported as an upstream error.
func (s *ControlService) WaitReady(ctx context.Context, id string) error {
	_, err := s.readyControl(ctx, id)
	return err
}

func (s *ControlService) readyControl(ctx context.Context, id string) (*control.Control, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.opts.ReadyTimeout)
	defer cancel()
	select {
	case <-c.Ready():
	case <-waitCtx.Done():
		return nil, fmt.Errorf("control %s: %v: %w", id, waitCtx.Err(), apperrors.ErrWidgetNotReady)
	}

	if loadErr := c.LoadErr(); loadErr != nil {
		if errors.Is(loadErr, context.Canceled) || errors.Is(loadErr, apperrors.ErrControlDestroyed) {
			return nil, fmt.Errorf("control %s: %w", id, apperrors.ErrControlDestroyed)
		}
		return nil, fmt.Errorf("autocomplete unavailable for control %s: %v: %w", id, loadErr, apperrors.ErrUpstream)
	}
	return c, nil
}

func (s *ControlService) Destroy(ctx context.Context, id string) error {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	c.Destroy()
	s.closeSubscriptions(id)
	logger.GlobalLogger.Printf("Control destroyed: control_id=%s, active=%d", id, s.repo.Count())
	return nil
}

// Shutdown destroys every live control and cancels pending loads.
func (s *ControlService) Shutdown(ctx context.Context) error {
	controls, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range controls {
		if err := s.Destroy(ctx, c.ID()); err != nil && !errors.Is(err, apperrors.ErrControlNotFound) {
			return err
		}
	}
	s.cancelBase()
	return nil
}
