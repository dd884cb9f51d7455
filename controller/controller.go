// Package controller owns the try-on form state and runs submissions against the backend.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/picker"
	"github.com/raushankrgupta/virtual-try-on/storage"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

const (
	MsgMissingImages  = "Please upload both person and cloth images"
	MsgInFlight       = "A try-on is already in progress"
	MsgSuccess        = "Virtual try-on completed successfully!"
	MsgGenericFailure = "An error occurred during processing"
	PersonPickerLabel = "Upload Model Image"
	ClothPickerLabel  = "Upload Cloth Image"
)

// Backend performs one try-on request
type Backend interface {
	TryOn(ctx context.Context, req utils.TryOnRequest) (*models.TryOnResponse, error)
}

// Options configures a Controller. Every field is optional.
type Options struct {
	Store    storage.Store
	ThemeKey string
	Notify   models.NotifyFunc
	IDs      *utils.IDGenerator
	Now      func() time.Time
}

// Controller applies State transitions under a lock and publishes snapshots to subscribers
type Controller struct {
	backend  Backend
	store    storage.Store
	themeKey string
	notify   models.NotifyFunc
	ids      *utils.IDGenerator
	now      func() time.Time

	person *picker.Picker
	cloth  *picker.Picker

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int

	inflight sync.WaitGroup
}

// New creates a Controller with the theme preference read from opts.Store
func New(ctx context.Context, backend Backend, opts Options) *Controller {
	c := &Controller{
		backend:  backend,
		store:    opts.Store,
		themeKey: opts.ThemeKey,
		notify:   opts.Notify,
		ids:      opts.IDs,
		now:      opts.Now,
		subs:     make(map[int]func(State)),
	}
	if c.themeKey == "" {
		c.themeKey = storage.ThemeKey
	}
	if c.ids == nil {
		c.ids = utils.NewIDGenerator()
	}
	if c.now == nil {
		c.now = time.Now
	}

	if c.store != nil {
		dark, err := storage.LoadTheme(ctx, c.store, c.themeKey)
		if err != nil {
			utils.Logger.Warn("failed to load theme preference", zap.String("key", c.themeKey), zap.Error(err))
		}
		c.state.DarkMode = dark
	}

	c.person = picker.New(PersonPickerLabel, c.SetPersonImage, c.notify)
	c.cloth = picker.New(ClothPickerLabel, c.SetClothImage, c.notify)
	return c
}

// Person is the picker feeding PersonImage
func (c *Controller) Person() *picker.Picker { return c.person }

// Cloth is the picker feeding ClothImage
func (c *Controller) Cloth() *picker.Picker { return c.cloth }

// Picker returns the picker for slot
func (c *Controller) Picker(slot models.Slot) *picker.Picker {
	if slot == models.SlotCloth {
		return c.cloth
	}
	return c.person
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive every new snapshot. The returned func unregisters it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// update applies fn to the state and publishes the result when fn succeeds
func (c *Controller) update(fn func(State) (State, error)) (State, error) {
	c.mu.Lock()
	next, err := fn(c.state)
	if err != nil {
		c.mu.Unlock()
		return next, err
	}
	c.state = next
	subs := make([]func(State), 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s(next)
	}
	return next, nil
}

func (c *Controller) set(fn func(State) State) State {
	next, _ := c.update(func(s State) (State, error) { return fn(s), nil })
	return next
}

func (c *Controller) SetPersonImage(f *models.ImageFile) {
	c.set(func(s State) State { return s.WithImage(models.SlotPerson, f) })
}

func (c *Controller) SetClothImage(f *models.ImageFile) {
	c.set(func(s State) State { return s.WithImage(models.SlotCloth, f) })
}

func (c *Controller) SetInstructions(text string) {
	c.set(func(s State) State { return s.WithInstructions(text) })
}

// SetSelection updates one dropdown. Unknown fields and values are rejected.
func (c *Controller) SetSelection(field models.SelectionField, value string) error {
	_, err := c.update(func(s State) (State, error) { return s.WithSelection(field, value) })
	return err
}

// ToggleTheme sets the dark-mode flag and writes it to the preference store
func (c *Controller) ToggleTheme(ctx context.Context, dark bool) error {
	c.set(func(s State) State { return s.WithDarkMode(dark) })
	if c.store == nil {
		return nil
	}
	if err := storage.SaveTheme(ctx, c.store, c.themeKey, dark); err != nil {
		utils.Logger.Error("failed to save theme preference", zap.String("key", c.themeKey), zap.Error(err))
		return err
	}
	return nil
}

// AckScroll clears the request to bring the result region into view
func (c *Controller) AckScroll() {
	c.set(func(s State) State { return s.ScrollHandled() })
}

// Submit validates the form and sends exactly one request, blocking until it completes
func (c *Controller) Submit(ctx context.Context) (*models.TryOnResult, error) {
	req, err := c.begin()
	if err != nil {
		return nil, err
	}
	return c.run(ctx, req)
}

// SubmitAsync validates the form and sends the request in the background.
// Validation and in-flight errors are returned immediately; the outcome is reported
// through notifications and subscribers.
func (c *Controller) SubmitAsync(ctx context.Context) error {
	req, err := c.begin()
	if err != nil {
		return err
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.run(ctx, req)
	}()
	return nil
}

// Wait blocks until background submissions have finished
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) begin() (utils.TryOnRequest, error) {
	var req utils.TryOnRequest
	_, err := c.update(func(s State) (State, error) {
		next, err := s.BeginSubmit()
		if err != nil {
			return s, err
		}
		req = utils.TryOnRequest{
			PersonImage:  s.PersonImage,
			ClothImage:   s.ClothImage,
			Instructions: s.Instructions,
			Selection:    s.Selection,
		}
		return next, nil
	})
	if err == nil {
		return req, nil
	}

	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		c.notify.Notify(models.Notification{Level: models.LevelError, Message: MsgMissingImages})
	case errors.Is(err, ErrSubmissionInFlight):
		c.notify.Notify(models.Notification{Level: models.LevelInfo, Message: MsgInFlight})
	}
	return req, err
}

func (c *Controller) run(ctx context.Context, req utils.TryOnRequest) (*models.TryOnResult, error) {
	start := c.now()
	resp, err := c.backend.TryOn(ctx, req)
	if err != nil {
		c.set(func(s State) State { return s.FailSubmit() })
		utils.Logger.Warn("try-on failed", zap.Error(err), zap.Duration("elapsed", c.now().Sub(start)))
		c.notify.Notify(models.Notification{Level: models.LevelError, Message: FailureMessage(err)})
		return nil, err
	}

	now := c.now()
	result := models.TryOnResult{
		ID:        c.ids.Next(),
		Text:      resp.Text,
		Timestamp: now.Format(models.TimestampLayout),
		CreatedAt: now,
	}
	if resp.Image != nil {
		result.ResultImage = *resp.Image
	}

	c.set(func(s State) State { return s.CompleteSubmit(result) })
	utils.Logger.Info("try-on completed", zap.Int64("id", result.ID), zap.Duration("elapsed", now.Sub(start)))
	c.notify.Notify(models.Notification{Level: models.LevelSuccess, Message: MsgSuccess})
	return &result, nil
}

// FailureMessage is the toast text for a failed submission
func FailureMessage(err error) string {
	var serverErr *utils.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return MsgGenericFailure
}
