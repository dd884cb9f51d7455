package controller

import (
	"errors"
	"strings"

	"github.com/raushankrgupta/virtual-try-on/models"
)

// ErrSubmissionInFlight is returned when a submit starts while another is pending
var ErrSubmissionInFlight = errors.New("a try-on is already in progress")

// ValidationError reports the image slots still empty at submit time
type ValidationError struct {
	Missing []models.Slot
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, s := range e.Missing {
		names[i] = string(s)
	}
	return "missing required image: " + strings.Join(names, ", ")
}

// State is a snapshot of everything the form shows. Transition methods return a new State
// and never modify the receiver or the History backing array.
type State struct {
	PersonImage    *models.ImageFile    `json:"-"`
	ClothImage     *models.ImageFile    `json:"-"`
	Instructions   string               `json:"instructions"`
	Selection      models.Selection     `json:"selection"`
	Loading        bool                 `json:"loading"`
	Result         *models.TryOnResult  `json:"result"`
	History        []models.TryOnResult `json:"history"`
	DarkMode       bool                 `json:"dark_mode"`
	ScrollToResult bool                 `json:"scroll_to_result"`
}

func (s State) WithImage(slot models.Slot, f *models.ImageFile) State {
	switch slot {
	case models.SlotPerson:
		s.PersonImage = f
	case models.SlotCloth:
		s.ClothImage = f
	}
	return s
}

func (s State) WithInstructions(text string) State {
	s.Instructions = text
	return s
}

// WithSelection sets one dropdown, rejecting values outside its options
func (s State) WithSelection(field models.SelectionField, value string) (State, error) {
	if err := models.ValidateSelection(field, value); err != nil {
		return s, err
	}
	s.Selection = s.Selection.With(field, value)
	return s, nil
}

func (s State) WithDarkMode(dark bool) State {
	s.DarkMode = dark
	return s
}

// BeginSubmit checks both images are present and marks the form busy
func (s State) BeginSubmit() (State, error) {
	var missing []models.Slot
	if s.PersonImage == nil {
		missing = append(missing, models.SlotPerson)
	}
	if s.ClothImage == nil {
		missing = append(missing, models.SlotCloth)
	}
	if len(missing) > 0 {
		return s, &ValidationError{Missing: missing}
	}
	if s.Loading {
		return s, ErrSubmissionInFlight
	}
	s.Loading = true
	s.ScrollToResult = false
	return s, nil
}

// CompleteSubmit records a successful result as current and at the head of History
func (s State) CompleteSubmit(result models.TryOnResult) State {
	history := make([]models.TryOnResult, 0, len(s.History)+1)
	history = append(history, result)
	history = append(history, s.History...)

	s.History = history
	s.Result = &history[0]
	s.Loading = false
	s.ScrollToResult = true
	return s
}

// FailSubmit clears the busy flag, leaving result and history untouched
func (s State) FailSubmit() State {
	s.Loading = false
	return s
}

// ScrollHandled clears the scroll request once the result region has been shown
func (s State) ScrollHandled() State {
	s.ScrollToResult = false
	return s
}

// HasImage reports whether slot holds a file
func (s State) HasImage(slot models.Slot) bool {
	switch slot {
	case models.SlotPerson:
		return s.PersonImage != nil
	case models.SlotCloth:
		return s.ClothImage != nil
	}
	return false
}
