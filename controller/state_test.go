package controller

import (
	"errors"
	"testing"

	"github.com/raushankrgupta/virtual-try-on/models"
)

func TestState_BeginSubmit(t *testing.T) {
	img := &models.ImageFile{Name: "a.png", ContentType: "image/png", Data: []byte{1}}

	tests := []struct {
		name        string
		state       State
		wantMissing []models.Slot
		wantErr     error
	}{
		{name: "both present", state: State{PersonImage: img, ClothImage: img}},
		{name: "person missing", state: State{ClothImage: img}, wantMissing: []models.Slot{models.SlotPerson}},
		{name: "cloth missing", state: State{PersonImage: img}, wantMissing: []models.Slot{models.SlotCloth}},
		{name: "both missing", state: State{}, wantMissing: []models.Slot{models.SlotPerson, models.SlotCloth}},
		{name: "already loading", state: State{PersonImage: img, ClothImage: img, Loading: true}, wantErr: ErrSubmissionInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.state.BeginSubmit()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BeginSubmit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantMissing != nil {
				var validation *ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("BeginSubmit() error = %v, want *ValidationError", err)
				}
				if len(validation.Missing) != len(tt.wantMissing) {
					t.Fatalf("Missing = %v, want %v", validation.Missing, tt.wantMissing)
				}
				for i := range tt.wantMissing {
					if validation.Missing[i] != tt.wantMissing[i] {
						t.Errorf("Missing = %v, want %v", validation.Missing, tt.wantMissing)
					}
				}
				if next.Loading {
					t.Error("rejected submit set the busy flag")
				}
				return
			}
			if err != nil {
				t.Fatalf("BeginSubmit() error = %v", err)
			}
			if !next.Loading {
				t.Error("expected busy flag")
			}
			if tt.state.Loading {
				t.Error("BeginSubmit modified its receiver")
			}
		})
	}
}

func TestState_CompleteSubmitLeavesOriginalHistory(t *testing.T) {
	first := models.TryOnResult{ID: 1, Text: "first"}
	s := State{History: make([]models.TryOnResult, 1, 8), Loading: true}
	s.History[0] = first

	next := s.CompleteSubmit(models.TryOnResult{ID: 2, Text: "second"})

	if len(s.History) != 1 || s.History[0] != first {
		t.Errorf("original history modified: %+v", s.History)
	}
	if len(next.History) != 2 || next.History[0].ID != 2 || next.History[1].ID != 1 {
		t.Errorf("unexpected history %+v", next.History)
	}
	if next.Result == nil || *next.Result != next.History[0] {
		t.Error("current result is not History[0]")
	}
	if next.Loading || !next.ScrollToResult {
		t.Errorf("loading=%v scroll=%v after completion", next.Loading, next.ScrollToResult)
	}
}

func TestState_FailSubmit(t *testing.T) {
	prev := &models.TryOnResult{ID: 7}
	s := State{Loading: true, Result: prev, History: []models.TryOnResult{*prev}}

	next := s.FailSubmit()

	if next.Loading {
		t.Error("busy flag not cleared")
	}
	if next.Result != prev || len(next.History) != 1 {
		t.Error("failure touched result or history")
	}
}

func TestState_WithImage(t *testing.T) {
	img := &models.ImageFile{Name: "x.png", ContentType: "image/png"}

	s := State{}.WithImage(models.SlotCloth, img)
	if !s.HasImage(models.SlotCloth) || s.HasImage(models.SlotPerson) {
		t.Errorf("unexpected slots %+v", s)
	}
	if s.WithImage(models.SlotCloth, nil).HasImage(models.SlotCloth) {
		t.Error("nil did not clear the slot")
	}
}
