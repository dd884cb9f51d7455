package models

import "fmt"

// SelectionField names one of the four dropdowns of the try-on form
type SelectionField string

const (
	FieldModelType   SelectionField = "model_type"
	FieldGender      SelectionField = "gender"
	FieldGarmentType SelectionField = "garment_type"
	FieldStyle       SelectionField = "style"
)

// SelectionOption is a single dropdown entry
type SelectionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SelectionOptions lists the allowed values per field, in display order.
// The empty string (unset) is always allowed and is not listed.
var SelectionOptions = map[SelectionField][]SelectionOption{
	FieldModelType: {
		{Value: "top", Label: "Top Half"},
		{Value: "bottom", Label: "Bottom Half"},
		{Value: "full", Label: "Full Body"},
	},
	FieldGender: {
		{Value: "male", Label: "Male"},
		{Value: "female", Label: "Female"},
		{Value: "unisex", Label: "Unisex"},
	},
	FieldGarmentType: {
		{Value: "shirt", Label: "Shirt"},
		{Value: "pants", Label: "Pants"},
		{Value: "jacket", Label: "Jacket"},
		{Value: "dress", Label: "Dress"},
		{Value: "tshirt", Label: "T-shirt"},
	},
	FieldStyle: {
		{Value: "casual", Label: "Casual"},
		{Value: "formal", Label: "Formal"},
		{Value: "streetwear", Label: "Streetwear"},
		{Value: "traditional", Label: "Traditional"},
		{Value: "sports", Label: "Sportswear"},
	},
}

// Selection holds the four independent dropdown values. Empty means unset.
type Selection struct {
	ModelType   string `json:"model_type"`
	Gender      string `json:"gender"`
	GarmentType string `json:"garment_type"`
	Style       string `json:"style"`
}

// ValidateSelection checks value against the options of field
func ValidateSelection(field SelectionField, value string) error {
	options, ok := SelectionOptions[field]
	if !ok {
		return fmt.Errorf("unknown selection field: %q", field)
	}
	if value == "" {
		return nil
	}
	for _, o := range options {
		if o.Value == value {
			return nil
		}
	}
	return fmt.Errorf("invalid value %q for %s", value, field)
}

// With returns a copy of s with field set to value. The value is not validated.
func (s Selection) With(field SelectionField, value string) Selection {
	switch field {
	case FieldModelType:
		s.ModelType = value
	case FieldGender:
		s.Gender = value
	case FieldGarmentType:
		s.GarmentType = value
	case FieldStyle:
		s.Style = value
	}
	return s
}

// Get returns the current value of field
func (s Selection) Get(field SelectionField) string {
	switch field {
	case FieldModelType:
		return s.ModelType
	case FieldGender:
		return s.Gender
	case FieldGarmentType:
		return s.GarmentType
	case FieldStyle:
		return s.Style
	}
	return ""
}
