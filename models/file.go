package models

// ImageFile is a user-provided file held by an upload slot
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes
func (f *ImageFile) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// UploadSlot holds one pending image selection (person or garment)
type UploadSlot struct {
	File           *ImageFile `json:"-"`
	PreviewDataURI string     `json:"preview,omitempty"`
}

// Empty reports whether no file is selected
func (s UploadSlot) Empty() bool {
	return s.File == nil
}

// Slot identifies one of the two upload slots
type Slot string

const (
	SlotPerson Slot = "person"
	SlotCloth  Slot = "cloth"
)

// ParseSlot accepts the slot names used in routes and form fields
func ParseSlot(s string) (Slot, bool) {
	switch s {
	case "person", "person_image", "model":
		return SlotPerson, true
	case "cloth", "cloth_image", "garment":
		return SlotCloth, true
	}
	return "", false
}
