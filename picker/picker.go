// Package picker implements the single-file image picker used for the person and garment uploads.
package picker

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

// MaxFileSize is the exclusive upper bound on accepted files (10 MiB)
const MaxFileSize = 10 * 1024 * 1024

// Hint is shown under the empty drop target
const Hint = "Image only • Max size: 10MB"

// RejectReason says why a file was refused
type RejectReason string

const (
	ReasonNotImage RejectReason = "not_image"
	ReasonTooLarge RejectReason = "too_large"
	ReasonEmpty    RejectReason = "empty"
)

var rejectMessages = map[RejectReason]string{
	ReasonNotImage: "You can only upload image files!",
	ReasonTooLarge: "Image must be smaller than 10MB!",
	ReasonEmpty:    "Please choose an image to upload",
}

// FileRejectedError is returned for files that fail validation
type FileRejectedError struct {
	Reason      RejectReason
	Filename    string
	ContentType string
	Size        int64
}

func (e *FileRejectedError) Error() string {
	return fmt.Sprintf("file %q rejected: %s (type %q, %d bytes)", e.Filename, e.Reason, e.ContentType, e.Size)
}

// UserMessage is the text shown in the rejection toast
func (e *FileRejectedError) UserMessage() string {
	return rejectMessages[e.Reason]
}

// ErrSuperseded is delivered for a decode whose file was removed or replaced before it finished
var ErrSuperseded = errors.New("selection superseded before preview was ready")

// Validate checks the MIME type and size of f
func Validate(f *models.ImageFile) error {
	if f == nil {
		return &FileRejectedError{Reason: ReasonEmpty}
	}
	if !strings.HasPrefix(f.ContentType, "image/") {
		return &FileRejectedError{Reason: ReasonNotImage, Filename: f.Name, ContentType: f.ContentType, Size: f.Size()}
	}
	if f.Size() >= MaxFileSize {
		return &FileRejectedError{Reason: ReasonTooLarge, Filename: f.Name, ContentType: f.ContentType, Size: f.Size()}
	}
	return nil
}

// EncodePreview renders f as a data URI suitable for an <img src>
func EncodePreview(f *models.ImageFile) string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// Result is the outcome of an asynchronous preview decode
type Result struct {
	File    *models.ImageFile
	Preview string
	Err     error
}

// Picker holds at most one accepted file and its preview
type Picker struct {
	label    string
	onChange func(*models.ImageFile)
	notify   models.NotifyFunc
	encode   func(*models.ImageFile) string

	// reportMu orders upward reports so the last one matches the picker's final state
	reportMu sync.Mutex

	mu         sync.Mutex
	file       *models.ImageFile
	preview    string
	generation uint64
	decoding   bool
}

// New creates an empty picker. onChange receives the accepted file, or nil after removal.
func New(label string, onChange func(*models.ImageFile), notify models.NotifyFunc) *Picker {
	return &Picker{
		label:    label,
		onChange: onChange,
		notify:   notify,
		encode:   EncodePreview,
	}
}

// Label is the heading shown above the drop target
func (p *Picker) Label() string {
	return p.label
}

// Select validates f and, when accepted, decodes its preview in the background.
// Rejected files leave the picker untouched and return a *FileRejectedError.
// The returned channel yields exactly one Result once the preview is stored and onChange has run.
func (p *Picker) Select(ctx context.Context, f *models.ImageFile) (<-chan Result, error) {
	if err := Validate(f); err != nil {
		var rejected *FileRejectedError
		if errors.As(err, &rejected) {
			p.notify.Notify(models.Notification{Level: models.LevelError, Message: rejected.UserMessage()})
		}
		utils.Logger.Info("image rejected", zap.String("picker", p.label), zap.Error(err))
		return nil, err
	}

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.decoding = true
	p.mu.Unlock()

	done := make(chan Result, 1)
	go func() {
		defer close(done)
		done <- p.decode(ctx, gen, f)
	}()
	return done, nil
}

func (p *Picker) decode(ctx context.Context, gen uint64, f *models.ImageFile) Result {
	if err := ctx.Err(); err != nil {
		p.finishDecode(gen)
		return Result{File: f, Err: err}
	}

	preview := p.encode(f)

	p.reportMu.Lock()
	defer p.reportMu.Unlock()

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return Result{File: f, Err: ErrSuperseded}
	}
	p.file = f
	p.preview = preview
	p.decoding = false
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(f)
	}
	return Result{File: f, Preview: preview}
}

func (p *Picker) finishDecode(gen uint64) {
	p.mu.Lock()
	if gen == p.generation {
		p.decoding = false
	}
	p.mu.Unlock()
}

// SelectAndWait is Select followed by waiting for the preview
func (p *Picker) SelectAndWait(ctx context.Context, f *models.ImageFile) (Result, error) {
	done, err := p.Select(ctx, f)
	if err != nil {
		return Result{}, err
	}
	select {
	case res := <-done:
		return res, res.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Remove clears the file and preview and reports nil upward
func (p *Picker) Remove() {
	p.reportMu.Lock()
	defer p.reportMu.Unlock()

	p.mu.Lock()
	p.generation++
	p.file = nil
	p.preview = ""
	p.decoding = false
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(nil)
	}
}

// File returns the accepted file, nil when empty
func (p *Picker) File() *models.ImageFile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file
}

// Preview returns the data URI of the accepted file, empty when none
func (p *Picker) Preview() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preview
}

// Decoding reports whether a preview is still being prepared
func (p *Picker) Decoding() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.decoding
}
