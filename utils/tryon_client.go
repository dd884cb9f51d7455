package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/raushankrgupta/virtual-try-on/models"
	"go.uber.org/zap"
)

// TryOnPath is the backend endpoint receiving try-on submissions
const TryOnPath = "/api/try-on"

// ServerError is returned when the backend answers with a non-2xx status.
// Message is the server-provided "message" field, empty when the body had none.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("try-on backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("try-on backend returned %d", e.StatusCode)
}

// TryOnRequest is everything sent in one submission
type TryOnRequest struct {
	PersonImage  *models.ImageFile
	ClothImage   *models.ImageFile
	Instructions string
	Selection    models.Selection
}

// TryOnClient posts try-on requests to the inference backend
type TryOnClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTryOnClient creates a client for baseURL. A zero timeout waits for the backend indefinitely.
func NewTryOnClient(baseURL string, timeout time.Duration) *TryOnClient {
	return &TryOnClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// TryOn sends a single multipart POST and decodes the backend answer
func (c *TryOnClient) TryOn(ctx context.Context, req TryOnRequest) (*models.TryOnResponse, error) {
	if req.PersonImage == nil || req.ClothImage == nil {
		return nil, errors.New("person_image and cloth_image are required")
	}

	body, contentType, err := BuildTryOnForm(req)
	if err != nil {
		return nil, err
	}

	url := c.BaseURL + TryOnPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("try-on request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	Logger.Debug("try-on backend answered",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := &ServerError{StatusCode: resp.StatusCode}
		var errBody models.ErrorResponse
		if json.Unmarshal(data, &errBody) == nil {
			serverErr.Message = errBody.Message
		}
		return nil, serverErr
	}

	var result models.TryOnResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode try-on response: %w", err)
	}
	return &result, nil
}

// BuildTryOnForm encodes req as multipart/form-data and returns the body with its content type.
// Unset selections are sent as empty strings.
func BuildTryOnForm(req TryOnRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writeFilePart(writer, "person_image", req.PersonImage); err != nil {
		return nil, "", err
	}
	if err := writeFilePart(writer, "cloth_image", req.ClothImage); err != nil {
		return nil, "", err
	}

	fields := []struct {
		name, value string
	}{
		{"instructions", req.Instructions},
		{string(models.FieldModelType), req.Selection.ModelType},
		{string(models.FieldGender), req.Selection.Gender},
		{string(models.FieldGarmentType), req.Selection.GarmentType},
		{string(models.FieldStyle), req.Selection.Style},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(writer *multipart.Writer, field string, file *models.ImageFile) error {
	filename := file.Name
	if filename == "" {
		filename = field
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", field, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("failed to copy file data for %s: %w", field, err)
	}
	return nil
}
