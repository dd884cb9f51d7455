package models

import (
	"time"
)

// TimestampLayout renders TryOnResult.Timestamp, e.g. "3/14/2025, 2:07:31 PM"
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// TryOnResult represents one successful try-on returned by the backend
type TryOnResult struct {
	ID          int64     `json:"id"`           // Millisecond timestamp, strictly increasing per session
	ResultImage string    `json:"result_image"` // Data URI or URL returned by the backend
	Text        string    `json:"text"`         // Caption returned by the backend
	Timestamp   string    `json:"timestamp"`    // Display-only capture time
	CreatedAt   time.Time `json:"created_at"`
}

// TryOnResponse is the success body of POST /api/try-on
type TryOnResponse struct {
	Image *string `json:"image"` // null when the backend produced no image
	Text  string  `json:"text"`
}

// ErrorResponse is the optional error body of POST /api/try-on
type ErrorResponse struct {
	Message string `json:"message"`
}
