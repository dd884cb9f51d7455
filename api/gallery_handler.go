package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/utils"
)

// DefaultPageSize is the history page length when no limit is given
const DefaultPageSize = 10

// MaxPageSize caps the limit a caller may ask for
const MaxPageSize = 100

// GalleryResponse represents the response structure for the history API
type GalleryResponse struct {
	Images      []models.TryOnResult `json:"images"`
	Total       int64                `json:"total"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
}

// GalleryHandler pages through the session's previous results, newest first
func GalleryHandler(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page := 1
	limit := DefaultPageSize

	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	utils.RespondJSON(c, http.StatusOK, paginate(session.Controller.State().History, page, limit))
}

func paginate(history []models.TryOnResult, page, limit int) GalleryResponse {
	total := len(history)
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	totalPages := (total + limit - 1) / limit

	images := []models.TryOnResult{}
	// page is bounded by totalPages before multiplying so skip cannot overflow
	if page <= totalPages {
		skip := (page - 1) * limit
		end := skip + limit
		if end > total {
			end = total
		}
		images = append(images, history[skip:end]...)
	}

	return GalleryResponse{
		Images:      images,
		Total:       int64(total),
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}
