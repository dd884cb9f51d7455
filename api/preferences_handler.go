package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/utils"
)

// SelectionRequest is the JSON body accepted by SelectionHandler. Absent fields are left alone.
type SelectionRequest struct {
	Instructions *string `json:"instructions"`
	ModelType    *string `json:"model_type"`
	Gender       *string `json:"gender"`
	GarmentType  *string `json:"garment_type"`
	Style        *string `json:"style"`
}

// SelectionHandler updates dropdowns and instructions without submitting
func SelectionHandler(c *gin.Context) {
	var logMessageBuilder strings.Builder
	defer func() {
		utils.FlushLogMessage(&logMessageBuilder)
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Selection API]")

	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctrl := session.Controller

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req SelectionRequest
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			utils.RespondError(c, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if req.Instructions != nil {
			ctrl.SetInstructions(*req.Instructions)
		}
		fields := map[models.SelectionField]*string{
			models.FieldModelType:   req.ModelType,
			models.FieldGender:      req.Gender,
			models.FieldGarmentType: req.GarmentType,
			models.FieldStyle:       req.Style,
		}
		for field, value := range fields {
			if value == nil {
				continue
			}
			if err := ctrl.SetSelection(field, *value); err != nil {
				utils.RespondError(c, &logMessageBuilder, err.Error(), http.StatusBadRequest)
				return
			}
		}
	} else if err := applyFormFields(c, ctrl); err != nil {
		utils.RespondError(c, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	s := ctrl.State()
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Selection now %+v", s.Selection))
	respond(c, http.StatusOK, gin.H{"selection": s.Selection, "instructions": s.Instructions}, "")
}

// ThemeHandler sets the dark-mode preference. Without a "dark" value it flips the current one.
func ThemeHandler(c *gin.Context) {
	var logMessageBuilder strings.Builder
	defer func() {
		utils.FlushLogMessage(&logMessageBuilder)
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Theme API]")

	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctrl := session.Controller

	dark := !ctrl.State().DarkMode
	raw, ok := c.GetPostForm("dark")
	if !ok {
		raw, ok = c.GetQuery("dark")
	}
	if ok {
		parsed, err := parseToggle(raw)
		if err != nil {
			utils.RespondError(c, &logMessageBuilder, fmt.Sprintf("Invalid dark value %q", raw), http.StatusBadRequest)
			return
		}
		dark = parsed
	}

	if err := ctrl.ToggleTheme(c.Request.Context(), dark); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to persist theme: %v", err))
		session.push(models.Notification{Level: models.LevelError, Message: "Could not save your theme preference"})
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Dark mode set to %v", dark))
	respond(c, http.StatusOK, gin.H{"dark_mode": dark}, "")
}

func parseToggle(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(raw)
}
