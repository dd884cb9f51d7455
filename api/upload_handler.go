package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/picker"
	"github.com/raushankrgupta/virtual-try-on/utils"
)

// UploadField is the multipart field carrying the picked image
const UploadField = "image"

// MaxUploadBytes bounds an upload request body: one image just under the picker limit plus
// multipart framing
const MaxUploadBytes = picker.MaxFileSize + 1<<20

// PickerUploadHandler hands an uploaded image to the picker for :slot
func PickerUploadHandler(c *gin.Context) {
	var logMessageBuilder strings.Builder
	defer func() {
		utils.FlushLogMessage(&logMessageBuilder)
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Picker Upload API]")

	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	slot, ok := models.ParseSlot(c.Param("slot"))
	if !ok {
		utils.RespondError(c, &logMessageBuilder, fmt.Sprintf("Unknown upload slot %q", c.Param("slot")), http.StatusNotFound)
		return
	}

	if c.Request.ContentLength > MaxUploadBytes {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Request body of %d bytes refused", c.Request.ContentLength))
		rejectUpload(c, session, &picker.FileRejectedError{Reason: picker.ReasonTooLarge, Size: c.Request.ContentLength})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	fileHeader, err := c.FormFile(UploadField)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Error retrieving file: %v", err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rejectUpload(c, session, &picker.FileRejectedError{Reason: picker.ReasonTooLarge})
			return
		}
		rejectUpload(c, session, &picker.FileRejectedError{Reason: picker.ReasonEmpty})
		return
	}

	if fileHeader.Size >= picker.MaxFileSize {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("File %s of %d bytes refused", fileHeader.Filename, fileHeader.Size))
		rejectUpload(c, session, &picker.FileRejectedError{
			Reason:      picker.ReasonTooLarge,
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Error retrieving file", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, picker.MaxFileSize))
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Error reading file", http.StatusInternalServerError)
		return
	}

	img := &models.ImageFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Slot %s: %s (%s, %d bytes)", slot, img.Name, img.ContentType, img.Size()))

	p := session.Controller.Picker(slot)
	res, err := p.SelectAndWait(c.Request.Context(), img)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Upload not accepted: %v", err))
		var rejected *picker.FileRejectedError
		if errors.As(err, &rejected) {
			respond(c, http.StatusBadRequest, gin.H{"error": rejected.UserMessage()}, "")
			return
		}
		respond(c, http.StatusConflict, gin.H{"error": err.Error()}, "")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Image accepted")
	respond(c, http.StatusOK, gin.H{
		"slot":    slot,
		"name":    res.File.Name,
		"size":    res.File.Size(),
		"preview": res.Preview,
	}, "")
}

// rejectUpload shows the rejection toast and answers 400 without touching the picker
func rejectUpload(c *gin.Context, session *Session, rejected *picker.FileRejectedError) {
	session.push(models.Notification{Level: models.LevelError, Message: rejected.UserMessage()})
	respond(c, http.StatusBadRequest, gin.H{"error": rejected.UserMessage()}, "")
}

// PickerRemoveHandler clears the picker for :slot
func PickerRemoveHandler(c *gin.Context) {
	var logMessageBuilder strings.Builder
	defer func() {
		utils.FlushLogMessage(&logMessageBuilder)
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Picker Remove API]")

	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	slot, ok := models.ParseSlot(c.Param("slot"))
	if !ok {
		utils.RespondError(c, &logMessageBuilder, fmt.Sprintf("Unknown upload slot %q", c.Param("slot")), http.StatusNotFound)
		return
	}

	session.Controller.Picker(slot).Remove()
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Slot %s cleared", slot))
	respond(c, http.StatusOK, gin.H{"slot": slot}, "")
}
