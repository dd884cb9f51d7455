package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raushankrgupta/virtual-try-on/controller"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/utils"
)

// TryOnHandler submits the session's form to the try-on backend.
// Browsers get the request started in the background and are redirected to the page, which
// refreshes until it completes. JSON clients wait for the outcome.
func TryOnHandler(c *gin.Context) {
	var logMessageBuilder strings.Builder
	defer func() {
		utils.FlushLogMessage(&logMessageBuilder)
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Virtual Try-On API]")

	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctrl := session.Controller

	if err := applyFormFields(c, ctrl); err != nil {
		utils.RespondError(c, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	s := ctrl.State()
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Try-On Request: session=%s model_type=%q gender=%q garment_type=%q style=%q",
		session.ID, s.Selection.ModelType, s.Selection.Gender, s.Selection.GarmentType, s.Selection.Style))

	// the submission outlives this request
	ctx := context.WithoutCancel(c.Request.Context())

	if !utils.WantsJSON(c.Request) {
		if err := ctrl.SubmitAsync(ctx); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Submit rejected: %v", err))
		} else {
			utils.AddToLogMessage(&logMessageBuilder, "Submission started")
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	result, err := ctrl.Submit(ctx)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate try-on image: %v", err))
		session.DrainNotifications()
		status, message := submitErrorStatus(err)
		utils.RespondJSON(c, status, gin.H{"error": message})
		return
	}

	session.DrainNotifications()
	ctrl.AckScroll()
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Try-on %d completed", result.ID))
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"result":  result,
		"message": controller.MsgSuccess,
	})
}

func submitErrorStatus(err error) (int, string) {
	var validation *controller.ValidationError
	var serverErr *utils.ServerError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, controller.MsgMissingImages
	case errors.Is(err, controller.ErrSubmissionInFlight):
		return http.StatusConflict, controller.MsgInFlight
	case errors.As(err, &serverErr):
		return http.StatusBadGateway, controller.FailureMessage(err)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, controller.MsgGenericFailure
	default:
		return http.StatusBadGateway, controller.MsgGenericFailure
	}
}

// applyFormFields copies any instructions and dropdown values posted with the request into the form
func applyFormFields(c *gin.Context, ctrl *controller.Controller) error {
	if instructions, ok := c.GetPostForm("instructions"); ok {
		ctrl.SetInstructions(instructions)
	}
	for _, field := range []models.SelectionField{models.FieldModelType, models.FieldGender, models.FieldGarmentType, models.FieldStyle} {
		value, ok := c.GetPostForm(string(field))
		if !ok {
			continue
		}
		if err := ctrl.SetSelection(field, value); err != nil {
			return err
		}
	}
	return nil
}
