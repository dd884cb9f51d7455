package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raushankrgupta/virtual-try-on/controller"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/picker"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

// RefreshSeconds is how often the page reloads while a try-on is running
const RefreshSeconds = 2

type pickerView struct {
	Slot     models.Slot
	Title    string
	Label    string
	Hint     string
	Preview  string
	Decoding bool
	Fields   []selectView
}

type selectView struct {
	Field       models.SelectionField
	Title       string
	Placeholder string
	Value       string
	Options     []models.SelectionOption
}

type pageData struct {
	State          controller.State
	Person         pickerView
	Cloth          pickerView
	Notifications  []models.Notification
	RefreshSeconds int
}

var selectTitles = map[models.SelectionField]string{
	models.FieldModelType:   "Model Type",
	models.FieldGender:      "Gender",
	models.FieldGarmentType: "Garment Type",
	models.FieldStyle:       "Style",
}

func newSelectView(field models.SelectionField, s models.Selection) selectView {
	title := selectTitles[field]
	return selectView{
		Field:       field,
		Title:       title,
		Placeholder: "Select " + strings.ToLower(title),
		Value:       s.Get(field),
		Options:     models.SelectionOptions[field],
	}
}

func newPageData(session *Session) pageData {
	ctrl := session.Controller
	state := ctrl.State()

	data := pageData{
		State: state,
		Person: pickerView{
			Slot:     models.SlotPerson,
			Title:    "Model Image",
			Label:    ctrl.Person().Label(),
			Hint:     picker.Hint,
			Preview:  ctrl.Person().Preview(),
			Decoding: ctrl.Person().Decoding(),
			Fields: []selectView{
				newSelectView(models.FieldModelType, state.Selection),
				newSelectView(models.FieldGender, state.Selection),
			},
		},
		Cloth: pickerView{
			Slot:     models.SlotCloth,
			Title:    "Garment Image",
			Label:    ctrl.Cloth().Label(),
			Hint:     picker.Hint,
			Preview:  ctrl.Cloth().Preview(),
			Decoding: ctrl.Cloth().Decoding(),
			Fields: []selectView{
				newSelectView(models.FieldGarmentType, state.Selection),
				newSelectView(models.FieldStyle, state.Selection),
			},
		},
		Notifications: session.DrainNotifications(),
	}
	if state.Loading {
		data.RefreshSeconds = RefreshSeconds
	}
	return data
}

// IndexHandler renders the try-on page for the caller's session
func IndexHandler(c *gin.Context) {
	var logMessageBuilder strings.Builder
	defer func() {
		utils.FlushLogMessage(&logMessageBuilder)
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Index Page]")

	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data := newPageData(session)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Session %s: loading=%v history=%d", session.ID, data.State.Loading, len(data.State.History)))

	c.HTML(http.StatusOK, "index.html", data)

	// the scroll request is consumed by the render that carried it
	if data.State.ScrollToResult {
		session.Controller.AckScroll()
	}
}

// StateResponse is the JSON view of a session's form
type StateResponse struct {
	controller.State
	HasPersonImage bool                  `json:"has_person_image"`
	HasClothImage  bool                  `json:"has_cloth_image"`
	PersonPreview  string                `json:"person_preview"`
	ClothPreview   string                `json:"cloth_preview"`
	Notifications  []models.Notification `json:"notifications"`
}

func newStateResponse(session *Session) StateResponse {
	ctrl := session.Controller
	state := ctrl.State()
	notifications := session.DrainNotifications()
	if notifications == nil {
		notifications = []models.Notification{}
	}
	if state.History == nil {
		state.History = []models.TryOnResult{}
	}
	return StateResponse{
		State:          state,
		HasPersonImage: state.HasImage(models.SlotPerson),
		HasClothImage:  state.HasImage(models.SlotCloth),
		PersonPreview:  ctrl.Person().Preview(),
		ClothPreview:   ctrl.Cloth().Preview(),
		Notifications:  notifications,
	}
}

// StateHandler returns the session state and drains its pending notifications
func StateHandler(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		utils.RespondError(c, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}
	utils.Logger.Debug("state requested", zap.String("session", session.ID))
	utils.RespondJSON(c, http.StatusOK, newStateResponse(session))
}
