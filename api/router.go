package api

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raushankrgupta/virtual-try-on/utils"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"safeURL": safeImageURL,
}

// safeImageURL trusts image data URIs and http(s) URLs so html/template leaves them intact.
// Anything else, such as a javascript: URL from the backend, renders as an empty src.
func safeImageURL(s string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(lower, "data:image/") ||
		strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") {
		return template.URL(s)
	}
	return ""
}

// Version is reported by /health
var Version = "dev"

// NewRouter wires middleware and routes for the web front end
func NewRouter(sessions *SessionStore, secret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.LatencyMiddleware())
	r.Use(utils.CORSMiddleware())

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	app := r.Group("/", SessionMiddleware(secret, sessions))
	{
		app.GET("/", IndexHandler)
	}

	api := r.Group("/api", SessionMiddleware(secret, sessions))
	{
		api.GET("/state", StateHandler)
		api.POST("/picker/:slot", PickerUploadHandler)
		api.DELETE("/picker/:slot", PickerRemoveHandler)
		api.POST("/picker/:slot/remove", PickerRemoveHandler)
		api.POST("/selection", SelectionHandler)
		api.POST("/try-on", TryOnHandler)
		api.POST("/theme", ThemeHandler)
		api.GET("/history", GalleryHandler)
	}

	return r
}

// respond answers JSON clients with payload and sends browsers back to the page
func respond(c *gin.Context, status int, payload interface{}, anchor string) {
	if utils.WantsJSON(c.Request) {
		utils.RespondJSON(c, status, payload)
		return
	}
	c.Redirect(http.StatusSeeOther, "/"+anchor)
}
