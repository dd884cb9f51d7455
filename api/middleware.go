package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

const (
	SessionCookie = "tryon_session"
	sessionKey    = "session"
)

// SessionMiddleware resolves the signed session cookie to a Session, issuing a new client id when
// the cookie is missing or invalid
func SessionMiddleware(secret []byte, sessions *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := ""
		if raw, err := c.Cookie(SessionCookie); err == nil {
			if id, err := utils.ParseSessionToken(secret, raw); err == nil {
				clientID = id
			} else {
				utils.Logger.Debug("discarding session cookie", zap.Error(err))
			}
		}

		if clientID == "" {
			clientID = uuid.NewString()
			token, err := utils.GenerateSessionToken(secret, clientID)
			if err != nil {
				utils.RespondError(c, nil, "Failed to start session", http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, token, int(utils.SessionTTL.Seconds()), "/", "", false, true)
		}

		c.Set(sessionKey, sessions.GetOrCreate(c.Request.Context(), clientID))
		c.Next()
	}
}

// GetSessionFromContext returns the Session attached by SessionMiddleware
func GetSessionFromContext(c *gin.Context) (*Session, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, errors.New("no session in context")
	}
	session, ok := v.(*Session)
	if !ok {
		return nil, errors.New("invalid session in context")
	}
	return session, nil
}
