package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"imagequery/internal/domain"
	"imagequery/internal/service"
)

// ContextKeySessionID is the gin context key holding the page session ID.
const ContextKeySessionID = "session_id"

// Session resolves the page session from its cookie, starting a fresh one
// when the cookie is missing or the session has expired.
func Session(formService service.FormService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(cookieName); err == nil {
			if id, parseErr := uuid.Parse(raw); parseErr == nil {
				if _, getErr := formService.Snapshot(c.Request.Context(), id); getErr == nil {
					c.Set(ContextKeySessionID, id)
					c.Next()
					return
				}
			}
		}

		state, err := formService.NewSession(c.Request.Context())
		if err != nil {
			log.Printf("middleware.Session: failed to start session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": "INTERNAL_ERROR", "message": "could not start a form session"},
			})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, state.SessionID.String(), 0, "/", "", false, true)
		c.Set(ContextKeySessionID, state.SessionID)
		c.Next()
	}
}

// GetSessionID extracts the page session ID from the Gin context.
func GetSessionID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeySessionID)
	if !exists {
		return uuid.Nil, domain.ErrSessionNotFound
	}
	return val.(uuid.UUID), nil
}
