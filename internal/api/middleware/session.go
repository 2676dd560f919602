package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hydrahunt/internal/auth"
	"hydrahunt/internal/store"
)

// DeviceCookieName identifies the guest device across requests.
const DeviceCookieName = "hh_device"

const sessionKey = "session"

// deviceCookieMaxAge keeps guest data reachable for a year of inactivity.
const deviceCookieMaxAge = 365 * 24 * 60 * 60

// SessionMiddleware resolves who the caller is on every request: a
// bearer access token makes the session authenticated, otherwise the
// caller stays a guest identified by the device cookie (assigned here
// when absent). The session is stored both in gin and in the request
// context so the persistence layer's ContextResolver can see it.
func SessionMiddleware(authService *auth.AuthService, cookieDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, err := c.Cookie(DeviceCookieName)
		if err != nil || deviceID == "" {
			deviceID = uuid.NewString()
			c.SetCookie(DeviceCookieName, deviceID, deviceCookieMaxAge, "/", cookieDomain, false, true)
		}

		sess := store.Session{DeviceID: deviceID}
		if claims, ok := bearerClaims(c, authService); ok {
			sess.UserID = claims.UserID
			c.Set("userID", claims.UserID)
		}

		c.Set(sessionKey, sess)
		c.Request = c.Request.WithContext(store.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

// RequireAccount aborts guest requests. Must run after SessionMiddleware.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := SessionFromGin(c); !ok || !sess.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// SessionFromGin returns the session placed by SessionMiddleware.
func SessionFromGin(c *gin.Context) (store.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return store.Session{}, false
	}
	sess, ok := value.(store.Session)
	return sess, ok
}

func bearerClaims(c *gin.Context, authService *auth.AuthService) (*auth.TokenClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return nil, false
	}

	claims, err := authService.ValidateToken(rawToken)
	if err != nil || claims.TokenType != "access" {
		return nil, false
	}
	return claims, true
}
