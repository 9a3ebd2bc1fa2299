package auth

import (
	"net/http"
	"net/url"
	"strings"

	"gymdesk/internal/api"
	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

const cookieName = "access_token"

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// Authenticate attaches the Actor for a valid access token. Requests without
// one continue anonymously; RequireLogin decides what to do with them.
func Authenticate(tokens *Tokens, loader ActorLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(raw, AccessToken)
		if err != nil {
			logger.Debug("rejected access token", "error", err.Error(), "path", c.Request.URL.Path)
			c.Next()
			return
		}

		actor, err := loader.LoadActor(c.Request.Context(), claims.UserID)
		if err != nil || actor == nil || !actor.IsActive {
			c.Next()
			return
		}

		SetActor(c, actor)
		c.Next()
	}
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c) != nil {
			c.Next()
			return
		}
		target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// RequireStaff admits staff members and superusers.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		a := CurrentActor(c)
		if a == nil || !(a.IsStaff || a.IsSuperuser) {
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Staff access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCapability gates a single route on one capability.
func RequireCapability(policy *Policy, capability Capability) gin.HandlerFunc {
	policy.MustKnow(capability)
	return func(c *gin.Context) {
		allowed, err := policy.Check(CurrentActor(c), capability)
		if err != nil {
			logger.Error("capability check failed", "capability", capability.String(), "error", err.Error())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: api.ForbiddenMessage})
			c.Abort()
			return
		}
		c.Next()
	}
}
