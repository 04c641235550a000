package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kyrix/api/internal/config"
	"kyrix/api/internal/security"
)

// PathClass partitions every inbound path. The gate policy is a total
// function over (class, token validity) so it can be audited and tested
// cell by cell instead of hiding in cascading conditionals.
type PathClass int

const (
	// PathAuthPage is /login and /register: reachable only logged out.
	PathAuthPage PathClass = iota
	// PathPublicAPI is /api/auth/*: login, logout and register themselves.
	PathPublicAPI
	// PathDeviceSync is /api/device-sync*: authenticated by device-code
	// possession alone, never by session.
	PathDeviceSync
	// PathHome is /: reachable either way.
	PathHome
	// PathSystem is operational surface (health, metrics).
	PathSystem
	// PathProtected is everything else.
	PathProtected
)

type GuardAction int

const (
	ActionAllow GuardAction = iota
	ActionRedirectLogin
	ActionRedirectDashboard
)

func ClassifyPath(path string) PathClass {
	switch {
	case strings.HasPrefix(path, "/login"), strings.HasPrefix(path, "/register"):
		return PathAuthPage
	case strings.HasPrefix(path, "/api/device-sync"):
		return PathDeviceSync
	case strings.HasPrefix(path, "/api/auth"):
		return PathPublicAPI
	case path == "/api/healthz", path == "/metrics":
		return PathSystem
	case path == "/":
		return PathHome
	default:
		return PathProtected
	}
}

// GuardDecision is the gate's entire policy. An invalid token and an
// absent token land in the same column.
func GuardDecision(class PathClass, authenticated bool) GuardAction {
	switch class {
	case PathAuthPage:
		if authenticated {
			return ActionRedirectDashboard
		}
		return ActionAllow
	case PathPublicAPI, PathDeviceSync, PathHome, PathSystem:
		return ActionAllow
	default:
		if authenticated {
			return ActionAllow
		}
		return ActionRedirectLogin
	}
}

// Guard runs ahead of every handler and applies GuardDecision to the
// request path and session cookie.
func Guard(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated := false
		if token, ok := security.SessionTokenFromRequest(c.Request); ok {
			if _, err := security.ParseSessionToken(token, cfg.Security.SessionSecret); err == nil {
				authenticated = true
			}
		}

		switch GuardDecision(ClassifyPath(c.Request.URL.Path), authenticated) {
		case ActionRedirectLogin:
			c.Redirect(http.StatusTemporaryRedirect, "/login")
			c.Abort()
		case ActionRedirectDashboard:
			c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
			c.Abort()
		default:
			c.Next()
		}
	}
}
