package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identity "github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/metrics"
	"github.com/light-bringer/procat-web/internal/session"
)

const (
	ctxPrincipal = "principal"
	ctxRole      = "role"
)

// RoleResolver decides the permission tier of a signed-in principal.
type RoleResolver interface {
	Resolve(ctx context.Context, p *session.Principal) identity.Role
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// Metrics records request counts and latencies by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Authenticate attaches the principal of a valid session cookie.
// Requests without one continue anonymously.
func Authenticate(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
			if p, err := sessions.Parse(token); err == nil {
				c.Set(ctxPrincipal, p)
			}
		}
		c.Next()
	}
}

// RequireRole admits principals whose role is at least min. Pages redirect:
// anonymous to /login, users without a role to /, managers on admin pages
// to /admin. API routes answer 401 or 403 instead.
func RequireRole(resolver RoleResolver, min identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p == nil {
			deny(c, http.StatusUnauthorized, "/login")
			return
		}

		r := role(c)
		if _, resolved := c.Get(ctxRole); !resolved {
			r = resolver.Resolve(c.Request.Context(), p)
			c.Set(ctxRole, r)
		}
		switch {
		case r == identity.RoleNone:
			deny(c, http.StatusForbidden, "/")
		case !r.AtLeast(min):
			deny(c, http.StatusForbidden, "/admin")
		default:
			c.Next()
		}
	}
}

func deny(c *gin.Context, status int, redirect string) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Redirect(http.StatusSeeOther, redirect)
	c.Abort()
}

func principal(c *gin.Context) *session.Principal {
	if v, ok := c.Get(ctxPrincipal); ok {
		return v.(*session.Principal)
	}
	return nil
}

func role(c *gin.Context) identity.Role {
	if v, ok := c.Get(ctxRole); ok {
		return v.(identity.Role)
	}
	return identity.RoleNone
}
