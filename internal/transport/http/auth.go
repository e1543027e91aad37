package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/identity/usecases/sign_in"
)

// LoginPage handles GET /login. Signed-in users go straight to the panel.
func (h *Handler) LoginPage(c *gin.Context) {
	if principal(c) != nil {
		redirect(c, "/admin")
		return
	}
	h.html(c, http.StatusOK, "login", gin.H{"Title": "Sign in", "Error": c.Query("error")})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	p, err := h.commands.SignIn.Execute(c.Request.Context(), &sign_in.Request{
		Email:     email,
		Password:  c.PostForm("password"),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("sign in failed", zap.Error(err))
		}
		h.html(c, status, "login", gin.H{"Title": "Sign in", "Error": err.Error(), "Email": email})
		return
	}

	token, expires, err := h.sessions.Issue(*p)
	if err != nil {
		h.fail(c, err)
		return
	}
	http.SetCookie(c.Writer, h.sessions.Cookie(token, expires))
	redirect(c, "/admin")
}

// SignOut handles POST /auth/signout.
func (h *Handler) SignOut(c *gin.Context) {
	http.SetCookie(c.Writer, h.sessions.ClearCookie())
	redirect(c, "/login")
}

// withNotice appends a notice query parameter to location.
func withNotice(location, key, message string) string {
	return location + "?" + url.Values{key: {message}}.Encode()
}
