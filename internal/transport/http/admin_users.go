package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/app/identity/queries/list_users"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/create_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/delete_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/update_user"
)

type userForm struct {
	Email    string
	Name     string
	Role     string
	IsActive bool
}

// Users handles GET /admin/users.
func (h *Handler) Users(c *gin.Context) {
	users, err := h.queries.ListUsers.Execute(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "admin_users", gin.H{
		"Title":  "Users",
		"Users":  users,
		"Self":   principal(c).UserID,
		"Notice": c.Query("notice"),
		"Error":  c.Query("error"),
	})
}

func (h *Handler) userForm(c *gin.Context, status int, user *list_users.UserDTO, form userForm, message string) {
	title := "New user"
	if user != nil {
		title = "Edit " + user.Email
	}
	h.html(c, status, "admin_user_form", gin.H{
		"Title": title,
		"User":  user,
		"Form":  form,
		"Roles": domain.Roles(),
		"Error": message,
	})
}

// NewUser handles GET /admin/users/new.
func (h *Handler) NewUser(c *gin.Context) {
	h.userForm(c, http.StatusOK, nil, userForm{Role: string(domain.RoleManager), IsActive: true}, "")
}

// CreateUser handles POST /admin/users.
func (h *Handler) CreateUser(c *gin.Context) {
	form := userForm{
		Email:    c.PostForm("email"),
		Name:     c.PostForm("name"),
		Role:     c.PostForm("role"),
		IsActive: true,
	}
	_, err := h.commands.CreateUser.Execute(c.Request.Context(), &create_user.Request{
		Email:    form.Email,
		Name:     form.Name,
		Role:     form.Role,
		Password: c.PostForm("password"),
		Actor:    actor(c),
	})
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.fail(c, err)
			return
		}
		h.userForm(c, statusFor(err), nil, form, err.Error())
		return
	}
	redirect(c, withNotice("/admin/users", "notice", "User created"))
}

// EditUser handles GET /admin/users/:id.
func (h *Handler) EditUser(c *gin.Context) {
	user, err := h.queries.ListUsers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.userForm(c, http.StatusOK, user, userForm{
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		IsActive: user.IsActive,
	}, "")
}

// UpdateUser handles POST /admin/users/:id. An empty password field keeps
// the current password.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.queries.ListUsers.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	form := userForm{
		Email:    c.PostForm("email"),
		Name:     c.PostForm("name"),
		Role:     c.PostForm("role"),
		IsActive: c.PostForm("is_active") == "on",
	}
	err = h.commands.UpdateUser.Execute(ctx, &update_user.Request{
		UserID:   user.UserID,
		Email:    &form.Email,
		Name:     &form.Name,
		Role:     &form.Role,
		IsActive: &form.IsActive,
		Password: c.PostForm("password"),
		Actor:    actor(c),
	})
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.fail(c, err)
			return
		}
		h.userForm(c, statusFor(err), user, form, err.Error())
		return
	}
	redirect(c, withNotice("/admin/users", "notice", "User updated"))
}

// DeleteUser handles POST /admin/users/:id/delete.
func (h *Handler) DeleteUser(c *gin.Context) {
	err := h.commands.DeleteUser.Execute(c.Request.Context(), &delete_user.Request{
		UserID: c.Param("id"),
		Actor:  actor(c),
	})
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			redirect(c, withNotice("/admin/users", "error", err.Error()))
			return
		}
		h.fail(c, err)
		return
	}
	redirect(c, withNotice("/admin/users", "notice", "User deleted"))
}
