package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tickettrade/resale-market/internal/repository"
	"github.com/tickettrade/resale-market/internal/utils"
)

// UserHandler implements the /api/users resource: signup, profile reads,
// profile edits and account deletion.
type UserHandler struct {
	Users      UserStore
	BcryptCost int
}

func NewUserHandler(u UserStore, bcryptCost int) *UserHandler {
	return &UserHandler{Users: u, BcryptCost: bcryptCost}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type updateUserReq struct {
	ID              uint64 `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// List handles GET /api/users.  With ?email= it answers the signup
// form's existence probe as {exists, user?}; otherwise it returns all
// users.  Password hashes never serialize.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	if email := strings.TrimSpace(c.QueryParam("email")); email != "" {
		u, err := h.Users.GetByEmail(ctx, email)
		if err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusOK, echo.Map{"exists": false})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"exists": true, "user": u})
	}

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}

// Signup handles POST /api/users.  Required fields and a well-formed
// email are checked before touching the database; a duplicate email is a
// 409.  The password is stored as a bcrypt hash.
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and username are required"})
	}
	if !emailPattern.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.Username, h.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, u)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.update(c, id, req)
}

// UpdateByBody handles PUT /api/users with the id in the JSON body, the
// collection-level form the original profile page used.
func (h *UserHandler) UpdateByBody(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id is required"})
	}
	return h.update(c, req.ID, req)
}

func (h *UserHandler) update(c echo.Context, id uint64, req updateUserReq) error {
	caller, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	// Only the account owner or an admin may edit a profile.
	if caller != id && !sessionIsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot edit another user"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Validate everything before the first write so a rejected request
	// leaves the account untouched.
	if req.Email != "" && !emailPattern.MatchString(strings.ToLower(strings.TrimSpace(req.Email))) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}

	// Password change requires proving knowledge of the current one.
	if req.NewPassword != "" {
		if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password does not match"})
		}
		if err := h.Users.UpdatePassword(ctx, id, req.NewPassword, h.BcryptCost); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
		}
	}

	updated, err := h.Users.Update(ctx, id, req.Email, req.Username)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	return h.delete(c, id)
}

// DeleteByBody handles DELETE /api/users with the id in the JSON body.
func (h *UserHandler) DeleteByBody(c echo.Context) error {
	var req struct {
		ID uint64 `json:"id"`
	}
	if err := c.Bind(&req); err != nil || req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id is required"})
	}
	return h.delete(c, req.ID)
}

func (h *UserHandler) delete(c echo.Context, id uint64) error {
	caller, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if caller != id && !sessionIsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot delete another user"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
