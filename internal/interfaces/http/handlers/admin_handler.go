package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/application/service"
	"github.com/imRyuukii/LoginPage/internal/interfaces/http/middleware"
	"github.com/imRyuukii/LoginPage/pkg/errors"
)

// AdminHandler exposes user management to administrators.
type AdminHandler struct {
	users service.UserAdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users service.UserAdminService) *AdminHandler {
	return &AdminHandler{users: users}
}

func userIDParam(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.ErrInvalidRequest("Invalid user id.")
	}
	return id, nil
}

// ListUsers handles GET /api/v1/admin/users?q=&role=&page=&per_page=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, errors.ErrInvalidRequest("Invalid query parameters.").WithCause(err))
		return
	}

	list, err := h.users.ListUsers(c.Request.Context(), middleware.SessionFrom(c), &query)
	if err != nil {
		fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, list)
}

// idsQuery parses a comma-separated id list. Entries that are not positive
// integers are skipped; nil means the parameter was absent or blank.
func idsQuery(c *gin.Context) []uint64 {
	raw := strings.TrimSpace(c.Query("ids"))
	if raw == "" {
		return nil
	}
	ids := []uint64{}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// UserActivity handles GET /api/v1/admin/users/activity?ids=.
func (h *AdminHandler) UserActivity(c *gin.Context) {
	activity, err := h.users.UserActivity(c.Request.Context(), middleware.SessionFrom(c), idsQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	dto.SendSuccess(c, http.StatusOK, activity)
}

// MakeAdmin handles POST /api/v1/admin/users/:id/make-admin.
func (h *AdminHandler) MakeAdmin(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.users.MakeAdmin(c.Request.Context(), middleware.SessionFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, gin.H{"id": id, "role": "admin"})
}

// DeleteUser handles DELETE /api/v1/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), middleware.SessionFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
