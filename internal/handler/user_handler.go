package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/middleware"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (string, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

// parsePageParams reads page and limit query parameters with defaults
func parsePageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

// UserHandler handles admin user management requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// ListUsers returns one page of users with total count for pagination
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := parsePageParams(c)
	search := c.Query("search")

	var filters model.UserFilters
	if roleParam := c.Query("role"); roleParam != "" {
		filters.Role = &roleParam
	}
	if approvedParam := c.Query("approved"); approvedParam != "" {
		approved, err := strconv.ParseBool(approvedParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value for 'approved', use true or false"})
			return
		}
		filters.Approved = &approved
	}

	users, total, err := h.service.List(c.Request.Context(), page, limit, search, filters)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, gin.H{"data": users, "total": total})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error getting user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error updating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ApproveUser marks a pending organizer account as approved
func (h *UserHandler) ApproveUser(c *gin.Context) {
	user, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error approving user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account. Admins cannot delete their own account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	authUserID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if id == authUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot delete your own account"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("Error deleting user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterUserRoutes registers the admin user management routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	usersGroup := rg.Group("/admin/users", authMW, adminMW)
	{
		usersGroup.GET("", h.ListUsers)
		usersGroup.GET("/:id", h.GetUser)
		usersGroup.PUT("/:id", h.UpdateUser)
		usersGroup.PATCH("/:id/approve", h.ApproveUser)
		usersGroup.DELETE("/:id", h.DeleteUser)
	}
}
