package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// ActivityHandler handles activity related requests
type ActivityHandler struct {
	service service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(s service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: s}
}

// ListActivities is the public browse/search endpoint; only approved
// activities are returned.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	page, limit := parsePageParams(c)
	search := c.Query("search")

	var category *string
	if categoryParam := c.Query("category"); categoryParam != "" {
		category = &categoryParam
	}

	activities, total, err := h.service.ListPublic(c.Request.Context(), page, limit, search, category)
	if err != nil {
		log.Printf("Error listing activities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activities"})
		return
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	c.JSON(http.StatusOK, gin.H{"data": activities, "total": total})
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activity, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error getting activity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

// CreateActivity lets an organizer submit a new activity; it enters the
// admin requests queue unapproved.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	callerRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	activity, err := h.service.Create(c.Request.Context(), callerID, callerRole, req)
	if err != nil {
		log.Printf("Error creating activity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	callerRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	activity, err := h.service.Update(c.Request.Context(), c.Param("id"), callerID, callerRole, req)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error updating activity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	callerRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), callerID, callerRole); err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error deleting activity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListActivitiesAdmin returns any page of activities including unapproved
// requests, with search and filters.
func (h *ActivityHandler) ListActivitiesAdmin(c *gin.Context) {
	page, limit := parsePageParams(c)
	search := c.Query("search")

	var filters model.ActivityFilters
	if categoryParam := c.Query("category"); categoryParam != "" {
		filters.Category = &categoryParam
	}
	if organizerParam := c.Query("organizer_id"); organizerParam != "" {
		filters.OrganizerID = &organizerParam
	}
	if approvedParam := c.Query("approved"); approvedParam != "" {
		approved, err := strconv.ParseBool(approvedParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value for 'approved', use true or false"})
			return
		}
		filters.Approved = &approved
	}

	activities, total, err := h.service.ListAdmin(c.Request.Context(), page, limit, search, filters)
	if err != nil {
		log.Printf("Error listing activities for admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activities"})
		return
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	c.JSON(http.StatusOK, gin.H{"data": activities, "total": total})
}

// ApproveActivity accepts a pending activity request
func (h *ActivityHandler) ApproveActivity(c *gin.Context) {
	activity, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error approving activity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

// RegisterActivityRoutes registers public, organizer and admin activity routes
func (h *ActivityHandler) RegisterActivityRoutes(rg *gin.RouterGroup, authMW, organizerMW, adminMW gin.HandlerFunc) {
	publicGroup := rg.Group("/activities")
	{
		publicGroup.GET("", h.ListActivities)
		publicGroup.GET("/:id", h.GetActivity)
	}

	manageGroup := rg.Group("/activities", authMW, organizerMW)
	{
		manageGroup.POST("", h.CreateActivity)
		manageGroup.PUT("/:id", h.UpdateActivity)
		manageGroup.DELETE("/:id", h.DeleteActivity)
	}

	adminGroup := rg.Group("/admin/activities", authMW, adminMW)
	{
		adminGroup.GET("", h.ListActivitiesAdmin)
		adminGroup.PATCH("/:id/approve", h.ApproveActivity)
	}
}
