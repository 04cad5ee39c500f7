package controllers

import (
	"net/http"
	"strings"

	"drone-permit-api/config"
	"drone-permit-api/models"
	"drone-permit-api/services"

	"github.com/gin-gonic/gin"
)

type reviewDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Notes    string `json:"notes"`
}

var queueStatusFilters = map[string]models.ApprovalStatus{
	"pending":      models.StatusPending,
	"under_review": models.StatusUnderReview,
	"approved":     models.StatusApproved,
	"rejected":     models.StatusRejected,
}

// queueFilter resolves the ?status= query for review queue listings.
// Default is the pending queue: everything not yet decided overall.
func queueFilter(c *gin.Context) (models.ApprovalStatus, bool) {
	statusKey := strings.TrimSpace(c.Query("status"))
	if statusKey == "" {
		statusKey = "pending"
	}
	status, ok := queueStatusFilters[statusKey]
	return status, ok
}

// GetReviewProfiles lists pilot profiles on the review queue.
func GetReviewProfiles(c *gin.Context) {
	status, ok := queueFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	var profiles []models.PilotProfile
	query := config.DB.Preload("User").Order("update_at DESC")
	if status == models.StatusPending {
		// The working queue: anything still awaiting at least one department.
		query = query.Where("overall_status IN ?", []models.ApprovalStatus{models.StatusPending, models.StatusUnderReview})
	} else {
		query = query.Where("overall_status = ?", status)
	}
	if err := query.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"profiles": profiles,
		"total":    len(profiles),
	})
}

// GetReviewDrones lists drone registrations on the review queue.
func GetReviewDrones(c *gin.Context) {
	status, ok := queueFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	var drones []models.Drone
	query := config.DB.Preload("Pilot.User").Order("update_at DESC")
	if status == models.StatusPending {
		query = query.Where("overall_status IN ?", []models.ApprovalStatus{models.StatusPending, models.StatusUnderReview})
	} else {
		query = query.Where("overall_status = ?", status)
	}
	if err := query.Find(&drones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch drones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"drones":  drones,
		"total":   len(drones),
	})
}

// GetReviewFlights lists flight requests on the review queue.
func GetReviewFlights(c *gin.Context) {
	status, ok := queueFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	var flights []models.Flight
	query := config.DB.Preload("Pilot.User").Preload("Drone").Order("update_at DESC")
	if status == models.StatusPending {
		query = query.Where("overall_status IN ?", []models.ApprovalStatus{models.StatusPending, models.StatusUnderReview})
	} else {
		query = query.Where("overall_status = ?", status)
	}
	if err := query.Find(&flights).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"flights": flights,
		"total":   len(flights),
	})
}

// GetActiveFlights lists currently flying drones with their last-known
// positions, for the operations overview.
func GetActiveFlights(c *gin.Context) {
	var flights []models.Flight
	if err := config.DB.Preload("Pilot.User").Preload("Drone").
		Where("operational_status = ?", models.OpActive).
		Order("last_gps_update DESC").Find(&flights).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch active flights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"flights": flights,
		"total":   len(flights),
	})
}

// ReviewProfile records a department decision on a pilot profile.
func ReviewProfile(c *gin.Context) {
	applyDecision(c, "pilot_profile")
}

// ReviewDrone records a department decision on a drone registration.
func ReviewDrone(c *gin.Context) {
	applyDecision(c, "drone")
}

// ReviewFlight records a department decision on a flight request.
func ReviewFlight(c *gin.Context) {
	applyDecision(c, "flight")
}

func applyDecision(c *gin.Context, entityType string) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req reviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision := models.ApprovalStatus(strings.ToLower(strings.TrimSpace(req.Decision)))
	if decision != models.StatusApproved && decision != models.StatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be either 'approved' or 'rejected'"})
		return
	}

	// A department reviewer votes for their own department; an admin says
	// which department they are voting on behalf of.
	departmentName := actor.Role
	if actor.Role == models.RoleAdmin {
		departmentName = strings.TrimSpace(c.Query("department"))
	}
	department, ok := models.ParseDepartment(departmentName)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review department"})
		return
	}

	dec := services.ReviewDecision{
		EntityType: entityType,
		EntityID:   c.Param("id"),
		Department: department,
		Decision:   decision,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		dec.Notes = &notes
	}

	result, err := reviewService().ApplyReview(dec, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"overall_status": result.OverallStatus,
		"entity":         result.Entity,
	})
}
