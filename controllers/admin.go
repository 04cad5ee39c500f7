package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"drone-permit-api/config"
	"drone-permit-api/models"

	"github.com/gin-gonic/gin"
)

// GetAdminUsers lists all accounts, optionally filtered by role.
func GetAdminUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Where("delete_at IS NULL").Order("create_at DESC")
	if role := c.Query("role"); role != "" {
		if !models.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role filter"})
			return
		}
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// UpdateUserRole reassigns an account's role.
func UpdateUserRole(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	targetID := c.Param("id")
	if targetID == actor.UserID {
		c.JSON(http.StatusConflict, gin.H{"error": "Admins cannot change their own role"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", targetID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	previousRole := user.Role
	if err := config.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"previous_role": previousRole,
		"new_role":      req.Role,
	})
	metaStr := string(meta)
	userID := user.UserID
	ua := actor.UserAgent
	audit := models.AuditLog{
		UserID:      actor.UserID,
		Action:      "update",
		EntityType:  "user",
		EntityID:    &userID,
		Description: ptr(fmt.Sprintf("Role changed from %s to %s", previousRole, req.Role)),
		Metadata:    &metaStr,
		IPAddress:   actor.IPAddress,
	}
	if ua != "" {
		audit.UserAgent = &ua
	}
	config.DB.Create(&audit)

	user.Role = req.Role
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// GetAdminStats returns system-wide counts for the admin dashboard.
func GetAdminStats(c *gin.Context) {
	stats := gin.H{}

	var totalUsers, totalPilots int64
	config.DB.Model(&models.User{}).Where("delete_at IS NULL").Count(&totalUsers)
	config.DB.Model(&models.User{}).Where("delete_at IS NULL AND role = ?", models.RolePilot).Count(&totalPilots)
	stats["total_users"] = totalUsers
	stats["total_pilots"] = totalPilots

	profileCounts := gin.H{}
	for _, status := range []models.ApprovalStatus{models.StatusPending, models.StatusUnderReview, models.StatusApproved, models.StatusRejected} {
		var count int64
		config.DB.Model(&models.PilotProfile{}).Where("overall_status = ?", status).Count(&count)
		profileCounts[string(status)] = count
	}
	stats["profiles"] = profileCounts

	var totalDrones, totalFlights, activeFlights int64
	config.DB.Model(&models.Drone{}).Count(&totalDrones)
	config.DB.Model(&models.Flight{}).Count(&totalFlights)
	config.DB.Model(&models.Flight{}).Where("operational_status = ?", models.OpActive).Count(&activeFlights)
	stats["total_drones"] = totalDrones
	stats["total_flights"] = totalFlights
	stats["active_flights"] = activeFlights

	var totalPayments int64
	var revenue float64
	config.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentCompleted).Count(&totalPayments)
	config.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)
	stats["completed_payments"] = totalPayments
	stats["total_revenue"] = revenue

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// GetAuditLogs pages through the audit trail, newest first.
func GetAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := config.DB.Model(&models.AuditLog{})
	if entityType := c.Query("entity_type"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	query.Count(&total)

	var logs []models.AuditLog
	if err := query.Preload("User").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    logs,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
