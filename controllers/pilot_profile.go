package controllers

import (
	"net/http"
	"strings"
	"time"

	"drone-permit-api/config"
	"drone-permit-api/models"
	"drone-permit-api/utils"

	"github.com/gin-gonic/gin"
)

type pilotProfileRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	Country    string `json:"country" binding:"required"`
	PostalCode string `json:"postal_code"`
}

// CreatePilotProfile submits the pilot's registration application. The
// profile starts with all three departments pending.
func CreatePilotProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req pilotProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := pilotProfileForUser(userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Pilot profile already exists"})
		return
	}

	profile := models.PilotProfile{
		UserID:  userID,
		Address: utils.SanitizeInput(req.Address),
		City:    utils.SanitizeInput(req.City),
		Country: utils.SanitizeInput(req.Country),
		ReviewState: models.ReviewState{
			AirDefense:    models.DepartmentReview{Status: models.StatusPending},
			Logistics:     models.DepartmentReview{Status: models.StatusPending},
			Intelligence:  models.DepartmentReview{Status: models.StatusPending},
			OverallStatus: models.StatusPending,
		},
		UpdateAt: time.Now(),
	}
	if postal := strings.TrimSpace(req.PostalCode); postal != "" {
		profile.PostalCode = &postal
	}

	if err := config.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pilot profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"profile": profile,
	})
}

// GetMyPilotProfile returns the caller's pilot profile with review state.
func GetMyPilotProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	profile, err := pilotProfileForUser(userID)
	if err != nil {
		if isRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pilot profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pilot profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": profile,
	})
}

// UpdatePilotProfile edits address details. Review state is untouched; a
// rejected profile is edited and then re-applied via the reapply endpoint.
func UpdatePilotProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req pilotProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := pilotProfileForUser(userID)
	if err != nil {
		if isRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pilot profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pilot profile"})
		return
	}

	updates := map[string]interface{}{
		"address":   utils.SanitizeInput(req.Address),
		"city":      utils.SanitizeInput(req.City),
		"country":   utils.SanitizeInput(req.Country),
		"update_at": time.Now(),
	}
	if postal := strings.TrimSpace(req.PostalCode); postal != "" {
		updates["postal_code"] = postal
	}

	if err := config.DB.Model(profile).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pilot profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": profile,
	})
}

// ReapplyPilotProfile resets a rejected profile back to pending across all
// departments.
func ReapplyPilotProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	profile, err := pilotProfileForUser(actor.UserID)
	if err != nil {
		if isRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pilot profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pilot profile"})
		return
	}

	result, err := reviewService().Reapply("pilot_profile", profile.ProfileID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application reset successfully",
		"profile": result.Entity,
	})
}
