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

type droneRequest struct {
	Manufacturer      string  `json:"manufacturer" binding:"required"`
	Model             string  `json:"model" binding:"required"`
	SerialNumber      string  `json:"serial_number" binding:"required"`
	WeightKg          float64 `json:"weight_kg" binding:"required,gt=0"`
	MaxAltitudeM      float64 `json:"max_altitude_m" binding:"required,gt=0"`
	MaxSpeedKmh       float64 `json:"max_speed_kmh" binding:"required,gt=0"`
	HasCamera         bool    `json:"has_camera"`
	CameraResolution  string  `json:"camera_resolution"`
	HasThermalImaging bool    `json:"has_thermal_imaging"`
}

// GetDrones lists the caller's drones with their review state.
func GetDrones(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	profile, err := pilotProfileForUser(userID)
	if err != nil {
		if isRecordNotFound(err) {
			c.JSON(http.StatusOK, gin.H{"success": true, "drones": []models.Drone{}, "total": 0})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pilot profile"})
		return
	}

	var drones []models.Drone
	if err := config.DB.Where("pilot_id = ?", profile.ProfileID).
		Order("create_at DESC").Find(&drones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch drones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"drones":  drones,
		"total":   len(drones),
	})
}

// GetDrone returns one of the caller's drones.
func GetDrone(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	drone, httpStatus, errMsg := loadOwnDrone(c.Param("id"), userID)
	if errMsg != "" {
		c.JSON(httpStatus, gin.H{"error": errMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"drone":   drone,
	})
}

// CreateDrone registers a drone for review. Requires an approved pilot
// profile.
func CreateDrone(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req droneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := pilotProfileForUser(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please complete your pilot profile first"})
		return
	}
	if profile.OverallStatus != models.StatusApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your pilot profile must be approved before registering drones"})
		return
	}

	drone := models.Drone{
		PilotID:           profile.ProfileID,
		Manufacturer:      utils.SanitizeInput(req.Manufacturer),
		Model:             utils.SanitizeInput(req.Model),
		SerialNumber:      utils.SanitizeInput(req.SerialNumber),
		WeightKg:          req.WeightKg,
		MaxAltitudeM:      req.MaxAltitudeM,
		MaxSpeedKmh:       req.MaxSpeedKmh,
		HasCamera:         req.HasCamera,
		HasThermalImaging: req.HasThermalImaging,
		ReviewState: models.ReviewState{
			AirDefense:    models.DepartmentReview{Status: models.StatusPending},
			Logistics:     models.DepartmentReview{Status: models.StatusPending},
			Intelligence:  models.DepartmentReview{Status: models.StatusPending},
			OverallStatus: models.StatusPending,
		},
		UpdateAt: time.Now(),
	}
	if res := strings.TrimSpace(req.CameraResolution); res != "" && req.HasCamera {
		drone.CameraResolution = &res
	}

	if err := config.DB.Create(&drone).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A drone with this serial number already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"drone":   drone,
	})
}

// UpdateDrone edits drone details. Blocked once the drone is approved.
func UpdateDrone(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	drone, httpStatus, errMsg := loadOwnDrone(c.Param("id"), userID)
	if errMsg != "" {
		c.JSON(httpStatus, gin.H{"error": errMsg})
		return
	}

	if drone.OverallStatus == models.StatusApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "Approved drones cannot be edited"})
		return
	}

	var req droneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"manufacturer":        utils.SanitizeInput(req.Manufacturer),
		"model":               utils.SanitizeInput(req.Model),
		"serial_number":       utils.SanitizeInput(req.SerialNumber),
		"weight_kg":           req.WeightKg,
		"max_altitude_m":      req.MaxAltitudeM,
		"max_speed_kmh":       req.MaxSpeedKmh,
		"has_camera":          req.HasCamera,
		"has_thermal_imaging": req.HasThermalImaging,
		"update_at":           time.Now(),
	}
	if res := strings.TrimSpace(req.CameraResolution); res != "" && req.HasCamera {
		updates["camera_resolution"] = res
	}

	if err := config.DB.Model(drone).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update drone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"drone":   drone,
	})
}

// ReapplyDrone resets a rejected drone registration back to pending.
func ReapplyDrone(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	result, err := reviewService().Reapply("drone", c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application reset successfully",
		"drone":   result.Entity,
	})
}

func loadOwnDrone(droneID, userID string) (*models.Drone, int, string) {
	profile, err := pilotProfileForUser(userID)
	if err != nil {
		return nil, http.StatusNotFound, "Pilot profile not found"
	}

	var drone models.Drone
	if err := config.DB.Where("drone_id = ?", droneID).First(&drone).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, http.StatusNotFound, "Drone not found"
		}
		return nil, http.StatusInternalServerError, "Failed to load drone"
	}
	if drone.PilotID != profile.ProfileID {
		return nil, http.StatusForbidden, "Forbidden"
	}
	return &drone, http.StatusOK, ""
}
