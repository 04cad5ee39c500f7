package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"drone-permit-api/config"
	"drone-permit-api/models"
	"drone-permit-api/utils"

	"github.com/gin-gonic/gin"
)

type flightRequest struct {
	DroneID                  string  `json:"drone_id" binding:"required"`
	Purpose                  string  `json:"purpose" binding:"required"`
	Description              string  `json:"description"`
	DepartureLocation        string  `json:"departure_location" binding:"required"`
	DepartureLat             float64 `json:"departure_lat" binding:"required"`
	DepartureLng             float64 `json:"departure_lng" binding:"required"`
	DestinationLocation      string  `json:"destination_location"`
	DestinationLat           *float64 `json:"destination_lat"`
	DestinationLng           *float64 `json:"destination_lng"`
	ScheduledStart           time.Time `json:"scheduled_start" binding:"required"`
	ScheduledEnd             time.Time `json:"scheduled_end" binding:"required"`
	MaxAltitudeM             float64  `json:"max_altitude_m" binding:"required,gt=0"`
	EstimatedDurationMinutes int      `json:"estimated_duration_minutes"`
}

// GetFlights lists the caller's flight requests.
func GetFlights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	profile, err := pilotProfileForUser(userID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "flights": []models.Flight{}, "total": 0})
		return
	}

	var flights []models.Flight
	if err := config.DB.Preload("Drone").
		Where("pilot_id = ?", profile.ProfileID).
		Order("create_at DESC").Find(&flights).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"flights": flights,
		"total":   len(flights),
	})
}

// GetFlight returns one of the caller's flights.
func GetFlight(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	flight, httpStatus, errMsg := loadOwnFlight(c.Param("id"), userID)
	if errMsg != "" {
		c.JSON(httpStatus, gin.H{"error": errMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"flight":  flight,
	})
}

// CreateFlight submits a flight authorization request. The pilot profile
// must not be rejected, and the drone must be approved.
func CreateFlight(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := pilotProfileForUser(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please complete your pilot profile first"})
		return
	}
	if profile.OverallStatus == models.StatusRejected {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your pilot profile has been rejected. Please update your information and resubmit."})
		return
	}

	var drone models.Drone
	if err := config.DB.Where("drone_id = ? AND pilot_id = ?", req.DroneID, profile.ProfileID).
		First(&drone).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Drone not found"})
		return
	}
	if drone.OverallStatus != models.StatusApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Drone must be approved before requesting flights"})
		return
	}

	if !req.ScheduledEnd.After(req.ScheduledStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scheduled end must be after scheduled start"})
		return
	}

	duration := req.EstimatedDurationMinutes
	if duration <= 0 {
		duration = int(req.ScheduledEnd.Sub(req.ScheduledStart).Minutes())
	}

	flight := models.Flight{
		PilotID:                  profile.ProfileID,
		DroneID:                  drone.DroneID,
		FlightNumber:             generateFlightNumber(),
		Purpose:                  utils.SanitizeInput(req.Purpose),
		DepartureLocation:        utils.SanitizeInput(req.DepartureLocation),
		DepartureLat:             req.DepartureLat,
		DepartureLng:             req.DepartureLng,
		ScheduledStart:           req.ScheduledStart,
		ScheduledEnd:             req.ScheduledEnd,
		MaxAltitudeM:             req.MaxAltitudeM,
		EstimatedDurationMinutes: duration,
		OperationalStatus:        models.OpPending,
		ReviewState: models.ReviewState{
			AirDefense:    models.DepartmentReview{Status: models.StatusPending},
			Logistics:     models.DepartmentReview{Status: models.StatusPending},
			Intelligence:  models.DepartmentReview{Status: models.StatusPending},
			OverallStatus: models.StatusPending,
		},
		UpdateAt: time.Now(),
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		flight.Description = &desc
	}
	if dest := strings.TrimSpace(req.DestinationLocation); dest != "" {
		flight.DestinationLocation = &dest
		flight.DestinationLat = req.DestinationLat
		flight.DestinationLng = req.DestinationLng
	}

	if err := config.DB.Create(&flight).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create flight request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"flight":  flight,
	})
}

// StartFlight begins an approved flight.
func StartFlight(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	flight, err := flightService().Start(c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Flight started",
		"flight":  flight,
	})
}

// EndFlight completes an active flight.
func EndFlight(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	flight, err := flightService().End(c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Flight completed",
		"flight":  flight,
	})
}

// UpdateFlightLocation records the latest GPS position of an active flight.
func UpdateFlightLocation(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req struct {
		Lat      float64 `json:"lat" binding:"required"`
		Lng      float64 `json:"lng" binding:"required"`
		Altitude float64 `json:"altitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := flightService().RecordPosition(c.Param("id"), req.Lat, req.Lng, req.Altitude, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ReapplyFlight resets a rejected flight request back to pending.
func ReapplyFlight(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	result, err := reviewService().Reapply("flight", c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application reset successfully",
		"flight":  result.Entity,
	})
}

func loadOwnFlight(flightID, userID string) (*models.Flight, int, string) {
	profile, err := pilotProfileForUser(userID)
	if err != nil {
		return nil, http.StatusNotFound, "Pilot profile not found"
	}

	var flight models.Flight
	if err := config.DB.Preload("Drone").Where("flight_id = ?", flightID).First(&flight).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, http.StatusNotFound, "Flight not found"
		}
		return nil, http.StatusInternalServerError, "Failed to load flight"
	}
	if flight.PilotID != profile.ProfileID {
		return nil, http.StatusForbidden, "Forbidden"
	}
	return &flight, http.StatusOK, ""
}

func generateFlightNumber() string {
	// Format: DP-YYYYMMDD-XXXX
	now := time.Now()
	dateStr := now.Format("20060102")

	// Count today's flight requests
	var count int64
	config.DB.Model(&models.Flight{}).
		Where("DATE(create_at) = DATE(NOW())").
		Count(&count)

	return fmt.Sprintf("DP-%s-%04d", dateStr, count+1)
}
