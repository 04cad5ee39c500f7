package controllers

import (
	"errors"
	"net/http"
	"strings"

	"drone-permit-api/config"
	"drone-permit-api/models"
	"drone-permit-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	reviewSvc *services.ReviewService
	flightSvc *services.FlightService
	notifier  services.Notifier
)

// InitServices wires the review core against the connected database. Call
// after config.InitDB.
func InitServices(db *gorm.DB) {
	notifier = services.NewNotifier(db, config.SendMail)
	reviewSvc = services.NewReviewService(db, notifier)
	flightSvc = services.NewFlightService(db)
}

func reviewService() *services.ReviewService { return reviewSvc }
func flightService() *services.FlightService { return flightSvc }

// notifyUser fires a best-effort notification outside the review core.
func notifyUser(n models.Notification) {
	if notifier != nil {
		notifier.Notify(n)
	}
}

// currentUserID returns the authenticated user id set by AuthMiddleware.
func currentUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

// currentRole returns the authenticated user's role.
func currentRole(c *gin.Context) (string, bool) {
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(string); ok && role != "" {
			return role, true
		}
	}
	return "", false
}

// actorFromContext builds the service-layer actor for the current request.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := currentRole(c)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{
		UserID:    userID,
		Role:      role,
		IPAddress: c.ClientIP(),
		UserAgent: strings.TrimSpace(c.GetHeader("User-Agent")),
	}, true
}

// respondServiceError translates the review core's error kinds to HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// pilotProfileForUser loads the caller's pilot profile.
func pilotProfileForUser(userID string) (*models.PilotProfile, error) {
	var profile models.PilotProfile
	if err := config.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
