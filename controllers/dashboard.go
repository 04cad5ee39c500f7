package controllers

import (
	"net/http"

	"drone-permit-api/config"
	"drone-permit-api/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns counts scoped to the caller's role: pilots see
// their own applications, reviewers see their department's queue.
func GetDashboardStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}
	role, _ := currentRole(c)

	if models.ReviewerRole(role) {
		reviewerDashboard(c, role)
		return
	}

	stats := gin.H{}

	profile, err := pilotProfileForUser(userID)
	if err != nil {
		stats["profile_status"] = nil
	} else {
		stats["profile_status"] = profile.OverallStatus

		var droneCount, approvedDrones int64
		config.DB.Model(&models.Drone{}).Where("pilot_id = ?", profile.ProfileID).Count(&droneCount)
		config.DB.Model(&models.Drone{}).
			Where("pilot_id = ? AND overall_status = ?", profile.ProfileID, models.StatusApproved).
			Count(&approvedDrones)
		stats["drones"] = droneCount
		stats["approved_drones"] = approvedDrones

		var flightCount, activeFlights int64
		config.DB.Model(&models.Flight{}).Where("pilot_id = ?", profile.ProfileID).Count(&flightCount)
		config.DB.Model(&models.Flight{}).
			Where("pilot_id = ? AND operational_status = ?", profile.ProfileID, models.OpActive).
			Count(&activeFlights)
		stats["flights"] = flightCount
		stats["active_flights"] = activeFlights
	}

	var unread int64
	config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)
	stats["unread_notifications"] = unread

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// reviewerDashboard counts entities still waiting on the reviewer's own
// department.
func reviewerDashboard(c *gin.Context, role string) {
	stats := gin.H{}
	waiting := []models.ApprovalStatus{models.StatusPending, models.StatusUnderReview}

	department, isDept := models.ParseDepartment(role)

	countWaiting := func(model interface{}) int64 {
		var count int64
		query := config.DB.Model(model).Where("overall_status IN ?", waiting)
		if isDept {
			// Column names are fixed per department; pick via the enum.
			switch department {
			case models.DeptAirDefense:
				query = query.Where("air_defense_status = ?", models.StatusPending)
			case models.DeptLogistics:
				query = query.Where("logistics_status = ?", models.StatusPending)
			case models.DeptIntelligence:
				query = query.Where("intelligence_status = ?", models.StatusPending)
			}
		}
		query.Count(&count)
		return count
	}

	stats["pending_profiles"] = countWaiting(&models.PilotProfile{})
	stats["pending_drones"] = countWaiting(&models.Drone{})
	stats["pending_flights"] = countWaiting(&models.Flight{})

	var activeFlights int64
	config.DB.Model(&models.Flight{}).
		Where("operational_status = ?", models.OpActive).Count(&activeFlights)
	stats["active_flights"] = activeFlights

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
