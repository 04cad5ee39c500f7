package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"drone-permit-api/config"
	"drone-permit-api/models"

	"github.com/gin-gonic/gin"
)

// CreatePayment records the pilot registration fee. The gateway is a stub:
// every payment completes immediately under the mock provider. A real
// integration would create an intent here and confirm via webhook.
func CreatePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	provider := "mock"
	description := "Pilot registration fee"
	payment := models.Payment{
		UserID:          userID,
		Amount:          req.Amount,
		Currency:        "USD",
		Status:          models.PaymentCompleted,
		PaymentProvider: &provider,
		Description:     &description,
		PaidAt:          &now,
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"amount":   req.Amount,
		"currency": "USD",
	})
	metaStr := string(meta)
	paymentID := payment.PaymentID
	config.DB.Create(&models.AuditLog{
		UserID:      userID,
		Action:      "payment",
		EntityType:  "payment",
		EntityID:    &paymentID,
		Description: ptr(fmt.Sprintf("Payment of $%.2f USD completed", req.Amount)),
		Metadata:    &metaStr,
		IPAddress:   c.ClientIP(),
	})

	entityType := "payment"
	notifyUser(models.Notification{
		UserID:     userID,
		Type:       "success",
		Title:      "Payment Received",
		Message:    fmt.Sprintf("Your registration fee of $%.2f has been received. Your profile is now under review.", req.Amount),
		EntityType: &entityType,
		EntityID:   &paymentID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"payment": payment,
	})
}

// GetPayments lists the caller's payments.
func GetPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("user_id = ?", userID).
		Order("create_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"payments": payments,
		"total":    len(payments),
	})
}
