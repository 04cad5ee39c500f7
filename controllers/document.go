package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"drone-permit-api/config"
	"drone-permit-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxDocumentSize = 10 << 20 // 10 MB

// UploadDocument stores a supporting document in object storage and records
// its metadata for verification.
func UploadDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	documentType := strings.TrimSpace(c.PostForm("document_type"))
	if !models.ValidDocumentType(documentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if fileHeader.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	document := models.Document{
		UserID:       userID,
		DocumentType: documentType,
		FileName:     filepath.Base(fileHeader.Filename),
		FileSize:     fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		ScanStatus:   models.ScanPending,
	}
	if !document.IsValidUploadType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG, PNG and PDF files are accepted"})
		return
	}
	if desc := strings.TrimSpace(c.PostForm("description")); desc != "" {
		document.Description = &desc
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	document.ObjectKey = fmt.Sprintf("%s/%s/%s%s", userID, documentType, uuid.NewString(), filepath.Ext(document.FileName))
	if err := config.PutDocument(c.Request.Context(), document.ObjectKey, file, fileHeader.Size, document.MimeType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	if err := config.DB.Create(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document record"})
		return
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"document_type": documentType,
		"file_name":     document.FileName,
		"file_size":     document.FileSize,
	})
	metaStr := string(meta)
	docID := document.DocumentID
	config.DB.Create(&models.AuditLog{
		UserID:      userID,
		Action:      "create",
		EntityType:  "document",
		EntityID:    &docID,
		Description: ptr("Document uploaded"),
		Metadata:    &metaStr,
		IPAddress:   c.ClientIP(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"document": document,
	})
}

// GetDocuments lists the caller's uploaded documents.
func GetDocuments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var documents []models.Document
	if err := config.DB.Where("user_id = ?", userID).
		Order("uploaded_at DESC").Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"documents": documents,
		"total":     len(documents),
	})
}

// DownloadDocument streams a stored document. Owners and reviewers only.
func DownloadDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}
	role, _ := currentRole(c)

	var document models.Document
	if err := config.DB.Where("document_id = ?", c.Param("id")).First(&document).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if document.UserID != userID && !models.ReviewerRole(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	body, err := config.GetDocument(c.Request.Context(), document.ObjectKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.FileName))
	c.Header("Content-Type", document.MimeType)
	if _, err := io.Copy(c.Writer, body); err != nil {
		// Headers already sent; nothing useful left to answer.
		return
	}
}

// VerifyDocument records a reviewer's verify/reject outcome on a document.
// The content scan itself is an external collaborator; this endpoint only
// records the outcome and notifies the owner.
func VerifyDocument(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != "verify" && action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be either 'verify' or 'reject'"})
		return
	}

	var document models.Document
	if err := config.DB.Where("document_id = ?", c.Param("id")).First(&document).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	newStatus := models.ScanVerified
	if action == "reject" {
		newStatus = models.ScanRejected
	}

	now := time.Now()
	notes := strings.TrimSpace(req.Notes)
	updates := map[string]interface{}{
		"scan_status": newStatus,
		"scan_date":   now,
	}
	if notes != "" {
		updates["description"] = notes
	}
	if err := config.DB.Model(&document).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document"})
		return
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"document_type": document.DocumentType,
		"action":        action,
		"reviewer_role": actor.Role,
		"notes":         notes,
	})
	metaStr := string(meta)
	docID := document.DocumentID
	desc := fmt.Sprintf("Document %s by %s", newStatus, actor.Role)
	ua := actor.UserAgent
	audit := models.AuditLog{
		UserID:      actor.UserID,
		Action:      "document_verify",
		EntityType:  "document",
		EntityID:    &docID,
		Description: &desc,
		Metadata:    &metaStr,
		IPAddress:   actor.IPAddress,
	}
	if ua != "" {
		audit.UserAgent = &ua
	}
	config.DB.Create(&audit)

	verdict := "Verified"
	notifType := "success"
	if newStatus == models.ScanRejected {
		verdict = "Rejected"
		notifType = "error"
	}
	message := fmt.Sprintf("Your %s document has been %s", strings.ReplaceAll(document.DocumentType, "_", " "), strings.ToLower(verdict))
	if notes != "" {
		message += ": " + notes
	}
	entityType := "document"
	notifyUser(models.Notification{
		UserID:     document.UserID,
		Type:       notifType,
		Title:      "Document " + verdict,
		Message:    message,
		EntityType: &entityType,
		EntityID:   &docID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  newStatus,
	})
}
