package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"drone-permit-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewService applies department decisions and re-applications to
// reviewable entities. All state writes run in a per-entity transaction
// with the row locked, so two departments voting in the same instant
// cannot lose each other's overall-status recomputation.
type ReviewService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewReviewService(db *gorm.DB, notifier Notifier) *ReviewService {
	return &ReviewService{db: db, notifier: notifier}
}

// ReviewDecision is one department's vote on one entity.
type ReviewDecision struct {
	EntityType string
	EntityID   string
	Department models.Department
	Decision   models.ApprovalStatus // approved or rejected only
	Notes      *string
}

// ReviewResult reports the entity state after a successful operation.
type ReviewResult struct {
	Entity        models.Reviewable
	OverallStatus models.ApprovalStatus
}

// ApplyReview records a department decision: writes the department's review
// triple, recomputes the overall status, and appends the audit entry, all
// in one transaction. The pilot notification is emitted after commit,
// best-effort. Nothing is emitted when the transaction fails.
func (s *ReviewService) ApplyReview(dec ReviewDecision, actor Actor) (*ReviewResult, error) {
	if dec.Decision != models.StatusApproved && dec.Decision != models.StatusRejected {
		return nil, validationErr("decision must be 'approved' or 'rejected'")
	}
	department, ok := models.ParseDepartment(string(dec.Department))
	if !ok {
		return nil, validationErr("unknown department %q", dec.Department)
	}

	var (
		result       ReviewResult
		notification models.Notification
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		entity, err := loadReviewable(tx, dec.EntityType, dec.EntityID, true)
		if err != nil {
			return err
		}
		ownerID, err := resolveOwnerUserID(tx, entity)
		if err != nil {
			return err
		}
		if err := guardReview(entity, department, actor); err != nil {
			return err
		}

		now := time.Now()
		review := entity.State().Review(department)
		review.Status = dec.Decision
		review.ReviewedBy = &actor.UserID
		review.ReviewedAt = &now
		if dec.Notes != nil {
			// Absent notes keep whatever the department wrote last round.
			if trimmed := strings.TrimSpace(*dec.Notes); trimmed != "" {
				review.Notes = &trimmed
			}
		}

		overall := AggregateState(entity.State())
		entity.State().OverallStatus = overall
		if flight, isFlight := entity.(*models.Flight); isFlight {
			if overall == models.StatusApproved && flight.FinalApprovedAt == nil {
				flight.FinalApprovedAt = &now
			}
		}
		entity.Touch(now)

		if err := tx.Save(entity).Error; err != nil {
			return persistenceErr(err)
		}

		metadata := map[string]interface{}{
			"department":     string(department),
			"status":         string(dec.Decision),
			"overall_status": string(overall),
		}
		if review.Notes != nil {
			metadata["notes"] = *review.Notes
		}
		action := "approve"
		if dec.Decision == models.StatusRejected {
			action = "reject"
		}
		description := fmt.Sprintf("%s %s by %s reviewer",
			entityLabel(entity), dec.Decision, department.DisplayName())
		if err := writeAudit(tx, actor, action, entity.EntityType(), entity.GetID(), description, metadata); err != nil {
			return persistenceErr(err)
		}

		notification = buildReviewNotification(ownerID, entity, department, dec.Decision, overall, review.Notes)
		result = ReviewResult{Entity: entity, OverallStatus: overall}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notification)
	return &result, nil
}

// Reapply resets a rejected entity back to a fresh pending application
// across all three departments. Only legal while the overall status is
// exactly rejected, and only for the owning pilot or an admin. Reviewers
// get no notification; the entity simply returns to their pending queues.
func (s *ReviewService) Reapply(entityType, entityID string, actor Actor) (*ReviewResult, error) {
	var result ReviewResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		entity, err := loadReviewable(tx, entityType, entityID, true)
		if err != nil {
			return err
		}
		ownerID, err := resolveOwnerUserID(tx, entity)
		if err != nil {
			return err
		}
		if actor.Role != models.RoleAdmin && actor.UserID != ownerID {
			return forbiddenErr("only the owning pilot may re-apply")
		}
		if err := guardReapply(entity); err != nil {
			return err
		}

		previous := entity.State().OverallStatus
		entity.State().ResetAll()
		now := time.Now()
		entity.Touch(now)

		if err := tx.Save(entity).Error; err != nil {
			return persistenceErr(err)
		}

		metadata := map[string]interface{}{
			"previous_status": string(previous),
			"new_status":      string(models.StatusPending),
			"action_type":     "reapply",
		}
		description := fmt.Sprintf("Pilot re-applied after rejection of %s", entityLabel(entity))
		if err := writeAudit(tx, actor, "reapply", entity.EntityType(), entity.GetID(), description, metadata); err != nil {
			return persistenceErr(err)
		}

		result = ReviewResult{Entity: entity, OverallStatus: models.StatusPending}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// entityForType maps an entity type name to a model prototype and its
// primary key column.
func entityForType(entityType string) (models.Reviewable, string, error) {
	switch entityType {
	case "pilot_profile":
		return &models.PilotProfile{}, "profile_id", nil
	case "drone":
		return &models.Drone{}, "drone_id", nil
	case "flight":
		return &models.Flight{}, "flight_id", nil
	}
	return nil, "", validationErr("unknown entity type %q", entityType)
}

// loadReviewable fetches one reviewable entity, optionally locking the row
// for the rest of the transaction.
func loadReviewable(tx *gorm.DB, entityType, id string, lock bool) (models.Reviewable, error) {
	entity, pkColumn, err := entityForType(entityType)
	if err != nil {
		return nil, err
	}
	query := tx
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Where(pkColumn+" = ?", id).First(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("%s %s", entityType, id)
		}
		return nil, persistenceErr(err)
	}
	return entity, nil
}

// resolveOwnerUserID finds the user who owns the entity and receives its
// notifications. Drones and flights hang off a pilot profile; a missing
// profile is a broken ownership link.
func resolveOwnerUserID(tx *gorm.DB, entity models.Reviewable) (string, error) {
	switch e := entity.(type) {
	case *models.PilotProfile:
		return e.UserID, nil
	case *models.Drone:
		return ownerOfProfile(tx, e.PilotID, entity)
	case *models.Flight:
		return ownerOfProfile(tx, e.PilotID, entity)
	}
	return "", notFoundErr("owner of %s %s", entity.EntityType(), entity.GetID())
}

func ownerOfProfile(tx *gorm.DB, profileID string, entity models.Reviewable) (string, error) {
	var profile models.PilotProfile
	if err := tx.Where("profile_id = ?", profileID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFoundErr("pilot profile for %s %s", entity.EntityType(), entity.GetID())
		}
		return "", persistenceErr(err)
	}
	return profile.UserID, nil
}

// entityLabel is the human wording used in notifications and audit text.
func entityLabel(entity models.Reviewable) string {
	switch entity.EntityType() {
	case "pilot_profile":
		return "profile"
	case "drone":
		return "drone registration"
	case "flight":
		return "flight request"
	}
	return entity.EntityType()
}

// buildReviewNotification composes the single pilot-facing message for a
// department decision. The overall outcome is always stated explicitly so
// an "awaiting other departments" message cannot be mistaken for a final
// one.
func buildReviewNotification(ownerID string, entity models.Reviewable, department models.Department, decision, overall models.ApprovalStatus, notes *string) models.Notification {
	label := entityLabel(entity)

	verdict := "Approved"
	notifType := "success"
	if decision == models.StatusRejected {
		verdict = "Rejected"
		notifType = "error"
	}
	title := fmt.Sprintf("%s Review %s", department.DisplayName(), verdict)

	message := fmt.Sprintf("Your %s has been %s by %s.", label, decision, department.DisplayName())
	switch overall {
	case models.StatusApproved:
		message += fmt.Sprintf(" Your %s is now fully approved!", label)
	case models.StatusRejected:
		message += fmt.Sprintf(" Your %s has been rejected.", label)
	default:
		message += " Awaiting review from other departments."
	}
	if notes != nil && *notes != "" {
		message += " Reviewer notes: " + *notes
	}

	entityType := entity.EntityType()
	entityID := entity.GetID()
	return models.Notification{
		UserID:     ownerID,
		Title:      title,
		Message:    message,
		Type:       notifType,
		EntityType: &entityType,
		EntityID:   &entityID,
	}
}
