package services

import (
	"drone-permit-api/models"
)

// Aggregate combines the three department statuses into the overall status.
// Rejection is absorbing: one rejected vote rejects the application no
// matter what the other departments decided. The rules, in order:
//
//  1. any rejected            -> rejected
//  2. all approved            -> approved
//  3. all pending             -> pending
//  4. otherwise               -> under_review
//
// The result is order-independent; "1 of 3 approved" and "2 of 3 approved"
// deliberately collapse into the same under_review bucket.
func Aggregate(statuses ...models.ApprovalStatus) models.ApprovalStatus {
	approved := 0
	pending := 0
	for _, s := range statuses {
		switch s {
		case models.StatusRejected:
			return models.StatusRejected
		case models.StatusApproved:
			approved++
		case models.StatusPending:
			pending++
		}
	}
	if approved == len(statuses) {
		return models.StatusApproved
	}
	if pending == len(statuses) {
		return models.StatusPending
	}
	return models.StatusUnderReview
}

// AggregateState recomputes the overall status from an entity's current
// department triples. Always use this over trusting a just-written row.
func AggregateState(state *models.ReviewState) models.ApprovalStatus {
	return Aggregate(state.Statuses()...)
}

// guardReview validates that actor may write the given department's triple
// on the entity in its current state. Pure: no side effects.
func guardReview(entity models.Reviewable, department models.Department, actor Actor) error {
	if actor.Role != models.RoleAdmin && actor.Role != string(department) {
		return forbiddenErr("role %s may not review for %s", actor.Role, department)
	}
	// A terminally rejected application is dead until the pilot re-applies;
	// no department vote may land on it (prevents zombie approvals).
	if entity.State().OverallStatus == models.StatusRejected {
		return invalidStateErr("%s has been rejected; the pilot must re-apply before further review", entity.EntityType())
	}
	return nil
}

// guardReapply validates the re-application precondition: the entity must be
// exactly rejected. Calling it twice fails the second time because the first
// reset already moved the status to pending.
func guardReapply(entity models.Reviewable) error {
	if entity.State().OverallStatus != models.StatusRejected {
		return invalidStateErr("Can only re-apply for rejected applications")
	}
	return nil
}
