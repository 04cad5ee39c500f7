package services

import (
	"errors"
	"testing"

	"drone-permit-api/models"
)

// exhaustively checks every combination of three department statuses
// against the aggregation rules.
func TestAggregateAllCombinations(t *testing.T) {
	statuses := []models.ApprovalStatus{
		models.StatusPending,
		models.StatusApproved,
		models.StatusRejected,
	}

	expected := func(a, b, c models.ApprovalStatus) models.ApprovalStatus {
		triple := []models.ApprovalStatus{a, b, c}
		approved, pending := 0, 0
		for _, s := range triple {
			if s == models.StatusRejected {
				return models.StatusRejected
			}
			if s == models.StatusApproved {
				approved++
			} else {
				pending++
			}
		}
		if approved == 3 {
			return models.StatusApproved
		}
		if pending == 3 {
			return models.StatusPending
		}
		return models.StatusUnderReview
	}

	for _, a := range statuses {
		for _, b := range statuses {
			for _, c := range statuses {
				got := Aggregate(a, b, c)
				want := expected(a, b, c)
				if got != want {
					t.Errorf("Aggregate(%s, %s, %s) = %s, want %s", a, b, c, got, want)
				}
			}
		}
	}
}

func TestAggregateRejectionAbsorbs(t *testing.T) {
	got := Aggregate(models.StatusApproved, models.StatusApproved, models.StatusRejected)
	if got != models.StatusRejected {
		t.Errorf("two approvals plus one rejection = %s, want rejected", got)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	a := Aggregate(models.StatusApproved, models.StatusPending, models.StatusPending)
	b := Aggregate(models.StatusPending, models.StatusPending, models.StatusApproved)
	if a != b {
		t.Errorf("aggregation depends on order: %s vs %s", a, b)
	}
	if a != models.StatusUnderReview {
		t.Errorf("partial approval = %s, want under_review", a)
	}
}

func TestAggregatePartialProgressCollapses(t *testing.T) {
	one := Aggregate(models.StatusApproved, models.StatusPending, models.StatusPending)
	two := Aggregate(models.StatusApproved, models.StatusApproved, models.StatusPending)
	if one != models.StatusUnderReview || two != models.StatusUnderReview {
		t.Errorf("1-of-3 = %s, 2-of-3 = %s, both want under_review", one, two)
	}
}

func TestAggregateState(t *testing.T) {
	state := &models.ReviewState{}
	state.AirDefense.Status = models.StatusApproved
	state.Logistics.Status = models.StatusApproved
	state.Intelligence.Status = models.StatusApproved
	if got := AggregateState(state); got != models.StatusApproved {
		t.Errorf("AggregateState = %s, want approved", got)
	}

	state.Intelligence.Status = models.StatusRejected
	if got := AggregateState(state); got != models.StatusRejected {
		t.Errorf("AggregateState = %s, want rejected", got)
	}
}

func TestGuardReviewRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		department models.Department
		wantErr    error
	}{
		{"matching department", models.RoleAirDefense, models.DeptAirDefense, nil},
		{"admin may act for any department", models.RoleAdmin, models.DeptIntelligence, nil},
		{"wrong department", models.RoleLogistics, models.DeptAirDefense, ErrForbidden},
		{"pilot may not review", models.RolePilot, models.DeptLogistics, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.PilotProfile{ProfileID: "p-1"}
			err := guardReview(profile, tt.department, Actor{UserID: "u-1", Role: tt.role})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("guardReview returned %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("guardReview returned %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGuardReviewRejectedEntityIsDead(t *testing.T) {
	profile := &models.PilotProfile{ProfileID: "p-1"}
	profile.OverallStatus = models.StatusRejected
	profile.AirDefense.Status = models.StatusRejected

	// Even the department that has not voted yet may not touch it.
	err := guardReview(profile, models.DeptLogistics, Actor{UserID: "u-1", Role: models.RoleLogistics})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("guardReview on rejected entity returned %v, want ErrInvalidState", err)
	}

	// Admins are not exempt from the terminal state.
	err = guardReview(profile, models.DeptLogistics, Actor{UserID: "u-2", Role: models.RoleAdmin})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("guardReview as admin returned %v, want ErrInvalidState", err)
	}
}

func TestGuardReapply(t *testing.T) {
	for _, status := range []models.ApprovalStatus{
		models.StatusPending,
		models.StatusUnderReview,
		models.StatusApproved,
	} {
		profile := &models.PilotProfile{ProfileID: "p-1"}
		profile.OverallStatus = status
		if err := guardReapply(profile); !errors.Is(err, ErrInvalidState) {
			t.Errorf("guardReapply with overall %s returned %v, want ErrInvalidState", status, err)
		}
	}

	profile := &models.PilotProfile{ProfileID: "p-1"}
	profile.OverallStatus = models.StatusRejected
	if err := guardReapply(profile); err != nil {
		t.Errorf("guardReapply on rejected entity returned %v, want nil", err)
	}
}
