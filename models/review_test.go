package models

import (
	"testing"
	"time"
)

func TestReviewLookupByDepartment(t *testing.T) {
	state := &ReviewState{}
	state.AirDefense.Status = StatusApproved
	state.Logistics.Status = StatusRejected
	state.Intelligence.Status = StatusUnderReview

	if got := state.Review(DeptAirDefense).Status; got != StatusApproved {
		t.Errorf("air_defense status = %s, want approved", got)
	}
	if got := state.Review(DeptLogistics).Status; got != StatusRejected {
		t.Errorf("logistics status = %s, want rejected", got)
	}
	if got := state.Review(DeptIntelligence).Status; got != StatusUnderReview {
		t.Errorf("intelligence status = %s, want under_review", got)
	}
	if state.Review("maritime") != nil {
		t.Error("unknown department should resolve to nil")
	}

	// The returned pointer writes through to the embedded triple.
	state.Review(DeptAirDefense).Status = StatusRejected
	if state.AirDefense.Status != StatusRejected {
		t.Error("Review(d) did not return a pointer into the state")
	}
}

func TestStatusesCanonicalOrder(t *testing.T) {
	state := &ReviewState{}
	state.AirDefense.Status = StatusApproved
	state.Logistics.Status = StatusPending
	state.Intelligence.Status = StatusRejected

	got := state.Statuses()
	want := []ApprovalStatus{StatusApproved, StatusPending, StatusRejected}
	if len(got) != len(want) {
		t.Fatalf("Statuses() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Statuses()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestResetAllClearsEveryTriple(t *testing.T) {
	reviewer := "r-1"
	now := time.Now()
	notes := "checked"

	state := &ReviewState{OverallStatus: StatusRejected}
	for _, d := range Departments() {
		review := state.Review(d)
		review.Status = StatusRejected
		review.ReviewedBy = &reviewer
		review.ReviewedAt = &now
		review.Notes = &notes
	}

	state.ResetAll()

	if state.OverallStatus != StatusPending {
		t.Errorf("overall = %s, want pending", state.OverallStatus)
	}
	for _, d := range Departments() {
		review := state.Review(d)
		if review.Status != StatusPending {
			t.Errorf("%s status = %s, want pending", d, review.Status)
		}
		if review.ReviewedBy != nil || review.ReviewedAt != nil || review.Notes != nil {
			t.Errorf("%s triple not cleared: %+v", d, review)
		}
	}
}

func TestParseDepartment(t *testing.T) {
	for _, d := range Departments() {
		got, ok := ParseDepartment(string(d))
		if !ok || got != d {
			t.Errorf("ParseDepartment(%q) = %v, %v", d, got, ok)
		}
	}
	if _, ok := ParseDepartment("customs"); ok {
		t.Error("ParseDepartment accepted an unknown department")
	}
}

func TestReviewerRole(t *testing.T) {
	for _, role := range []string{RoleAirDefense, RoleLogistics, RoleIntelligence, RoleAdmin} {
		if !ReviewerRole(role) {
			t.Errorf("ReviewerRole(%q) = false, want true", role)
		}
	}
	if ReviewerRole(RolePilot) {
		t.Error("ReviewerRole(pilot) = true, want false")
	}
}
