package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"drone-permit-api/models"
)

var flightColumns = []string{
	"flight_id", "pilot_id", "drone_id",
	"overall_status", "operational_status",
}

func flightRow(overall models.ApprovalStatus, operational models.OperationalStatus) []driver.Value {
	return []driver.Value{
		"f-1", "p-1", "d-1",
		string(overall), string(operational),
	}
}

func selectFlightStep(rows ...[]driver.Value) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("SELECT .* FROM `flights` WHERE flight_id = \\?.*FOR UPDATE"),
		columns: flightColumns,
		rows:    rows,
	}
}

func selectFlightOwnerStep() *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("SELECT .* FROM `pilot_profiles` WHERE profile_id = \\?"),
		columns: []string{"profile_id", "user_id"},
		rows:    [][]driver.Value{{"p-1", "u-owner"}},
	}
}

func updateFlightStep() *queryStep {
	return &queryStep{
		kind:    kindExec,
		pattern: regexp.MustCompile("UPDATE `flights` SET .* WHERE `flight_id` = \\?"),
		result:  scriptedResult{rowsAffected: 1},
	}
}

func TestStartFlight(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(flightRow(models.StatusApproved, models.OpPending)),
		selectFlightOwnerStep(),
		updateFlightStep(),
		insertAuditStep(),
	})
	defer cleanup()

	svc := NewFlightService(db)
	flight, err := svc.Start("f-1", Actor{UserID: "u-owner", Role: models.RolePilot})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if flight.OperationalStatus != models.OpActive {
		t.Errorf("operational status = %s, want active", flight.OperationalStatus)
	}
	if flight.ActualStart == nil {
		t.Error("actual_start not set")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestStartFlightRequiresApproval(t *testing.T) {
	for _, overall := range []models.ApprovalStatus{
		models.StatusPending,
		models.StatusUnderReview,
		models.StatusRejected,
	} {
		db, _, cleanup := newScriptedGormDB(t, []*queryStep{
			selectFlightStep(flightRow(overall, models.OpPending)),
			selectFlightOwnerStep(),
		})

		svc := NewFlightService(db)
		_, err := svc.Start("f-1", Actor{UserID: "u-owner", Role: models.RolePilot})
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("Start with overall %s returned %v, want ErrInvalidState", overall, err)
		}
		cleanup()
	}
}

func TestStartFlightTwice(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(flightRow(models.StatusApproved, models.OpActive)),
		selectFlightOwnerStep(),
	})
	defer cleanup()

	svc := NewFlightService(db)
	_, err := svc.Start("f-1", Actor{UserID: "u-owner", Role: models.RolePilot})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Start on active flight returned %v, want ErrInvalidState", err)
	}
}

func TestStartFlightForbiddenForNonOwner(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(flightRow(models.StatusApproved, models.OpPending)),
		selectFlightOwnerStep(),
	})
	defer cleanup()

	svc := NewFlightService(db)
	_, err := svc.Start("f-1", Actor{UserID: "u-intruder", Role: models.RolePilot})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Start by non-owner returned %v, want ErrForbidden", err)
	}
}

func TestEndFlight(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(flightRow(models.StatusApproved, models.OpActive)),
		selectFlightOwnerStep(),
		updateFlightStep(),
		insertAuditStep(),
	})
	defer cleanup()

	svc := NewFlightService(db)
	flight, err := svc.End("f-1", Actor{UserID: "u-owner", Role: models.RolePilot})
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if flight.OperationalStatus != models.OpCompleted {
		t.Errorf("operational status = %s, want completed", flight.OperationalStatus)
	}
	if flight.ActualEnd == nil {
		t.Error("actual_end not set")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestEndFlightRequiresActive(t *testing.T) {
	for _, op := range []models.OperationalStatus{models.OpPending, models.OpCompleted} {
		db, _, cleanup := newScriptedGormDB(t, []*queryStep{
			selectFlightStep(flightRow(models.StatusApproved, op)),
			selectFlightOwnerStep(),
		})

		svc := NewFlightService(db)
		_, err := svc.End("f-1", Actor{UserID: "u-owner", Role: models.RolePilot})
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("End with operational %s returned %v, want ErrInvalidState", op, err)
		}
		cleanup()
	}
}

func TestRecordPosition(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(flightRow(models.StatusApproved, models.OpActive)),
		selectFlightOwnerStep(),
		updateFlightStep(),
	})
	defer cleanup()

	svc := NewFlightService(db)
	err := svc.RecordPosition("f-1", 13.75, 100.52, 85, Actor{UserID: "u-owner", Role: models.RolePilot})
	if err != nil {
		t.Fatalf("RecordPosition failed: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestRecordPositionRequiresActiveFlight(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(flightRow(models.StatusApproved, models.OpPending)),
		selectFlightOwnerStep(),
	})
	defer cleanup()

	svc := NewFlightService(db)
	err := svc.RecordPosition("f-1", 13.75, 100.52, 85, Actor{UserID: "u-owner", Role: models.RolePilot})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("RecordPosition on pending flight returned %v, want ErrInvalidState", err)
	}
}

func TestRecordPositionValidatesCoordinates(t *testing.T) {
	// Range checks run before any database work.
	db, _, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()
	svc := NewFlightService(db)
	actor := Actor{UserID: "u-owner", Role: models.RolePilot}

	if err := svc.RecordPosition("f-1", 91, 0, 0, actor); !errors.Is(err, ErrValidation) {
		t.Errorf("latitude 91 returned %v, want ErrValidation", err)
	}
	if err := svc.RecordPosition("f-1", -91, 0, 0, actor); !errors.Is(err, ErrValidation) {
		t.Errorf("latitude -91 returned %v, want ErrValidation", err)
	}
	if err := svc.RecordPosition("f-1", 0, 181, 0, actor); !errors.Is(err, ErrValidation) {
		t.Errorf("longitude 181 returned %v, want ErrValidation", err)
	}
	if err := svc.RecordPosition("f-1", 0, -181, 0, actor); !errors.Is(err, ErrValidation) {
		t.Errorf("longitude -181 returned %v, want ErrValidation", err)
	}
}

func TestStartFlightAuditFailure(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(flightRow(models.StatusApproved, models.OpPending)),
		selectFlightOwnerStep(),
		updateFlightStep(),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `audit_logs`"),
			err:     errors.New("disk full"),
		},
	})
	defer cleanup()

	svc := NewFlightService(db)
	_, err := svc.Start("f-1", Actor{UserID: "u-owner", Role: models.RolePilot})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Start with failing audit insert returned %v, want ErrPersistence", err)
	}
}

func TestFlightNotFound(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, []*queryStep{
		selectFlightStep(), // no rows
	})
	defer cleanup()

	svc := NewFlightService(db)
	_, err := svc.Start("missing", Actor{UserID: "u-owner", Role: models.RolePilot})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Start returned %v, want ErrNotFound", err)
	}
}
