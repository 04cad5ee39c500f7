package services

import (
	"errors"
	"time"

	"drone-permit-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FlightService drives the operational lifecycle of an approved flight:
// pending -> active -> completed, plus last-known-position updates while
// active. The department review triples stay frozen once flying starts.
type FlightService struct {
	db *gorm.DB
}

func NewFlightService(db *gorm.DB) *FlightService {
	return &FlightService{db: db}
}

// Start moves an approved flight from operational pending to active.
// Only the owning pilot may start their flight.
func (s *FlightService) Start(flightID string, actor Actor) (*models.Flight, error) {
	var flight *models.Flight
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		flight, err = s.loadOwnedFlight(tx, flightID, actor)
		if err != nil {
			return err
		}
		if flight.OverallStatus != models.StatusApproved {
			return invalidStateErr("flight is not approved for takeoff")
		}
		if flight.OperationalStatus != models.OpPending {
			return invalidStateErr("flight cannot start from %s", flight.OperationalStatus)
		}

		now := time.Now()
		flight.OperationalStatus = models.OpActive
		flight.ActualStart = &now
		flight.Touch(now)
		if err := tx.Save(flight).Error; err != nil {
			return persistenceErr(err)
		}
		if err := writeAudit(tx, actor, "update", "flight", flight.FlightID, "Flight started", nil); err != nil {
			return persistenceErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flight, nil
}

// End moves an active flight to completed.
func (s *FlightService) End(flightID string, actor Actor) (*models.Flight, error) {
	var flight *models.Flight
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		flight, err = s.loadOwnedFlight(tx, flightID, actor)
		if err != nil {
			return err
		}
		if flight.OperationalStatus != models.OpActive {
			return invalidStateErr("flight cannot end from %s", flight.OperationalStatus)
		}

		now := time.Now()
		flight.OperationalStatus = models.OpCompleted
		flight.ActualEnd = &now
		flight.Touch(now)
		if err := tx.Save(flight).Error; err != nil {
			return persistenceErr(err)
		}
		if err := writeAudit(tx, actor, "update", "flight", flight.FlightID, "Flight completed", nil); err != nil {
			return persistenceErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flight, nil
}

// RecordPosition overwrites the flight's last-known position. Accepted only
// while the flight is active; last write wins, no history is kept.
func (s *FlightService) RecordPosition(flightID string, lat, lng, altitude float64, actor Actor) error {
	if lat < -90 || lat > 90 {
		return validationErr("latitude %f out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return validationErr("longitude %f out of range", lng)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		flight, err := s.loadOwnedFlight(tx, flightID, actor)
		if err != nil {
			return err
		}
		if flight.OperationalStatus != models.OpActive {
			return invalidStateErr("flight must be active to update location")
		}

		now := time.Now()
		flight.CurrentLat = &lat
		flight.CurrentLng = &lng
		flight.CurrentAltitudeM = &altitude
		flight.LastGPSUpdate = &now
		flight.Touch(now)
		if err := tx.Save(flight).Error; err != nil {
			return persistenceErr(err)
		}
		return nil
	})
}

// loadOwnedFlight locks the flight row and verifies the actor is its
// owning pilot.
func (s *FlightService) loadOwnedFlight(tx *gorm.DB, flightID string, actor Actor) (*models.Flight, error) {
	var flight models.Flight
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("flight_id = ?", flightID).First(&flight).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("flight %s", flightID)
		}
		return nil, persistenceErr(err)
	}

	ownerID, err := resolveOwnerUserID(tx, &flight)
	if err != nil {
		return nil, err
	}
	if actor.UserID != ownerID {
		return nil, forbiddenErr("only the owning pilot may operate this flight")
	}
	return &flight, nil
}
