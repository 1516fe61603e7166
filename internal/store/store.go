// Package store keeps the operational collections in memory for the HTTP
// surface. Planning calls never touch the live slices: Snapshot hands each
// caller its own deep copy, so concurrent plans stay isolated.
package store

import (
	"sync"

	"github.com/mohae/deepcopy"

	"github.com/ihorxshdy/aeromar/internal/model"
)

type Store struct {
	mu        sync.RWMutex
	flights   []model.Flight
	drivers   []model.Driver
	shifts    []model.Shift
	autolifts []model.Autolift
}

func New() *Store {
	return &Store{}
}

func (s *Store) SetFlights(flights []model.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights = flights
}

func (s *Store) AddFlights(flights []model.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights = append(s.flights, flights...)
}

func (s *Store) ClearFlights() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights = nil
}

func (s *Store) SetDrivers(drivers []model.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers = drivers
}

func (s *Store) SetShifts(shifts []model.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts = shifts
}

func (s *Store) SetAutolifts(lifts []model.Autolift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autolifts = lifts
}

func (s *Store) Flights() []model.Flight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.flights)
}

func (s *Store) Drivers() []model.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.drivers)
}

func (s *Store) Shifts() []model.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.shifts)
}

func (s *Store) Autolifts() []model.Autolift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.autolifts)
}

// Snapshot returns deep copies of the planning inputs, taken under one lock
// so a concurrent import cannot tear them.
func (s *Store) Snapshot() ([]model.Flight, []model.Driver, []model.Shift) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.flights), copySlice(s.drivers), copySlice(s.shifts)
}

// ApplyAssignments writes a plan's driver/bracket ids back onto the stored
// flights.
func (s *Store) ApplyAssignments(assignments []model.Assignment) {
	byNo := make(map[string]model.Assignment, len(assignments))
	for _, a := range assignments {
		byNo[a.FlightNo] = a
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.flights {
		if a, ok := byNo[s.flights[i].FlightNo]; ok {
			s.flights[i].DriverID = a.DriverID
			s.flights[i].BracketID = a.BracketID
		}
	}
}

// ResetAssignments clears planner output from every stored flight.
func (s *Store) ResetAssignments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.flights {
		s.flights[i].DriverID = ""
		s.flights[i].BracketID = ""
	}
}

// UnassignFlight clears one flight's assignment. Returns false when the id
// matches nothing.
func (s *Store) UnassignFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.flights {
		if s.flights[i].ID == id || s.flights[i].FlightNo == id {
			s.flights[i].DriverID = ""
			s.flights[i].BracketID = ""
			return true
		}
	}
	return false
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return deepcopy.Copy(in).([]T)
}
