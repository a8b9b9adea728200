// Package memory provides process-local tracking stores. They back
// single-node deployments and tests; multi-node setups swap the location
// store for the redis adapter.
package memory

import (
	"context"
	"sync"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/tracking"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/errs"
)

var (
	_ ports.LocationStore = &LocationStore{}
	_ ports.ProgressStore = &ProgressStore{}
)

// LocationStore keeps the latest reported location per driver in memory.
type LocationStore struct {
	mu        sync.RWMutex
	locations map[kernel.UUID]tracking.DriverLocation
}

// NewLocationStore creates an empty LocationStore.
func NewLocationStore() *LocationStore {
	return &LocationStore{locations: make(map[kernel.UUID]tracking.DriverLocation)}
}

// Set overwrites the driver's latest location.
func (s *LocationStore) Set(_ context.Context, location tracking.DriverLocation) error {
	if err := location.DriverID.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[location.DriverID] = location
	return nil
}

// Get returns the driver's latest location, if any was ever reported.
func (s *LocationStore) Get(_ context.Context, driverID kernel.UUID) (tracking.DriverLocation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	location, ok := s.locations[driverID]
	return location, ok, nil
}

// ProgressStore keeps the active route progress per driver in memory.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[kernel.UUID]*tracking.RouteProgress
}

// NewProgressStore creates an empty ProgressStore.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{progress: make(map[kernel.UUID]*tracking.RouteProgress)}
}

// Set replaces the driver's route progress.
func (s *ProgressStore) Set(_ context.Context, progress *tracking.RouteProgress) error {
	if progress == nil {
		return errs.NewValueIsRequiredError("progress")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progress.DriverID()] = progress
	return nil
}

// Get returns the driver's route progress, if a route is being tracked.
func (s *ProgressStore) Get(_ context.Context, driverID kernel.UUID) (*tracking.RouteProgress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.progress[driverID]
	return progress, ok, nil
}

// Delete removes the driver's route progress.
func (s *ProgressStore) Delete(_ context.Context, driverID kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, driverID)
	return nil
}
