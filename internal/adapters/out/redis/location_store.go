// Package redis implements the LocationStore port on Redis so location
// reports survive restarts and are shared between nodes. Route progress
// stays in the memory store; only the location cache needs to be shared.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/tracking"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/errs"
)

const keyPrefix = "swift:driver:location:"

var _ ports.LocationStore = &LocationStore{}

// LocationStore keeps the latest reported location per driver in Redis.
// Entries expire after the configured TTL so stale drivers fall out of
// the cache on their own.
type LocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocationStore creates a LocationStore. A zero ttl keeps entries
// forever.
func NewLocationStore(client *redis.Client, ttl time.Duration) (*LocationStore, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if ttl < 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, 0, nil)
	}

	return &LocationStore{client: client, ttl: ttl}, nil
}

type locationRecord struct {
	DriverID   string    `json:"driverId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	SpeedKmh   float64   `json:"speedKmh"`
	HeadingDeg float64   `json:"headingDeg"`
	ReportedAt time.Time `json:"reportedAt"`
}

// Set overwrites the driver's latest location.
func (s *LocationStore) Set(ctx context.Context, location tracking.DriverLocation) error {
	if err := location.DriverID.Validate(); err != nil {
		return err
	}

	record := locationRecord{
		DriverID:   location.DriverID.String(),
		Latitude:   location.Position.Latitude(),
		Longitude:  location.Position.Longitude(),
		SpeedKmh:   location.SpeedKmh,
		HeadingDeg: location.HeadingDeg,
		ReportedAt: location.ReportedAt,
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+record.DriverID, encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("store location: %w", err)
	}

	return nil
}

// Get returns the driver's latest location. A missing or expired key
// reads as "never reported".
func (s *LocationStore) Get(ctx context.Context, driverID kernel.UUID) (tracking.DriverLocation, bool, error) {
	encoded, err := s.client.Get(ctx, keyPrefix+driverID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return tracking.DriverLocation{}, false, nil
	}
	if err != nil {
		return tracking.DriverLocation{}, false, fmt.Errorf("load location: %w", err)
	}

	var record locationRecord
	if err := json.Unmarshal(encoded, &record); err != nil {
		return tracking.DriverLocation{}, false, fmt.Errorf("decode location: %w", err)
	}

	id, err := kernel.UUIDFromString(record.DriverID)
	if err != nil {
		return tracking.DriverLocation{}, false, fmt.Errorf("decode driver id: %w", err)
	}

	position, err := kernel.NewGeoPoint(record.Latitude, record.Longitude)
	if err != nil {
		return tracking.DriverLocation{}, false, fmt.Errorf("decode position: %w", err)
	}

	location, err := tracking.NewDriverLocation(id, position, record.SpeedKmh, record.HeadingDeg, record.ReportedAt)
	if err != nil {
		return tracking.DriverLocation{}, false, fmt.Errorf("restore location: %w", err)
	}

	return location, true, nil
}
