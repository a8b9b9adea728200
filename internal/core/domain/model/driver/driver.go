package driver

import (
	"errors"
	"strings"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

// Per-route order capacity by vehicle class prefix of the vehicle number.
const (
	truckCapacity   = 8
	vanCapacity     = 5
	bikeCapacity    = 2
	defaultCapacity = 4
)

var (
	// ErrDriverIsNotConstructed is returned when a Driver instance was not
	// created through NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
	// ErrDriverNameIsRequired is returned when the driver name is empty.
	ErrDriverNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrVehicleNumberIsRequired is returned when the vehicle number is empty.
	ErrVehicleNumberIsRequired = errs.NewValueIsRequiredError("vehicleNumber")
)

// Driver is the aggregate root for a delivery driver. It owns the driver's
// availability status, vehicle assignment, and running daily statistics.
//
// Assignment never changes a driver's status; statistics are incremented by
// delivery completion events only.
type Driver struct {
	id                       kernel.UUID
	name                     string
	phone                    string
	vehicleNumber            string
	status                   Status
	completedDeliveriesToday int
	totalDistanceTodayKm     float64
	createdAt                time.Time
	updatedAt                time.Time
	isConstructed            bool
}

// NewDriver creates a new Driver in Inactive status.
func NewDriver(id kernel.UUID, name string, phone string, vehicleNumber string) (*Driver, error) {
	now := time.Now().UTC()
	d := &Driver{
		status:        Inactive,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setVehicleNumber(vehicleNumber),
	); err != nil {
		return nil, err
	}

	d.phone = phone
	return d, nil
}

// RestoreDriver reconstructs a Driver from persistence.
func RestoreDriver(
	id kernel.UUID,
	name string,
	phone string,
	vehicleNumber string,
	status Status,
	completedDeliveriesToday int,
	totalDistanceTodayKm float64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Driver, error) {
	d := &Driver{isConstructed: true}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setVehicleNumber(vehicleNumber),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	d.phone = phone
	d.status = status
	d.completedDeliveriesToday = completedDeliveriesToday
	d.totalDistanceTodayKm = totalDistanceTodayKm
	d.createdAt = createdAt
	d.updatedAt = updatedAt
	return d, nil
}

// Validate ensures the Driver was created through a constructor.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// IsEqual compares two drivers by identifier.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's name.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's contact number, possibly empty.
func (d *Driver) Phone() string {
	return d.phone
}

// VehicleNumber returns the assigned vehicle's registration number.
func (d *Driver) VehicleNumber() string {
	return d.vehicleNumber
}

// Status returns the driver's current availability status.
func (d *Driver) Status() Status {
	return d.status
}

// CompletedDeliveriesToday returns the running daily completion count.
func (d *Driver) CompletedDeliveriesToday() int {
	return d.completedDeliveriesToday
}

// TotalDistanceTodayKm returns the running daily distance in kilometers.
func (d *Driver) TotalDistanceTodayKm() float64 {
	return d.totalDistanceTodayKm
}

// CreatedAt returns the registration timestamp.
func (d *Driver) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (d *Driver) UpdatedAt() time.Time {
	return d.updatedAt
}

// Capacity returns the maximum number of orders assignable per route,
// derived from the vehicle class encoded in the vehicle number prefix.
func (d *Driver) Capacity() int {
	switch {
	case strings.HasPrefix(d.vehicleNumber, "TRK"):
		return truckCapacity
	case strings.HasPrefix(d.vehicleNumber, "VAN"):
		return vanCapacity
	case strings.HasPrefix(d.vehicleNumber, "BIK"):
		return bikeCapacity
	default:
		return defaultCapacity
	}
}

// SetStatus moves the driver to the given availability status.
// Availability is operator-controlled, so any valid status is reachable
// from any other.
func (d *Driver) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	d.updatedAt = time.Now().UTC()
	return nil
}

// RecordCompletedDelivery increments the driver's daily statistics after a
// delivery point is completed.
func (d *Driver) RecordCompletedDelivery(distanceKm float64) error {
	if distanceKm < 0 {
		return errs.NewValueIsOutOfRangeError("distanceKm", distanceKm, 0, nil)
	}
	d.completedDeliveriesToday++
	d.totalDistanceTodayKm += distanceKm
	d.updatedAt = time.Now().UTC()
	return nil
}

// ResetDailyStatistics clears the per-day counters at shift rollover.
func (d *Driver) ResetDailyStatistics() {
	d.completedDeliveriesToday = 0
	d.totalDistanceTodayKm = 0
	d.updatedAt = time.Now().UTC()
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrDriverNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setVehicleNumber(vehicleNumber string) error {
	if vehicleNumber == "" {
		return ErrVehicleNumberIsRequired
	}
	d.vehicleNumber = vehicleNumber
	return nil
}
