package route

import (
	"errors"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

// PointStatus describes a single route point's delivery state.
type PointStatus int

const (
	// PointStatusUnknown is the zero value and is always invalid.
	PointStatusUnknown PointStatus = iota
	// PointPending points have not been visited yet.
	PointPending
	// PointCompleted points had their delivery confirmed in the geofence.
	PointCompleted
	// PointSkipped points were abandoned when the route was cancelled.
	PointSkipped
)

func getPointStatusStrings() map[PointStatus]string {
	return map[PointStatus]string{
		PointPending:   "PENDING",
		PointCompleted: "COMPLETED",
		PointSkipped:   "SKIPPED",
	}
}

// Validate returns an error for statuses outside the defined set.
func (s PointStatus) Validate() error {
	if _, ok := getPointStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("pointStatus")
	}
	return nil
}

// String returns the canonical upper-snake name.
func (s PointStatus) String() string {
	return getPointStatusStrings()[s]
}

// PointStatusFromString parses the canonical upper-snake name.
func PointStatusFromString(name string) (PointStatus, error) {
	for status, str := range getPointStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return PointStatusUnknown, errs.NewValueIsInvalidError("pointStatus")
}

// StartOrderRef marks the synthetic start point of a route; it never maps
// to a real order.
const StartOrderRef = "DRIVER_START"

var (
	// ErrPointIsNotConstructed is returned when a Point instance was not
	// created through NewStartPoint, NewDeliveryPoint, or RestorePoint.
	ErrPointIsNotConstructed = errors.New("Point must be created via NewStartPoint, NewDeliveryPoint or RestorePoint constructor")
	// ErrPointAddressIsRequired is returned when the point address is empty.
	ErrPointAddressIsRequired = errs.NewValueIsRequiredError("address")
	// ErrPointOrderRefIsRequired is returned when a delivery point lacks an
	// order reference.
	ErrPointOrderRefIsRequired = errs.NewValueIsRequiredError("orderRef")
)

// Point is one stop on an OptimizedRoute: either the synthetic start point
// or a delivery destination tied to an order.
//
// Coordinates are optional. A point without resolvable coordinates still
// rides along in a fallback route; DistanceTo treats such legs as zero.
type Point struct {
	address       string
	coordinates   kernel.GeoPoint
	orderRef      string
	status        PointStatus
	completedAt   *time.Time
	isConstructed bool
}

// NewStartPoint creates the synthetic starting point of a route at the
// driver's current position.
func NewStartPoint(address string, coordinates kernel.GeoPoint) (Point, error) {
	p := Point{isConstructed: true}
	if err := p.setAddress(address); err != nil {
		return Point{}, err
	}
	p.coordinates = coordinates
	p.orderRef = StartOrderRef
	p.status = PointCompleted
	return p, nil
}

// NewDeliveryPoint creates a pending delivery stop for the given order
// reference. Coordinates may be the zero GeoPoint when geocoding failed.
func NewDeliveryPoint(address string, coordinates kernel.GeoPoint, orderRef string) (Point, error) {
	p := Point{isConstructed: true}
	if err := errors.Join(
		p.setAddress(address),
		p.setOrderRef(orderRef),
	); err != nil {
		return Point{}, err
	}
	p.coordinates = coordinates
	p.status = PointPending
	return p, nil
}

// RestorePoint reconstructs a Point from persistence.
func RestorePoint(
	address string,
	coordinates kernel.GeoPoint,
	orderRef string,
	status PointStatus,
	completedAt *time.Time,
) (Point, error) {
	p := Point{isConstructed: true}
	if err := errors.Join(
		p.setAddress(address),
		p.setOrderRef(orderRef),
		status.Validate(),
	); err != nil {
		return Point{}, err
	}
	p.coordinates = coordinates
	p.status = status
	p.completedAt = completedAt
	return p, nil
}

// Validate ensures the Point was created through a constructor.
func (p Point) Validate() error {
	if !p.isConstructed {
		return ErrPointIsNotConstructed
	}
	return nil
}

// Address returns the point's free-text address.
func (p Point) Address() string {
	return p.address
}

// Coordinates returns the point's resolved coordinates. Check
// HasCoordinates before using them.
func (p Point) Coordinates() kernel.GeoPoint {
	return p.coordinates
}

// HasCoordinates reports whether the point's address was resolved to a
// valid geographic position.
func (p Point) HasCoordinates() bool {
	return p.coordinates.Validate() == nil
}

// OrderRef returns the order reference this point delivers, or
// StartOrderRef for the synthetic start point.
func (p Point) OrderRef() string {
	return p.orderRef
}

// IsStart reports whether this is the synthetic start point.
func (p Point) IsStart() bool {
	return p.orderRef == StartOrderRef
}

// Status returns the point's delivery state.
func (p Point) Status() PointStatus {
	return p.status
}

// CompletedAt returns the completion timestamp, or nil while pending.
func (p Point) CompletedAt() *time.Time {
	return p.completedAt
}

// DistanceTo returns the great-circle distance to the next point in
// kilometers. Legs where either side lacks coordinates contribute zero.
func (p Point) DistanceTo(other Point) float64 {
	if !p.HasCoordinates() || !other.HasCoordinates() {
		return 0
	}
	distance, err := p.coordinates.DistanceTo(other.coordinates)
	if err != nil {
		return 0
	}
	return distance
}

func (p *Point) setAddress(address string) error {
	if address == "" {
		return ErrPointAddressIsRequired
	}
	p.address = address
	return nil
}

func (p *Point) setOrderRef(orderRef string) error {
	if orderRef == "" {
		return ErrPointOrderRefIsRequired
	}
	p.orderRef = orderRef
	return nil
}
