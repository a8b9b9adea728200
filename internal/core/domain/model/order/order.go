package order

import (
	"errors"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrOrderNumberIsRequired is returned when the order number is empty.
	ErrOrderNumberIsRequired = errs.NewValueIsRequiredError("orderNumber")
	// ErrDeliveryAddressIsRequired is returned when the delivery address is empty.
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("deliveryAddress")
	// ErrRecipientNameIsRequired is returned when the recipient name is empty.
	ErrRecipientNameIsRequired = errs.NewValueIsRequiredError("recipientName")
)

// Order is the aggregate root for a delivery order. It owns the order's
// identity, recipient details, and lifecycle status.
//
// Invariants:
//   - identifier, order number, delivery address, and recipient name are
//     always present
//   - the status only advances through the sequence defined by Status, or
//     jumps to Failed from a non-terminal state
//   - terminal orders (Delivered, Failed) never transition again and are
//     never deleted
//
// The struct uses private fields; all mutation goes through the Mark*
// transition methods so the invariants above hold.
type Order struct {
	id              kernel.UUID
	orderNumber     string
	deliveryAddress string
	recipientName   string
	recipientPhone  string
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
	deliveredAt     *time.Time
	isConstructed   bool
}

// NewOrder creates a new Order in Submitted status.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - orderNumber: external human-readable reference (must be non-empty)
//   - deliveryAddress: free-text destination address (must be non-empty)
//   - recipientName: receiver's name (must be non-empty)
//   - recipientPhone: optional contact number
//
// Returns a validation error if any required field is missing or invalid.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	deliveryAddress string,
	recipientName string,
	recipientPhone string,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:        Submitted,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setDeliveryAddress(deliveryAddress),
		o.setRecipientName(recipientName),
	); err != nil {
		return nil, err
	}

	o.recipientPhone = recipientPhone
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence, bypassing the
// Submitted default but still validating field-level invariants.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	deliveryAddress string,
	recipientName string,
	recipientPhone string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setDeliveryAddress(deliveryAddress),
		o.setRecipientName(recipientName),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.recipientPhone = recipientPhone
	o.status = status
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	o.deliveredAt = deliveredAt
	return o, nil
}

// Validate ensures the Order was created through a constructor.
// Call when reconstructing orders from untrusted sources.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the external human-readable reference.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// DeliveryAddress returns the free-text destination address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// RecipientName returns the receiver's name.
func (o *Order) RecipientName() string {
	return o.recipientName
}

// RecipientPhone returns the receiver's contact number, possibly empty.
func (o *Order) RecipientPhone() string {
	return o.recipientPhone
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// DeliveredAt returns the delivery timestamp, or nil while undelivered.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// MarkProcessing transitions the order to Processing after the
// client-management system accepted the submission.
func (o *Order) MarkProcessing() error {
	return o.transitionTo(Processing)
}

// MarkInWarehouse transitions the order to InWarehouse after the warehouse
// registered the package.
func (o *Order) MarkInWarehouse() error {
	return o.transitionTo(InWarehouse)
}

// MarkRoutePlanned transitions the order to RoutePlanned once a delivery
// route covering it exists.
func (o *Order) MarkRoutePlanned() error {
	return o.transitionTo(RoutePlanned)
}

// MarkOutForDelivery transitions the order to OutForDelivery when the
// assigned driver starts the route.
func (o *Order) MarkOutForDelivery() error {
	return o.transitionTo(OutForDelivery)
}

// MarkDelivered transitions the order to Delivered and records the delivery
// timestamp. Delivered is terminal.
func (o *Order) MarkDelivered(at time.Time) error {
	if err := o.transitionTo(Delivered); err != nil {
		return err
	}
	utc := at.UTC()
	o.deliveredAt = &utc
	return nil
}

// MarkFailed transitions the order to the terminal Failed status.
// Allowed from any non-terminal status; used after saga compensation.
func (o *Order) MarkFailed() error {
	return o.transitionTo(Failed)
}

func (o *Order) transitionTo(target Status) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.updatedAt = time.Now().UTC()
	return nil
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setDeliveryAddress(deliveryAddress string) error {
	if deliveryAddress == "" {
		return ErrDeliveryAddressIsRequired
	}
	o.deliveryAddress = deliveryAddress
	return nil
}

func (o *Order) setRecipientName(recipientName string) error {
	if recipientName == "" {
		return ErrRecipientNameIsRequired
	}
	o.recipientName = recipientName
	return nil
}
