// Package orderrepo persists the order aggregate. It maps between the
// domain model and the orders table and implements ports.OrderRepository
// on top of GORM.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/order"
)

// OrderDTO is the database representation of an order aggregate. Statuses
// are stored by their canonical upper-snake name.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber     string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	DeliveryAddress string     `gorm:"type:varchar(512);not null"`
	RecipientName   string     `gorm:"type:varchar(255);not null"`
	RecipientPhone  string     `gorm:"type:varchar(32)"`
	Status          string     `gorm:"type:varchar(32);not null;index"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
	DeliveredAt     *time.Time `gorm:""`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		OrderNumber:     aggregate.OrderNumber(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		RecipientName:   aggregate.RecipientName(),
		RecipientPhone:  aggregate.RecipientPhone(),
		Status:          aggregate.Status().String(),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		DeliveredAt:     aggregate.DeliveredAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		dto.DeliveryAddress,
		dto.RecipientName,
		dto.RecipientPhone,
		status,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.DeliveredAt,
	)
}
