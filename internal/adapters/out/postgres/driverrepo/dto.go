// Package driverrepo persists the driver aggregate, including the daily
// delivery statistics, and implements ports.DriverRepository on top of
// GORM.
package driverrepo

import (
	"time"

	"github.com/google/uuid"

	"swiftlogistics/internal/core/domain/model/driver"
	"swiftlogistics/internal/core/domain/model/kernel"
)

// DriverDTO is the database representation of a driver aggregate.
type DriverDTO struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                     string    `gorm:"type:varchar(255);not null"`
	Phone                    string    `gorm:"type:varchar(32)"`
	VehicleNumber            string    `gorm:"type:varchar(32);not null"`
	Status                   string    `gorm:"type:varchar(32);not null;index"`
	CompletedDeliveriesToday int       `gorm:"not null;default:0"`
	TotalDistanceTodayKm     float64   `gorm:"not null;default:0"`
	CreatedAt                time.Time `gorm:"not null"`
	UpdatedAt                time.Time `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "drivers".
func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(aggregate *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:                       aggregate.ID().Bytes(),
		Name:                     aggregate.Name(),
		Phone:                    aggregate.Phone(),
		VehicleNumber:            aggregate.VehicleNumber(),
		Status:                   aggregate.Status().String(),
		CompletedDeliveriesToday: aggregate.CompletedDeliveriesToday(),
		TotalDistanceTodayKm:     aggregate.TotalDistanceTodayKm(),
		CreatedAt:                aggregate.CreatedAt(),
		UpdatedAt:                aggregate.UpdatedAt(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := driver.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(
		id,
		dto.Name,
		dto.Phone,
		dto.VehicleNumber,
		status,
		dto.CompletedDeliveriesToday,
		dto.TotalDistanceTodayKm,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
