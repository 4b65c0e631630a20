// Package courierrepo implements the courier directory on GORM.
package courierrepo

import (
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is the row layout of the couriers table.
type CourierDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(128);not null"`
	Phone           string    `gorm:"type:varchar(32)"`
	Active          bool      `gorm:"not null"`
	MaxActiveOrders int       `gorm:"not null"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:              c.ID().Raw(),
		Name:            c.Name(),
		Phone:           c.Phone(),
		Active:          c.IsActive(),
		MaxActiveOrders: c.MaxActiveOrders(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	return courier.RestoreCourier(id, dto.Name, dto.Phone, dto.Active, dto.MaxActiveOrders)
}
