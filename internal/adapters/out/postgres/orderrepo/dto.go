// Package orderrepo persists the Order aggregate with GORM and implements the
// conditional update every order mutation goes through.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row layout of the orders table. Version increases on every
// conditional update and is part of its WHERE clause.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code          string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	DriverID      *uuid.UUID      `gorm:"type:uuid;index"`
	ServiceLevel  string          `gorm:"type:varchar(16);not null"`
	ShipFee       decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	CodAmount     decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	IsCodPaid     bool            `gorm:"not null"`
	ShipPayer     string          `gorm:"type:varchar(16);not null"`
	Recipient     RecipientDTO    `gorm:"embedded;embeddedPrefix:recipient_"`
	Note          string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(16);index;not null"`
	ProofRef      string          `gorm:"type:text"`
	DeliveredNote string          `gorm:"type:text"`
	FailedReason  string          `gorm:"type:text"`
	GatewayTxnRef string          `gorm:"type:varchar(64)"`
	CreatedAt     time.Time       `gorm:"not null"`
	Version       int64           `gorm:"not null"`
	AssignedAt    *time.Time
	DeliveredAt   *time.Time
	FailedAt      *time.Time
	CodPaidAt     *time.Time
	PaidAt        *time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// RecipientDTO is embedded into the orders table with the recipient_ prefix.
type RecipientDTO struct {
	Name    string `gorm:"type:varchar(128)"`
	Phone   string `gorm:"type:varchar(32)"`
	Address string `gorm:"type:text"`
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	var driverID *uuid.UUID
	if s.DriverID != nil {
		raw := s.DriverID.Raw()
		driverID = &raw
	}

	return OrderDTO{
		ID:           s.ID.Raw(),
		Code:         s.Code,
		CustomerID:   s.CustomerID.Raw(),
		DriverID:     driverID,
		ServiceLevel: s.ServiceLevel.String(),
		ShipFee:      s.ShipFee.Amount(),
		CodAmount:    s.CodAmount.Amount(),
		IsCodPaid:    s.IsCodPaid,
		ShipPayer:    s.ShipPayer.String(),
		Recipient: RecipientDTO{
			Name:    s.Recipient.Name,
			Phone:   s.Recipient.Phone,
			Address: s.Recipient.Address,
		},
		Note:          s.Note,
		Status:        s.Status.String(),
		ProofRef:      s.ProofRef,
		DeliveredNote: s.DeliveredNote,
		FailedReason:  s.FailedReason,
		GatewayTxnRef: s.GatewayTxnRef,
		CreatedAt:     s.CreatedAt,
		AssignedAt:    s.AssignedAt,
		DeliveredAt:   s.DeliveredAt,
		FailedAt:      s.FailedAt,
		CodPaidAt:     s.CodPaidAt,
		PaidAt:        s.PaidAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromRaw(dto.CustomerID)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		d, driverErr := kernel.UUIDFromRaw(*dto.DriverID)
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &d
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	shipFee, err := kernel.NewMoney(dto.ShipFee)
	if err != nil {
		return nil, err
	}
	codAmount, err := kernel.NewMoney(dto.CodAmount)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:           id,
		Code:         dto.Code,
		CustomerID:   customerID,
		DriverID:     driverID,
		ServiceLevel: order.ServiceLevel(dto.ServiceLevel),
		ShipFee:      shipFee,
		CodAmount:    codAmount,
		IsCodPaid:    dto.IsCodPaid,
		ShipPayer:    order.ShipPayer(dto.ShipPayer),
		Recipient: order.Recipient{
			Name:    dto.Recipient.Name,
			Phone:   dto.Recipient.Phone,
			Address: dto.Recipient.Address,
		},
		Note:          dto.Note,
		Status:        status,
		ProofRef:      dto.ProofRef,
		DeliveredNote: dto.DeliveredNote,
		FailedReason:  dto.FailedReason,
		GatewayTxnRef: dto.GatewayTxnRef,
		CreatedAt:     dto.CreatedAt.UTC(),
		AssignedAt:    utcPtr(dto.AssignedAt),
		DeliveredAt:   utcPtr(dto.DeliveredAt),
		FailedAt:      utcPtr(dto.FailedAt),
		CodPaidAt:     utcPtr(dto.CodPaidAt),
		PaidAt:        utcPtr(dto.PaidAt),
	})
}

// mutableColumns lists what a conditional update may change. Identity, code,
// customer, draft fields and createdAt are written once by Add.
func mutableColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"driver_id":       dto.DriverID,
		"is_cod_paid":     dto.IsCodPaid,
		"status":          dto.Status,
		"proof_ref":       dto.ProofRef,
		"delivered_note":  dto.DeliveredNote,
		"failed_reason":   dto.FailedReason,
		"gateway_txn_ref": dto.GatewayTxnRef,
		"assigned_at":     dto.AssignedAt,
		"delivered_at":    dto.DeliveredAt,
		"failed_at":       dto.FailedAt,
		"cod_paid_at":     dto.CodPaidAt,
		"paid_at":         dto.PaidAt,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
