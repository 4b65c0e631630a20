package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError both for unknown orders and for
// orders the viewer may not see.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var row orderRow
	err := h.db.WithContext(ctx).Where("id = ?", query.OrderID().Raw()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return OrderView{}, err
	}
	if !row.visibleTo(query.Viewer()) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return toOrderView(row)
}

func toOrderView(row orderRow) (OrderView, error) {
	id, err := toUUID(row.ID)
	if err != nil {
		return OrderView{}, err
	}
	customerID, err := toUUID(row.CustomerID)
	if err != nil {
		return OrderView{}, err
	}
	driverID, err := toUUIDPtr(row.DriverID)
	if err != nil {
		return OrderView{}, err
	}
	shipFee, err := kernel.NewMoney(row.ShipFee)
	if err != nil {
		return OrderView{}, err
	}
	codAmount, err := kernel.NewMoney(row.CodAmount)
	if err != nil {
		return OrderView{}, err
	}

	return OrderView{
		ID:           id,
		Code:         row.Code,
		CustomerID:   customerID,
		DriverID:     driverID,
		ServiceLevel: row.ServiceLevel,
		Status:       row.Status,
		ShipFee:      shipFee,
		CodAmount:    codAmount,
		IsCodPaid:    row.IsCodPaid,
		ShipPayer:    row.ShipPayer,
		Recipient: RecipientView{
			Name:    row.RecipientName,
			Phone:   row.RecipientPhone,
			Address: row.RecipientAddress,
		},
		Note:          row.Note,
		ProofRef:      row.ProofRef,
		DeliveredNote: row.DeliveredNote,
		FailedReason:  row.FailedReason,
		CreatedAt:     row.CreatedAt.UTC(),
		AssignedAt:    utc(row.AssignedAt),
		DeliveredAt:   utc(row.DeliveredAt),
		FailedAt:      utc(row.FailedAt),
		CodPaidAt:     utc(row.CodPaidAt),
		PaidAt:        utc(row.PaidAt),
	}, nil
}
