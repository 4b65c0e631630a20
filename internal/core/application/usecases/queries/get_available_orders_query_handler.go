package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle returns unassigned orders in a claimable status and a self-service
// tier. An empty result is an empty slice, never nil.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]AvailableOrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).
		Where("driver_id IS NULL AND status IN ? AND service_level IN ?", claimable, selfServiceLevels).
		Order("created_at, code").
		Limit(query.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	orders := make([]AvailableOrderView, 0, len(rows))
	for _, row := range rows {
		id, idErr := toUUID(row.ID)
		if idErr != nil {
			return nil, idErr
		}
		shipFee, feeErr := kernel.NewMoney(row.ShipFee)
		if feeErr != nil {
			return nil, feeErr
		}
		codAmount, codErr := kernel.NewMoney(row.CodAmount)
		if codErr != nil {
			return nil, codErr
		}

		orders = append(orders, AvailableOrderView{
			ID:               id,
			Code:             row.Code,
			ServiceLevel:     row.ServiceLevel,
			Status:           row.Status,
			ShipFee:          shipFee,
			CodAmount:        codAmount,
			ShipPayer:        row.ShipPayer,
			RecipientAddress: row.RecipientAddress,
			CreatedAt:        row.CreatedAt.UTC(),
		})
	}

	return orders, nil
}
