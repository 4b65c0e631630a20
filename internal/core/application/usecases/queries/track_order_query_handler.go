package queries

import (
	"context"
	"errors"

	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

type TrackOrderQueryHandler struct {
	db *gorm.DB
}

func NewTrackOrderQueryHandler(db *gorm.DB) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{db: db}
}

func (h TrackOrderQueryHandler) Handle(ctx context.Context, query TrackOrderQuery) (TrackingView, error) {
	if err := query.Validate(); err != nil {
		return TrackingView{}, err
	}

	var row orderRow
	err := h.db.WithContext(ctx).
		Select("code", "status", "service_level", "created_at", "assigned_at", "delivered_at", "failed_at").
		Where("code = ?", query.Code()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TrackingView{}, errs.NewObjectNotFoundError("code", query.Code())
	}
	if err != nil {
		return TrackingView{}, err
	}

	return TrackingView{
		Code:         row.Code,
		Status:       row.Status,
		ServiceLevel: row.ServiceLevel,
		CreatedAt:    row.CreatedAt.UTC(),
		AssignedAt:   utc(row.AssignedAt),
		DeliveredAt:  utc(row.DeliveredAt),
		FailedAt:     utc(row.FailedAt),
	}, nil
}
