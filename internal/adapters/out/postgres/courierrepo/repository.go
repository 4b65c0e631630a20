package courierrepo

import (
	"context"
	"errors"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.CourierDirectory = (*GormCourierDirectory)(nil)

// GormCourierDirectory implements ports.CourierDirectory using GORM.
type GormCourierDirectory struct {
	db     *gorm.DB
	policy services.SelfServicePolicy
}

func NewGormCourierDirectory(db *gorm.DB) *GormCourierDirectory {
	return &GormCourierDirectory{
		db:     db,
		policy: services.NewSelfServicePolicy(),
	}
}

// Add saves a new courier.
func (r *GormCourierDirectory) Add(ctx context.Context, c *courier.Courier) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("courier", "already exists", err)
		}
		return err
	}
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// IsEligibleForSelfService loads the courier and its current load and applies
// SelfServicePolicy. Unknown couriers are an ObjectNotFoundError.
func (r *GormCourierDirectory) IsEligibleForSelfService(
	ctx context.Context,
	courierID kernel.UUID,
	o *order.Order,
) (bool, error) {
	c, err := r.Get(ctx, courierID)
	if err != nil {
		return false, err
	}

	var active int64
	if err = r.db.WithContext(ctx).
		Model(&orderrepo.OrderDTO{}).
		Where("driver_id = ? AND status IN ?", courierID.Raw(), []string{order.Assigned.String(), order.Shipping.String()}).
		Count(&active).Error; err != nil {
		return false, err
	}

	if err = r.policy.Check(c, o, int(active)); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
