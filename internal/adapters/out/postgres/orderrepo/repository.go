package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

var _ ports.OrderStore = (*GormOrderStore)(nil)

// GormOrderStore implements ports.OrderStore on any GORM dialect.
type GormOrderStore struct {
	db *gorm.DB
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// Add inserts a new order.
func (r *GormOrderStore) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isDuplicateKey(err) {
			return errs.NewConflictErrorWithCause("order", "already exists", err)
		}
		return err
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	dto, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// GetByCode retrieves an order by its public tracking code.
func (r *GormOrderStore) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("code", code)
		}
		return nil, err
	}
	return toDomain(dto)
}

// ConditionalUpdate applies mutate and writes the result with
//
//	UPDATE orders SET ..., version = version + 1
//	WHERE id = ? AND status = ? AND version = ? [AND driver_id IS NULL]
//
// so the write only lands if the row still holds the state mutate was applied to.
func (r *GormOrderStore) ConditionalUpdate(
	ctx context.Context,
	id kernel.UUID,
	expected []order.Status,
	mutate ports.Mutator,
) (*order.Order, error) {
	current, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	aggregate, err := toDomain(current)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(expected, aggregate.Status()) {
		return nil, errs.NewConflictErrorWithCause(
			"order",
			"is not in the expected status",
			fmt.Errorf("status is %s", aggregate.Status()),
		)
	}

	if err = mutate(aggregate); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND version = ?", current.ID, current.Status, current.Version)
	if current.DriverID == nil {
		query = query.Where("driver_id IS NULL")
	}

	columns := mutableColumns(fromDomain(aggregate))
	columns["version"] = gorm.Expr("version + 1")

	result := query.Updates(columns)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, errs.NewConflictError("order", "was changed by a concurrent request")
	}

	return aggregate, nil
}

func (r *GormOrderStore) load(ctx context.Context, id kernel.UUID) (OrderDTO, error) {
	if err := id.Validate(); err != nil {
		return OrderDTO{}, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, errs.NewObjectNotFoundError("order", id.String())
		}
		return OrderDTO{}, err
	}

	return dto, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
