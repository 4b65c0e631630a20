package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
)

// NotificationSink receives order change messages. Notify never fails the
// caller; implementations log their own delivery errors.
type NotificationSink interface {
	Notify(ctx context.Context, orderID kernel.UUID, message string)
}
