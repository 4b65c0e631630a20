package queries

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrTrackOrderQueryIsNotConstructed = errors.New("TrackOrderQuery must be created via NewTrackOrderQuery constructor")

// TrackOrderQuery is the public lookup by order code. No identity is needed,
// so the result carries no personal data.
type TrackOrderQuery struct {
	code string

	guard guard.ConstructorGuard
}

func NewTrackOrderQuery(code string) (TrackOrderQuery, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return TrackOrderQuery{}, errs.NewValueIsRequiredError("code")
	}
	return TrackOrderQuery{code: code, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

func (q TrackOrderQuery) Code() string {
	return q.code
}

type TrackingView struct {
	Code         string     `json:"code"`
	Status       string     `json:"status"`
	ServiceLevel string     `json:"serviceLevel"`
	CreatedAt    time.Time  `json:"createdAt"`
	AssignedAt   *time.Time `json:"assignedAt,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
	FailedAt     *time.Time `json:"failedAt,omitempty"`
}
