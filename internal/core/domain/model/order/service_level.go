package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// ServiceLevel is the delivery tier chosen by the customer.
type ServiceLevel string

const (
	Standard ServiceLevel = "standard"
	Fast     ServiceLevel = "fast"
	Express  ServiceLevel = "express"
)

// ParseServiceLevel accepts the tier name in any case. An empty string means Standard.
func ParseServiceLevel(s string) (ServiceLevel, error) {
	level := ServiceLevel(strings.ToLower(strings.TrimSpace(s)))
	if level == "" {
		return Standard, nil
	}
	if err := level.Validate(); err != nil {
		return "", err
	}
	return level, nil
}

func (l ServiceLevel) Validate() error {
	switch l {
	case Standard, Fast, Express:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("serviceLevel", fmt.Errorf("%q is not a service level", string(l)))
}

// AllowsSelfService reports whether couriers may claim orders of this tier
// themselves. Express orders are routed by a dispatcher only.
func (l ServiceLevel) AllowsSelfService() bool {
	return l == Standard || l == Fast
}

func (l ServiceLevel) String() string {
	return string(l)
}
