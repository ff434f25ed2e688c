package order

import (
	"fmt"

	inErrors "github.com/petalmart/storefront/internal/errors"
)

type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusPaid       Status = "PAID"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusFailed     Status = "FAILED"
)

// progression is the auto-advance chain. CANCELLED and FAILED sit outside
// it and are only reachable through a manual status set.
var progression = []Status{
	StatusCreated,
	StatusPaid,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
}

// Next returns the following status in the progression. The second return
// is false at DELIVERED, on the terminal branches and for unknown values.
func (s Status) Next() (Status, bool) {
	for i, status := range progression {
		if status != s {
			continue
		}
		if i == len(progression)-1 {
			return s, false
		}
		return progression[i+1], true
	}
	return s, false
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusCreated, StatusPaid, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusFailed:
		return Status(value), nil
	}
	return "", fmt.Errorf("status=%s is not valid: %w", value, inErrors.ErrUnknownStatus)
}
