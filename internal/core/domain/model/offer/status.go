package offer

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of an offer. Pending is the only non-terminal
// state apart from accepted, which can still be cancelled while the shipment
// has not left.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	Rejected
	Expired
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Accepted:  "accepted",
		Rejected:  "rejected",
		Expired:   "expired",
		Cancelled: "cancelled",
	}
}

func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("offer status", fmt.Errorf("%q is not a valid offer status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("offer status", fmt.Errorf("%d is not a valid offer status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal is true for rejected, expired and cancelled offers.
func (s Status) IsTerminal() bool {
	return s == Rejected || s == Expired || s == Cancelled
}
