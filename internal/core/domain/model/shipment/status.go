package shipment

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment. The transition table below is
// the only place where legal moves are defined; every status-mutating entry
// point goes through TransitionTo.
//
//	pending ──> accepted ──> in_progress ──> picked_up ──> in_transit ──> delivered ──> completed
//	   ^            │              │                           │              │
//	   └── reopen ──┴──────────────┘                           └──> returned <┘
//
// cancelled is reachable from every state before delivery.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	InProgress
	PickedUp
	InTransit
	Delivered
	Completed
	Cancelled
	Returned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Accepted:   "accepted",
		InProgress: "in_progress",
		PickedUp:   "picked_up",
		InTransit:  "in_transit",
		Delivered:  "delivered",
		Completed:  "completed",
		Cancelled:  "cancelled",
		Returned:   "returned",
	}
}

func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:    {Accepted, Cancelled},
		Accepted:   {Pending, InProgress, InTransit, Cancelled},
		InProgress: {Pending, PickedUp, InTransit, Completed, Cancelled},
		PickedUp:   {InTransit, Cancelled},
		InTransit:  {Delivered, Completed, Returned, Cancelled},
		Delivered:  {Completed, Returned},
	}
}

// ParseStatus accepts the persisted/wire name of a status.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid shipment status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Returned {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid shipment status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether next is a legal move from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next when the table allows it and an InvalidState
// error otherwise.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidStateError("shipment", s.String(), "move to "+next.String())
	}
	return next, nil
}

// IsTerminal reports statuses with no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Returned
}

// HasCarrier reports whether a shipment in this status is bound to an accepted
// offer and its carrier.
func (s Status) HasCarrier() bool {
	switch s {
	case Accepted, InProgress, PickedUp, InTransit, Delivered, Completed, Returned:
		return true
	default:
		return false
	}
}

// IsCancellableBySender is true while no carrier commitment is in transit.
func (s Status) IsCancellableBySender() bool {
	return s == Pending || s == Accepted || s == InProgress
}
