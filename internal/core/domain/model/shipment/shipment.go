package shipment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")

// Shipment is a sender's request to move cargo. It is the aggregate root of
// the registry and the unit of isolation for every marketplace operation.
//
// Invariants:
//   - acceptedOfferID is set iff the status HasCarrier
//   - carrierID is set iff acceptedOfferID is set
//   - status changes only along the transition table of Status
type Shipment struct {
	id                kernel.UUID
	ownerID           kernel.UUID
	route             Route
	cargo             Cargo
	budget            Budget
	pickupDate        *time.Time
	status            Status
	acceptedOfferID   *kernel.UUID
	carrierID         *kernel.UUID
	price             *kernel.Money
	estimatedDelivery *time.Time
	cancelReason      string
	version           kernel.Version
	createdAt         time.Time
	updatedAt         time.Time
	guard             guard.ConstructorGuard
}

// NewShipment publishes a shipment in the pending (open for offers) state.
func NewShipment(
	id kernel.UUID,
	ownerID kernel.UUID,
	route Route,
	cargo Cargo,
	budget Budget,
	pickupDate *time.Time,
	now time.Time,
) (*Shipment, error) {
	s := &Shipment{
		status:    Pending,
		createdAt: now.UTC(),
		updatedAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setOwner(ownerID),
		route.Validate(),
		cargo.Validate(),
		budget.Validate(),
	); err != nil {
		return nil, err
	}

	s.route = route
	s.cargo = cargo
	s.budget = budget
	if pickupDate != nil {
		d := pickupDate.UTC()
		s.pickupDate = &d
	}
	return s, nil
}

// State is the persisted form of a Shipment.
type State struct {
	ID                kernel.UUID
	OwnerID           kernel.UUID
	Route             Route
	Cargo             Cargo
	Budget            Budget
	PickupDate        *time.Time
	Status            Status
	AcceptedOfferID   *kernel.UUID
	CarrierID         *kernel.UUID
	Price             *kernel.Money
	EstimatedDelivery *time.Time
	CancelReason      string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RestoreShipment rebuilds a shipment read from storage and re-checks its
// invariants.
func RestoreShipment(state State) (*Shipment, error) {
	s := &Shipment{
		route:             state.Route,
		cargo:             state.Cargo,
		budget:            state.Budget,
		pickupDate:        state.PickupDate,
		status:            state.Status,
		acceptedOfferID:   state.AcceptedOfferID,
		carrierID:         state.CarrierID,
		price:             state.Price,
		estimatedDelivery: state.EstimatedDelivery,
		cancelReason:      state.CancelReason,
		version:           kernel.RestoreVersion(state.Version),
		createdAt:         state.CreatedAt,
		updatedAt:         state.UpdatedAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(state.ID),
		s.setOwner(state.OwnerID),
		state.Route.Validate(),
		state.Cargo.Validate(),
		state.Budget.Validate(),
		state.Status.Validate(),
		s.checkAssignment(),
	); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

func (s *Shipment) ID() kernel.UUID { return s.id }
func (s *Shipment) OwnerID() kernel.UUID { return s.ownerID }
func (s *Shipment) Route() Route { return s.route }
func (s *Shipment) Cargo() Cargo { return s.cargo }
func (s *Shipment) Budget() Budget { return s.budget }
func (s *Shipment) PickupDate() *time.Time { return s.pickupDate }
func (s *Shipment) Status() Status { return s.status }
func (s *Shipment) AcceptedOfferID() *kernel.UUID { return s.acceptedOfferID }
func (s *Shipment) CarrierID() *kernel.UUID { return s.carrierID }
func (s *Shipment) Price() *kernel.Money { return s.price }
func (s *Shipment) EstimatedDelivery() *time.Time { return s.estimatedDelivery }
func (s *Shipment) CancelReason() string { return s.cancelReason }
func (s *Shipment) CreatedAt() time.Time { return s.createdAt }
func (s *Shipment) UpdatedAt() time.Time { return s.updatedAt }
func (s *Shipment) Version() int64 { return s.version.Version() }
func (s *Shipment) IsOwnedBy(userID kernel.UUID) bool { return s.ownerID.IsEqual(userID) }

// AdvanceVersion is called by the repository after a successful write.
func (s *Shipment) AdvanceVersion() {
	s.version.Advance()
}

// IsOpenForOffers reports whether carriers may bid.
func (s *Shipment) IsOpenForOffers() bool {
	return s.status == Pending
}

// IsAssignedTo reports whether carrierID holds the accepted offer.
func (s *Shipment) IsAssignedTo(carrierID kernel.UUID) bool {
	return s.carrierID != nil && s.carrierID.IsEqual(carrierID)
}

// Accept binds the shipment to the accepted offer and its carrier.
func (s *Shipment) Accept(
	offerID kernel.UUID,
	carrierID kernel.UUID,
	price kernel.Money,
	estimatedDelivery time.Time,
	now time.Time,
) error {
	if err := errors.Join(offerID.Validate(), carrierID.Validate(), price.Validate()); err != nil {
		return err
	}
	if !s.IsOpenForOffers() {
		return errs.NewInvalidStateError("shipment", s.status.String(), "accept an offer for")
	}

	next, err := s.status.TransitionTo(Accepted)
	if err != nil {
		return err
	}

	s.status = next
	s.acceptedOfferID = &offerID
	s.carrierID = &carrierID
	s.price = &price
	eta := estimatedDelivery.UTC()
	s.estimatedDelivery = &eta
	s.updatedAt = now.UTC()
	return nil
}

// Reopen returns an accepted shipment to the offer book and clears its
// carrier assignment.
func (s *Shipment) Reopen(now time.Time) error {
	next, err := s.status.TransitionTo(Pending)
	if err != nil {
		return err
	}
	s.status = next
	s.clearAssignment()
	s.updatedAt = now.UTC()
	return nil
}

// Cancel is the sender's cancellation. It is refused once the cargo is
// picked up.
func (s *Shipment) Cancel(reason string, now time.Time) error {
	if !s.status.IsCancellableBySender() {
		return errs.NewInvalidStateError("shipment", s.status.String(), "cancel")
	}
	return s.MoveTo(Cancelled, reason, now)
}

// MoveTo applies a fulfillment transition. pending and accepted are only
// reachable through Reopen and Accept. Leaving the carrier-committed states
// for cancelled clears the assignment.
func (s *Shipment) MoveTo(next Status, note string, now time.Time) error {
	if next == Pending || next == Accepted {
		return errs.NewInvalidStateError("shipment", s.status.String(), "move to "+next.String())
	}

	to, err := s.status.TransitionTo(next)
	if err != nil {
		return err
	}

	s.status = to
	if to == Cancelled {
		s.cancelReason = strings.TrimSpace(note)
		s.clearAssignment()
	}
	s.updatedAt = now.UTC()
	return nil
}

func (s *Shipment) clearAssignment() {
	s.acceptedOfferID = nil
	s.carrierID = nil
	s.price = nil
	s.estimatedDelivery = nil
}

func (s *Shipment) checkAssignment() error {
	hasOffer := s.acceptedOfferID != nil
	hasCarrier := s.carrierID != nil
	if hasOffer != hasCarrier {
		return errs.NewValueIsInvalidErrorWithCause("shipment assignment",
			errors.New("carrier and accepted offer must be set together"))
	}
	if hasOffer != s.status.HasCarrier() {
		return errs.NewValueIsInvalidErrorWithCause("shipment assignment",
			fmt.Errorf("status %s does not match assignment %t", s.status, hasOffer))
	}
	if hasOffer && s.price == nil {
		return errs.NewValueIsRequiredError("price of assigned shipment")
	}
	return nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setOwner(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}
	s.ownerID = ownerID
	return nil
}
