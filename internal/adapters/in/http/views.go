package http

import (
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/core/domain/services"
)

type agreementView struct {
	ID              string     `json:"id"`
	OfferID         string     `json:"offerId"`
	ShipmentID      string     `json:"shipmentId"`
	SenderID        string     `json:"senderId"`
	CarrierID       string     `json:"carrierId"`
	AgreedPrice     string     `json:"agreedPrice"`
	Commission      string     `json:"commission"`
	CarrierReceives string     `json:"carrierReceives"`
	Status          string     `json:"status"`
	RespondedAt     *time.Time `json:"respondedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type commissionView struct {
	ID              string `json:"id"`
	Rate            string `json:"rate"`
	Amount          string `json:"amount"`
	CarrierReceives string `json:"carrierReceives"`
	Status          string `json:"status"`
}

type acceptOfferView struct {
	Shipment   queries.ShipmentView `json:"shipment"`
	Offer      queries.OfferView    `json:"offer"`
	Rejected   []string             `json:"rejectedOfferIds"`
	Agreement  agreementView        `json:"agreement"`
	Commission commissionView       `json:"commission"`
}

type respondView struct {
	Agreement agreementView        `json:"agreement"`
	Shipment  queries.ShipmentView `json:"shipment"`
}

type settlementView struct {
	Settled       bool   `json:"settled"`
	CarrierAmount string `json:"carrierAmount"`
	Commission    string `json:"commission"`
	TransactionID string `json:"transactionId,omitempty"`
}

type trackingResultView struct {
	Shipment   queries.ShipmentView      `json:"shipment"`
	Event      queries.TrackingEventView `json:"event"`
	Settlement *settlementView           `json:"settlement,omitempty"`
}

func shipmentView(s *shipment.Shipment) queries.ShipmentView {
	v := queries.ShipmentView{
		ID:               s.ID().String(),
		OwnerID:          s.OwnerID().String(),
		PickupAddress:    s.Route().Pickup().Address(),
		PickupCity:       s.Route().Pickup().City(),
		DeliveryAddress:  s.Route().Delivery().Address(),
		DeliveryCity:     s.Route().Delivery().City(),
		CargoDescription: s.Cargo().Description(),
		CargoWeightKg:    s.Cargo().WeightKg(),
		CargoType:        s.Cargo().Type(),
		BudgetMin:        s.Budget().Min().String(),
		BudgetMax:        s.Budget().Max().String(),
		PickupDate:       s.PickupDate(),
		Status:           s.Status().String(),
		CancelReason:     s.CancelReason(),
		Version:          s.Version(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
	if id := s.AcceptedOfferID(); id != nil {
		str := id.String()
		v.AcceptedOfferID = &str
	}
	if id := s.CarrierID(); id != nil {
		str := id.String()
		v.CarrierID = &str
	}
	if p := s.Price(); p != nil {
		str := p.String()
		v.Price = &str
	}
	if eta := s.EstimatedDelivery(); eta != nil {
		v.EstimatedDelivery = eta
	}
	return v
}

func offerView(o *offer.Offer) queries.OfferView {
	return queries.OfferView{
		ID:                o.ID().String(),
		ShipmentID:        o.ShipmentID().String(),
		CarrierID:         o.CarrierID().String(),
		Price:             o.Price().String(),
		Commission:        o.Commission().String(),
		EstimatedDelivery: o.EstimatedDelivery(),
		Message:           o.Message(),
		Status:            o.Status().String(),
		ExpiresAt:         o.ExpiresAt(),
		CreatedAt:         o.CreatedAt(),
	}
}

func newAgreementView(a *agreement.Agreement) agreementView {
	return agreementView{
		ID:              a.ID().String(),
		OfferID:         a.OfferID().String(),
		ShipmentID:      a.ShipmentID().String(),
		SenderID:        a.SenderID().String(),
		CarrierID:       a.CarrierID().String(),
		AgreedPrice:     a.AgreedPrice().String(),
		Commission:      a.Commission().String(),
		CarrierReceives: a.CarrierReceives().String(),
		Status:          a.Status().String(),
		RespondedAt:     a.RespondedAt(),
		CreatedAt:       a.CreatedAt(),
	}
}

func newCommissionView(c *agreement.Commission) commissionView {
	return commissionView{
		ID:              c.ID().String(),
		Rate:            c.Rate().String(),
		Amount:          c.Amount().String(),
		CarrierReceives: c.CarrierReceives().String(),
		Status:          c.Status().String(),
	}
}

func newAcceptOfferView(r *commands.AcceptOfferResult) acceptOfferView {
	rejected := make([]string, len(r.Rejected))
	for i, o := range r.Rejected {
		rejected[i] = o.ID().String()
	}
	return acceptOfferView{
		Shipment:   shipmentView(r.Shipment),
		Offer:      offerView(r.Offer),
		Rejected:   rejected,
		Agreement:  newAgreementView(r.Agreement),
		Commission: newCommissionView(r.Commission),
	}
}

func eventView(e *tracking.Event) queries.TrackingEventView {
	return queries.TrackingEventView{
		ID:        e.ID().String(),
		Status:    e.Status().String(),
		Location:  e.Location(),
		Note:      e.Note(),
		ActorID:   e.ActorID().String(),
		CreatedAt: e.CreatedAt(),
	}
}

func newSettlementView(s *services.Settlement) *settlementView {
	if s == nil {
		return nil
	}
	v := &settlementView{
		Settled:       s.Settled,
		CarrierAmount: s.CarrierAmount.String(),
		Commission:    s.Commission.String(),
	}
	if s.Transaction != nil {
		v.TransactionID = s.Transaction.ID().String()
	}
	return v
}

func newTrackingResultView(r *commands.RecordTrackingStatusResult) trackingResultView {
	return trackingResultView{
		Shipment:   shipmentView(r.Shipment),
		Event:      eventView(r.Event),
		Settlement: newSettlementView(r.Settlement),
	}
}
