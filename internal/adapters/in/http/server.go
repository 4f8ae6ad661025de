// Package http exposes the marketplace operations over echo. Every response
// is wrapped in {"ok": true, "data": ...} or
// {"ok": false, "errorKind": ..., "message": ...}.
package http

import (
	"context"
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handler is satisfied by every command and query handler.
type Handler[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateShipment       Handler[commands.CreateShipmentCommand, *shipment.Shipment]
	GetShipment          Handler[queries.GetShipmentQuery, *queries.ShipmentView]
	CancelShipment       Handler[commands.CancelShipmentCommand, *shipment.Shipment]
	SubmitOffer          Handler[commands.SubmitOfferCommand, *offer.Offer]
	ListOffers           Handler[queries.ListOffersQuery, []queries.OfferView]
	AcceptOffer          Handler[commands.AcceptOfferCommand, *commands.AcceptOfferResult]
	RejectOffer          Handler[commands.OfferActionCommand, *offer.Offer]
	WithdrawOffer        Handler[commands.OfferActionCommand, *offer.Offer]
	CancelAcceptedOffer  Handler[commands.ShipmentActionCommand, *shipment.Shipment]
	RespondToAgreement   Handler[commands.RespondToAgreementCommand, *commands.RespondToAgreementResult]
	RecordTrackingStatus Handler[commands.RecordTrackingStatusCommand, *commands.RecordTrackingStatusResult]
	ListTrackingEvents   Handler[queries.ListTrackingEventsQuery, []queries.TrackingEventView]
	ConfirmDelivery      Handler[commands.ConfirmDeliveryCommand, *commands.RecordTrackingStatusResult]
	Settle               Handler[commands.ShipmentActionCommand, *services.Settlement]
	GetWalletBalance     Handler[queries.GetWalletBalanceQuery, *queries.WalletBalanceView]
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	auth   Authenticator
	health map[string]HealthCheck
}

func NewServer(h Handlers, auth Authenticator, health map[string]HealthCheck) *Server {
	return &Server{h: h, auth: auth, health: health}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", RequireActor(s.auth))

	api.POST("/shipments", s.CreateShipment)
	api.GET("/shipments/:id", s.GetShipment)
	api.POST("/shipments/:id/cancel", s.CancelShipment)
	api.POST("/shipments/:id/offers", s.SubmitOffer)
	api.GET("/shipments/:id/offers", s.ListOffers)
	api.POST("/shipments/:id/offers/:offerId/accept", s.AcceptOffer)
	api.POST("/shipments/:id/offers/:offerId/reject", s.RejectOffer)
	api.POST("/shipments/:id/offers/:offerId/withdraw", s.WithdrawOffer)
	api.POST("/shipments/:id/accepted-offer/cancel", s.CancelAcceptedOffer)
	api.POST("/shipments/:id/tracking", s.RecordTrackingStatus)
	api.GET("/shipments/:id/tracking", s.ListTrackingEvents)
	api.POST("/shipments/:id/confirm-delivery", s.ConfirmDelivery)
	api.POST("/shipments/:id/settle", s.Settle)
	api.POST("/agreements/:id/respond", s.RespondToAgreement)
	api.GET("/wallet", s.GetWalletBalance)
}

// Health answers 503 when any registered check fails.
func (s *Server) Health(c echo.Context) error {
	checks := make(map[string]string, len(s.health))
	healthy := true
	for name, check := range s.health {
		if err := check(c.Request().Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, successEnvelope{
			OK:   false,
			Data: map[string]any{"status": "unhealthy", "checks": checks},
		})
	}
	return ok(c, http.StatusOK, map[string]any{"status": "healthy", "checks": checks})
}

// CreateShipment handles POST /api/v1/shipments.
func (s *Server) CreateShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	var req createShipmentRequest
	if err = bind(c, &req); err != nil {
		return fail(c, err)
	}
	cmd, err := req.command(actor)
	if err != nil {
		return fail(c, err)
	}

	created, err := s.h.CreateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, shipmentView(created))
}

// GetShipment handles GET /api/v1/shipments/:id.
func (s *Server) GetShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	query, err := queries.NewGetShipmentQuery(actor, id)
	if err != nil {
		return fail(c, err)
	}

	view, err := s.h.GetShipment.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, view)
}

// CancelShipment handles POST /api/v1/shipments/:id/cancel.
func (s *Server) CancelShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req reasonRequest
	if err = bind(c, &req); err != nil {
		return fail(c, err)
	}
	cmd, err := commands.NewCancelShipmentCommand(actor, id, req.Reason)
	if err != nil {
		return fail(c, err)
	}

	cancelled, err := s.h.CancelShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, shipmentView(cancelled))
}

// SubmitOffer handles POST /api/v1/shipments/:id/offers.
func (s *Server) SubmitOffer(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req submitOfferRequest
	if err = bind(c, &req); err != nil {
		return fail(c, err)
	}
	price, err := moneyOf("price", req.Price)
	if err != nil {
		return fail(c, err)
	}
	cmd, err := commands.NewSubmitOfferCommand(actor, id, price, req.EstimatedDelivery, req.Message)
	if err != nil {
		return fail(c, err)
	}

	submitted, err := s.h.SubmitOffer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, offerView(submitted))
}

// ListOffers handles GET /api/v1/shipments/:id/offers.
func (s *Server) ListOffers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	query, err := queries.NewListOffersQuery(actor, id)
	if err != nil {
		return fail(c, err)
	}

	offers, err := s.h.ListOffers.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, offers)
}

// AcceptOffer handles POST /api/v1/shipments/:id/offers/:offerId/accept.
func (s *Server) AcceptOffer(c echo.Context) error {
	actor, shipmentID, offerID, err := offerTarget(c)
	if err != nil {
		return fail(c, err)
	}
	cmd, err := commands.NewAcceptOfferCommand(actor, shipmentID, offerID)
	if err != nil {
		return fail(c, err)
	}

	result, err := s.h.AcceptOffer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, newAcceptOfferView(result))
}

// RejectOffer handles POST /api/v1/shipments/:id/offers/:offerId/reject.
func (s *Server) RejectOffer(c echo.Context) error {
	return s.offerAction(c, s.h.RejectOffer)
}

// WithdrawOffer handles POST /api/v1/shipments/:id/offers/:offerId/withdraw.
func (s *Server) WithdrawOffer(c echo.Context) error {
	return s.offerAction(c, s.h.WithdrawOffer)
}

func (s *Server) offerAction(c echo.Context, h Handler[commands.OfferActionCommand, *offer.Offer]) error {
	actor, shipmentID, offerID, err := offerTarget(c)
	if err != nil {
		return fail(c, err)
	}
	cmd, err := commands.NewOfferActionCommand(actor, shipmentID, offerID)
	if err != nil {
		return fail(c, err)
	}

	changed, err := h.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, offerView(changed))
}

// CancelAcceptedOffer handles POST /api/v1/shipments/:id/accepted-offer/cancel.
func (s *Server) CancelAcceptedOffer(c echo.Context) error {
	cmd, err := shipmentAction(c)
	if err != nil {
		return fail(c, err)
	}

	reopened, err := s.h.CancelAcceptedOffer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, shipmentView(reopened))
}

// RespondToAgreement handles POST /api/v1/agreements/:id/respond.
func (s *Server) RespondToAgreement(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req respondRequest
	if err = bind(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Accept == nil {
		return fail(c, errs.NewValueIsRequiredError("accept"))
	}
	cmd, err := commands.NewRespondToAgreementCommand(actor, id, *req.Accept)
	if err != nil {
		return fail(c, err)
	}

	result, err := s.h.RespondToAgreement.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, respondView{
		Agreement: newAgreementView(result.Agreement),
		Shipment:  shipmentView(result.Shipment),
	})
}

// RecordTrackingStatus handles POST /api/v1/shipments/:id/tracking.
func (s *Server) RecordTrackingStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req trackingRequest
	if err = bind(c, &req); err != nil {
		return fail(c, err)
	}
	status, err := shipment.ParseStatus(req.Status)
	if err != nil {
		return fail(c, err)
	}
	cmd, err := commands.NewRecordTrackingStatusCommand(actor, id, status, req.Location, req.Note)
	if err != nil {
		return fail(c, err)
	}

	result, err := s.h.RecordTrackingStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, newTrackingResultView(result))
}

// ListTrackingEvents handles GET /api/v1/shipments/:id/tracking.
func (s *Server) ListTrackingEvents(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	query, err := queries.NewListTrackingEventsQuery(actor, id)
	if err != nil {
		return fail(c, err)
	}

	events, err := s.h.ListTrackingEvents.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, events)
}

// ConfirmDelivery handles POST /api/v1/shipments/:id/confirm-delivery.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req noteRequest
	if err = bind(c, &req); err != nil {
		return fail(c, err)
	}
	cmd, err := commands.NewConfirmDeliveryCommand(actor, id, req.Note)
	if err != nil {
		return fail(c, err)
	}

	result, err := s.h.ConfirmDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, newTrackingResultView(result))
}

// Settle handles POST /api/v1/shipments/:id/settle. Admin only.
func (s *Server) Settle(c echo.Context) error {
	cmd, err := shipmentAction(c)
	if err != nil {
		return fail(c, err)
	}

	result, err := s.h.Settle.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, newSettlementView(result))
}

// GetWalletBalance handles GET /api/v1/wallet?limit=n.
func (s *Server) GetWalletBalance(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return fail(c, err)
	}
	query, err := queries.NewGetWalletBalanceQuery(actor, limit)
	if err != nil {
		return fail(c, err)
	}

	view, err := s.h.GetWalletBalance.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, view)
}
