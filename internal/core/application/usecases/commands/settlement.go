package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
)

// settle credits the carrier of a completed shipment inside the caller's
// transaction. The caller holds the shipment row lock; the commission
// version check and the unique wallet transaction reference back it up.
func settle(ctx context.Context, uow UoW, s *shipment.Shipment, now time.Time) (*services.Settlement, error) {
	agreements := uow.AgreementRepository()
	_, c, err := agreementLedger{agreements: agreements}.current(ctx, s)
	if err != nil {
		return nil, err
	}
	if c.IsCompleted() {
		return &services.Settlement{Settled: false, CarrierAmount: c.CarrierReceives(), Commission: c.Amount()}, nil
	}

	walletRepo := uow.WalletRepository()
	w, err := walletRepo.GetForUpdate(ctx, c.CarrierID())
	if err != nil {
		return nil, err
	}

	result, err := services.NewSettler().Settle(s, c, w, kernel.NewUUID(), now)
	if err != nil {
		return nil, err
	}
	if !result.Settled {
		return result, nil
	}

	if err = agreements.UpdateCommission(ctx, c); err != nil {
		return nil, err
	}
	if err = walletRepo.AppendTransaction(ctx, result.Transaction); err != nil {
		return nil, err
	}
	if err = walletRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return result, nil
}

func settlementNotification(s *shipment.Shipment, result *services.Settlement) ports.Notification {
	return ports.Notification{
		UserID: *s.CarrierID(),
		Event:  ports.EventWalletCredited,
		Payload: map[string]string{
			"shipmentId": s.ID().String(),
			"amount":     result.CarrierAmount.String(),
			"commission": result.Commission.String(),
		},
	}
}
