package jobs

import (
	"context"
	"log/slog"
	"sync"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultOfferExpirySchedule runs the sweep at the top of every minute.
	DefaultOfferExpirySchedule = "0 * * * * *"
	DefaultOfferExpiryBatch    = 100
)

// OfferExpirer is satisfied by commands.ExpireOffersCommandHandler.
type OfferExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireOffersCommand) (int, error)
}

// OfferExpiryJob moves pending offers past their expiry to expired. Each run
// drains stale offers batch by batch; a run that is still busy when the next
// tick fires makes that tick a no-op.
type OfferExpiryJob struct {
	handler   OfferExpirer
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
	running   sync.Mutex
}

func NewOfferExpiryJob(handler OfferExpirer, schedule string, batchSize int, logger *slog.Logger) *OfferExpiryJob {
	if schedule == "" {
		schedule = DefaultOfferExpirySchedule
	}
	if batchSize <= 0 {
		batchSize = DefaultOfferExpiryBatch
	}
	return &OfferExpiryJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "offer_expiry_job"),
	}
}

func (j *OfferExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer expiry job started", "schedule", j.schedule)
	return nil
}

// Run performs one sweep and returns how many offers it expired.
func (j *OfferExpiryJob) Run(ctx context.Context) int {
	if !j.running.TryLock() {
		j.logger.DebugContext(ctx, "Previous offer expiry run still active, skipping")
		return 0
	}
	defer j.running.Unlock()

	cmd, err := commands.NewExpireOffersCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Offer expiry job misconfigured", "error", err)
		return 0
	}

	total := 0
	for {
		n, err := j.handler.Handle(ctx, cmd)
		total += n
		if err != nil {
			j.logger.ErrorContext(ctx, "Offer expiry job failed", "error", err, "expired", total)
			return total
		}
		if n < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.InfoContext(ctx, "Expired stale offers", "count", total)
	}
	return total
}

// Stop waits for a running sweep to finish.
func (j *OfferExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer expiry job stopped")
}
