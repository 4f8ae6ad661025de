// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// OfferExpiryJob marks pending offers past their expires_at as expired. It
// runs on OFFER_EXPIRY_SCHEDULE (every minute by default) and drains stale
// offers in batches, each batch in its own transaction.
//
// # Usage
//
//	expiry := jobs.NewOfferExpiryJob(expireOffersHandler, schedule, 100, logger)
//	jobManager := jobs.NewJobManager(logger, expiry)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed batch is logged and ends the run; the next tick retries. Failed
// job starts stop any jobs already running.
package jobs
