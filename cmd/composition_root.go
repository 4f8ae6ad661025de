package cmd

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	httpin "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/kafka"
	"freight/internal/adapters/out/notify"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/rediscache"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/ports"
	"freight/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	dispatcher *notify.Dispatcher
	publisher  *kafka.Publisher
	redis      *rediscache.ShipmentCache
	cache      ports.ShipmentCache
}

// NewCompositionRoot wires the adapters. Kafka and Redis are optional: without
// KAFKA_HOST notifications are logged, without REDIS_ADDR reads go straight
// to Postgres.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{config: config, gormDB: gormDB, logger: logger}

	var sender ports.Notifier = notify.NewLogSender(logger)
	if config.KafkaHost != "" {
		c.publisher = kafka.NewPublisher(strings.Split(config.KafkaHost, ","), config.KafkaNotificationsTopic)
		sender = c.publisher
	}
	c.dispatcher = notify.NewDispatcher(sender, config.NotifyTimeout, config.NotifyMaxInFlight, logger)

	var observers []ports.CommitObserver
	if config.RedisAddr != "" {
		c.redis = rediscache.New(config.RedisAddr, config.ShipmentCacheTTL, logger)
		c.cache = c.redis
		observers = append(observers, c.redis)
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, observers...)

	return c
}

func (c *CompositionRoot) Notifier() ports.Notifier {
	return c.dispatcher
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(c.shipmentUoWFactory(), commands.SystemClock)
}

func (c *CompositionRoot) CreateCancelShipmentCommandHandler() commands.CancelShipmentCommandHandler {
	return commands.NewCancelShipmentCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateSubmitOfferCommandHandler() commands.SubmitOfferCommandHandler {
	return commands.NewSubmitOfferCommandHandler(
		c.fullUoWFactory(), c.dispatcher, commands.SystemClock, c.config.CommissionRate, c.config.OfferTTL,
	)
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	return commands.NewAcceptOfferCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateRejectOfferCommandHandler() commands.RejectOfferCommandHandler {
	return commands.NewRejectOfferCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateWithdrawOfferCommandHandler() commands.WithdrawOfferCommandHandler {
	return commands.NewWithdrawOfferCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateCancelAcceptedOfferCommandHandler() commands.CancelAcceptedOfferCommandHandler {
	return commands.NewCancelAcceptedOfferCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateRespondToAgreementCommandHandler() commands.RespondToAgreementCommandHandler {
	return commands.NewRespondToAgreementCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateRecordTrackingStatusCommandHandler() commands.RecordTrackingStatusCommandHandler {
	return commands.NewRecordTrackingStatusCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateSettleShipmentCommandHandler() commands.SettleShipmentCommandHandler {
	return commands.NewSettleShipmentCommandHandler(c.fullUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	return commands.NewExpireOffersCommandHandler(c.offerUoWFactory(), c.dispatcher, commands.SystemClock)
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB, c.cache, c.logger)
}

func (c *CompositionRoot) CreateListOffersQueryHandler() queries.ListOffersQueryHandler {
	return queries.NewListOffersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListTrackingEventsQueryHandler() queries.ListTrackingEventsQueryHandler {
	return queries.NewListTrackingEventsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWalletBalanceQueryHandler() queries.GetWalletBalanceQueryHandler {
	return queries.NewGetWalletBalanceQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateShipment:       c.CreateCreateShipmentCommandHandler(),
		GetShipment:          c.CreateGetShipmentQueryHandler(),
		CancelShipment:       c.CreateCancelShipmentCommandHandler(),
		SubmitOffer:          c.CreateSubmitOfferCommandHandler(),
		ListOffers:           c.CreateListOffersQueryHandler(),
		AcceptOffer:          c.CreateAcceptOfferCommandHandler(),
		RejectOffer:          c.CreateRejectOfferCommandHandler(),
		WithdrawOffer:        c.CreateWithdrawOfferCommandHandler(),
		CancelAcceptedOffer:  c.CreateCancelAcceptedOfferCommandHandler(),
		RespondToAgreement:   c.CreateRespondToAgreementCommandHandler(),
		RecordTrackingStatus: c.CreateRecordTrackingStatusCommandHandler(),
		ListTrackingEvents:   c.CreateListTrackingEventsQueryHandler(),
		ConfirmDelivery:      c.CreateConfirmDeliveryCommandHandler(),
		Settle:               c.CreateSettleShipmentCommandHandler(),
		GetWalletBalance:     c.CreateGetWalletBalanceQueryHandler(),
	}, httpin.NewHeaderAuthenticator(), c.healthChecks())
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	expiry := jobs.NewOfferExpiryJob(
		c.CreateExpireOffersCommandHandler(), c.config.OfferExpirySchedule, jobs.DefaultOfferExpiryBatch, c.logger,
	)
	return jobs.NewJobManager(c.logger, expiry)
}

func (c *CompositionRoot) healthChecks() map[string]httpin.HealthCheck {
	checks := map[string]httpin.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = c.redis.Ping
	}
	return checks
}

// Close drains pending notifications and releases the broker and cache
// connections.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var errList []error
	errList = append(errList, c.dispatcher.Wait(ctx))
	if c.publisher != nil {
		errList = append(errList, c.publisher.Close())
	}
	if c.redis != nil {
		errList = append(errList, c.redis.Close())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) offerUoWFactory() commands.OfferUoWFactory {
	return FuncOfferUoWFactory(func() commands.OfferUoW {
		return c.uowFactory.CreateGorm()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncOfferUoWFactory func() commands.OfferUoW

func (f FuncOfferUoWFactory) Create() commands.OfferUoW {
	return f()
}
