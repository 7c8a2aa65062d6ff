package main

import (
	checkinHandler "coachbooking/internal/checkin/handler"
	checkinService "coachbooking/internal/checkin/service"
	gymsHandler "coachbooking/internal/gyms/handler"
	gymsRepository "coachbooking/internal/gyms/repository"
	gymsService "coachbooking/internal/gyms/service"
	reservationsHandler "coachbooking/internal/reservations/handler"
	reservationsRepository "coachbooking/internal/reservations/repository"
	reservationsService "coachbooking/internal/reservations/service"
	reservationsValidator "coachbooking/internal/reservations/validator"
	slotsHandler "coachbooking/internal/slots/handler"
	slotsRepository "coachbooking/internal/slots/repository"
	slotsService "coachbooking/internal/slots/service"
	slotsValidator "coachbooking/internal/slots/validator"
	"coachbooking/pkg/app"
	"coachbooking/pkg/clock"
	"coachbooking/pkg/config"
	"coachbooking/pkg/contracts"
	"coachbooking/pkg/events"
	"coachbooking/pkg/kafka"
	kafka_config "coachbooking/pkg/kafka/config"
	kafka_middleware "coachbooking/pkg/kafka/middleware"
)

const ServiceName = "coachbooking"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Coachbooking service")
	serverApp := app.NewApplication()

	publisher := initPublisher(cfg, serverApp)
	serverApp.SetApp(cfg, initHandlers(cfg, publisher)...)
	serverApp.Run()
}

// initPublisher returns the Kafka lifecycle publisher, or a no-op one when
// Kafka is disabled.
func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, lifecycle events are not published")
		return events.NopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka publisher initialized", "topic", cfg.KafkaTopic)
	return events.NewKafkaPublisher(producer, ServiceName, kafkaCfg.PublishTimeout, cfg.Log)
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	clk := clock.RealClock{}

	gymRepo := gymsRepository.NewMongoGymRepository(cfg)
	trainerRepo := gymsRepository.NewMongoTrainerRepository(cfg)
	gymService := gymsService.NewGymService(gymRepo, trainerRepo, cfg)

	slotRepo := slotsRepository.NewMongoTimeSlotRepository(cfg)
	slotService := slotsService.NewSlotService(
		slotRepo,
		gymService,
		slotsValidator.NewSlotValidator(cfg.Log),
		clk,
		publisher,
		cfg,
	)

	reservationRepo := reservationsRepository.NewMongoReservationRepository(cfg)
	reservationService := reservationsService.NewReservationService(
		reservationRepo,
		slotRepo,
		gymService,
		trainerRepo,
		reservationsValidator.NewReservationValidator(cfg.Log),
		clk,
		publisher,
		cfg,
	)

	checkin := checkinService.NewCheckinService(reservationRepo, publisher, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		gymsHandler.NewGymHandler(gymService, cfg.Log),
		slotsHandler.NewSlotHandler(slotService, cfg.Log),
		reservationsHandler.NewReservationHandler(reservationService, cfg.Log),
		checkinHandler.NewCheckinHandler(checkin, clk, cfg.Log),
	}
}
