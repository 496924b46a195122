package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/booklend/lending-service/config"
	"github.com/booklend/lending-service/internal/events"
	"github.com/booklend/lending-service/internal/handler"
	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/internal/repository"
	"github.com/booklend/lending-service/internal/server"
	"github.com/booklend/lending-service/internal/service"
	"github.com/booklend/lending-service/internal/service/catalog"
	"github.com/booklend/lending-service/internal/service/directory"
	"github.com/booklend/lending-service/migrations"
	"github.com/booklend/lending-service/pkg/kafka"
	"github.com/booklend/lending-service/pkg/logger"
	"github.com/booklend/lending-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "lending")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	opts := []service.Option{
		service.WithCatalog(catalog.NewService(log, cfg.Catalog)),
		service.WithDirectory(directory.NewService(log, cfg.Directory)),
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		// the event stream is ancillary: the engine runs without it
		log.Error("kafka.NewProducer", zap.Error(err))
	} else {
		opts = append(opts, service.WithPublisher(events.NewPublisher(producer)))

		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.LendingConsumerGroup)
		if err != nil {
			log.Error("kafka.NewConsumer", zap.Error(err))
		} else {
			go kafka.Consume(ctx, consumer, events.NewConsumer(func(event model.LoanEvent) {
				log.Info("loan event",
					zap.String("kind", event.Kind),
					zap.String("loanUid", event.LoanUid),
					zap.Float64("fee", event.Fee))
			}, log), log, kafka.LoanEventsTopic)
		}
	}

	svc := service.NewService(repo, service.Policy{
		MinDays:       cfg.Lending.MinDays,
		MaxDays:       cfg.Lending.MaxDays,
		DefaultDays:   cfg.Lending.DefaultDays,
		LateFeePerDay: cfg.Lending.LateFeePerDay,
		LateFeeCap:    cfg.Lending.LateFeeCap,
	}, log, opts...)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	cancel()
	db.Close()
	log.Info("Graceful shutdown finished")
}
