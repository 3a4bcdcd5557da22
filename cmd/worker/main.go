package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mizusato/orghub/internal/config"
	"github.com/mizusato/orghub/internal/database"
	"github.com/mizusato/orghub/internal/mailer"
	"github.com/mizusato/orghub/internal/repository"
	"github.com/mizusato/orghub/internal/services"
	"github.com/mizusato/orghub/internal/worker"
	"github.com/mizusato/orghub/pkg/queue"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if cfg.GinMode != "release" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	db := database.GetDB()
	invService := services.NewInvitationService(
		repository.NewInvitationRepository(db),
		repository.NewOrganizationRepository(db),
		repository.NewRoleRepository(db),
		repository.NewUserRepository(db),
		nil,
		cfg.InvitationTTLDays,
	)

	jobQueue := queue.NewQueue(redisClient, logger)
	w := worker.New(jobQueue, mailer.NewLogMailer(logger), invService, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker starting")
	w.Run(ctx)
	logger.Info("worker stopped")
}
