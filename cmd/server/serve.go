package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/squadhub/internal/config"
	"anoa.com/squadhub/internal/server"
	"anoa.com/squadhub/pkg/cache"
	"anoa.com/squadhub/pkg/database"
	"anoa.com/squadhub/pkg/push"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serves the squadhub api",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}

			redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				return err
			}
			if redisClient == nil {
				logrus.Warn("REDIS_URL not set: realtime delivery and rate limiting are disabled")
			} else {
				defer redisClient.Close()
			}

			pusher, err := push.NewFCMSender(ctx, cfg.FirebaseCredentialsPath)
			if err != nil {
				return err
			}
			if pusher == nil {
				logrus.Warn("FIREBASE_CREDENTIALS_PATH not set: push notifications are disabled")
			}

			srv := server.NewServer(cfg, db, redisClient, pusher)
			return srv.Run(ctx, ":"+cfg.Port)
		},
	}
}
