package main

import (
	"anoa.com/squadhub/internal/config"
	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/database"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "creates or updates the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}

			if err := db.AutoMigrate(entity.All()...); err != nil {
				return errors.Wrap(err, "migration failed")
			}
			logrus.WithField("tables", len(entity.All())).Info("migration completed")
			return nil
		},
	}
}
