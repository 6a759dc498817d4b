package main

import (
	"os"

	"anoa.com/squadhub/internal/config"
	"anoa.com/squadhub/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "squadhub",
		Short:         "Squadhub club social backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		logger.Setup(cfg.LogLevel, cfg.LogFormat)
		return cfg, nil
	}

	cmd.AddCommand(
		newServeCommand(loadConfig),
		newMigrateCommand(loadConfig),
	)
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("squadhub exited")
		os.Exit(1)
	}
}
