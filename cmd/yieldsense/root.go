package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"YieldSense/internal/domain/models"
	"YieldSense/pkg/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "yieldsense",
		Short:         "Token pair yield farming safety analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")

	load := func() (*config.Config, error) {
		cfg, err := config.LoadWithEnv(configPath)
		if err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
		if err := models.ValidateAddresses(); err != nil {
			return nil, fmt.Errorf("token table: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(serveCmd(load), priceCmd(load), newsCmd(load))
	return root
}
