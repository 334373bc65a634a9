package cmd

import (
	"os"

	"github.com/pedidoshn/pedidos-app/config"
	"github.com/pedidoshn/pedidos-app/utils"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "pedidoshn",
		Short:         "PedidosHN restaurant ordering site",
		Long:          "PedidosHN serves the restaurant catalog, checkout and order pages, plus the JSON API behind them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultPath := os.Getenv("CONFIG_FILE")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to the YAML config file")

	load := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		utils.InitLogger(cfg.LogLevel)
		return cfg, nil
	}

	serve := newServeCmd(load)
	cmd.RunE = serve.RunE
	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCmd(load))
	cmd.AddCommand(newSeedCmd(load))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		utils.ErrorLogger.WithError(err).Error("pedidoshn failed")
		return err
	}
	return nil
}
