package cmd

import (
	"fmt"

	"github.com/pedidoshn/pedidos-app/config"
	"github.com/pedidoshn/pedidos-app/database"
	"github.com/pedidoshn/pedidos-app/utils"
	"github.com/spf13/cobra"
)

func newMigrateCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			utils.InfoLogger.Info("AutoMigrate completed.")
			return nil
		},
	}
}
