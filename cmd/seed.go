package cmd

import (
	"fmt"

	"github.com/pedidoshn/pedidos-app/config"
	"github.com/pedidoshn/pedidos-app/database"
	"github.com/pedidoshn/pedidos-app/utils"
	"github.com/spf13/cobra"
)

func newSeedCmd(load func() (config.Config, error)) *cobra.Command {
	var (
		file          string
		adminName     string
		adminEmail    string
		adminPassword string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load restaurants and dishes from a JSON catalog",
		Long:  "Insert the restaurants of the catalog file that are not in the database yet, and optionally create an administrator.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.RestaurantFile
			}
			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}

			ctx := cmd.Context()
			added, err := database.SeedFromFile(ctx, db, file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d restaurantes agregados desde %s\n", added, file)

			if adminEmail != "" {
				if adminPassword == "" {
					return fmt.Errorf("--admin-password is required with --admin-email")
				}
				if err := database.EnsureAdmin(ctx, db, adminName, adminEmail, adminPassword); err != nil {
					return err
				}
				utils.InfoLogger.WithField("email", adminEmail).Info("administrator ready")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (defaults to restaurant_file)")
	cmd.Flags().StringVar(&adminName, "admin-name", "Administrador", "name of the administrator to create")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the administrator to create")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the administrator to create")
	return cmd
}
