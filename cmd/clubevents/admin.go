package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"clubevents/config"
	"clubevents/internal/adapters/auth"
	"clubevents/internal/repository/postgres"
	"clubevents/internal/services"
)

func createAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if username == "" || email == "" || password == "" {
				return errors.New("--username, --email and --password (or ADMIN_PASSWORD) are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(os.Stdout)

			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewAuthService(
				postgres.NewUserRepository(db),
				postgres.NewRoleRepository(db),
				auth.NewBcryptHasher(bcrypt.DefaultCost),
				auth.NewJWT(cfg.JWTSecret),
				cfg.JWTExpiry,
			)
			user, err := svc.CreateAdmin(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			logger.Info("admin created", "user_id", user.ID, "email", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username")
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (defaults to ADMIN_PASSWORD)")
	return cmd
}
