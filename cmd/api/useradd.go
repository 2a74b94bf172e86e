package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/infrastructure/db"
	"github.com/99minutos/catalog-api/pkg/logger"
)

func useraddCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Register a user directly in the store",
		Long: `Registers a user through the same rules as POST /auth/register.
Use it to bootstrap the first ADMIN account.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			log := logger.Get()

			stores, err := db.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer stores.Close(ctx)

			authService, _, err := newAuthService(cfg, stores, log)
			if err != nil {
				return err
			}

			user, err := authService.Register(ctx, ports.RegisterInput{
				Username: username,
				Password: password,
				Role:     domain.Role(role),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (id %s)\n", user.Role, user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, 4 to 72 characters (required)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role: ADMIN or USER")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
