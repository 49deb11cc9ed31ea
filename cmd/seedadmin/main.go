// Command seedadmin grants the admin role to an email, creating the user if
// needed. Promotion over HTTP requires an existing admin, so the first one is
// bootstrapped here.
//
// Usage: go run ./cmd/seedadmin --email boss@example.com --name "Bistro Boss"
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"bistro/internal/config"
	"bistro/internal/infra"
	"bistro/internal/repository"
	"bistro/internal/service"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:          "seedadmin",
		Short:        "Create or promote an administrator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			return run(cmd.Context(), email, name)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Admin email")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name used when the user is created")

	return cmd
}

func run(ctx context.Context, email, name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, db, err := infra.NewMongo(ctx, cfg.MongoConnectionURI(), cfg.DBName)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	res, err := service.NewUserService(repository.NewUserRepository(db)).SeedAdmin(ctx, email, name)
	if err != nil {
		return err
	}

	switch {
	case res.UpsertedCount > 0:
		fmt.Printf("created admin %s (id %s)\n", email, *res.UpsertedID)
	case res.ModifiedCount > 0:
		fmt.Printf("promoted %s to admin\n", email)
	default:
		fmt.Printf("%s is already an admin\n", email)
	}
	return nil
}
