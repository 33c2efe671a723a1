package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lifeboard/internal/config"
	"lifeboard/internal/database"
	"lifeboard/internal/logger"
	"lifeboard/internal/middleware"
	"lifeboard/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := rootCmd().Execute(); err != nil {
		logger.Get().Fatalf("Token error: %v", err)
	}
}

func rootCmd() *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:           "token <email>",
		Short:         "Provision a user by email and print a bearer token",
		Long:          `Look up the user with the given email, creating it when missing, and print an access token for it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return issue(cmd.Context(), args[0], displayName)
		},
	}
	cmd.Flags().StringVar(&displayName, "name", "", "display name for a newly created user")

	return cmd
}

func issue(ctx context.Context, email, displayName string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := config.Load(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	user, err := services.NewUserService(dbManager.DB()).GetOrCreateByEmail(ctx, email, displayName)
	if err != nil {
		return err
	}

	token, err := middleware.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Get().Infow("issued access token", logger.FieldUserID, user.ID, "email", user.Email)
	fmt.Println(token)
	return nil
}
