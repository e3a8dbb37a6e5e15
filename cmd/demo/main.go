package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"user-crud-service/cmd/demo/di"
	"user-crud-service/internal/config"
	"user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

// run walks through the full user lifecycle: create, lookup, duplicate
// rejection, partial update, delete, and email reuse.
func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.App.Env,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	container, err := di.NewContainer(cfg, l)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer func() { _ = container.Close() }()

	ctx := context.Background()
	uc := container.UserUC

	juan, err := uc.CreateUser(ctx, user.CreateUserRequest{Name: "Juan Pérez", Email: "Juan@Example.com", Age: 30})
	if err != nil {
		return err
	}
	l.Info("created", zap.String("id", juan.User.ID), zap.String("email", juan.User.Email))

	maria, err := uc.CreateUser(ctx, user.CreateUserRequest{Name: "María García", Email: "maria@example.com", Age: 25})
	if err != nil {
		return err
	}
	l.Info("created", zap.String("id", maria.User.ID), zap.String("email", maria.User.Email))

	// Duplicate email is rejected, case-insensitively
	if _, err := uc.CreateUser(ctx, user.CreateUserRequest{Name: "Ana", Email: "JUAN@example.com", Age: 25}); err != nil {
		l.Info("duplicate rejected", zap.Error(err))
	}

	byEmail, err := uc.GetUserByEmail(ctx, user.GetUserByEmailRequest{Email: "MARIA@EXAMPLE.COM"})
	if err != nil {
		return err
	}
	l.Info("found by email", zap.String("name", byEmail.User.Name))

	// Partial update: only age changes
	newAge := 31
	updated, err := uc.UpdateUser(ctx, user.UpdateUserRequest{ID: juan.User.ID, Age: &newAge})
	if err != nil {
		return err
	}
	l.Info("updated", zap.String("id", updated.User.ID), zap.Int("age", updated.User.Age))

	deleted, err := uc.DeleteUser(ctx, user.DeleteUserRequest{ID: juan.User.ID})
	if err != nil {
		return err
	}
	l.Info("deleted", zap.Bool("deleted", deleted.Deleted))

	// The freed email is available again
	ana, err := uc.CreateUser(ctx, user.CreateUserRequest{Name: "Ana", Email: "juan@example.com", Age: 25})
	if err != nil {
		return err
	}
	l.Info("email reused", zap.String("id", ana.User.ID))

	count, err := uc.CountUsers(ctx)
	if err != nil {
		return err
	}
	l.Info("done", zap.Int64("live_users", count))

	return nil
}
