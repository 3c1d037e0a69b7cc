// Command admin creates or deletes the administrator account.
//
//	admin create --email a@b.c --password secret [--name N] [--code C] [--mobile M]
//	admin delete --email a@b.c
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"leaddesk-service/internal/config"
	"leaddesk-service/internal/db"
	"leaddesk-service/internal/pkg/jwt"
	"leaddesk-service/internal/repository/postgres"
	authUsecase "leaddesk-service/internal/service/auth"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	cmd := os.Args[1]
	flags := pflag.NewFlagSet(cmd, pflag.ExitOnError)

	cfg := config.Load()
	email := flags.String("email", cfg.BootstrapAdminEmail, "admin e-mail")
	password := flags.String("password", cfg.BootstrapAdminPassword, "admin password (create)")
	name := flags.String("name", cfg.BootstrapAdminName, "display name (create)")
	code := flags.String("code", cfg.BootstrapAdminCode, "agent code (create)")
	mobile := flags.String("mobile", "", "mobile number (create)")
	_ = flags.Parse(os.Args[2:])

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: cfg.DatabaseURL})
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("failed to apply schema", zap.Error(err))
	}

	// Token issuing is never used here; the service only needs a manager to exist.
	jwtManager, err := jwt.NewHMACManager(jwt.Config{Secret: "admin-cli", TTL: time.Minute})
	if err != nil {
		logger.Fatal("failed to build token manager", zap.Error(err))
	}
	svc := authUsecase.NewAuthService(postgres.NewUserRepository(pool), jwtManager, nil, nil, nil, logger)

	switch cmd {
	case "create":
		created, err := svc.EnsureAdminExists(ctx, authUsecase.AdminSeed{
			Email:       *email,
			Password:    *password,
			DisplayName: *name,
			AgentCode:   *code,
			Mobile:      *mobile,
		})
		if err != nil {
			logger.Fatal("failed to create admin", zap.Error(err))
		}
		if created {
			fmt.Println("admin created:", *email)
		} else {
			fmt.Println("an admin already exists; nothing to do")
		}

	case "delete":
		if *email == "" {
			logger.Fatal("--email is required")
		}
		if err := svc.DeleteAdmin(ctx, *email); err != nil {
			logger.Fatal("failed to delete admin", zap.Error(err))
		}
		fmt.Println("admin deleted:", *email)

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <create|delete> [--email E] [--password P] [--name N] [--code C] [--mobile M]")
}
