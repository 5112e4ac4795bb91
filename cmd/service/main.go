package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/auth"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/config"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/service"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/store"
	"gitlab.com/dirk.krummacker/addressbook-service/pkg/logging"
)

// bootstrapAdmin is the username of the admin account seeded on first
// startup.
const bootstrapAdmin = "admin"

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}

	sqlDB, err := store.OpenDatabase(cfg.DSN())
	if err != nil {
		slog.Error("could not open database", "error", err)
		os.Exit(1)
	}
	st, err := store.New(sqlDB)
	if err != nil {
		slog.Error("could not initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	authenticator := auth.NewAuthenticator(st)
	if err := seedAdmin(context.Background(), authenticator, cfg.AdminPassword); err != nil {
		slog.Error("could not seed admin user", "error", err)
		os.Exit(1)
	}

	sessions := auth.NewSessionManager(st)
	server := service.NewServer(cfg, st, authenticator, sessions)
	router := server.SetupHttpRouter()

	slog.Info("starting address book service", "port", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// seedAdmin creates the bootstrap admin account if it does not exist yet.
func seedAdmin(ctx context.Context, authenticator *auth.Authenticator, password string) error {
	err := authenticator.CreateUser(ctx, bootstrapAdmin, password, true)
	if errors.Is(err, store.ErrDuplicateUsername) {
		return nil
	}
	return err
}
