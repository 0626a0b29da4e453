package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"micartera/src/api"
	"micartera/src/config"
	"micartera/src/db"
	repo "micartera/src/db/sql"
	"micartera/src/handlers"
	"micartera/src/prices"
	"micartera/src/session"
	"micartera/src/util"
	"micartera/src/web"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if util.InitReporting(cfg.SentryDSN, "production") {
		defer util.FlushReporting()
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	defer pool.Close()

	sessions, err := session.NewStore(cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize session cache: %w", err)
	}
	defer sessions.Close()

	priceClient, err := prices.NewClient(cfg.PriceServiceURL, cfg.PriceServiceKey)
	if err != nil {
		return err
	}
	defer priceClient.Close()
	if !priceClient.Enabled() {
		log.Println("WARN: PRICE_SERVICE_URL not set, investments are valued at purchase price")
	}

	views, err := web.LoadViews()
	if err != nil {
		return err
	}

	env := &handlers.Env{
		Store:         repo.New(pool),
		Sessions:      sessions,
		Prices:        priceClient,
		Views:         views,
		Secret:        []byte(cfg.JWTSecret),
		Location:      cfg.Location(),
		SecureCookies: cfg.SecureCookies,
		Demo:          cfg.DemoMode,
	}
	router := api.NewRouter(env, api.Options{AllowedOrigins: cfg.AllowedOrigins, Demo: cfg.DemoMode})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Println("INFO: Server running on port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("INFO: Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or revert the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			return db.Migrate(cfg.DatabaseURL, direction)
		},
	}
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the accounts that can sign in",
	}
	cmd.AddCommand(userAddCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = util.NormalizeEmail(email)
			if !util.ValidateEmail(email) {
				return fmt.Errorf("invalid email format: %q", email)
			}
			if err := util.CheckPassword(password); err != nil {
				return err
			}

			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("DB connection failed: %w", err)
			}
			defer pool.Close()

			user, err := repo.New(pool).CreateUser(cmd.Context(), email, hash)
			if err != nil {
				if errors.Is(err, repo.ErrConflict) {
					return fmt.Errorf("a user with email %s already exists", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email to sign in with")
	cmd.Flags().StringVar(&password, "password", "", "password to sign in with")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
