// Package main library management API.
//
// @title           Library Management API
// @version         1.0
// @description     Book and movie circulation: membership, issue, return, fines and reports.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Rahulstark2/librarymanagement/app/echoServer"
	adminctrl "github.com/Rahulstark2/librarymanagement/app/echoServer/controller/admin"
	authctrl "github.com/Rahulstark2/librarymanagement/app/echoServer/controller/auth"
	reportctrl "github.com/Rahulstark2/librarymanagement/app/echoServer/controller/report"
	txctrl "github.com/Rahulstark2/librarymanagement/app/echoServer/controller/transaction"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/validation"
	"github.com/Rahulstark2/librarymanagement/config"
	"github.com/Rahulstark2/librarymanagement/repository/pgstore"
	authsvc "github.com/Rahulstark2/librarymanagement/service/auth"
	catalogsvc "github.com/Rahulstark2/librarymanagement/service/catalog"
	"github.com/Rahulstark2/librarymanagement/service/membership"
	reportsvc "github.com/Rahulstark2/librarymanagement/service/report"
	txsvc "github.com/Rahulstark2/librarymanagement/service/transaction"
	"github.com/Rahulstark2/librarymanagement/util/database"
	"github.com/Rahulstark2/librarymanagement/util/jsonx"
)

func main() {
	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	root := &cobra.Command{
		Use:           "librarymanagement",
		Short:         "Library circulation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(log), migrateCmd(log))

	if err := root.Execute(); err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context, cfg config.App) (*database.DB, error) {
	return database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBConnLifetime,
		ConnectTimeout:  5 * time.Second,
	})
}

func migrateCmd(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load(true)
			db, err := connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Info("schema up to date")
			return nil
		},
	}
}

func serveCmd(log *slog.Logger) *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), log, config.Load(true), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply the schema before serving")
	return cmd
}

func serve(ctx context.Context, log *slog.Logger, cfg config.App, autoMigrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := connect(ctx, cfg)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return err
	}
	defer db.Close()
	if autoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	// store + services
	store := pgstore.New(db)
	now := time.Now
	as := authsvc.New(store.Users(), store.Members(), authsvc.Config{
		Secret:        cfg.JWTSecret,
		TTLHours:      cfg.JWTTTLHours,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	})
	ts := txsvc.New(store, txsvc.Options{MaxLoanDays: cfg.LoanMaxDays, Now: now})
	ms := membership.New(store)
	cs := catalogsvc.New(store)
	rs := reportsvc.New(store, now)

	// controllers
	v := validation.NewEngine()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	txC := &txctrl.Controller{Svc: ts, V: v, Log: log}
	adminC := &adminctrl.Controller{Members: ms, Catalog: cs, V: v, Log: log}
	reportC := &reportctrl.Controller{Svc: rs, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonx.Serializer{}
	e.Validator = validation.New()
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	echoServer.RegisterMiddlewares(e)

	e.GET("/health", func(c echo.Context) error {
		if err := db.Pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	if !cfg.IsProd() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Transaction: txC,
		Admin:       adminC,
		Report:      reportC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", port, "env", cfg.Env)
		errc <- e.Start(":" + port)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdown)
}
