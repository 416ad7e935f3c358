package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fintrack/internal/app"
	"github.com/MrJamesThe3rd/fintrack/internal/config"
	fintrackHttp "github.com/MrJamesThe3rd/fintrack/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/fintrack/internal/http/analytics"
	budgetHandler "github.com/MrJamesThe3rd/fintrack/internal/http/budget"
	currencyHandler "github.com/MrJamesThe3rd/fintrack/internal/http/currency"
	exportHandler "github.com/MrJamesThe3rd/fintrack/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/fintrack/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/fintrack/internal/http/matching"
	preferencesHandler "github.com/MrJamesThe3rd/fintrack/internal/http/preferences"
	txHandler "github.com/MrJamesThe3rd/fintrack/internal/http/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer a.Close()

	router := fintrackHttp.New(fintrackHttp.Handlers{
		Transactions: txHandler.NewHandler(a.Transactions),
		Budgets:      budgetHandler.NewHandler(a.Budgets),
		Preferences:  preferencesHandler.NewHandler(a.Preferences),
		Currencies:   currencyHandler.NewHandler(),
		Analytics:    analyticsHandler.NewHandler(a.Transactions, a.Budgets, a.Preferences, a.Engine),
		Import:       importHandler.NewHandler(a.Importer, a.Transactions, a.Preferences),
		Matching:     matchingHandler.NewHandler(a.Matching),
		Export:       exportHandler.NewHandler(a.Export, cfg.Export.Dir),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "backend", cfg.Store.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
