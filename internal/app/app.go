// Package app assembles the services for the configured storage backend.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/fintrack/internal/analytics"
	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/fintrack/internal/budget/store"
	"github.com/MrJamesThe3rd/fintrack/internal/config"
	"github.com/MrJamesThe3rd/fintrack/internal/database"
	"github.com/MrJamesThe3rd/fintrack/internal/export"
	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/fintrack/internal/matching/store"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	prefStore "github.com/MrJamesThe3rd/fintrack/internal/preferences/store"
	"github.com/MrJamesThe3rd/fintrack/internal/state"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
	txStore "github.com/MrJamesThe3rd/fintrack/internal/transaction/store"
)

type App struct {
	Transactions *transaction.Service
	Budgets      *budget.Service
	Preferences  *preferences.Service
	Matching     *matching.Service
	Importer     *importer.Service
	Export       *export.Service
	Engine       *analytics.Engine

	db *sql.DB
}

// Open builds every service on top of cfg.Store.Backend. The postgres backend
// is migrated before use; both backends receive the sample data when seeding
// is enabled and they are empty.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		st := state.New()
		if cfg.Store.Seed {
			st = state.NewSeeded()
		}

		return assemble(st, st, st, matchingStore.NewMemory(), nil), nil

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}

		txs, budgets := txStore.New(db), budgetStore.New(db)

		if cfg.Store.Seed {
			seeded, err := state.Seed(ctx, txs, budgets)
			if err != nil {
				db.Close()
				return nil, fmt.Errorf("seed database: %w", err)
			}

			if seeded {
				slog.Info("seeded database with sample data")
			}
		}

		return assemble(txs, budgets, prefStore.New(db), matchingStore.New(db), db), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func assemble(
	txs transaction.Repository,
	budgets budget.Repository,
	prefs preferences.Repository,
	rules matching.Repository,
	db *sql.DB,
) *App {
	var (
		transactionService = transaction.NewService(txs)
		matchingService    = matching.NewService(rules)
	)

	return &App{
		Transactions: transactionService,
		Budgets:      budget.NewService(budgets),
		Preferences:  preferences.NewService(prefs),
		Matching:     matchingService,
		Importer:     importer.NewService(matchingService),
		Export:       export.NewService(transactionService),
		Engine:       analytics.NewEngine(),
		db:           db,
	}
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}
