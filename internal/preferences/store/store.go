package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetPreferences returns the stored row, or the defaults if none was saved yet.
func (s *Store) GetPreferences(ctx context.Context) (preferences.Preferences, error) {
	var p preferences.Preferences

	err := s.db.QueryRowContext(ctx,
		`SELECT preferred_currency, budget_alerts, savings_goal FROM preferences WHERE id = 1`,
	).Scan(&p.PreferredCurrency, &p.BudgetAlerts, &p.SavingsGoal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return preferences.Default(), nil
		}

		return preferences.Preferences{}, fmt.Errorf("getting preferences: %w", err)
	}

	return p, nil
}

func (s *Store) SavePreferences(ctx context.Context, p preferences.Preferences) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, preferred_currency, budget_alerts, savings_goal)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET preferred_currency = EXCLUDED.preferred_currency,
			budget_alerts = EXCLUDED.budget_alerts,
			savings_goal = EXCLUDED.savings_goal`,
		p.PreferredCurrency, p.BudgetAlerts, p.SavingsGoal,
	)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}

	return nil
}
