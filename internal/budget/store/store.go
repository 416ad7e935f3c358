package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*budget.Budget, error) {
	var (
		b      budget.Budget
		period string
	)

	if err := s.Scan(&b.ID, &b.Category, &b.Limit, &b.Spent, &period); err != nil {
		return nil, err
	}

	b.Period = budget.Period(period)

	return &b, nil
}

const selectColumns = `id, category, limit_amount, spent, period`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (category, limit_amount, spent, period)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		b.Category, b.Limit, b.Spent, b.Period,
	).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return budget.ErrDuplicateBudget
		}

		return fmt.Errorf("creating budget: %w", err)
	}

	return nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context) ([]*budget.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM budgets ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}

	return budgets, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *budget.Budget) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE budgets
		SET category = $1, limit_amount = $2, spent = $3, period = $4
		WHERE id = $5`,
		b.Category, b.Limit, b.Spent, b.Period, b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return budget.ErrDuplicateBudget
		}

		return fmt.Errorf("updating budget: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating budget: %w", err)
	}

	if n == 0 {
		return budget.ErrNotFound
	}

	return nil
}
