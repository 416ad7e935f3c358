package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order matches selectColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx       transaction.Transaction
		typeStr  string
		billName sql.NullString
		billData []byte
	)

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.Amount, &tx.Category, &tx.Description, &tx.Date, &tx.Currency,
		&billName, &billData, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Date = transaction.DateOnly(tx.Date)

	if billName.Valid {
		tx.Bill = &transaction.Bill{FileName: billName.String, Data: billData}
	}

	return &tx, nil
}

const selectColumns = `
	id, type, amount, category, description, date, currency,
	bill_file_name, bill_data, created_at, updated_at
`

func billColumns(b *transaction.Bill) (sql.NullString, []byte) {
	if b == nil {
		return sql.NullString{}, nil
	}

	return sql.NullString{String: b.FileName, Valid: true}, b.Data
}

const insertQuery = `
	INSERT INTO transactions (type, amount, category, description, date, currency, bill_file_name, bill_data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	RETURNING id, created_at
`

func insert(ctx context.Context, q execer, tx *transaction.Transaction) error {
	name, data := billColumns(tx.Bill)

	err := q.QueryRowContext(ctx, insertQuery,
		tx.Type, tx.Amount, tx.Category, tx.Description, tx.Date, tx.Currency, name, data,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	return applySpend(ctx, q, tx, decimal.NewFromInt(1))
}

// applySpend adds sign*amount to the spent total of the budget tracking the
// transaction's category. Income never touches budgets.
func applySpend(ctx context.Context, q execer, tx *transaction.Transaction, sign decimal.Decimal) error {
	if !tx.IsExpense() {
		return nil
	}

	_, err := q.ExecContext(ctx,
		`UPDATE budgets SET spent = spent + $1 WHERE category = $2`,
		tx.Amount.Mul(sign), tx.Category,
	)
	if err != nil {
		return fmt.Errorf("adjusting budget spent: %w", err)
	}

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insert(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// ReplaceTransaction swaps the stored row for tx, moving its contribution to
// budget spent totals from the old category and amount to the new ones.
func (s *Store) ReplaceTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	old, err := scanTransaction(dbTx.QueryRowContext(ctx, query, tx.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("locking transaction: %w", err)
	}

	if err := applySpend(ctx, dbTx, old, decimal.NewFromInt(-1)); err != nil {
		return err
	}

	name, data := billColumns(tx.Bill)

	err = dbTx.QueryRowContext(ctx, `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, description = $4, date = $5, currency = $6,
			bill_file_name = $7, bill_data = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING created_at, updated_at`,
		tx.Type, tx.Amount, tx.Category, tx.Description, tx.Date, tx.Currency, name, data, tx.ID,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("replacing transaction: %w", err)
	}

	if err := applySpend(ctx, dbTx, tx, decimal.NewFromInt(1)); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens a transaction holding an advisory lock on the date range
// so concurrent imports of the same file serialize.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error { return itx.tx.Commit() }

func (itx *importTx) Rollback() error {
	if err := itx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (itx *importTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate, maxDate := params[0].Date, params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	query := `SELECT ` + selectColumns + `
		FROM transactions
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, transaction.DateOnly(minDate), transaction.DateOnly(maxDate))
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		for _, p := range params {
			if transaction.IsDuplicate(tx, p) {
				duplicates = append(duplicates, tx)
				break
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := insert(ctx, itx.tx, tx); err != nil {
			return err
		}
	}

	return nil
}
