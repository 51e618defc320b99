package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/lpellecer/quetzal/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads a transaction row from the scanner.
// Expected column order: id, date, description, original_description, amount,
// type, category, account_name, currency, holder, created_at
func scanEntry(s scanner) (*transaction.Entry, error) {
	var e transaction.Entry

	var typeStr, holderStr string

	var origDesc, category sql.NullString

	if err := s.Scan(
		&e.ID, &e.Date, &e.Description, &origDesc, &e.Amount,
		&typeStr, &category, &e.AccountName, &e.Currency, &holderStr,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Type = transaction.Type(typeStr)
	e.Holder = transaction.Holder(holderStr)
	e.OriginalDescription = origDesc.String
	e.Category = category.String

	return &e, nil
}

const selectEntryColumns = `
	id, date, description, original_description, amount,
	type, category, account_name, currency, holder, created_at
`

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*transaction.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM transactions
		WHERE id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM transactions
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.AccountName != nil {
		query += fmt.Sprintf(" AND account_name = $%d", argIdx)

		args = append(args, *filter.AccountName)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
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
		argIdx++
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var entries []*transaction.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return entries, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format("2006-01-02")))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format("2006-01-02")))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, records []transaction.Record) ([]*transaction.Entry, error) {
	if len(records) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date        string
		Amount      int64
		Type        transaction.Type
		Original    string
		AccountName string
		Holder      transaction.Holder
	}

	// Find min/max dates and build lookup set.
	minDate := records[0].Date
	maxDate := records[0].Date
	keySet := make(map[lookupKey]struct{}, len(records))

	for _, r := range records {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}

		if r.Date.After(maxDate) {
			maxDate = r.Date
		}

		keySet[lookupKey{
			Date:        r.Date.Format("2006-01-02"),
			Amount:      r.Amount,
			Type:        r.Type,
			Original:    r.OriginalDescription,
			AccountName: r.AccountName,
			Holder:      r.Holder,
		}] = struct{}{}
	}

	// Query all stored rows in the date range, keep the ones whose key
	// matches an incoming record.
	query := `SELECT ` + selectEntryColumns + `
		FROM transactions
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := lookupKey{
			Date:        e.Date.Format("2006-01-02"),
			Amount:      e.Amount,
			Type:        e.Type,
			Original:    e.OriginalDescription,
			AccountName: e.AccountName,
			Holder:      e.Holder,
		}

		_, found := keySet[k]
		if !found {
			continue
		}

		duplicates = append(duplicates, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateEntries(ctx context.Context, entries []*transaction.Entry) error {
	query := `
		INSERT INTO transactions (date, description, original_description, amount, type, category, account_name, currency, holder, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	for _, e := range entries {
		err := itx.tx.QueryRowContext(ctx, query,
			e.Date,
			e.Description,
			e.OriginalDescription,
			e.Amount,
			e.Type,
			e.Category,
			e.AccountName,
			e.Currency,
			e.Holder,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
