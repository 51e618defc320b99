package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a transaction does not exist.
var ErrNotFound = errors.New("transaction not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, records []Record) ([]*Entry, error)
	CreateEntries(ctx context.Context, entries []*Entry) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	AccountName *string
	Type        *Type
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEntry(ctx, id)
}

type ImportResult struct {
	Imported   []*Entry
	Duplicates int
}

// dupKey identifies a record for duplicate detection. Statements get
// re-uploaded; a row that already exists for the same account must not be
// stored twice.
type dupKey struct {
	Date        string
	Amount      int64
	Type        Type
	Original    string
	AccountName string
	Holder      Holder
}

func keyFor(r Record) dupKey {
	return dupKey{
		Date:        r.Date.Format(time.DateOnly),
		Amount:      r.Amount,
		Type:        r.Type,
		Original:    r.OriginalDescription,
		AccountName: r.AccountName,
		Holder:      r.Holder,
	}
}

// ImportBatch stores the records that are not already present, skipping
// exact duplicates. The whole batch runs under one database transaction
// guarded by an advisory lock on the batch's date range, so concurrent
// uploads of the same statement cannot race each other into duplicates.
func (s *Service) ImportBatch(ctx context.Context, records []Record) (*ImportResult, error) {
	if len(records) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(records)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	existing, err := itx.FindDuplicates(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	seen := make(map[dupKey]struct{}, len(existing))
	for _, e := range existing {
		seen[keyFor(e.Record)] = struct{}{}
	}

	var entries []*Entry

	duplicates := 0

	for _, r := range records {
		k := keyFor(r)
		if _, found := seen[k]; found {
			duplicates++
			continue
		}

		// Identical rows can legitimately repeat inside one statement
		// (same merchant, same day, same amount), so only rows already
		// in the database count as duplicates.
		entries = append(entries, &Entry{Record: r})
	}

	if len(entries) > 0 {
		if err := itx.CreateEntries(ctx, entries); err != nil {
			return nil, fmt.Errorf("create entries: %w", err)
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: entries, Duplicates: duplicates}, nil
}

func dateRange(records []Record) (time.Time, time.Time) {
	minDate := records[0].Date
	maxDate := records[0].Date

	for _, r := range records[1:] {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}

		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}

	return minDate, maxDate
}
