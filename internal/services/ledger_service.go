// Package services is the orchestration and validation boundary of the ledger.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"lancamentos/internal/core"
)

// Store is the durable entry store the service orchestrates.
type Store interface {
	Insert(ctx context.Context, d core.Draft) (int64, error)
	ListByPeriod(ctx context.Context, p core.Period) ([]core.Entry, error)
	DeleteMany(ctx context.Context, ids []int64) error
}

// EventPublisher announces committed ledger changes. Optional; a nil
// publisher disables events.
type EventPublisher interface {
	PublishEntryCreated(ctx context.Context, id int64, period core.Period) error
	PublishEntriesDeleted(ctx context.Context, ids []int64) error
}

// PeriodSummary is the aggregate view of one month: the balance carried in
// from the month before, the two kind totals, and the resulting balance.
type PeriodSummary struct {
	Period       core.Period
	OpeningCents int64
	IncomeCents  int64
	ExpenseCents int64
	ClosingCents int64
}

// LedgerService exposes the four ledger operations over a store handle
// constructed and owned by the caller. It keeps no state of its own.
type LedgerService struct {
	store  Store
	events EventPublisher
}

func NewLedgerService(store Store, events EventPublisher) *LedgerService {
	return &LedgerService{store: store, events: events}
}

// AddEntry validates a draft and persists it, returning the assigned id.
// A draft that fails validation is rejected before anything is written.
func (s *LedgerService) AddEntry(ctx context.Context, d core.Draft) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishEntryCreated(ctx, id, d.Period); err != nil {
			// The entry is committed; a lost event is only logged.
			slog.ErrorContext(ctx, "Failed to publish entry created event", "id", id, "error", err)
		}
	}

	return id, nil
}

// EntriesFor returns the entries attributed to a period, newest first.
func (s *LedgerService) EntriesFor(ctx context.Context, p core.Period) ([]core.Entry, error) {
	entries, err := s.store.ListByPeriod(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("entries for %s: %w", p, err)
	}
	return entries, nil
}

// SummaryFor computes the period's aggregate view. The opening balance is the
// prior month's net carried forward; closing = opening + income - expense.
func (s *LedgerService) SummaryFor(ctx context.Context, p core.Period) (PeriodSummary, error) {
	opening, err := core.CarryOver(ctx, p, s.store.ListByPeriod)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("carry-over for %s: %w", p, err)
	}

	entries, err := s.store.ListByPeriod(ctx, p)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("entries for %s: %w", p, err)
	}
	totals := core.Summarize(entries)

	return PeriodSummary{
		Period:       p,
		OpeningCents: opening,
		IncomeCents:  totals.IncomeCents,
		ExpenseCents: totals.ExpenseCents,
		ClosingCents: opening + totals.Net(),
	}, nil
}

// Remove deletes the given entries in one batch. Unknown ids are ignored and
// an empty set is a no-op.
func (s *LedgerService) Remove(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.store.DeleteMany(ctx, ids); err != nil {
		return fmt.Errorf("remove entries: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishEntriesDeleted(ctx, ids); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entries deleted event", "ids", ids, "error", err)
		}
	}

	return nil
}
