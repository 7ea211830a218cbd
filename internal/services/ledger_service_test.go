package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"lancamentos/internal/core"
)

// fakeStore is an in-memory Store with the same ordering and id-assignment
// semantics as the SQL repository.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Entry
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) Insert(_ context.Context, d core.Draft) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.items = append(f.items, core.Entry{
		ID:         id,
		OccurredOn: d.OccurredOn,
		Kind:       d.Kind,
		Label:      d.Label,
		Amount:     d.Amount,
		Period:     d.Period,
	})
	return id, nil
}

func (f *fakeStore) ListByPeriod(_ context.Context, p core.Period) ([]core.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Entry, 0)
	for _, e := range f.items {
		if e.Period == p {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn.Time) {
			return out[i].OccurredOn.After(out[j].OccurredOn.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeStore) DeleteMany(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := f.items[:0]
	for _, e := range f.items {
		if _, ok := drop[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	f.items = kept
	return nil
}

type recordingPublisher struct {
	created []int64
	deleted [][]int64
}

func (r *recordingPublisher) PublishEntryCreated(_ context.Context, id int64, _ core.Period) error {
	r.created = append(r.created, id)
	return nil
}

func (r *recordingPublisher) PublishEntriesDeleted(_ context.Context, ids []int64) error {
	r.deleted = append(r.deleted, ids)
	return nil
}

func validDraft(kind core.EntryKind, label string, cents int64, p core.Period) core.Draft {
	return core.Draft{
		OccurredOn: core.NewDate(p.Year, p.Month, 15),
		Kind:       kind,
		Label:      label,
		Amount:     core.Money{Cents: cents},
		Period:     p,
	}
}

func TestAddEntryRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := NewLedgerService(store, nil)
	ctx := context.Background()
	p := core.Period{Year: 2024, Month: 3}

	d := validDraft(core.Income, "Salário", 100000, p)
	id, err := svc.AddEntry(ctx, d)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := svc.EntriesFor(ctx, p)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ID != id || e.Kind != d.Kind || e.Label != d.Label || e.Amount != d.Amount ||
		e.Period != d.Period || !e.OccurredOn.Equal(d.OccurredOn.Time) {
		t.Fatalf("fields not preserved: %+v", e)
	}
}

func TestAddEntryRejectsInvalidDraftWithoutWrite(t *testing.T) {
	store := newFakeStore()
	svc := NewLedgerService(store, nil)
	ctx := context.Background()
	p := core.Period{Year: 2024, Month: 3}

	cases := []struct {
		draft core.Draft
		want  error
	}{
		{validDraft(core.Income, "", 100, p), core.ErrEmptyLabel},
		{validDraft(core.Income, "ok", 0, p), core.ErrInvalidAmount},
		{validDraft(core.Income, "ok", -100, p), core.ErrInvalidAmount},
		{validDraft("Transferência", "ok", 100, p), core.ErrInvalidKind},
	}
	for i, tc := range cases {
		if _, err := svc.AddEntry(ctx, tc.draft); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}

	entries, _ := svc.EntriesFor(ctx, p)
	if len(entries) != 0 {
		t.Fatalf("rejected drafts must not be written, found %d entries", len(entries))
	}
}

func TestSummaryForScenario(t *testing.T) {
	store := newFakeStore()
	svc := NewLedgerService(store, nil)
	ctx := context.Background()
	march := core.Period{Year: 2024, Month: 3}

	if _, err := svc.AddEntry(ctx, validDraft(core.Income, "Salário", 100000, march)); err != nil {
		t.Fatalf("add income: %v", err)
	}
	if _, err := svc.AddEntry(ctx, validDraft(core.Expense, "Aluguel", 30000, march)); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	sum, err := svc.SummaryFor(ctx, march)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.IncomeCents != 100000 {
		t.Fatalf("income: expected 100000, got %d", sum.IncomeCents)
	}
	if sum.ExpenseCents != 30000 {
		t.Fatalf("expense: expected 30000, got %d", sum.ExpenseCents)
	}
	if sum.OpeningCents != 0 {
		t.Fatalf("opening: expected 0 for empty prior month, got %d", sum.OpeningCents)
	}
	if sum.ClosingCents != sum.OpeningCents+70000 {
		t.Fatalf("closing: expected opening+70000, got %d", sum.ClosingCents)
	}
}

func TestSummaryForCarriesPriorMonth(t *testing.T) {
	store := newFakeStore()
	svc := NewLedgerService(store, nil)
	ctx := context.Background()
	feb := core.Period{Year: 2024, Month: 2}
	march := core.Period{Year: 2024, Month: 3}

	if _, err := svc.AddEntry(ctx, validDraft(core.Income, "Freela", 50000, feb)); err != nil {
		t.Fatalf("add: %v", err)
	}

	sum, err := svc.SummaryFor(ctx, march)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.OpeningCents != 50000 {
		t.Fatalf("opening: expected 50000 carried from february, got %d", sum.OpeningCents)
	}
	if sum.ClosingCents != 50000 {
		t.Fatalf("closing: expected 50000 with an empty march, got %d", sum.ClosingCents)
	}
}

func TestSummaryForJanuaryLooksAtPriorDecember(t *testing.T) {
	store := newFakeStore()
	svc := NewLedgerService(store, nil)
	ctx := context.Background()

	dec := core.Period{Year: 2023, Month: 12}
	if _, err := svc.AddEntry(ctx, validDraft(core.Income, "Décimo terceiro", 200000, dec)); err != nil {
		t.Fatalf("add: %v", err)
	}

	sum, err := svc.SummaryFor(ctx, core.Period{Year: 2024, Month: 1})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.OpeningCents != 200000 {
		t.Fatalf("opening: expected 200000 from 2023-12, got %d", sum.OpeningCents)
	}
}

func TestRemove(t *testing.T) {
	store := newFakeStore()
	events := &recordingPublisher{}
	svc := NewLedgerService(store, events)
	ctx := context.Background()
	p := core.Period{Year: 2024, Month: 3}

	id1, _ := svc.AddEntry(ctx, validDraft(core.Income, "A", 100, p))
	id2, _ := svc.AddEntry(ctx, validDraft(core.Expense, "B", 200, p))

	// Mix of a real id and a non-existent one: no error, only the real one goes.
	if err := svc.Remove(ctx, []int64{id2, 424242}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	entries, _ := svc.EntriesFor(ctx, p)
	if len(entries) != 1 || entries[0].ID != id1 {
		t.Fatalf("expected only %d to remain, got %+v", id1, entries)
	}

	// Empty set is a no-op and publishes nothing.
	if err := svc.Remove(ctx, nil); err != nil {
		t.Fatalf("empty remove: %v", err)
	}
	if len(events.deleted) != 1 {
		t.Fatalf("expected one delete event, got %d", len(events.deleted))
	}
	if len(events.created) != 2 {
		t.Fatalf("expected two created events, got %d", len(events.created))
	}
}
