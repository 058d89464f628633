package tracker

import (
	"cmp"
	"context"
	"slices"

	"cha-ching/internal/auth"
	"cha-ching/internal/models"
	"cha-ching/internal/validate"

	"github.com/shopspring/decimal"
)

// SetBudget sets the session user's budget for month, replacing any
// previous value. amount is raw user input.
func (t *Tracker) SetBudget(ctx context.Context, sess *auth.Session, month, amount string) error {
	user, err := requireUser(sess)
	if err != nil {
		return err
	}
	month, err = validate.Month(month)
	if err != nil {
		return err
	}
	value, err := validate.Amount(amount)
	if err != nil {
		return err
	}

	doc, err := t.load(ctx)
	if err != nil {
		return err
	}
	doc.SetBudget(user.ID, month, value)
	return t.save(ctx, doc)
}

// Budgets returns the session user's budgets keyed by month.
func (t *Tracker) Budgets(ctx context.Context, sess *auth.Session) (map[string]decimal.Decimal, error) {
	user, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(doc.Budgets[user.ID]))
	for month, amount := range doc.Budgets[user.ID] {
		out[month] = amount
	}
	return out, nil
}

// Summary totals the session user's spending for month and compares it with
// the month's budget, if one is set.
func (t *Tracker) Summary(ctx context.Context, sess *auth.Session, month string) (*models.Summary, error) {
	user, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	month, err = validate.Month(month)
	if err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	var budget *decimal.Decimal
	if b, ok := doc.Budget(user.ID, month); ok {
		budget = &b
	}
	s := summarize(month, expensesInMonth(doc.Expenses[user.ID], month), budget)
	return &s, nil
}

// summarize builds the summary of one month's expenses.
func summarize(month string, expenses []models.Expense, budget *decimal.Decimal) models.Summary {
	s := models.Summary{Month: month, Budget: budget, ByCategory: []models.CategoryTotal{}}

	index := make(map[string]int)
	for _, e := range expenses {
		s.TotalSpent = s.TotalSpent.Add(e.Amount)
		i, ok := index[e.Category]
		if !ok {
			i = len(s.ByCategory)
			index[e.Category] = i
			s.ByCategory = append(s.ByCategory, models.CategoryTotal{Category: e.Category})
		}
		s.ByCategory[i].Total = s.ByCategory[i].Total.Add(e.Amount)
		s.ByCategory[i].Count++
	}
	if s.TotalSpent.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range s.ByCategory {
			s.ByCategory[i].Percentage = s.ByCategory[i].Total.Mul(hundred).Div(s.TotalSpent).InexactFloat64()
		}
	}
	slices.SortStableFunc(s.ByCategory, func(a, b models.CategoryTotal) int {
		return cmp.Or(b.Total.Cmp(a.Total), cmp.Compare(a.Category, b.Category))
	})

	if budget != nil {
		remaining := budget.Sub(s.TotalSpent)
		s.Remaining = &remaining
		s.OverBudget = remaining.IsNegative()
	}
	return s
}
