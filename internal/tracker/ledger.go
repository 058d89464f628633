package tracker

import (
	"context"
	"slices"
	"strings"

	"cha-ching/internal/auth"
	"cha-ching/internal/models"
	"cha-ching/internal/validate"
)

// ExpenseInput is the raw, unvalidated form of an expense.
type ExpenseInput struct {
	Category    string
	Description string
	Amount      string
	Date        string
}

// errExpenseNotFound reports an expense ID that is not in the caller's
// ledger.
func errExpenseNotFound(id int64) error {
	return validate.NotFound("expense %d not found", id)
}

// parseExpense validates in against doc and returns the checked fields.
func parseExpense(doc *models.Document, in ExpenseInput) (models.Expense, error) {
	var e models.Expense

	name := strings.TrimSpace(in.Category)
	if name == "" {
		return e, validate.Invalid("category", "is required")
	}
	cat, ok := doc.CategoryByName(name)
	if !ok {
		return e, validate.Invalid("category", "unknown category %q", name)
	}
	desc, err := validate.Description(in.Description)
	if err != nil {
		return e, err
	}
	amount, err := validate.Amount(in.Amount)
	if err != nil {
		return e, err
	}
	date, err := validate.Date(in.Date)
	if err != nil {
		return e, err
	}

	e.Category = cat.Name
	e.Description = desc
	e.Amount = amount
	e.Date = date
	return e, nil
}

// AddExpense appends a new expense to the session user's ledger. The ID
// comes from the counter shared by all users and is never reused.
func (t *Tracker) AddExpense(ctx context.Context, sess *auth.Session, in ExpenseInput) (*models.Expense, error) {
	user, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	e, err := parseExpense(doc, in)
	if err != nil {
		return nil, err
	}
	e.ID = doc.AllocateExpenseID()
	e.UserID = user.ID
	doc.Expenses[user.ID] = append(doc.Expenses[user.ID], e)

	if err := t.save(ctx, doc); err != nil {
		return nil, err
	}
	return &e, nil
}

// EditExpense replaces the category, description, amount and date of one of
// the session user's expenses, keeping its ID and position.
func (t *Tracker) EditExpense(ctx context.Context, sess *auth.Session, id int64, in ExpenseInput) (*models.Expense, error) {
	user, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	list := doc.Expenses[user.ID]
	i := slices.IndexFunc(list, func(e models.Expense) bool { return e.ID == id })
	if i < 0 {
		return nil, errExpenseNotFound(id)
	}
	e, err := parseExpense(doc, in)
	if err != nil {
		return nil, err
	}
	e.ID = id
	e.UserID = user.ID
	list[i] = e

	if err := t.save(ctx, doc); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteExpense removes one of the session user's expenses. An unknown ID
// leaves the document untouched and returns a not-found error.
func (t *Tracker) DeleteExpense(ctx context.Context, sess *auth.Session, id int64) error {
	user, err := requireUser(sess)
	if err != nil {
		return err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return err
	}

	list := doc.Expenses[user.ID]
	i := slices.IndexFunc(list, func(e models.Expense) bool { return e.ID == id })
	if i < 0 {
		return errExpenseNotFound(id)
	}
	doc.Expenses[user.ID] = slices.Delete(list, i, i+1)
	return t.save(ctx, doc)
}

// ListExpenses returns the session user's expenses in insertion order. A
// non-empty month (YYYY-MM) keeps only expenses dated in that month.
func (t *Tracker) ListExpenses(ctx context.Context, sess *auth.Session, month string) ([]models.Expense, error) {
	user, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(month) != "" {
		if month, err = validate.Month(month); err != nil {
			return nil, err
		}
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	return expensesInMonth(doc.Expenses[user.ID], month), nil
}

// expensesInMonth filters by date prefix; an empty month matches all.
func expensesInMonth(list []models.Expense, month string) []models.Expense {
	out := make([]models.Expense, 0, len(list))
	for _, e := range list {
		if strings.HasPrefix(e.Date, month) {
			out = append(out, e)
		}
	}
	return out
}
