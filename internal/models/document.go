package models

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Document is the single aggregate of all persisted state.
type Document struct {
	Users      []User                               `json:"users"`
	Categories map[int64]Category                   `json:"categories"`
	Expenses   map[int64][]Expense                  `json:"expenses"`
	Budgets    map[int64]map[string]decimal.Decimal `json:"budgets"`
	// NextExpenseID is the next value of the expense ID counter shared by
	// all users. It only ever grows.
	NextExpenseID int64 `json:"next_expense_id"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize fills nil collections, aligns category IDs with their keys and
// moves the expense counter past any stored ID so a document written
// without a counter cannot hand out duplicates.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Categories == nil {
		d.Categories = make(map[int64]Category)
	}
	if d.Expenses == nil {
		d.Expenses = make(map[int64][]Expense)
	}
	if d.Budgets == nil {
		d.Budgets = make(map[int64]map[string]decimal.Decimal)
	}
	for id, c := range d.Categories {
		if c.ID != id {
			c.ID = id
			d.Categories[id] = c
		}
	}
	for _, list := range d.Expenses {
		for _, e := range list {
			if e.ID >= d.NextExpenseID {
				d.NextExpenseID = e.ID + 1
			}
		}
	}
	if d.NextExpenseID < 1 {
		d.NextExpenseID = 1
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		Users:         slices.Clone(d.Users),
		Categories:    maps.Clone(d.Categories),
		Expenses:      make(map[int64][]Expense, len(d.Expenses)),
		Budgets:       make(map[int64]map[string]decimal.Decimal, len(d.Budgets)),
		NextExpenseID: d.NextExpenseID,
	}
	for id, list := range d.Expenses {
		c.Expenses[id] = slices.Clone(list)
	}
	for id, months := range d.Budgets {
		c.Budgets[id] = maps.Clone(months)
	}
	c.Normalize()
	return c
}

// UserByUsername returns the user with exactly this username.
func (d *Document) UserByUsername(username string) (*User, bool) {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// NextUserID returns max(user IDs) + 1. Users are never deleted, so IDs are
// never reused.
func (d *Document) NextUserID() int64 {
	var maxID int64
	for _, u := range d.Users {
		maxID = max(maxID, u.ID)
	}
	return maxID + 1
}

// NextCategoryID returns max(category IDs) + 1. Deleting the highest
// category makes its ID available again.
func (d *Document) NextCategoryID() int64 {
	var maxID int64
	for id := range d.Categories {
		maxID = max(maxID, id)
	}
	return maxID + 1
}

// CategoryByName returns the category with exactly this name.
func (d *Document) CategoryByName(name string) (Category, bool) {
	for _, c := range d.SortedCategories() {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// SortedCategories returns all categories ordered by ID.
func (d *Document) SortedCategories() []Category {
	out := make([]Category, 0, len(d.Categories))
	for _, id := range slices.Sorted(maps.Keys(d.Categories)) {
		out = append(out, d.Categories[id])
	}
	return out
}

// AllocateExpenseID returns the next expense ID and advances the counter.
func (d *Document) AllocateExpenseID() int64 {
	if d.NextExpenseID < 1 {
		d.NextExpenseID = 1
	}
	id := d.NextExpenseID
	d.NextExpenseID++
	return id
}

// Budget returns the user's budget for month, if set.
func (d *Document) Budget(userID int64, month string) (decimal.Decimal, bool) {
	b, ok := d.Budgets[userID][month]
	return b, ok
}

// SetBudget stores or overwrites a user's budget for month.
func (d *Document) SetBudget(userID int64, month string, amount decimal.Decimal) {
	if d.Budgets[userID] == nil {
		d.Budgets[userID] = make(map[string]decimal.Decimal)
	}
	d.Budgets[userID][month] = amount
}
