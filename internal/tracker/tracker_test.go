package tracker

import (
	"context"
	"testing"

	"cha-ching/internal/auth"
	"cha-ching/internal/models"
	"cha-ching/internal/money"
	"cha-ching/internal/storage"
	"cha-ching/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// TrackerTestSuite wires a tracker to a fresh in-memory store with one admin
// and two regular users already logged in.
type TrackerTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   storage.Store
	tracker *Tracker

	admin *auth.Session
	alice *auth.Session
	bob   *auth.Session
}

func (suite *TrackerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = storage.NewMemoryStore()
	suite.tracker = New(suite.store)

	a := auth.NewAuthenticator(suite.store, bcrypt.MinCost)
	_, err := a.RegisterAdmin(suite.ctx, "admin", "admin-pw")
	require.NoError(suite.T(), err)
	_, err = a.Register(suite.ctx, "alice", "alice-pw")
	require.NoError(suite.T(), err)
	_, err = a.Register(suite.ctx, "bob", "bob-pw")
	require.NoError(suite.T(), err)

	suite.admin, err = a.Login(suite.ctx, "admin", "admin-pw")
	require.NoError(suite.T(), err)
	suite.alice, err = a.Login(suite.ctx, "alice", "alice-pw")
	require.NoError(suite.T(), err)
	suite.bob, err = a.Login(suite.ctx, "bob", "bob-pw")
	require.NoError(suite.T(), err)
}

func (suite *TrackerTestSuite) createCategories(names ...string) {
	for _, n := range names {
		_, err := suite.tracker.CreateCategory(suite.ctx, suite.admin, n)
		require.NoError(suite.T(), err, "failed to create category %s", n)
	}
}

func (suite *TrackerTestSuite) addExpense(sess *auth.Session, in ExpenseInput) *models.Expense {
	e, err := suite.tracker.AddExpense(suite.ctx, sess, in)
	require.NoError(suite.T(), err, "failed to add expense: %s", in.Description)
	return e
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

// Categories

func (suite *TrackerTestSuite) TestCreateCategory() {
	c, err := suite.tracker.CreateCategory(suite.ctx, suite.admin, "  Food ")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), c.ID)
	assert.Equal(suite.T(), "Food", c.Name)
	assert.Equal(suite.T(), suite.admin.User().ID, c.OwnerID)

	cats, err := suite.tracker.ListCategories(suite.ctx, suite.alice)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []models.Category{*c}, cats)
}

func (suite *TrackerTestSuite) TestCreateCategoryValidation() {
	_, err := suite.tracker.CreateCategory(suite.ctx, suite.admin, "   ")
	assert.ErrorIs(suite.T(), err, validate.ErrValidation)

	suite.createCategories("Food")
	_, err = suite.tracker.CreateCategory(suite.ctx, suite.admin, "Food")
	assert.ErrorIs(suite.T(), err, validate.ErrValidation)
}

func (suite *TrackerTestSuite) TestCategoryIDReuse() {
	suite.createCategories("Food", "Rent")
	require.NoError(suite.T(), suite.tracker.DeleteCategory(suite.ctx, suite.admin, 2))

	c, err := suite.tracker.CreateCategory(suite.ctx, suite.admin, "Travel")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), c.ID)
}

func (suite *TrackerTestSuite) TestDeleteCategory() {
	suite.createCategories("Food", "Rent", "Travel")

	require.NoError(suite.T(), suite.tracker.DeleteCategory(suite.ctx, suite.admin, 2))
	require.NoError(suite.T(), suite.tracker.DeleteCategory(suite.ctx, suite.admin, 42), "unknown ID is a no-op")

	cats, err := suite.tracker.ListCategories(suite.ctx, suite.admin)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), cats, 2)
	assert.Equal(suite.T(), "Food", cats[0].Name)
	assert.Equal(suite.T(), "Travel", cats[1].Name)
}

func (suite *TrackerTestSuite) TestDeleteCategoryKeepsExpenseNames() {
	suite.createCategories("Food")
	suite.addExpense(suite.alice, ExpenseInput{Category: "Food", Description: "Lunch", Amount: "12.50", Date: "2024-03-15"})

	require.NoError(suite.T(), suite.tracker.DeleteCategory(suite.ctx, suite.admin, 1))

	list, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), "Food", list[0].Category)

	_, err = suite.tracker.AddExpense(suite.ctx, suite.alice, ExpenseInput{Category: "Food", Description: "Dinner", Amount: "20", Date: "2024-03-16"})
	assert.ErrorIs(suite.T(), err, validate.ErrValidation, "deleted category cannot be used for new expenses")
}

func (suite *TrackerTestSuite) TestCategoriesRequireAdmin() {
	_, err := suite.tracker.CreateCategory(suite.ctx, suite.alice, "Food")
	assert.ErrorIs(suite.T(), err, ErrAdminOnly)
	assert.ErrorIs(suite.T(), err, validate.ErrPermission)

	assert.ErrorIs(suite.T(), suite.tracker.DeleteCategory(suite.ctx, suite.alice, 1), ErrAdminOnly)

	_, err = suite.tracker.CreateCategory(suite.ctx, nil, "Food")
	assert.ErrorIs(suite.T(), err, ErrNotLoggedIn)

	_, err = suite.tracker.ListCategories(suite.ctx, &auth.Session{})
	assert.ErrorIs(suite.T(), err, ErrNotLoggedIn)
}

// Ledger

func (suite *TrackerTestSuite) TestAddAndListPreservesInsertionOrder() {
	suite.createCategories("Food", "Travel")
	inputs := []ExpenseInput{
		{Category: "Travel", Description: "Train", Amount: "42", Date: "2024-03-20"},
		{Category: "Food", Description: "Lunch", Amount: "12.50", Date: "2024-03-15"},
		{Category: "Food", Description: "Snack", Amount: "3.20", Date: "2024-02-28"},
	}
	var added []models.Expense
	for _, in := range inputs {
		added = append(added, *suite.addExpense(suite.alice, in))
	}

	list, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), added, list)

	march, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "2024-03")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), march, 2)
	assert.Equal(suite.T(), "Train", march[0].Description, "month filter must not re-sort")
	assert.Equal(suite.T(), "Lunch", march[1].Description)
}

func (suite *TrackerTestSuite) TestAddExpenseFields() {
	suite.createCategories("Food")
	e := suite.addExpense(suite.alice, ExpenseInput{Category: " Food ", Description: " Lunch ", Amount: "12,5", Date: "2024-03-15"})

	assert.Equal(suite.T(), int64(1), e.ID)
	assert.Equal(suite.T(), suite.alice.User().ID, e.UserID)
	assert.Equal(suite.T(), "Food", e.Category)
	assert.Equal(suite.T(), "Lunch", e.Description)
	assert.Equal(suite.T(), "12.50", money.Format(e.Amount))
	assert.Equal(suite.T(), "2024-03-15", e.Date)
}

func (suite *TrackerTestSuite) TestAddExpenseValidation() {
	suite.createCategories("Food")
	valid := ExpenseInput{Category: "Food", Description: "Lunch", Amount: "12.50", Date: "2024-03-15"}

	tests := []struct {
		name   string
		mutate func(in *ExpenseInput)
	}{
		{"unknown category", func(in *ExpenseInput) { in.Category = "Rent" }},
		{"empty category", func(in *ExpenseInput) { in.Category = "" }},
		{"category case differs", func(in *ExpenseInput) { in.Category = "food" }},
		{"empty description", func(in *ExpenseInput) { in.Description = "  " }},
		{"zero amount", func(in *ExpenseInput) { in.Amount = "0" }},
		{"negative amount", func(in *ExpenseInput) { in.Amount = "-5" }},
		{"non-numeric amount", func(in *ExpenseInput) { in.Amount = "ten" }},
		{"bad date", func(in *ExpenseInput) { in.Date = "2024-02-30" }},
		{"wrong date format", func(in *ExpenseInput) { in.Date = "15/03/2024" }},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			in := valid
			tt.mutate(&in)
			_, err := suite.tracker.AddExpense(suite.ctx, suite.alice, in)
			assert.ErrorIs(suite.T(), err, validate.ErrValidation)
		})
	}

	list, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)
}

func (suite *TrackerTestSuite) TestExpenseIDsAreGlobalAndNotReused() {
	suite.createCategories("Food")
	in := ExpenseInput{Category: "Food", Description: "Lunch", Amount: "10", Date: "2024-03-15"}

	a1 := suite.addExpense(suite.alice, in)
	b1 := suite.addExpense(suite.bob, in)
	a2 := suite.addExpense(suite.alice, in)
	assert.Equal(suite.T(), []int64{1, 2, 3}, []int64{a1.ID, b1.ID, a2.ID})

	require.NoError(suite.T(), suite.tracker.DeleteExpense(suite.ctx, suite.alice, a2.ID))

	// A fresh tracker over the same store must continue the counter.
	next, err := New(suite.store).AddExpense(suite.ctx, suite.alice, in)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), next.ID)
}

func (suite *TrackerTestSuite) TestEditExpense() {
	suite.createCategories("Food", "Travel")
	e := suite.addExpense(suite.alice, ExpenseInput{Category: "Food", Description: "Lunch", Amount: "12.50", Date: "2024-03-15"})
	suite.addExpense(suite.alice, ExpenseInput{Category: "Food", Description: "Dinner", Amount: "30", Date: "2024-03-16"})

	edited, err := suite.tracker.EditExpense(suite.ctx, suite.alice, e.ID,
		ExpenseInput{Category: "Travel", Description: "Taxi", Amount: "25.00", Date: "2024-04-02"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), e.ID, edited.ID)

	march, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "2024-03")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), march, 1)
	assert.Equal(suite.T(), "Dinner", march[0].Description)

	april, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "2024-04")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), april, 1)
	got := april[0]
	assert.Equal(suite.T(), e.ID, got.ID)
	assert.Equal(suite.T(), e.UserID, got.UserID)
	assert.Equal(suite.T(), "Travel", got.Category)
	assert.Equal(suite.T(), "Taxi", got.Description)
	assert.Equal(suite.T(), "25.00", money.Format(got.Amount))
	assert.Equal(suite.T(), "2024-04-02", got.Date)

	all, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), e.ID, all[0].ID, "edit keeps the position")
}

func (suite *TrackerTestSuite) TestEditExpenseErrors() {
	suite.createCategories("Food")
	e := suite.addExpense(suite.alice, ExpenseInput{Category: "Food", Description: "Lunch", Amount: "12.50", Date: "2024-03-15"})
	in := ExpenseInput{Category: "Food", Description: "Changed", Amount: "1", Date: "2024-03-15"}

	_, err := suite.tracker.EditExpense(suite.ctx, suite.alice, 99, in)
	assert.ErrorIs(suite.T(), err, validate.ErrNotFound)

	_, err = suite.tracker.EditExpense(suite.ctx, suite.bob, e.ID, in)
	assert.ErrorIs(suite.T(), err, validate.ErrNotFound, "another user's expense is not visible")

	_, err = suite.tracker.EditExpense(suite.ctx, suite.alice, e.ID, ExpenseInput{Category: "Food", Description: "x", Amount: "0", Date: "2024-03-15"})
	assert.ErrorIs(suite.T(), err, validate.ErrValidation)

	list, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Lunch", list[0].Description)
}

func (suite *TrackerTestSuite) TestDeleteExpense() {
	suite.createCategories("Food")
	in := ExpenseInput{Category: "Food", Description: "Lunch", Amount: "10", Date: "2024-03-15"}
	e1 := suite.addExpense(suite.alice, in)
	e2 := suite.addExpense(suite.alice, in)
	e3 := suite.addExpense(suite.alice, in)

	require.NoError(suite.T(), suite.tracker.DeleteExpense(suite.ctx, suite.alice, e2.ID))

	err := suite.tracker.DeleteExpense(suite.ctx, suite.alice, 99)
	assert.ErrorIs(suite.T(), err, validate.ErrNotFound)
	err = suite.tracker.DeleteExpense(suite.ctx, suite.bob, e1.ID)
	assert.ErrorIs(suite.T(), err, validate.ErrNotFound)

	list, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 2)
	assert.Equal(suite.T(), e1.ID, list[0].ID)
	assert.Equal(suite.T(), e3.ID, list[1].ID)
}

func (suite *TrackerTestSuite) TestLedgerIsPerUser() {
	suite.createCategories("Food")
	suite.addExpense(suite.alice, ExpenseInput{Category: "Food", Description: "Lunch", Amount: "10", Date: "2024-03-15"})

	list, err := suite.tracker.ListExpenses(suite.ctx, suite.bob, "")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)
}

func (suite *TrackerTestSuite) TestListExpensesMonthValidation() {
	_, err := suite.tracker.ListExpenses(suite.ctx, suite.alice, "2024-3")
	assert.ErrorIs(suite.T(), err, validate.ErrValidation)
}

func (suite *TrackerTestSuite) TestLedgerRequiresSession() {
	suite.createCategories("Food")
	in := ExpenseInput{Category: "Food", Description: "Lunch", Amount: "10", Date: "2024-03-15"}

	suite.alice.Logout()
	_, err := suite.tracker.AddExpense(suite.ctx, suite.alice, in)
	assert.ErrorIs(suite.T(), err, ErrNotLoggedIn)
	_, err = suite.tracker.ListExpenses(suite.ctx, suite.alice, "")
	assert.ErrorIs(suite.T(), err, validate.ErrAuth)
	assert.ErrorIs(suite.T(), suite.tracker.DeleteExpense(suite.ctx, suite.alice, 1), ErrNotLoggedIn)
	assert.ErrorIs(suite.T(), suite.tracker.SetBudget(suite.ctx, suite.alice, "2024-03", "100"), ErrNotLoggedIn)
	_, err = suite.tracker.Summary(suite.ctx, suite.alice, "2024-03")
	assert.ErrorIs(suite.T(), err, ErrNotLoggedIn)
}
