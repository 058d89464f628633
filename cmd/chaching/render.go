package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"cha-ching/internal/models"
	"cha-ching/internal/money"

	"github.com/shopspring/decimal"
)

const barWidth = 30

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderCategories(w io.Writer, cats []models.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range cats {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	tw.Flush()
}

func renderExpenses(w io.Writer, list []models.Expense) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No expenses.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, money.Format(e.Amount), e.Description)
	}
	tw.Flush()
}

func renderBudgets(w io.Writer, budgets map[string]decimal.Decimal) {
	if len(budgets) == 0 {
		fmt.Fprintln(w, "No budgets set.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tBUDGET")
	for _, month := range slices.Sorted(maps.Keys(budgets)) {
		fmt.Fprintf(tw, "%s\t%s\n", month, money.Format(budgets[month]))
	}
	tw.Flush()
}

func renderSummary(w io.Writer, s *models.Summary) {
	fmt.Fprintf(w, "Month: %s\n", s.Month)
	fmt.Fprintf(w, "Total Expenses: $%s\n", money.Format(s.TotalSpent))
	if s.Budget == nil {
		fmt.Fprintln(w, "No budget set for this month.")
	} else {
		fmt.Fprintf(w, "Budget: $%s\n", money.Format(*s.Budget))
		fmt.Fprintf(w, "Remaining: $%s\n", money.Format(*s.Remaining))
		if s.OverBudget {
			fmt.Fprintln(w, "Budget exceeded!")
		}
	}

	budget := decimal.Zero
	if s.Budget != nil {
		budget = *s.Budget
	}
	scale := decimal.Max(s.TotalSpent, budget)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Expenses vs Budget")
	fmt.Fprintf(w, "  Expenses %s %s\n", bar(s.TotalSpent, scale), money.Format(s.TotalSpent))
	fmt.Fprintf(w, "  Budget   %s %s\n", bar(budget, scale), money.Format(budget))

	if len(s.ByCategory) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tTOTAL\tSHARE")
	for _, c := range s.ByCategory {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f%%\n", c.Category, c.Count, money.Format(c.Total), c.Percentage)
	}
	tw.Flush()
}

// bar draws v as a share of scale using barWidth cells. Values outside
// [0, scale] are clamped.
func bar(v, scale decimal.Decimal) string {
	n := 0
	if scale.IsPositive() {
		share := v.Div(scale)
		switch {
		case share.GreaterThanOrEqual(decimal.NewFromInt(1)):
			n = barWidth
		case share.IsPositive():
			n = int(share.Mul(decimal.NewFromInt(barWidth)).IntPart())
		}
	}
	return "|" + strings.Repeat("#", n) + strings.Repeat(" ", barWidth-n) + "|"
}
