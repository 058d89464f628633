package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"cha-ching/internal/auth"
	"cha-ching/internal/tracker"
)

func cmdRegister(ctx context.Context, a *app, args []string) error {
	user, pw, err := a.credentials()
	if err != nil {
		return err
	}
	u, err := a.auth.Register(ctx, user, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "User %s registered with ID %d\n", u.Username, u.ID)
	return nil
}

// withSession runs fn with a fresh session and logs out afterwards.
func withSession(ctx context.Context, a *app, fn func(sess *auth.Session) error) error {
	sess, err := a.login(ctx)
	if err != nil {
		return err
	}
	defer sess.Logout()
	return fn(sess)
}

func subcommand(group string, args []string, names ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("usage: %s %s", group, strings.Join(names, "|"))
	}
	for _, n := range names {
		if args[0] == n {
			return n, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("unknown %s command %q (want %s)", group, args[0], strings.Join(names, "|"))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func cmdCategory(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand("category", args, "list", "add", "delete")
	if err != nil {
		return err
	}
	return withSession(ctx, a, func(sess *auth.Session) error {
		switch sub {
		case "add":
			if len(rest) == 0 {
				return fmt.Errorf("usage: category add NAME")
			}
			c, err := a.tracker.CreateCategory(ctx, sess, strings.Join(rest, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Category %d: %s created\n", c.ID, c.Name)
			return nil
		case "delete":
			if len(rest) != 1 {
				return fmt.Errorf("usage: category delete ID")
			}
			id, err := parseID(rest[0])
			if err != nil {
				return err
			}
			if err := a.tracker.DeleteCategory(ctx, sess, id); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Category %d deleted\n", id)
			return nil
		default:
			cats, err := a.tracker.ListCategories(ctx, sess)
			if err != nil {
				return err
			}
			renderCategories(a.stdout, cats)
			return nil
		}
	})
}

// expenseFlags binds the fields shared by add and edit.
func expenseFlags(a *app, name string) (*flag.FlagSet, *tracker.ExpenseInput) {
	in := &tracker.ExpenseInput{}
	fs := subFlags(name, a)
	fs.StringVar(&in.Category, "category", "", "Category name")
	fs.StringVar(&in.Description, "desc", "", "Description")
	fs.StringVar(&in.Amount, "amount", "", "Amount, e.g. 12.50")
	fs.StringVar(&in.Date, "date", today(), "Date (YYYY-MM-DD)")
	return fs, in
}

func cmdExpense(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand("expense", args, "list", "add", "edit", "delete")
	if err != nil {
		return err
	}

	switch sub {
	case "add":
		fs, in := expenseFlags(a, "expense add")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return withSession(ctx, a, func(sess *auth.Session) error {
			e, err := a.tracker.AddExpense(ctx, sess, *in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Expense %d added: %s %s %s\n", e.ID, e.Date, e.Category, e.Amount)
			return nil
		})

	case "edit":
		fs, in := expenseFlags(a, "expense edit")
		id := fs.Int64("id", 0, "Expense ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id <= 0 {
			return fmt.Errorf("missing required flags: id")
		}
		return withSession(ctx, a, func(sess *auth.Session) error {
			e, err := a.tracker.EditExpense(ctx, sess, *id, *in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Expense %d updated: %s %s %s\n", e.ID, e.Date, e.Category, e.Amount)
			return nil
		})

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: expense delete ID")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		return withSession(ctx, a, func(sess *auth.Session) error {
			if err := a.tracker.DeleteExpense(ctx, sess, id); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Expense %d deleted\n", id)
			return nil
		})

	default:
		fs := subFlags("expense list", a)
		month := fs.String("month", currentMonth(), "Month to show (YYYY-MM)")
		all := fs.Bool("all", false, "Show every month")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *all {
			*month = ""
		}
		return withSession(ctx, a, func(sess *auth.Session) error {
			list, err := a.tracker.ListExpenses(ctx, sess, *month)
			if err != nil {
				return err
			}
			renderExpenses(a.stdout, list)
			return nil
		})
	}
}

func cmdBudget(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand("budget", args, "set", "list")
	if err != nil {
		return err
	}

	if sub == "set" {
		fs := subFlags("budget set", a)
		month := fs.String("month", currentMonth(), "Month (YYYY-MM)")
		amount := fs.String("amount", "", "Budget amount")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return withSession(ctx, a, func(sess *auth.Session) error {
			if err := a.tracker.SetBudget(ctx, sess, *month, *amount); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Budget set for %s\n", strings.TrimSpace(*month))
			return nil
		})
	}

	return withSession(ctx, a, func(sess *auth.Session) error {
		budgets, err := a.tracker.Budgets(ctx, sess)
		if err != nil {
			return err
		}
		renderBudgets(a.stdout, budgets)
		return nil
	})
}

func cmdSummary(ctx context.Context, a *app, args []string) error {
	fs := subFlags("summary", a)
	month := fs.String("month", currentMonth(), "Month (YYYY-MM)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withSession(ctx, a, func(sess *auth.Session) error {
		s, err := a.tracker.Summary(ctx, sess, *month)
		if err != nil {
			return err
		}
		renderSummary(a.stdout, s)
		return nil
	})
}
