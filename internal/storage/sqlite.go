package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cha-ching/internal/models"

	"github.com/shopspring/decimal"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

const expenseCounter = "next_expense_id"

// SQLiteStore keeps the document in a SQLite database. Each Save replaces
// every row inside one transaction.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens the database at path and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared across calls.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLiteStore{conn: conn}, nil
}

// Load reads all tables into a document.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Document, error) {
	doc := models.NewDocument()

	if err := s.loadUsers(ctx, doc); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if err := s.loadCategories(ctx, doc); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if err := s.loadExpenses(ctx, doc); err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	if err := s.loadBudgets(ctx, doc); err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}

	var next int64
	err := s.conn.QueryRowContext(ctx, "SELECT value FROM counters WHERE name = ?", expenseCounter).Scan(&next)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load counter: %w", err)
	}
	doc.NextExpenseID = next
	doc.Normalize()
	return doc, nil
}

func (s *SQLiteStore) loadUsers(ctx context.Context, doc *models.Document) error {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, username, password_hash, role, created_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &createdAt); err != nil {
			return err
		}
		if u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
		doc.Users = append(doc.Users, u)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadCategories(ctx context.Context, doc *models.Document) error {
	rows, err := s.conn.QueryContext(ctx, "SELECT id, name, owner_id FROM categories")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID); err != nil {
			return err
		}
		doc.Categories[c.ID] = c
	}
	return rows.Err()
}

func (s *SQLiteStore) loadExpenses(ctx context.Context, doc *models.Document) error {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, category, description, amount, date
		FROM expenses
		ORDER BY user_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Category, &e.Description, &e.Amount, &e.Date); err != nil {
			return err
		}
		doc.Expenses[e.UserID] = append(doc.Expenses[e.UserID], e)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadBudgets(ctx context.Context, doc *models.Document) error {
	rows, err := s.conn.QueryContext(ctx, "SELECT user_id, month, amount FROM budgets")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var month string
		var amount decimal.Decimal
		if err := rows.Scan(&userID, &month, &amount); err != nil {
			return err
		}
		doc.SetBudget(userID, month, amount)
	}
	return rows.Err()
}

// Save replaces the stored document with doc.
func (s *SQLiteStore) Save(ctx context.Context, doc *models.Document) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"users", "categories", "expenses", "budgets", "counters"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, u := range doc.Users {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)",
			u.ID, u.Username, u.PasswordHash, string(u.Role), u.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert user %d: %w", u.ID, err)
		}
	}
	for _, c := range doc.Categories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (id, name, owner_id) VALUES (?, ?, ?)",
			c.ID, c.Name, c.OwnerID,
		); err != nil {
			return fmt.Errorf("insert category %d: %w", c.ID, err)
		}
	}
	for userID, list := range doc.Expenses {
		for pos, e := range list {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO expenses (id, user_id, position, category, description, amount, date) VALUES (?, ?, ?, ?, ?, ?, ?)",
				e.ID, userID, pos, e.Category, e.Description, e.Amount.String(), e.Date,
			); err != nil {
				return fmt.Errorf("insert expense %d: %w", e.ID, err)
			}
		}
	}
	for userID, months := range doc.Budgets {
		for month, amount := range months {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO budgets (user_id, month, amount) VALUES (?, ?, ?)",
				userID, month, amount.String(),
			); err != nil {
				return fmt.Errorf("insert budget %d/%s: %w", userID, month, err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO counters (name, value) VALUES (?, ?)", expenseCounter, doc.NextExpenseID,
	); err != nil {
		return fmt.Errorf("save counter: %w", err)
	}

	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
