// Package tracker implements the category registry, the per-user expense
// ledger and the budget summaries.
//
// Every call loads the document, applies one change and saves it back.
// Categories are managed by admins; ledger and budget calls act on the
// session's own user.
package tracker

import (
	"context"
	"fmt"

	"cha-ching/internal/auth"
	"cha-ching/internal/models"
	"cha-ching/internal/storage"
	"cha-ching/internal/validate"
)

var (
	// ErrNotLoggedIn is returned when a call needs a session and has none.
	ErrNotLoggedIn = &validate.Error{Kind: validate.KindAuth, Msg: "not logged in"}
	// ErrAdminOnly is returned when a regular user manages categories.
	ErrAdminOnly = &validate.Error{Kind: validate.KindPermission, Msg: "admin role required"}
)

// Tracker runs ledger, category and budget operations against a store.
type Tracker struct {
	store storage.Store
}

// New creates a Tracker.
func New(store storage.Store) *Tracker {
	return &Tracker{store: store}
}

func requireUser(sess *auth.Session) (*models.User, error) {
	u := sess.User()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

func requireAdmin(sess *auth.Session) (*models.User, error) {
	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return u, nil
}

func (t *Tracker) load(ctx context.Context) (*models.Document, error) {
	doc, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (t *Tracker) save(ctx context.Context, doc *models.Document) error {
	if err := t.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
