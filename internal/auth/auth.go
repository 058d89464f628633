// Package auth registers users and turns credentials into sessions.
//
// There is no lockout or rate limiting on Login.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cha-ching/internal/models"
	"cha-ching/internal/storage"
	"cha-ching/internal/validate"
)

var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = &validate.Error{Kind: validate.KindAuth, Field: "username", Msg: "already exists"}
	// ErrInvalidCredentials is returned for any username/password mismatch.
	ErrInvalidCredentials = &validate.Error{Kind: validate.KindAuth, Msg: "invalid username or password"}
)

// Authenticator manages the users collection of the document.
type Authenticator struct {
	store      storage.Store
	bcryptCost int
	now        func() time.Time
}

// NewAuthenticator creates an Authenticator. A bcryptCost of 0 uses the
// bcrypt default.
func NewAuthenticator(store storage.Store, bcryptCost int) *Authenticator {
	return &Authenticator{store: store, bcryptCost: bcryptCost, now: time.Now}
}

// Register creates a regular user.
func (a *Authenticator) Register(ctx context.Context, username, password string) (*models.User, error) {
	return a.create(ctx, username, password, models.RoleUser)
}

// RegisterAdmin creates an admin user. Admins are only ever created through
// this call; Register never promotes.
func (a *Authenticator) RegisterAdmin(ctx context.Context, username, password string) (*models.User, error) {
	return a.create(ctx, username, password, models.RoleAdmin)
}

func (a *Authenticator) create(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	username, err := validate.Credentials(username, password)
	if err != nil {
		return nil, err
	}

	doc, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if _, exists := doc.UserByUsername(username); exists {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(password, a.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           doc.NextUserID(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    a.now().UTC(),
	}
	doc.Users = append(doc.Users, user)

	if err := a.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return &user, nil
}

// Login checks credentials and returns a new session for the user. Any
// mismatch returns ErrInvalidCredentials and a nil session.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	doc, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	user, ok := doc.UserByUsername(strings.TrimSpace(username))
	if !ok || !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return NewSession(*user), nil
}

// UserCount returns the number of registered users.
func (a *Authenticator) UserCount(ctx context.Context) (int, error) {
	doc, err := a.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}
	return len(doc.Users), nil
}
