package auth

import "cha-ching/internal/models"

// Session is the login state owned by the caller. The zero value and a nil
// *Session are both logged out.
type Session struct {
	user *models.User
}

// NewSession returns a session logged in as user. Login is the normal way to
// obtain one; this is for callers that already trust the user record.
func NewSession(user models.User) *Session {
	return &Session{user: &user}
}

// User returns the logged-in user, or nil.
func (s *Session) User() *models.User {
	if s == nil || s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Active reports whether someone is logged in.
func (s *Session) Active() bool {
	return s != nil && s.user != nil
}

// IsAdmin reports whether the logged-in user is an admin.
func (s *Session) IsAdmin() bool {
	return s.Active() && s.user.IsAdmin()
}

// Logout clears the session. It is safe to call at any time.
func (s *Session) Logout() {
	if s != nil {
		s.user = nil
	}
}
