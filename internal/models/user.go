package models

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never leaves the server
}

// Session is the authenticated identity carried by the session cookie.
// A zero UserID means the request is anonymous.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Authenticated reports whether the session is bound to a user.
func (s Session) Authenticated() bool {
	return s.UserID > 0
}
