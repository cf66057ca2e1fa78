package session

// Session is the per-login authentication state. It is an immutable value:
// Login produces a new logged-in session, Logout deletes the stored record,
// and nothing mutates one in place.
type Session struct {
	LoggedIn bool   `json:"logged_in"`
	UID      string `json:"uid"`
	Email    string `json:"email"`
}

// LoggedOut is the all-default session every request starts from.
func LoggedOut() Session {
	return Session{}
}
