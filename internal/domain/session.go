package domain

// Session is the live binding of one connection to a username and room.
// Sessions are owned by the registry; values are immutable once bound and a
// re-join replaces the whole Session rather than mutating it.
type Session struct {
	ConnID   string `json:"-"`
	Username string `json:"username"`
	Room     string `json:"room"`
}
