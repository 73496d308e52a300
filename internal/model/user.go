package model

// User represents a user account on the backend. It is an independent
// server-side entity referenced by id; the client never owns one.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
