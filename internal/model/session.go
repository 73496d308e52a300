package model

// Session is the authenticated identity held by the client for the duration
// of use. A Session is either fully populated or absent; no field is ever
// guessed or defaulted.
type Session struct {
	Token  string `json:"token"`
	Role   Role   `json:"role"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Complete reports whether every required field is set. An incomplete
// session must be treated as no session at all.
func (s Session) Complete() bool {
	return s.Token != "" && s.Role.Valid() && s.UserID != "" && s.Name != ""
}
