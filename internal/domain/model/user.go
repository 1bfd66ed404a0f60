package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AdminIdentity is rebuilt on every request from a verified bearer token. It
// is never stored.
type AdminIdentity struct {
	Subject string `json:"sub"`
	Issuer  string `json:"iss,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Account is a row of the accounts table.
type Account struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Not exposed
}
