package domain

const (
	RoleUser   = "user"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// Principal is the identity behind an authenticated session.
type Principal struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether p carries the admin role. A nil principal is never admin.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
