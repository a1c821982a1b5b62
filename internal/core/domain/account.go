package domain

import "time"

// Account is a customer record owned by the order backend.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal projects the account into the identity handed to clients.
func (a *Account) Principal() Principal {
	return Principal{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
