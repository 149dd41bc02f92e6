package domain

import "time"

const (
	RoleRenter = "renter"
	RoleAdmin  = "admin"
)

type User struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedOn    time.Time `json:"created_on"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Caller is the resolved identity attached to every authenticated request.
type Caller struct {
	UserID int32
	Email  string
	Roles  []string
}

func (c Caller) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
