// internal/domain/user/entity.go
package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// User is an admin or agent credential. Only the password ever changes.
type User struct {
	ID           int64     `json:"id" db:"id"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	AgentCode    string    `json:"agentCode" db:"agent_code"`
	Email        string    `json:"email" db:"email"`
	Mobile       string    `json:"mobile" db:"mobile"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Actor is the authenticated caller of a request, resolved once by the auth
// middleware and handed explicitly to every service call.
type Actor struct {
	ID          int64
	Role        Role
	DisplayName string
	Email       string
	TokenID     string
	ExpiresAt   time.Time
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Actor projects the user into a request actor.
func (u *User) Actor() *Actor {
	return &Actor{
		ID:          u.ID,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
}

// Summary is the public view returned by login and /me.
func (u *User) Summary() Summary {
	return Summary{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AgentCode:   u.AgentCode,
		Role:        u.Role,
		Email:       u.Email,
	}
}
