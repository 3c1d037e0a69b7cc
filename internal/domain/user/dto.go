// internal/domain/user/dto.go
package user

import "time"

type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Summary   `json:"user"`
}

type Summary struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	AgentCode   string `json:"agentCode"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
}

type CreateAgentRequest struct {
	DisplayName string `json:"displayName" binding:"required,max=255"`
	AgentCode   string `json:"agentCode" binding:"required,max=64"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Mobile      string `json:"mobile" binding:"required,max=20"`
	Password    string `json:"password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
