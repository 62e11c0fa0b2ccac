package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Lastname      string        `json:"lastname"`
	Email         string        `json:"email"`
	PasswordHash  string        `json:"password,omitempty"`
	Active        bool          `json:"active"`
	RoleID        int           `json:"role_id"`
	Tier          Tier          `json:"tier"`
	AutopilotMode AutopilotMode `json:"autopilot_mode"`
	Deleted       bool          `json:"deleted"`
	DeletedAt     *time.Time    `json:"deleted_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID            int     `json:"id"`
	Name          *string `json:"name"`
	Lastname      *string `json:"lastname"`
	Email         *string `json:"email"`
	Active        *bool   `json:"active"`
	RoleID        *int    `json:"role_id"`
	Tier          *string `json:"tier"`
	AutopilotMode *string `json:"autopilot_mode"`
	Deleted       *bool   `json:"deleted"`
}

// UpdateAutopilotRequest atualiza as preferências de automação do próprio usuário
type UpdateAutopilotRequest struct {
	AutopilotMode string `json:"autopilot_mode"`
}

type Claims struct {
	UserID       int
	UserName     string
	UserLastname string
	UserEmail    string
	UserActive   bool
	UserRoleID   int
	UserTier     Tier
	jwt.RegisteredClaims
}
