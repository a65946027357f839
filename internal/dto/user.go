package dto

import "github.com/dejan-marlovic/relief-finance/internal/core/domain"

// CreateUserRequest defines the payload for creating an operator account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ToUserResponse converts a domain user to its API representation. The
// password hash never leaves the service layer.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Name:     u.Name,
	}
}
