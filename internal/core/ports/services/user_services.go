package services

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
)

// UserSvcFacade manages operator accounts and credential checks.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// Authenticate verifies a username/password pair and returns the user.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}
