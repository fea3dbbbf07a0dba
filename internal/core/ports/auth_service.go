package ports

import (
	"context"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
)

// CreateUserInput carries the fields an administrator supplies for a new user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}
