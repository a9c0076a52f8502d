// Package users declares the repository contract for console operators.
package users

import (
	"context"

	"github.com/civicops/drconsole/internal/server/models"
)

type Repository interface {
	// Create stores user and fills in its id. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
