// Package refreshtokens declares the repository contract for issued refresh
// tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/civicops/drconsole/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid until expires.
	Create(ctx context.Context, userID, token string, expires time.Time) error

	// Find returns the token joined with its owner. A missing token yields
	// common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every token that expired before now and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
