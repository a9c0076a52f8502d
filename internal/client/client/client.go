package client

import (
	"context"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/rpc"
)

// Client is the full server API used by the console.
type Client interface {
	List(ctx context.Context, collection string, filters map[string]string) ([]models.Resource, error)
	Create(ctx context.Context, collection string, fields map[string]any) (models.Resource, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) (models.Resource, error)
	Delete(ctx context.Context, collection, id string) error

	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Ping(ctx context.Context) error
	PresignUpload(ctx context.Context) (rpc.Upload, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	Close() error
}
