package services

import (
	"context"
	"fmt"
	"io"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/syncstore"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/netx"
	"github.com/civicops/drconsole/internal/rpc"
)

// PresignClient issues object storage URLs.
type PresignClient interface {
	PresignUpload(ctx context.Context) (rpc.Upload, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

// DocumentStore is the part of syncstore.Store[models.Document] used here.
type DocumentStore interface {
	Get(id string) (models.Document, bool)
	Update(ctx context.Context, id string, patch syncstore.Patch) (models.Document, error)
}

// DocumentService attaches files to entries of the resources collection.
type DocumentService struct {
	presign PresignClient
	store   DocumentStore

	// put sends a file body to a presigned URL.
	put func(ctx context.Context, url string, body io.Reader) error
}

func NewDocumentService(p PresignClient, store DocumentStore) *DocumentService {
	return &DocumentService{
		presign: p,
		store:   store,
		put: func(ctx context.Context, url string, body io.Reader) error {
			return netx.PutPresigned(ctx, nil, url, body)
		},
	}
}

// Attach reserves a storage key for the resource and records it. The
// returned URL accepts one HTTP PUT of the file body.
func (s *DocumentService) Attach(ctx context.Context, id string) (string, error) {
	if _, ok := s.store.Get(id); !ok {
		return "", fmt.Errorf("resource %s: %w", id, common.ErrorNotFound)
	}
	up, err := s.presign.PresignUpload(ctx)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	if _, err := s.store.Update(ctx, id, syncstore.Patch{models.DocumentKey: up.Key}); err != nil {
		return "", err
	}
	return up.URL, nil
}

// AttachFile uploads body to fresh storage and records the key on the
// resource. The key is only recorded after the upload succeeded.
func (s *DocumentService) AttachFile(ctx context.Context, id string, body io.Reader) (string, error) {
	if _, ok := s.store.Get(id); !ok {
		return "", fmt.Errorf("resource %s: %w", id, common.ErrorNotFound)
	}
	up, err := s.presign.PresignUpload(ctx)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	if err := s.put(ctx, up.URL, body); err != nil {
		return "", fmt.Errorf("upload %s: %w", up.Key, err)
	}
	if _, err := s.store.Update(ctx, id, syncstore.Patch{models.DocumentKey: up.Key}); err != nil {
		return "", err
	}
	return up.Key, nil
}

// DownloadURL returns a time-limited GET URL for the resource's file.
func (s *DocumentService) DownloadURL(ctx context.Context, id string) (string, error) {
	d, ok := s.store.Get(id)
	if !ok {
		return "", fmt.Errorf("resource %s: %w", id, common.ErrorNotFound)
	}
	if d.Key == "" {
		return "", fmt.Errorf("resource %s has no document: %w", id, common.ErrorNotFound)
	}
	return s.presign.PresignDownload(ctx, d.Key)
}
