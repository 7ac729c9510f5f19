package repository

import (
	"context"
	"errors"

	"InstaCatalog/entity"
)

var ErrNotFound = errors.New("not found")

// Repository is the storage contract shared by MongoDB and MemoryStore.
type Repository interface {
	SaveCatalog(ctx context.Context, catalog *entity.Catalog) error
	GetCatalog(ctx context.Context, username string) (*entity.Catalog, error)
	ListCatalogs(ctx context.Context) ([]entity.CatalogSummary, error)
	DeleteCatalog(ctx context.Context, username string) error

	SaveSite(ctx context.Context, username string, html []byte) error
	GetSite(ctx context.Context, username string) ([]byte, error)

	SaveStatus(ctx context.Context, status entity.StatusRecord) error
	GetStatus(ctx context.Context, username string) (*entity.StatusRecord, error)
	ListStatuses(ctx context.Context) ([]entity.StatusRecord, error)

	Close(ctx context.Context) error
}

var (
	_ Repository = (*MongoDB)(nil)
	_ Repository = (*MemoryStore)(nil)
)
