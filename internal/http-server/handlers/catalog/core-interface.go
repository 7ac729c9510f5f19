package catalog

import (
	"context"

	"InstaCatalog/entity"
)

type Core interface {
	CatalogPage(ctx context.Context, username string) ([]byte, error)
	Status(ctx context.Context, username string) (*entity.StatusRecord, error)
	RequestCatalog(ctx context.Context, username, phone string) (entity.StatusRecord, error)
	ListCatalogs(ctx context.Context) ([]entity.CatalogSummary, error)
	DeleteCatalog(ctx context.Context, username string) error
}
