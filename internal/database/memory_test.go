package repository

import (
	"context"
	"testing"
	"time"

	"InstaCatalog/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Catalogs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now().UTC()

	older := &entity.Catalog{Username: "old_shop", BusinessName: "Old Shop", GeneratedAt: now.Add(-time.Hour)}
	newer := &entity.Catalog{
		Username:     "new_shop",
		BusinessName: "New Shop",
		GeneratedAt:  now,
		Products:     []entity.Product{{Name: "Mug", Labels: []string{"cup"}}},
	}
	require.NoError(t, store.SaveCatalog(ctx, older))
	require.NoError(t, store.SaveCatalog(ctx, newer))

	got, err := store.GetCatalog(ctx, "new_shop")
	require.NoError(t, err)
	assert.Equal(t, "New Shop", got.BusinessName)

	got.Products[0].Labels[0] = "changed"
	again, err := store.GetCatalog(ctx, "new_shop")
	require.NoError(t, err)
	assert.Equal(t, "cup", again.Products[0].Labels[0])

	list, err := store.ListCatalogs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new_shop", list[0].Username)
	assert.Equal(t, 1, list[0].ProductCount)

	_, err = store.GetCatalog(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteCatalogRemovesSite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SaveCatalog(ctx, &entity.Catalog{Username: "shop"}))
	require.NoError(t, store.SaveSite(ctx, "shop", []byte("<html></html>")))

	require.NoError(t, store.DeleteCatalog(ctx, "shop"))

	_, err := store.GetSite(ctx, "shop")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteCatalog(ctx, "shop"), ErrNotFound)
}

func TestMemoryStore_Statuses(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, store.SaveStatus(ctx, entity.StatusRecord{Username: "a", Status: entity.StatusQueued, UpdatedAt: now.Add(-time.Minute)}))
	require.NoError(t, store.SaveStatus(ctx, entity.StatusRecord{Username: "b", Status: entity.StatusScraping, UpdatedAt: now}))
	require.NoError(t, store.SaveStatus(ctx, entity.StatusRecord{Username: "a", Status: entity.StatusCompleted, UpdatedAt: now.Add(time.Minute)}))

	s, err := store.GetStatus(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, s.Status)

	list, err := store.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Username)

	_, err = store.GetStatus(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
