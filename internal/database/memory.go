package repository

import (
	"context"
	"slices"
	"sync"

	"InstaCatalog/entity"
)

// MemoryStore keeps everything in process memory; contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	catalogs map[string]entity.Catalog
	sites    map[string][]byte
	statuses map[string]entity.StatusRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		catalogs: make(map[string]entity.Catalog),
		sites:    make(map[string][]byte),
		statuses: make(map[string]entity.StatusRecord),
	}
}

func (m *MemoryStore) SaveCatalog(_ context.Context, catalog *entity.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs[catalog.Username] = cloneCatalog(*catalog)
	return nil
}

func (m *MemoryStore) GetCatalog(_ context.Context, username string) (*entity.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.catalogs[username]
	if !ok {
		return nil, ErrNotFound
	}
	c = cloneCatalog(c)
	return &c, nil
}

func (m *MemoryStore) ListCatalogs(_ context.Context) ([]entity.CatalogSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]entity.CatalogSummary, 0, len(m.catalogs))
	for _, c := range m.catalogs {
		list = append(list, c.Summary())
	}
	slices.SortFunc(list, func(a, b entity.CatalogSummary) int {
		return b.GeneratedAt.Compare(a.GeneratedAt)
	})
	return list, nil
}

// DeleteCatalog removes the catalog and its rendered site.
func (m *MemoryStore) DeleteCatalog(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, hasCatalog := m.catalogs[username]
	_, hasSite := m.sites[username]
	if !hasCatalog && !hasSite {
		return ErrNotFound
	}
	delete(m.catalogs, username)
	delete(m.sites, username)
	return nil
}

func (m *MemoryStore) SaveSite(_ context.Context, username string, html []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sites[username] = slices.Clone(html)
	return nil
}

func (m *MemoryStore) GetSite(_ context.Context, username string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	html, ok := m.sites[username]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(html), nil
}

func (m *MemoryStore) SaveStatus(_ context.Context, status entity.StatusRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[status.Username] = status
	return nil
}

func (m *MemoryStore) GetStatus(_ context.Context, username string) (*entity.StatusRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) ListStatuses(_ context.Context) ([]entity.StatusRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]entity.StatusRecord, 0, len(m.statuses))
	for _, s := range m.statuses {
		list = append(list, s)
	}
	slices.SortFunc(list, func(a, b entity.StatusRecord) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return list, nil
}

func (m *MemoryStore) Close(context.Context) error {
	return nil
}

func cloneCatalog(c entity.Catalog) entity.Catalog {
	c.Products = slices.Clone(c.Products)
	for i := range c.Products {
		c.Products[i].Labels = slices.Clone(c.Products[i].Labels)
	}
	return c
}
