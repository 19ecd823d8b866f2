package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fairyhunter13/warung-price-bot/internal/model"
)

// Memory is an in-process Gateway used when no Supabase URL is configured and
// by tests. Ids are assigned monotonically; name matching is case-insensitive
// substring, mirroring the PostgREST ilike filters.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]model.Product
	audit    []model.AuditEntry
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{products: make(map[int64]model.Product)}
}

func nameMatches(name, query string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func (m *Memory) findLocked(name string) (model.Product, bool) {
	ids := make([]int64, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if nameMatches(m.products[id].Name, name) {
			return m.products[id], true
		}
	}
	return model.Product{}, false
}

// FindByName returns the lowest-id case-insensitive match, or ErrNotFound.
func (m *Memory) FindByName(_ context.Context, name string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.findLocked(name)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Search returns all matching products in id order.
func (m *Memory) Search(_ context.Context, query string) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []model.Product
	for _, id := range ids {
		if nameMatches(m.products[id].Name, query) {
			out = append(out, m.products[id])
		}
	}
	return out, nil
}

// UpsertByName updates the matching product or creates a new one.
func (m *Memory) UpsertByName(_ context.Context, name string, price int64, unit, requestedBy string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.findLocked(name); ok {
		updated := existing
		updated.Price = price
		updated.Unit = unit
		m.products[updated.ID] = updated
		m.audit = append(m.audit, model.AuditEntry{
			ProductID:  existing.ID,
			ActionType: AuditUpdate,
			Details: map[string]any{
				"old_price": existing.Price,
				"new_price": price,
				"old_unit":  existing.Unit,
				"new_unit":  unit,
			},
			RequestedBy: requestedBy,
		})
		return &updated, nil
	}

	m.nextID++
	created := model.Product{ID: m.nextID, Name: name, Price: price, Unit: unit}
	m.products[created.ID] = created
	m.audit = append(m.audit, model.AuditEntry{
		ProductID:  created.ID,
		ActionType: AuditCreate,
		Details: map[string]any{
			"name":  name,
			"price": price,
			"unit":  unit,
		},
		RequestedBy: requestedBy,
	})
	return &created, nil
}

// UpdateByID sets price and unit on an existing product, or ErrNotFound.
func (m *Memory) UpdateByID(_ context.Context, id, price int64, unit, requestedBy string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := existing
	updated.Price = price
	updated.Unit = unit
	m.products[id] = updated
	m.audit = append(m.audit, model.AuditEntry{
		ProductID:  id,
		ActionType: AuditUpdateByID,
		Details: map[string]any{
			"old_price": existing.Price,
			"new_price": price,
			"old_unit":  existing.Unit,
			"new_unit":  unit,
		},
		RequestedBy: requestedBy,
	})
	return &updated, nil
}

// DeleteByID removes a product, or ErrNotFound.
func (m *Memory) DeleteByID(_ context.Context, id int64, requestedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	m.audit = append(m.audit, model.AuditEntry{
		ProductID:  id,
		ActionType: AuditDeleteByID,
		Details: map[string]any{
			"name":  existing.Name,
			"price": existing.Price,
			"unit":  existing.Unit,
		},
		RequestedBy: requestedBy,
	})
	return nil
}

// DeleteByName removes the first matching product, or ErrNotFound.
func (m *Memory) DeleteByName(_ context.Context, name, requestedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.findLocked(name)
	if !ok {
		return ErrNotFound
	}
	delete(m.products, existing.ID)
	m.audit = append(m.audit, model.AuditEntry{
		ProductID:  existing.ID,
		ActionType: AuditDelete,
		Details: map[string]any{
			"name":  existing.Name,
			"price": existing.Price,
			"unit":  existing.Unit,
		},
		RequestedBy: requestedBy,
	})
	return nil
}

// AuditLog returns a copy of the appended audit records.
func (m *Memory) AuditLog() []model.AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.AuditEntry, len(m.audit))
	copy(out, m.audit)
	return out
}
