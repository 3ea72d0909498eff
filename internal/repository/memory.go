package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"rewear-backend/internal/models"
)

// MemorySwapStore is an in-memory SwapStore for tests and local
// development. A single mutex serializes transactions, and a snapshot
// taken at transaction start is restored when fn fails, which gives the
// same no-partial-writes guarantee as the database rollback.
type MemorySwapStore struct {
	mu       sync.Mutex
	items    map[string]*models.Item
	balances map[string]int
	swaps    map[string]*models.Swap
}

// NewMemorySwapStore creates an empty in-memory swap store
func NewMemorySwapStore() *MemorySwapStore {
	return &MemorySwapStore{
		items:    make(map[string]*models.Item),
		balances: make(map[string]int),
		swaps:    make(map[string]*models.Swap),
	}
}

// SeedUser registers a user with a starting balance
func (m *MemorySwapStore) SeedUser(userID string, balance int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

// SeedItem registers an item
func (m *MemorySwapStore) SeedItem(item *models.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.items[item.ID] = &cp
}

// Balance returns a user's current balance
func (m *MemorySwapStore) Balance(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID]
}

// Item returns a copy of an item
func (m *MemorySwapStore) Item(itemID string) *models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[itemID]; ok {
		cp := *item
		return &cp
	}
	return nil
}

// Swap returns a copy of a swap
func (m *MemorySwapStore) Swap(swapID string) *models.Swap {
	m.mu.Lock()
	defer m.mu.Unlock()
	if swap, ok := m.swaps[swapID]; ok {
		cp := *swap
		return &cp
	}
	return nil
}

// WithTx runs fn against a serialized view of the store
func (m *MemorySwapStore) WithTx(ctx context.Context, fn func(tx SwapTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshotLocked()
	if err := fn(&memoryTx{store: m}); err != nil {
		m.restoreLocked(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	items    map[string]*models.Item
	balances map[string]int
	swaps    map[string]*models.Swap
}

func (m *MemorySwapStore) snapshotLocked() memorySnapshot {
	snap := memorySnapshot{
		items:    make(map[string]*models.Item, len(m.items)),
		balances: make(map[string]int, len(m.balances)),
		swaps:    make(map[string]*models.Swap, len(m.swaps)),
	}
	for id, item := range m.items {
		cp := *item
		snap.items[id] = &cp
	}
	for id, balance := range m.balances {
		snap.balances[id] = balance
	}
	for id, swap := range m.swaps {
		cp := *swap
		snap.swaps[id] = &cp
	}
	return snap
}

func (m *MemorySwapStore) restoreLocked(snap memorySnapshot) {
	m.items = snap.items
	m.balances = snap.balances
	m.swaps = snap.swaps
}

// memoryTx operates directly on the store; the store mutex is held for
// the whole transaction
type memoryTx struct {
	store *MemorySwapStore
}

func (t *memoryTx) ItemForUpdate(_ context.Context, itemID string) (*models.Item, error) {
	item, ok := t.store.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, models.ErrNotFound)
	}
	cp := *item
	return &cp, nil
}

func (t *memoryTx) SetItemStatus(_ context.Context, itemID string, status models.ItemStatus) error {
	item, ok := t.store.items[itemID]
	if !ok {
		return fmt.Errorf("item %s: %w", itemID, models.ErrNotFound)
	}
	item.Status = status
	item.UpdatedAt = time.Now()
	return nil
}

func (t *memoryTx) BalanceForUpdate(_ context.Context, userID string) (int, error) {
	balance, ok := t.store.balances[userID]
	if !ok {
		return 0, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return balance, nil
}

func (t *memoryTx) AdjustBalance(_ context.Context, userID string, delta int) error {
	if _, ok := t.store.balances[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	t.store.balances[userID] += delta
	return nil
}

func (t *memoryTx) SwapForUpdate(_ context.Context, swapID string) (*models.Swap, error) {
	swap, ok := t.store.swaps[swapID]
	if !ok {
		return nil, fmt.Errorf("swap %s: %w", swapID, models.ErrNotFound)
	}
	cp := *swap
	return &cp, nil
}

func (t *memoryTx) InsertSwap(_ context.Context, swap *models.Swap) error {
	if _, ok := t.store.swaps[swap.ID]; ok {
		return fmt.Errorf("swap %s already exists", swap.ID)
	}
	cp := *swap
	t.store.swaps[swap.ID] = &cp
	return nil
}

func (t *memoryTx) SetSwapStatus(_ context.Context, swapID string, status models.SwapStatus) error {
	swap, ok := t.store.swaps[swapID]
	if !ok {
		return fmt.Errorf("swap %s: %w", swapID, models.ErrNotFound)
	}
	swap.Status = status
	swap.UpdatedAt = time.Now()
	return nil
}

// ListByUser returns the user's swaps, newest first
func (m *MemorySwapStore) ListByUser(_ context.Context, userID string) ([]*models.Swap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var swaps []*models.Swap
	for _, swap := range m.swaps {
		if swap.RequesterID == userID || swap.OwnerID == userID {
			cp := *swap
			swaps = append(swaps, &cp)
		}
	}
	sort.Slice(swaps, func(i, j int) bool {
		return swaps[i].CreatedAt.After(swaps[j].CreatedAt)
	})
	return swaps, nil
}
