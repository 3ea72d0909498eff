package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rewear-backend/internal/models"
	"rewear-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner     = "user-owner"
	requester = "user-requester"
	itemA     = "item-a" // owned by owner, value 40
	itemB     = "item-b" // owned by requester, value 25
)

func newSwapFixture(t *testing.T) (*SwapService, *repository.MemorySwapStore) {
	t.Helper()

	store := repository.NewMemorySwapStore()
	store.SeedUser(owner, 100)
	store.SeedUser(requester, 50)
	store.SeedItem(&models.Item{
		ID:          itemA,
		OwnerID:     owner,
		Title:       "Wool coat",
		PointsValue: 40,
		Status:      models.ItemAvailable,
		CreatedAt:   time.Now(),
	})
	store.SeedItem(&models.Item{
		ID:          itemB,
		OwnerID:     requester,
		Title:       "Denim jacket",
		PointsValue: 25,
		Status:      models.ItemAvailable,
		CreatedAt:   time.Now(),
	})

	return NewSwapService(store), store
}

func pointsSwap(t *testing.T, svc *SwapService) *models.Swap {
	t.Helper()
	proposal, err := models.NewPointsProposal(itemA)
	require.NoError(t, err)
	swap, err := svc.CreateSwap(context.Background(), requester, proposal)
	require.NoError(t, err)
	return swap
}

func directSwap(t *testing.T, svc *SwapService) *models.Swap {
	t.Helper()
	proposal, err := models.NewDirectProposal(itemA, itemB)
	require.NoError(t, err)
	swap, err := svc.CreateSwap(context.Background(), requester, proposal)
	require.NoError(t, err)
	return swap
}

func TestCreatePointsSwap(t *testing.T) {
	svc, store := newSwapFixture(t)

	swap := pointsSwap(t, svc)

	assert.Equal(t, models.SwapPending, swap.Status)
	assert.Equal(t, models.SwapPoints, swap.Type)
	assert.Equal(t, owner, swap.OwnerID)
	assert.Nil(t, swap.RequesterItemID)

	// Item is locked into the swap, but no points move at creation
	assert.Equal(t, models.ItemPending, store.Item(itemA).Status)
	assert.Equal(t, 50, store.Balance(requester))
	assert.Equal(t, 100, store.Balance(owner))
}

func TestAcceptPointsSwap(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	accepted, err := svc.AcceptSwap(context.Background(), owner, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapCompleted, accepted.Status)

	// Requester pays the item value, owner gets value plus bonus
	assert.Equal(t, 10, store.Balance(requester))
	assert.Equal(t, 170, store.Balance(owner))
	assert.Equal(t, models.ItemSwapped, store.Item(itemA).Status)
	assert.Equal(t, models.SwapCompleted, store.Swap(swap.ID).Status)
}

func TestPointsConservation(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	before := store.Balance(owner) + store.Balance(requester)
	_, err := svc.AcceptSwap(context.Background(), owner, swap.ID)
	require.NoError(t, err)
	after := store.Balance(owner) + store.Balance(requester)

	// The system mints exactly the completion bonus, nothing else
	assert.Equal(t, before+30, after)
}

func TestAcceptDirectSwap(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := directSwap(t, svc)

	assert.Equal(t, models.ItemPending, store.Item(itemA).Status)
	assert.Equal(t, models.ItemPending, store.Item(itemB).Status)

	_, err := svc.AcceptSwap(context.Background(), owner, swap.ID)
	require.NoError(t, err)

	// Barter: only the owner's completion bonus moves
	assert.Equal(t, 130, store.Balance(owner))
	assert.Equal(t, 50, store.Balance(requester))
	assert.Equal(t, models.ItemSwapped, store.Item(itemA).Status)
	assert.Equal(t, models.ItemSwapped, store.Item(itemB).Status)
}

func TestAcceptByWrongActor(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	_, err := svc.AcceptSwap(context.Background(), requester, swap.ID)
	require.ErrorIs(t, err, models.ErrForbidden)

	// No state change
	assert.Equal(t, models.SwapPending, store.Swap(swap.ID).Status)
	assert.Equal(t, models.ItemPending, store.Item(itemA).Status)
	assert.Equal(t, 50, store.Balance(requester))
	assert.Equal(t, 100, store.Balance(owner))
}

func TestRejectByWrongActor(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	_, err := svc.RejectSwap(context.Background(), requester, swap.ID)
	require.ErrorIs(t, err, models.ErrForbidden)
	assert.Equal(t, models.SwapPending, store.Swap(swap.ID).Status)
}

func TestRejectReleasesItems(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := directSwap(t, svc)

	rejected, err := svc.RejectSwap(context.Background(), owner, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapRejected, rejected.Status)

	// Both items return to the catalog, balances untouched
	assert.Equal(t, models.ItemAvailable, store.Item(itemA).Status)
	assert.Equal(t, models.ItemAvailable, store.Item(itemB).Status)
	assert.Equal(t, 100, store.Balance(owner))
	assert.Equal(t, 50, store.Balance(requester))
}

func TestSwapLifecycleIsTerminal(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	_, err := svc.RejectSwap(context.Background(), owner, swap.ID)
	require.NoError(t, err)

	// A rejected swap cannot be accepted or rejected again
	_, err = svc.AcceptSwap(context.Background(), owner, swap.ID)
	require.ErrorIs(t, err, models.ErrInvalidState)
	_, err = svc.RejectSwap(context.Background(), owner, swap.ID)
	require.ErrorIs(t, err, models.ErrInvalidState)

	// The failed accept moved no points
	assert.Equal(t, 100, store.Balance(owner))
	assert.Equal(t, 50, store.Balance(requester))
}

func TestAcceptedSwapIsTerminal(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	_, err := svc.AcceptSwap(context.Background(), owner, swap.ID)
	require.NoError(t, err)

	_, err = svc.AcceptSwap(context.Background(), owner, swap.ID)
	require.ErrorIs(t, err, models.ErrInvalidState)
	_, err = svc.RejectSwap(context.Background(), owner, swap.ID)
	require.ErrorIs(t, err, models.ErrInvalidState)

	// Settlement happened exactly once
	assert.Equal(t, 170, store.Balance(owner))
	assert.Equal(t, 10, store.Balance(requester))
}

func TestCreateSwapSelfSwap(t *testing.T) {
	svc, store := newSwapFixture(t)

	proposal, err := models.NewPointsProposal(itemA)
	require.NoError(t, err)
	_, err = svc.CreateSwap(context.Background(), owner, proposal)
	require.ErrorIs(t, err, models.ErrInvalidInput)

	assert.Equal(t, models.ItemAvailable, store.Item(itemA).Status)
}

func TestCreateSwapInsufficientBalance(t *testing.T) {
	svc, store := newSwapFixture(t)
	store.SeedUser(requester, 10) // below the item value of 40

	proposal, err := models.NewPointsProposal(itemA)
	require.NoError(t, err)
	_, err = svc.CreateSwap(context.Background(), requester, proposal)
	require.ErrorIs(t, err, models.ErrInsufficientBalance)

	// No writes at all
	assert.Equal(t, models.ItemAvailable, store.Item(itemA).Status)
	assert.Equal(t, 10, store.Balance(requester))
}

func TestCreateSwapItemNotFound(t *testing.T) {
	svc, _ := newSwapFixture(t)

	proposal, err := models.NewPointsProposal("no-such-item")
	require.NoError(t, err)
	_, err = svc.CreateSwap(context.Background(), requester, proposal)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateSwapItemNotAvailable(t *testing.T) {
	svc, store := newSwapFixture(t)
	pointsSwap(t, svc) // itemA is now pending

	proposal, err := models.NewPointsProposal(itemA)
	require.NoError(t, err)
	_, err = svc.CreateSwap(context.Background(), requester, proposal)
	require.ErrorIs(t, err, models.ErrInvalidState)

	// Exactly one pending swap references the item
	swaps, err := store.ListByUser(context.Background(), requester)
	require.NoError(t, err)
	pending := 0
	for _, s := range swaps {
		if s.OwnerItemID == itemA && s.Status == models.SwapPending {
			pending++
		}
	}
	assert.Equal(t, 1, pending)
}

func TestCreateDirectSwapOfferedItemNotOwned(t *testing.T) {
	svc, store := newSwapFixture(t)
	store.SeedItem(&models.Item{
		ID:          "item-c",
		OwnerID:     "someone-else",
		PointsValue: 15,
		Status:      models.ItemAvailable,
	})

	proposal, err := models.NewDirectProposal(itemA, "item-c")
	require.NoError(t, err)
	_, err = svc.CreateSwap(context.Background(), requester, proposal)
	require.ErrorIs(t, err, models.ErrInvalidInput)

	// The owner item lock was rolled back
	assert.Equal(t, models.ItemAvailable, store.Item(itemA).Status)
}

func TestCreateDirectSwapOfferedItemNotAvailable(t *testing.T) {
	svc, store := newSwapFixture(t)
	item := store.Item(itemB)
	item.Status = models.ItemSwapped
	store.SeedItem(item)

	proposal, err := models.NewDirectProposal(itemA, itemB)
	require.NoError(t, err)
	_, err = svc.CreateSwap(context.Background(), requester, proposal)
	require.ErrorIs(t, err, models.ErrInvalidState)

	assert.Equal(t, models.ItemAvailable, store.Item(itemA).Status)
}

func TestConcurrentAcceptAndReject(t *testing.T) {
	svc, store := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	var wg sync.WaitGroup
	var acceptErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = svc.AcceptSwap(context.Background(), owner, swap.ID)
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = svc.RejectSwap(context.Background(), owner, swap.ID)
	}()
	wg.Wait()

	// Exactly one transition wins; the loser observes the terminal state
	if acceptErr == nil {
		require.ErrorIs(t, rejectErr, models.ErrInvalidState)
		assert.Equal(t, models.SwapCompleted, store.Swap(swap.ID).Status)
		assert.Equal(t, 10, store.Balance(requester))
		assert.Equal(t, 170, store.Balance(owner))
	} else {
		require.ErrorIs(t, acceptErr, models.ErrInvalidState)
		require.NoError(t, rejectErr)
		assert.Equal(t, models.SwapRejected, store.Swap(swap.ID).Status)
		assert.Equal(t, 50, store.Balance(requester))
		assert.Equal(t, 100, store.Balance(owner))
	}
}

func TestConcurrentCreateOnSameItem(t *testing.T) {
	svc, store := newSwapFixture(t)
	store.SeedUser("user-third", 100)

	proposal, err := models.NewPointsProposal(itemA)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	requesters := []string{requester, "user-third"}
	for i := range requesters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateSwap(context.Background(), requesters[i], proposal)
		}(i)
	}
	wg.Wait()

	// One proposal claims the item, the other fails its precondition
	if errs[0] == nil {
		require.ErrorIs(t, errs[1], models.ErrInvalidState)
	} else {
		require.NoError(t, errs[1])
		require.ErrorIs(t, errs[0], models.ErrInvalidState)
	}
	assert.Equal(t, models.ItemPending, store.Item(itemA).Status)
}

func TestListUserSwaps(t *testing.T) {
	svc, _ := newSwapFixture(t)
	swap := pointsSwap(t, svc)

	for _, userID := range []string{owner, requester} {
		swaps, err := svc.ListUserSwaps(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, swaps, 1)
		assert.Equal(t, swap.ID, swaps[0].ID)
	}

	swaps, err := svc.ListUserSwaps(context.Background(), "user-third")
	require.NoError(t, err)
	assert.Empty(t, swaps)
}
