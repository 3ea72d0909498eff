package services

import (
	"context"
	"fmt"
	"time"

	"rewear-backend/internal/models"
	"rewear-backend/internal/repository"

	"github.com/google/uuid"
)

// acceptBonus is credited to the owner when they complete a swap,
// on top of the item value for points swaps.
const acceptBonus = 30

// SwapService is the swap lifecycle engine. Each operation runs as one
// transaction against the store: preconditions are checked on row-locked
// reads and every write commits together, so a failed precondition
// leaves no partial state. Item status, swap status and points balances
// are mutated nowhere else.
type SwapService struct {
	store repository.SwapStore
}

// NewSwapService creates a new swap service
func NewSwapService(store repository.SwapStore) *SwapService {
	return &SwapService{store: store}
}

// CreateSwap records a new pending swap and moves the involved items to
// pending. For points proposals the requester's balance is checked under
// the same lock, so a concurrent proposal against the same balance
// serializes behind this one. No points move at creation.
func (s *SwapService) CreateSwap(ctx context.Context, requesterID string, proposal models.SwapProposal) (*models.Swap, error) {
	var swap *models.Swap
	err := s.store.WithTx(ctx, func(tx repository.SwapTx) error {
		item, err := tx.ItemForUpdate(ctx, proposal.OwnerItemID())
		if err != nil {
			return err
		}
		if item.Status != models.ItemAvailable {
			return fmt.Errorf("item is %s: %w", item.Status, models.ErrInvalidState)
		}
		if item.OwnerID == requesterID {
			return fmt.Errorf("cannot swap your own item: %w", models.ErrInvalidInput)
		}

		if proposal.Type() == models.SwapPoints {
			balance, err := tx.BalanceForUpdate(ctx, requesterID)
			if err != nil {
				return err
			}
			if balance < item.PointsValue {
				return fmt.Errorf("balance %d is below item value %d: %w",
					balance, item.PointsValue, models.ErrInsufficientBalance)
			}
		}

		if proposal.Type() == models.SwapDirect {
			offered, err := tx.ItemForUpdate(ctx, *proposal.RequesterItemID())
			if err != nil {
				return err
			}
			if offered.OwnerID != requesterID {
				return fmt.Errorf("offered item does not belong to requester: %w", models.ErrInvalidInput)
			}
			if offered.Status != models.ItemAvailable {
				return fmt.Errorf("offered item is %s: %w", offered.Status, models.ErrInvalidState)
			}
		}

		now := time.Now()
		swap = &models.Swap{
			ID:              uuid.New().String(),
			RequesterID:     requesterID,
			RequesterItemID: proposal.RequesterItemID(),
			OwnerID:         item.OwnerID,
			OwnerItemID:     item.ID,
			Type:            proposal.Type(),
			Status:          models.SwapPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.InsertSwap(ctx, swap); err != nil {
			return err
		}

		if err := tx.SetItemStatus(ctx, item.ID, models.ItemPending); err != nil {
			return err
		}
		if proposal.Type() == models.SwapDirect {
			if err := tx.SetItemStatus(ctx, *proposal.RequesterItemID(), models.ItemPending); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swap, nil
}

// AcceptSwap completes a pending swap. Only the item owner may accept.
// Both items become swapped; for points swaps the requester is debited
// the item value and the owner credited the value plus the bonus, for
// direct swaps only the bonus is credited.
func (s *SwapService) AcceptSwap(ctx context.Context, actorID, swapID string) (*models.Swap, error) {
	var accepted *models.Swap
	err := s.store.WithTx(ctx, func(tx repository.SwapTx) error {
		swap, err := tx.SwapForUpdate(ctx, swapID)
		if err != nil {
			return err
		}
		if swap.OwnerID != actorID {
			return fmt.Errorf("only the item owner may accept a swap: %w", models.ErrForbidden)
		}
		if swap.Status != models.SwapPending {
			return fmt.Errorf("swap is %s: %w", swap.Status, models.ErrInvalidState)
		}

		if err := tx.SetSwapStatus(ctx, swap.ID, models.SwapCompleted); err != nil {
			return err
		}
		if err := tx.SetItemStatus(ctx, swap.OwnerItemID, models.ItemSwapped); err != nil {
			return err
		}
		if swap.RequesterItemID != nil {
			if err := tx.SetItemStatus(ctx, *swap.RequesterItemID, models.ItemSwapped); err != nil {
				return err
			}
		}

		if swap.Type == models.SwapPoints {
			item, err := tx.ItemForUpdate(ctx, swap.OwnerItemID)
			if err != nil {
				return err
			}
			if err := tx.AdjustBalance(ctx, swap.RequesterID, -item.PointsValue); err != nil {
				return err
			}
			if err := tx.AdjustBalance(ctx, swap.OwnerID, item.PointsValue+acceptBonus); err != nil {
				return err
			}
		} else {
			if err := tx.AdjustBalance(ctx, swap.OwnerID, acceptBonus); err != nil {
				return err
			}
		}

		swap.Status = models.SwapCompleted
		accepted = swap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// RejectSwap rejects a pending swap and releases the involved items back
// to available. Only the item owner may reject. Balances are untouched.
func (s *SwapService) RejectSwap(ctx context.Context, actorID, swapID string) (*models.Swap, error) {
	var rejected *models.Swap
	err := s.store.WithTx(ctx, func(tx repository.SwapTx) error {
		swap, err := tx.SwapForUpdate(ctx, swapID)
		if err != nil {
			return err
		}
		if swap.OwnerID != actorID {
			return fmt.Errorf("only the item owner may reject a swap: %w", models.ErrForbidden)
		}
		if swap.Status != models.SwapPending {
			return fmt.Errorf("swap is %s: %w", swap.Status, models.ErrInvalidState)
		}

		if err := tx.SetSwapStatus(ctx, swap.ID, models.SwapRejected); err != nil {
			return err
		}
		if err := tx.SetItemStatus(ctx, swap.OwnerItemID, models.ItemAvailable); err != nil {
			return err
		}
		if swap.RequesterItemID != nil {
			if err := tx.SetItemStatus(ctx, *swap.RequesterItemID, models.ItemAvailable); err != nil {
				return err
			}
		}

		swap.Status = models.SwapRejected
		rejected = swap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// ListUserSwaps returns the swaps where the user is requester or owner
func (s *SwapService) ListUserSwaps(ctx context.Context, userID string) ([]*models.Swap, error) {
	return s.store.ListByUser(ctx, userID)
}
