package repository

import (
	"context"
	"errors"
	"fmt"

	"rewear-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SwapStore is the storage contract the swap lifecycle engine runs
// against. Every lifecycle operation executes inside a single WithTx
// call; no other code path writes swap status, item status, or points
// balances.
type SwapStore interface {
	// WithTx runs fn inside one transaction. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged, so
	// no partial writes survive a failed precondition.
	WithTx(ctx context.Context, fn func(tx SwapTx) error) error

	// ListByUser returns swaps where the user is requester or owner,
	// newest first, with parties and item summaries attached.
	ListByUser(ctx context.Context, userID string) ([]*models.Swap, error)
}

// SwapTx is the row-locked view of items, balances and swaps inside one
// transaction. The ForUpdate reads hold row locks until commit, so two
// transactions touching the same swap or item serialize: the second one
// blocks, then observes the first one's committed state and fails its
// precondition check instead of racing.
type SwapTx interface {
	ItemForUpdate(ctx context.Context, itemID string) (*models.Item, error)
	SetItemStatus(ctx context.Context, itemID string, status models.ItemStatus) error

	BalanceForUpdate(ctx context.Context, userID string) (int, error)
	AdjustBalance(ctx context.Context, userID string, delta int) error

	SwapForUpdate(ctx context.Context, swapID string) (*models.Swap, error)
	InsertSwap(ctx context.Context, swap *models.Swap) error
	SetSwapStatus(ctx context.Context, swapID string, status models.SwapStatus) error
}

// SwapRepository implements SwapStore on PostgreSQL
type SwapRepository struct {
	db *pgxpool.Pool
}

// NewSwapRepository creates a new swap repository
func NewSwapRepository(db *pgxpool.Pool) *SwapRepository {
	return &SwapRepository{db: db}
}

// WithTx runs fn inside a read-committed transaction. Read committed is
// load-bearing here: a transaction blocked on a FOR UPDATE lock re-reads
// the row as committed by the winner once the lock is released, so the
// loser's precondition checks see the post-transition state. Under
// repeatable read or serializable the same wait would instead abort with
// a serialization failure.
func (r *SwapRepository) WithTx(ctx context.Context, fn func(tx SwapTx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&swapTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// swapTx wraps a pgx transaction
type swapTx struct {
	tx pgx.Tx
}

// ItemForUpdate reads an item with a row lock. Only the columns the
// engine needs are selected.
func (t *swapTx) ItemForUpdate(ctx context.Context, itemID string) (*models.Item, error) {
	query := `
		SELECT id, owner_id, points_value, status
		FROM items
		WHERE id = $1
		FOR UPDATE
	`
	var item models.Item
	err := t.tx.QueryRow(ctx, query, itemID).Scan(
		&item.ID, &item.OwnerID, &item.PointsValue, &item.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %s: %w", itemID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock item: %w", err)
	}
	return &item, nil
}

// SetItemStatus updates an item's availability status
func (t *swapTx) SetItemStatus(ctx context.Context, itemID string, status models.ItemStatus) error {
	query := `UPDATE items SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := t.tx.Exec(ctx, query, status, itemID)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, models.ErrNotFound)
	}
	return nil
}

// BalanceForUpdate reads a user's points balance with a row lock
func (t *swapTx) BalanceForUpdate(ctx context.Context, userID string) (int, error) {
	query := `SELECT points_balance FROM users WHERE id = $1 FOR UPDATE`
	var balance int
	err := t.tx.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to lock balance: %w", err)
	}
	return balance, nil
}

// AdjustBalance applies a signed delta to a user's points balance
func (t *swapTx) AdjustBalance(ctx context.Context, userID string, delta int) error {
	query := `UPDATE users SET points_balance = points_balance + $1 WHERE id = $2`
	result, err := t.tx.Exec(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return nil
}

// SwapForUpdate reads a swap with a row lock
func (t *swapTx) SwapForUpdate(ctx context.Context, swapID string) (*models.Swap, error) {
	query := `
		SELECT id, requester_id, requester_item_id, owner_id, owner_item_id, swap_type, status, created_at, updated_at
		FROM swaps
		WHERE id = $1
		FOR UPDATE
	`
	var swap models.Swap
	err := t.tx.QueryRow(ctx, query, swapID).Scan(
		&swap.ID, &swap.RequesterID, &swap.RequesterItemID, &swap.OwnerID,
		&swap.OwnerItemID, &swap.Type, &swap.Status, &swap.CreatedAt, &swap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("swap %s: %w", swapID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock swap: %w", err)
	}
	return &swap, nil
}

// InsertSwap inserts a new swap row
func (t *swapTx) InsertSwap(ctx context.Context, swap *models.Swap) error {
	query := `
		INSERT INTO swaps (id, requester_id, requester_item_id, owner_id, owner_item_id, swap_type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := t.tx.Exec(ctx, query,
		swap.ID, swap.RequesterID, swap.RequesterItemID, swap.OwnerID,
		swap.OwnerItemID, swap.Type, swap.Status, swap.CreatedAt, swap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert swap: %w", err)
	}
	return nil
}

// SetSwapStatus updates a swap's lifecycle status
func (t *swapTx) SetSwapStatus(ctx context.Context, swapID string, status models.SwapStatus) error {
	query := `UPDATE swaps SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := t.tx.Exec(ctx, query, status, swapID)
	if err != nil {
		return fmt.Errorf("failed to update swap status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("swap %s: %w", swapID, models.ErrNotFound)
	}
	return nil
}

// ListByUser retrieves swaps where the user is requester or owner
func (r *SwapRepository) ListByUser(ctx context.Context, userID string) ([]*models.Swap, error) {
	query := `
		SELECT s.id, s.requester_id, s.requester_item_id, s.owner_id, s.owner_item_id,
		       s.swap_type, s.status, s.created_at, s.updated_at,
		       req.full_name, req.email,
		       own.full_name, own.email,
		       own_item.title,
		       req_item.title
		FROM swaps s
		JOIN users req ON s.requester_id = req.id
		JOIN users own ON s.owner_id = own.id
		JOIN items own_item ON s.owner_item_id = own_item.id
		LEFT JOIN items req_item ON s.requester_item_id = req_item.id
		WHERE s.requester_id = $1 OR s.owner_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	defer rows.Close()

	var swaps []*models.Swap
	for rows.Next() {
		var swap models.Swap
		var requester, owner models.User
		var ownerItemTitle string
		var requesterItemTitle *string
		if err := rows.Scan(
			&swap.ID, &swap.RequesterID, &swap.RequesterItemID, &swap.OwnerID,
			&swap.OwnerItemID, &swap.Type, &swap.Status, &swap.CreatedAt, &swap.UpdatedAt,
			&requester.FullName, &requester.Email,
			&owner.FullName, &owner.Email,
			&ownerItemTitle,
			&requesterItemTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan swap: %w", err)
		}

		requester.ID = swap.RequesterID
		owner.ID = swap.OwnerID
		swap.Requester = &requester
		swap.Owner = &owner
		swap.OwnerItem = &models.Item{ID: swap.OwnerItemID, Title: ownerItemTitle}
		if swap.RequesterItemID != nil && requesterItemTitle != nil {
			swap.RequesterItem = &models.Item{ID: *swap.RequesterItemID, Title: *requesterItemTitle}
		}

		swaps = append(swaps, &swap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read swaps: %w", err)
	}
	return swaps, nil
}
