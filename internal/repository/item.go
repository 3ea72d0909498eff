package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rewear-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemRepository handles database operations for items
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	images, err := json.Marshal(item.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO items (id, owner_id, title, description, category, size, item_condition, images, points_value, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		item.ID, item.OwnerID, item.Title, item.Description, item.Category,
		item.Size, item.Condition, images, item.PointsValue, item.Status,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by ID together with its owner
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `
		SELECT i.id, i.owner_id, i.title, i.description, i.category, i.size, i.item_condition,
		       i.images, i.points_value, i.status, i.created_at, i.updated_at,
		       u.id, u.email, u.full_name, u.points_balance, u.avatar_url, u.created_at
		FROM items i
		JOIN users u ON i.owner_id = u.id
		WHERE i.id = $1
	`
	var item models.Item
	var owner models.User
	var images []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.Category,
		&item.Size, &item.Condition, &images, &item.PointsValue, &item.Status,
		&item.CreatedAt, &item.UpdatedAt,
		&owner.ID, &owner.Email, &owner.FullName, &owner.PointsBalance,
		&owner.AvatarURL, &owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if err := json.Unmarshal(images, &item.Images); err != nil {
		item.Images = []string{}
	}
	item.Owner = &owner
	return &item, nil
}

// ListAvailable retrieves available items, optionally filtered by category,
// newest first
func (r *ItemRepository) ListAvailable(ctx context.Context, category string) ([]*models.Item, error) {
	query := `
		SELECT id, owner_id, title, description, category, size, item_condition,
		       images, points_value, status, created_at, updated_at
		FROM items
		WHERE status = 'available'
	`
	args := []interface{}{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListFeatured retrieves the newest available items up to limit
func (r *ItemRepository) ListFeatured(ctx context.Context, limit int) ([]*models.Item, error) {
	query := `
		SELECT id, owner_id, title, description, category, size, item_condition,
		       images, points_value, status, created_at, updated_at
		FROM items
		WHERE status = 'available'
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]*models.Item, error) {
	var items []*models.Item
	for rows.Next() {
		var item models.Item
		var images []byte
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.Category,
			&item.Size, &item.Condition, &images, &item.PointsValue, &item.Status,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if err := json.Unmarshal(images, &item.Images); err != nil {
			item.Images = []string{}
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}
