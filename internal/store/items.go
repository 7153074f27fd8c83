package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

const itemColumns = `i.id, i.name, i.category, i.amount, i.status, i.description,
	EXISTS (SELECT 1 FROM item_photos p WHERE p.item_id = i.id),
	i.created_at, i.updated_at`

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	err := s.Scan(&item.ID, &item.Name, &item.Category, &item.Amount, &item.Status,
		&item.Description, &item.HasPhoto, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem inserts a new item with the default status.
// Returns model.ErrDuplicateItem if the (name, category) pair is taken.
func CreateItem(ctx context.Context, db *sql.DB, name, category string, amount int, description string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, category, amount, status, description) VALUES (?, ?, ?, ?, ?)`,
		name, category, amount, model.ItemStatusAvailable, description,
	)
	if isUniqueViolation(err) {
		return nil, model.ErrDuplicateItem
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it doesn't exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ItemExists reports whether an item with exactly this name and category exists.
func ItemExists(ctx context.Context, db *sql.DB, name, category string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE name = ? AND category = ?)`,
		name, category,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking item existence: %w", err)
	}
	return exists, nil
}

// ListItems returns all items ordered by ID.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items i ORDER BY i.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchItems returns items whose name, category, description or status
// contains term, ignoring ASCII case.
func SearchItems(ctx context.Context, db *sql.DB, term string) ([]model.Item, error) {
	pattern := containsPattern(term)
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items i
		 WHERE i.name LIKE ?1 ESCAPE '\'
		    OR i.category LIKE ?1 ESCAPE '\'
		    OR i.description LIKE ?1 ESCAPE '\'
		    OR i.status LIKE ?1 ESCAPE '\'
		 ORDER BY i.id`, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ItemUpdate lists the columns to change. Nil fields keep their stored value.
type ItemUpdate struct {
	Name        *string
	Category    *string
	Amount      *int
	Status      *string
	Description *string
}

// UpdateItem applies u to the item in a single statement, so concurrent
// updates of different columns do not overwrite each other.
// Returns model.ErrItemNotFound if the row is gone and model.ErrDuplicateItem
// if the new (name, category) pair belongs to another item.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, u *ItemUpdate) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET
		     name = COALESCE(?, name),
		     category = COALESCE(?, category),
		     amount = COALESCE(?, amount),
		     status = COALESCE(?, status),
		     description = COALESCE(?, description),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		u.Name, u.Category, u.Amount, u.Status, u.Description, id,
	)
	if isUniqueViolation(err) {
		return model.ErrDuplicateItem
	}
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireRow(result, model.ErrItemNotFound)
}

// DeleteItem permanently removes an item and its photo.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireRow(result, model.ErrItemNotFound)
}

func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
