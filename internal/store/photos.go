package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// SetItemPhoto stores or replaces an item's photo.
func SetItemPhoto(ctx context.Context, db *sql.DB, p *model.Photo) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO item_photos (item_id, data, mime, width, height) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (item_id) DO UPDATE SET
		     data = excluded.data, mime = excluded.mime,
		     width = excluded.width, height = excluded.height`,
		p.ItemID, p.Data, p.MIME, p.Width, p.Height,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo, or nil if it has none.
func GetItemPhoto(ctx context.Context, db *sql.DB, itemID int64) (*model.Photo, error) {
	p := &model.Photo{ItemID: itemID}
	err := db.QueryRowContext(ctx,
		`SELECT data, mime, width, height FROM item_photos WHERE item_id = ?`, itemID,
	).Scan(&p.Data, &p.MIME, &p.Width, &p.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item photo: %w", err)
	}
	return p, nil
}
