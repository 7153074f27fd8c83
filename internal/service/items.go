package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/photo"
	"github.com/erazemk/zaloga/internal/store"
	"github.com/erazemk/zaloga/internal/validate"
)

// CreateItemInput is the payload for creating an item. Every field is required.
type CreateItemInput struct {
	Name        *string         `json:"name"`
	Category    *string         `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Description *string         `json:"description"`
}

// UpdateItemInput is a partial update. Nil fields keep their stored value.
type UpdateItemInput struct {
	Name        *string         `json:"name"`
	Category    *string         `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Status      *string         `json:"status"`
	Description *string         `json:"description"`
}

// ItemService implements the item operations on top of the store.
type ItemService struct {
	db *sql.DB
}

// NewItemService creates an ItemService using db.
func NewItemService(db *sql.DB) *ItemService {
	return &ItemService{db: db}
}

// ListItems returns every item, or model.ErrNoItems if there are none.
func (s *ItemService) ListItems(ctx context.Context) ([]model.Item, error) {
	items, err := store.ListItems(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.ErrNoItems
	}
	return items, nil
}

// CreateItem validates in and stores a new item with status "available".
func (s *ItemService) CreateItem(ctx context.Context, in *CreateItemInput) (*model.Item, error) {
	if in == nil {
		return nil, model.ErrEmptyPayload
	}

	err := validate.RequiredFields(
		validate.String("name", in.Name),
		validate.String("category", in.Category),
		validate.Raw("amount", in.Amount),
		validate.String("description", in.Description),
	)
	if err != nil {
		return nil, err
	}

	amount, err := validate.Amount(in.Amount, false)
	if err != nil {
		return nil, err
	}

	name := validate.Trim(*in.Name)
	category := validate.Trim(*in.Category)
	description := validate.Trim(*in.Description)

	exists, err := store.ItemExists(ctx, s.db, name, category)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateItem
	}

	item, err := store.CreateItem(ctx, s.db, name, category, amount, description)
	if err != nil {
		return nil, err
	}

	metrics.ObserveMutation("item", "create")
	slog.InfoContext(ctx, "item created", "id", item.ID, "name", item.Name, "category", item.Category)
	return item, nil
}

// GetItem returns the item with id, or model.ErrItemNotFound.
func (s *ItemService) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.ErrItemNotFound
	}
	return item, nil
}

// UpdateItem changes the fields present in in. A nil in means the request
// carried no usable body; existence is still checked first. An input with
// no recognised fields leaves the item untouched.
func (s *ItemService) UpdateItem(ctx context.Context, id int64, in *UpdateItemInput) (*model.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, model.ErrEmptyPayload
	}

	// name, category and status can never be blank.
	for _, f := range []validate.Field{
		validate.String("name", in.Name),
		validate.String("category", in.Category),
		validate.String("status", in.Status),
	} {
		if f.Set {
			if err := validate.RequiredFields(f); err != nil {
				return nil, err
			}
		}
	}

	u := &store.ItemUpdate{
		Name:        trimmed(in.Name),
		Category:    trimmed(in.Category),
		Status:      trimmed(in.Status),
		Description: trimmed(in.Description),
	}
	if validate.Present(in.Amount) {
		amount, err := validate.Amount(in.Amount, true)
		if err != nil {
			return nil, err
		}
		u.Amount = &amount
	}

	if *u == (store.ItemUpdate{}) {
		return item, nil
	}

	if err := store.UpdateItem(ctx, s.db, id, u); err != nil {
		return nil, err
	}

	metrics.ObserveMutation("item", "update")
	return s.GetItem(ctx, id)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := validate.Trim(*v)
	return &t
}

// DeleteItem permanently removes the item with id.
func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	if err := store.DeleteItem(ctx, s.db, id); err != nil {
		return err
	}
	metrics.ObserveMutation("item", "delete")
	slog.InfoContext(ctx, "item deleted", "id", id)
	return nil
}

// SearchItems returns items whose name, category, description or status
// contains term, ignoring case.
func (s *ItemService) SearchItems(ctx context.Context, term string) ([]model.Item, error) {
	term = validate.Trim(term)
	if term == "" {
		return nil, model.ErrEmptyQuery
	}

	items, err := store.SearchItems(ctx, s.db, term)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.ErrNoMatches
	}
	return items, nil
}

// SetPhoto normalises the uploaded image and attaches it to the item.
func (s *ItemService) SetPhoto(ctx context.Context, id int64, r io.Reader) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}

	img, err := photo.Normalize(r)
	if errors.Is(err, photo.ErrUnsupported) {
		return fmt.Errorf("%w (%v)", model.ErrInvalidPhoto, err)
	}
	if err != nil {
		return err
	}

	err = store.SetItemPhoto(ctx, s.db, &model.Photo{
		ItemID: id,
		Data:   img.Data,
		MIME:   photo.MIME,
		Width:  img.Width,
		Height: img.Height,
	})
	if err != nil {
		return err
	}

	metrics.ObserveMutation("item", "photo")
	slog.InfoContext(ctx, "item photo stored", "id", id, "width", img.Width, "height", img.Height)
	return nil
}

// Photo returns the item's photo, or a thumbnail of it.
func (s *ItemService) Photo(ctx context.Context, id int64, thumbnail bool) (*model.Photo, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	p, err := store.GetItemPhoto(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrNoPhoto
	}
	if !thumbnail {
		return p, nil
	}

	thumb, err := photo.Thumbnail(p.Data)
	if err != nil {
		return nil, err
	}
	return &model.Photo{ItemID: id, Data: thumb.Data, MIME: photo.MIME, Width: thumb.Width, Height: thumb.Height}, nil
}
