package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/service"
)

func str(s string) *string { return &s }

func newTestItemService(t *testing.T) *service.ItemService {
	t.Helper()
	return service.NewItemService(db.NewTestDB(t))
}

func boltInput() *service.CreateItemInput {
	return &service.CreateItemInput{
		Name:        str("Bolt"),
		Category:    str("Hardware"),
		Amount:      json.RawMessage(`10`),
		Description: str("M6 bolt"),
	}
}

func TestItemService_CreateItem_Success(t *testing.T) {
	items := newTestItemService(t)

	item, err := items.CreateItem(context.Background(), boltInput())
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be set")
	}
	if item.Status != model.ItemStatusAvailable {
		t.Errorf("expected status available, got %q", item.Status)
	}
	if item.Amount != 10 {
		t.Errorf("expected amount 10, got %d", item.Amount)
	}
}

func TestItemService_CreateItem_TrimsAndAssignsDistinctIDs(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	first, err := items.CreateItem(ctx, &service.CreateItemInput{
		Name: str("  Nut "), Category: str("\tHardware"), Amount: json.RawMessage(`"3"`), Description: str(" M6 nut "),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if first.Name != "Nut" || first.Category != "Hardware" || first.Description != "M6 nut" {
		t.Errorf("expected trimmed fields, got %+v", first)
	}

	second, err := items.CreateItem(ctx, boltInput())
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("expected distinct ids, both were %d", first.ID)
	}
}

func TestItemService_CreateItem_Duplicate(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	if _, err := items.CreateItem(ctx, boltInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := boltInput()
	dup.Name = str("  Bolt  ")
	dup.Category = str("Hardware ")
	_, err := items.CreateItem(ctx, dup)
	if !errors.Is(err, model.ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
	if !errors.Is(err, model.ErrDuplicate) {
		t.Error("expected duplicate error class")
	}
}

func TestItemService_CreateItem_Validation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(in *service.CreateItemInput)
		wantErr   error
		wantField string
	}{
		{"missing name", func(in *service.CreateItemInput) { in.Name = nil }, nil, "name"},
		{"blank category", func(in *service.CreateItemInput) { in.Category = str("  ") }, nil, "category"},
		{"missing amount", func(in *service.CreateItemInput) { in.Amount = nil }, nil, "amount"},
		{"missing description", func(in *service.CreateItemInput) { in.Description = nil }, nil, "description"},
		{"zero amount", func(in *service.CreateItemInput) { in.Amount = json.RawMessage(`0`) }, model.ErrNonPositiveAmount, ""},
		{"negative amount", func(in *service.CreateItemInput) { in.Amount = json.RawMessage(`-4`) }, model.ErrNegativeAmount, ""},
		{"text amount", func(in *service.CreateItemInput) { in.Amount = json.RawMessage(`"many"`) }, model.ErrInvalidAmount, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := newTestItemService(t)
			in := boltInput()
			tt.modify(in)

			_, err := items.CreateItem(context.Background(), in)
			if !errors.Is(err, model.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantField != "" {
				var mf *model.MissingFieldError
				if !errors.As(err, &mf) || mf.Field != tt.wantField {
					t.Errorf("expected missing field %q, got %v", tt.wantField, err)
				}
			}
		})
	}
}

func TestItemService_CreateItem_AmountOne(t *testing.T) {
	items := newTestItemService(t)
	in := boltInput()
	in.Amount = json.RawMessage(`1`)

	item, err := items.CreateItem(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Amount != 1 {
		t.Errorf("expected amount 1, got %d", item.Amount)
	}
}

func TestItemService_ListItems(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	if _, err := items.ListItems(ctx); !errors.Is(err, model.ErrNoItems) {
		t.Fatalf("expected ErrNoItems on empty store, got %v", err)
	}

	items.CreateItem(ctx, boltInput())
	list, err := items.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 item, got %d", len(list))
	}
}

func TestItemService_UpdateItem_OnlyStatusChanges(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	created, _ := items.CreateItem(ctx, boltInput())

	updated, err := items.UpdateItem(ctx, created.ID, &service.UpdateItemInput{Status: str("sold")})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Status != "sold" {
		t.Errorf("expected status sold, got %q", updated.Status)
	}
	if updated.Name != created.Name || updated.Category != created.Category ||
		updated.Amount != created.Amount || updated.Description != created.Description {
		t.Errorf("expected other fields unchanged: before %+v, after %+v", created, updated)
	}
}

func TestItemService_UpdateItem_Amount(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	created, _ := items.CreateItem(ctx, boltInput())

	updated, err := items.UpdateItem(ctx, created.ID, &service.UpdateItemInput{Amount: json.RawMessage(`0`)})
	if err != nil {
		t.Fatalf("UpdateItem amount 0: %v", err)
	}
	if updated.Amount != 0 {
		t.Errorf("expected amount 0, got %d", updated.Amount)
	}

	_, err = items.UpdateItem(ctx, created.ID, &service.UpdateItemInput{Amount: json.RawMessage(`-1`)})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error for amount -1, got %v", err)
	}

	_, err = items.UpdateItem(ctx, created.ID, &service.UpdateItemInput{Amount: json.RawMessage(`"lots"`)})
	if !errors.Is(err, model.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	got, _ := items.GetItem(ctx, created.ID)
	if got.Amount != 0 {
		t.Errorf("failed updates must not write: amount is %d", got.Amount)
	}
}

func TestItemService_UpdateItem_NotFoundRegardlessOfPayload(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	payloads := []*service.UpdateItemInput{
		nil,
		{},
		{Status: str("sold")},
		{Amount: json.RawMessage(`-1`)},
	}
	for i, in := range payloads {
		if _, err := items.UpdateItem(ctx, 404, in); !errors.Is(err, model.ErrItemNotFound) {
			t.Errorf("payload %d: expected ErrItemNotFound, got %v", i, err)
		}
	}
}

func TestItemService_UpdateItem_EmptyPayloadAndBlankFields(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	created, _ := items.CreateItem(ctx, boltInput())

	if _, err := items.UpdateItem(ctx, created.ID, nil); !errors.Is(err, model.ErrEmptyPayload) {
		t.Errorf("expected ErrEmptyPayload, got %v", err)
	}

	_, err := items.UpdateItem(ctx, created.ID, &service.UpdateItemInput{Name: str("   ")})
	var mf *model.MissingFieldError
	if !errors.As(err, &mf) || mf.Field != "name" {
		t.Errorf("expected missing name, got %v", err)
	}

	updated, err := items.UpdateItem(ctx, created.ID, &service.UpdateItemInput{Description: str("")})
	if err != nil {
		t.Fatalf("clearing description: %v", err)
	}
	if updated.Description != "" {
		t.Errorf("expected empty description, got %q", updated.Description)
	}
}

func TestItemService_UpdateItem_NoRecognisedFieldsIsNoop(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	created, _ := items.CreateItem(ctx, boltInput())

	for _, in := range []*service.UpdateItemInput{
		{},
		{Amount: json.RawMessage(`null`)},
	} {
		got, err := items.UpdateItem(ctx, created.ID, in)
		if err != nil {
			t.Fatalf("UpdateItem(%+v): %v", in, err)
		}
		if got.Name != created.Name || got.Amount != created.Amount ||
			got.Status != created.Status || !got.UpdatedAt.Equal(created.UpdatedAt) {
			t.Errorf("expected item unchanged, got %+v want %+v", got, created)
		}
	}
}

func TestItemService_UpdateItem_ConcurrentFieldsBothApply(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	created, _ := items.CreateItem(ctx, boltInput())

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, in := range []*service.UpdateItemInput{
		{Status: str("sold")},
		{Amount: json.RawMessage(`3`)},
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := items.UpdateItem(ctx, created.ID, in)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("UpdateItem: %v", err)
		}
	}

	got, _ := items.GetItem(ctx, created.ID)
	if got.Status != "sold" || got.Amount != 3 {
		t.Errorf("expected status and amount updates to both apply, got %+v", got)
	}
}

func TestItemService_UpdateItem_RenameCollision(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	items.CreateItem(ctx, boltInput())
	nut := boltInput()
	nut.Name = str("Nut")
	created, _ := items.CreateItem(ctx, nut)

	_, err := items.UpdateItem(ctx, created.ID, &service.UpdateItemInput{Name: str("Bolt")})
	if !errors.Is(err, model.ErrDuplicateItem) {
		t.Errorf("expected ErrDuplicateItem, got %v", err)
	}
}

func TestItemService_DeleteThenGet(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	created, _ := items.CreateItem(ctx, boltInput())
	if err := items.DeleteItem(ctx, created.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := items.GetItem(ctx, created.ID); !errors.Is(err, model.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound after delete, got %v", err)
	}
	if err := items.DeleteItem(ctx, created.ID); !errors.Is(err, model.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound on second delete, got %v", err)
	}
}

func TestItemService_SearchItems(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	for _, in := range []*service.CreateItemInput{
		{Name: str("Widget"), Category: str("Toys"), Amount: json.RawMessage(`1`), Description: str("blue")},
		{Name: str("Gear"), Category: str("Widgets"), Amount: json.RawMessage(`1`), Description: str("steel")},
		{Name: str("Spring"), Category: str("Hardware"), Amount: json.RawMessage(`1`), Description: str("for a WIDGET")},
		{Name: str("Hammer"), Category: str("Tools"), Amount: json.RawMessage(`1`), Description: str("heavy")},
	} {
		if _, err := items.CreateItem(ctx, in); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}

	found, err := items.SearchItems(ctx, "  widget ")
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(found) != 3 {
		t.Errorf("expected 3 matches, got %d", len(found))
	}

	if _, err := items.SearchItems(ctx, "   "); !errors.Is(err, model.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := items.SearchItems(ctx, ""); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error for empty term, got %v", err)
	}
	if _, err := items.SearchItems(ctx, "sprocket"); !errors.Is(err, model.ErrNoMatches) {
		t.Errorf("expected ErrNoMatches, got %v", err)
	}
}

func testPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestItemService_Photo(t *testing.T) {
	items := newTestItemService(t)
	ctx := context.Background()

	created, _ := items.CreateItem(ctx, boltInput())

	if _, err := items.Photo(ctx, created.ID, false); !errors.Is(err, model.ErrNoPhoto) {
		t.Errorf("expected ErrNoPhoto, got %v", err)
	}
	if err := items.SetPhoto(ctx, created.ID, bytes.NewReader([]byte("plain text"))); !errors.Is(err, model.ErrInvalidPhoto) {
		t.Errorf("expected ErrInvalidPhoto, got %v", err)
	}
	if err := items.SetPhoto(ctx, 999, bytes.NewReader(testPNG(10, 10))); !errors.Is(err, model.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	if err := items.SetPhoto(ctx, created.ID, bytes.NewReader(testPNG(600, 300))); err != nil {
		t.Fatalf("SetPhoto: %v", err)
	}

	full, err := items.Photo(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("Photo: %v", err)
	}
	if full.MIME != "image/jpeg" || full.Width != 600 || full.Height != 300 {
		t.Errorf("unexpected photo %s %dx%d", full.MIME, full.Width, full.Height)
	}

	thumb, err := items.Photo(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("Photo thumbnail: %v", err)
	}
	if thumb.Width != 256 || thumb.Height != 128 {
		t.Errorf("expected 256x128 thumbnail, got %dx%d", thumb.Width, thumb.Height)
	}

	got, _ := items.GetItem(ctx, created.ID)
	if !got.HasPhoto {
		t.Error("expected item to report a photo")
	}
}
