package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/photo"
	"github.com/erazemk/zaloga/internal/service"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Items *service.ItemService
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.ListItems(r.Context())
	if err != nil {
		jsonError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, r, model.ErrEmptyPayload)
		return
	}

	item, err := h.Items.CreateItem(r.Context(), &req)
	if err != nil {
		jsonError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Item added successfully.",
		"item":    item,
	})
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, r, model.ErrItemNotFound)
		return
	}

	item, err := h.Items.GetItem(r.Context(), id)
	if err != nil {
		jsonError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PATCH /items/{id}. Only the fields present in the body change.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, r, model.ErrItemNotFound)
		return
	}

	// An unreadable body still gets a 404 for a missing item. Any non-empty
	// object is usable, even one with only unknown keys.
	var req *service.UpdateItemInput
	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err == nil {
		var fields map[string]json.RawMessage
		in := &service.UpdateItemInput{}
		if json.Unmarshal(raw, &fields) == nil && len(fields) > 0 && json.Unmarshal(raw, in) == nil {
			req = in
		}
	}

	item, err := h.Items.UpdateItem(r.Context(), id, req)
	if err != nil {
		jsonError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Item updated successfully!",
		"item":    item,
	})
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, r, model.ErrItemNotFound)
		return
	}

	if err := h.Items.DeleteItem(r.Context(), id); err != nil {
		jsonError(w, r, err)
		return
	}
	jsonMessage(w, http.StatusOK, "Item deleted successfully!")
}

// Search handles GET /items/search?query=.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.SearchItems(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		jsonError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// UploadPhoto handles PUT /items/{id}/photo with a multipart "photo" field.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, r, model.ErrItemNotFound)
		return
	}
	if _, err := h.Items.GetItem(r.Context(), id); err != nil {
		jsonError(w, r, err)
		return
	}

	// Leave room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, photo.MaxUploadBytes+64<<10)
	if err := r.ParseMultipartForm(photo.MaxUploadBytes); err != nil {
		jsonMessage(w, http.StatusBadRequest, "photo must be a multipart upload of at most 5 MB")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonMessage(w, http.StatusBadRequest, "'photo' is required.")
		return
	}
	defer file.Close()

	if err := h.Items.SetPhoto(r.Context(), id, file); err != nil {
		jsonError(w, r, err)
		return
	}
	jsonMessage(w, http.StatusOK, "Photo uploaded successfully.")
}

// GetPhoto handles GET /items/{id}/photo. ?size=thumb returns a thumbnail.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, r, model.ErrItemNotFound)
		return
	}

	p, err := h.Items.Photo(r.Context(), id, r.URL.Query().Get("size") == "thumb")
	if err != nil {
		jsonError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", p.MIME)
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := w.Write(p.Data); err != nil {
		slog.ErrorContext(r.Context(), "error writing photo", "id", id, "error", err)
	}
}
