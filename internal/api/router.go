package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/service"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, bcryptCost int) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Items: service.NewItemService(db)}
	usersHandler := &UsersHandler{Users: service.NewUserService(db, bcryptCost)}
	healthHandler := &HealthHandler{DB: db}

	// Items. The literal search route wins over {id}.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("POST /items", itemsHandler.Create)
	mux.HandleFunc("GET /items/search", itemsHandler.Search)
	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.HandleFunc("PATCH /items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /items/{id}", itemsHandler.Delete)
	mux.HandleFunc("PUT /items/{id}/photo", itemsHandler.UploadPhoto)
	mux.HandleFunc("GET /items/{id}/photo", itemsHandler.GetPhoto)

	// Users.
	mux.HandleFunc("GET /users", usersHandler.List)
	mux.HandleFunc("POST /users", usersHandler.Create)

	// Operations.
	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}
