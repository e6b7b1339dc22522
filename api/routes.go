package api

import (
	"net/http"

	"github.com/0xcafe-io/iz"
	"github.com/rs/cors"

	"github.com/fatali-fataliyev/expense_tracker/internal/auth"
)

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type", TraceIDHeader},
	AllowCredentials: true,
})

func NewRouter(api *Api, apiKeyHash string) http.Handler {
	items := http.NewServeMux()

	// ITEM ENDPOINTS.
	items.HandleFunc("POST /api/item", iz.Bind(api.SaveItemHandler))          // Create Item
	items.HandleFunc("GET /api/item", iz.Bind(api.GetFilteredItemsHandler))   // Get Items with filters
	items.HandleFunc("GET /api/item/{id}", iz.Bind(api.GetItemByIdHandler))   // Get Item by ID
	items.HandleFunc("PUT /api/item/{id}", iz.Bind(api.UpdateItemHandler))    // Update Item timestamp
	items.HandleFunc("DELETE /api/item/{id}", iz.Bind(api.DeleteItemHandler)) // Delete Item

	protected := auth.Middleware(apiKeyHash)(items)

	server := http.NewServeMux()
	server.Handle("/api/item", protected)
	server.Handle("/api/item/", protected)
	server.HandleFunc("GET /api/health", iz.Bind(api.HealthHandler))

	return corsConf.Handler(RequestLogger(server))
}
